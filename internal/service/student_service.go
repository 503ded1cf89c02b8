package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
	"github.com/elmtree/tuition-api/internal/repository"
)

// ErrUnknownGrade indicates a grade label outside the known set.
var ErrUnknownGrade = errors.New("unknown grade")

// StudentService manages student registrations.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo      repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_service").Logger(),
		now:       time.Now,
	}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.NewStudentResponse(student))
	}
	return responses, nil
}

func (s *studentService) Get(ctx context.Context, id string) (dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}
	if !models.ValidGrade(payload.Grade) {
		return dto.StudentResponse{}, ErrUnknownGrade
	}
	for _, subject := range payload.Subjects {
		if !subject.Valid() {
			return dto.StudentResponse{}, ErrUnknownSubject
		}
	}

	student := models.Student{
		ID:           uuid.NewString(),
		Name:         s.sanitizer.Sanitize(payload.Name),
		Grade:        payload.Grade,
		Phone:        payload.Phone,
		Wechat:       payload.Wechat,
		IsOldStudent: payload.IsOldStudent,
		Remarks:      s.sanitizer.Sanitize(payload.Remarks),
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := student.SetSubjects(payload.Subjects); err != nil {
		return dto.StudentResponse{}, err
	}

	if err := s.repo.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.ID).Msg("student registered")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.Grade != nil && !models.ValidGrade(*payload.Grade) {
		return dto.StudentResponse{}, ErrUnknownGrade
	}
	if payload.Subjects != nil {
		for _, subject := range *payload.Subjects {
			if !subject.Valid() {
				return dto.StudentResponse{}, ErrUnknownSubject
			}
		}
	}

	if payload.Name != nil {
		student.Name = s.sanitizer.Sanitize(*payload.Name)
	}
	if payload.Grade != nil {
		student.Grade = *payload.Grade
	}
	if payload.Phone != nil {
		student.Phone = *payload.Phone
	}
	if payload.Wechat != nil {
		student.Wechat = *payload.Wechat
	}
	if payload.IsOldStudent != nil {
		student.IsOldStudent = *payload.IsOldStudent
	}
	if payload.Subjects != nil {
		if err := student.SetSubjects(*payload.Subjects); err != nil {
			return dto.StudentResponse{}, err
		}
	}
	if payload.Remarks != nil {
		student.Remarks = s.sanitizer.Sanitize(*payload.Remarks)
	}
	student.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("student_id", id).Msg("student deleted")
	return nil
}
