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

// ErrUnknownSubject indicates a subject outside the closed enumeration.
var ErrUnknownSubject = errors.New("unknown subject")

// ErrUnknownRecordStatus indicates an attendance status outside the known set.
var ErrUnknownRecordStatus = errors.New("unknown record status")

// ErrStudentNotFound indicates a student id did not resolve.
var ErrStudentNotFound = errors.New("student not found")

// RecordService ingests and serves attendance records.
type RecordService interface {
	// EnterBatch expands the request's dates x subjects x students cross
	// product into records and merges them into the store, overwriting any
	// stored record sharing a (student, subject, date) key.
	EnterBatch(ctx context.Context, payload dto.RecordBatchRequest) (dto.RecordBatchResponse, error)
	List(ctx context.Context, req dto.RecordListRequest) ([]dto.RecordResponse, error)
	ListByStudent(ctx context.Context, studentID string) ([]dto.RecordResponse, error)
	Delete(ctx context.Context, id string) error
}

type recordService struct {
	records   repository.ClassRecordRepository
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRecordService constructs the record ingestion service.
func NewRecordService(records repository.ClassRecordRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) RecordService {
	return &recordService{
		records:   records,
		students:  students,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "record_service").Logger(),
		now:       time.Now,
	}
}

func (s *recordService) EnterBatch(ctx context.Context, payload dto.RecordBatchRequest) (dto.RecordBatchResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RecordBatchResponse{}, err
	}
	for _, subject := range payload.Subjects {
		if !subject.Valid() {
			return dto.RecordBatchResponse{}, ErrUnknownSubject
		}
	}
	if !models.ValidRecordStatus(payload.Status) {
		return dto.RecordBatchResponse{}, ErrUnknownRecordStatus
	}
	for _, studentID := range payload.StudentIDs {
		if _, err := s.students.GetByID(ctx, studentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.RecordBatchResponse{}, ErrStudentNotFound
			}
			return dto.RecordBatchResponse{}, err
		}
	}

	teacher := s.sanitizer.Sanitize(payload.Teacher)
	remarks := s.sanitizer.Sanitize(payload.Remarks)
	createdAt := s.now()

	// Duplicate ids, subjects or dates in the request collapse onto the same
	// key; keep one record per key so the batch itself honours the
	// last-write-wins contract before it reaches the store.
	byKey := make(map[string]models.ClassRecord)
	order := make([]string, 0, len(payload.Dates)*len(payload.Subjects)*len(payload.StudentIDs))
	for _, date := range payload.Dates {
		for _, subject := range payload.Subjects {
			for _, studentID := range payload.StudentIDs {
				record := models.ClassRecord{
					ID:          uuid.NewString(),
					StudentID:   studentID,
					Subject:     subject,
					Date:        date,
					Count:       payload.Count,
					Status:      payload.Status,
					MaterialFee: payload.MaterialFee,
					Teacher:     teacher,
					Remarks:     remarks,
					CreatedAt:   createdAt,
				}
				key := record.DedupKey()
				if _, seen := byKey[key]; !seen {
					order = append(order, key)
				}
				byKey[key] = record
			}
		}
	}

	batch := make([]models.ClassRecord, 0, len(byKey))
	for _, key := range order {
		batch = append(batch, byKey[key])
	}

	displaced, err := s.records.ReplaceBatch(ctx, batch)
	if err != nil {
		return dto.RecordBatchResponse{}, err
	}

	s.logger.Info().
		Int("records", len(batch)).
		Int64("replaced", displaced).
		Msg("attendance batch entered")

	return dto.RecordBatchResponse{
		Inserted:  len(batch),
		Replaced:  int(displaced),
		TotalKeys: len(batch),
	}, nil
}

func (s *recordService) List(ctx context.Context, req dto.RecordListRequest) ([]dto.RecordResponse, error) {
	records, err := s.records.List(ctx, repository.RecordFilter{
		Year:      req.Year,
		Month:     req.Month,
		StudentID: req.StudentID,
		Subject:   req.Subject,
		Status:    req.Status,
	})
	if err != nil {
		return nil, err
	}
	return toRecordResponses(records), nil
}

func (s *recordService) ListByStudent(ctx context.Context, studentID string) ([]dto.RecordResponse, error) {
	records, err := s.records.List(ctx, repository.RecordFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	return toRecordResponses(records), nil
}

func (s *recordService) Delete(ctx context.Context, id string) error {
	// Removal by id is unconditional; an unknown id is a no-op.
	return s.records.Delete(ctx, id)
}

func toRecordResponses(records []models.ClassRecord) []dto.RecordResponse {
	responses := make([]dto.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewRecordResponse(record))
	}
	return responses
}
