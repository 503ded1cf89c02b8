package dto

import (
	"time"

	"github.com/elmtree/tuition-api/internal/models"
)

// StudentCreateRequest carries a new student registration.
type StudentCreateRequest struct {
	Name         string           `json:"name" validate:"required,max=255"`
	Grade        string           `json:"grade" validate:"required"`
	Phone        string           `json:"phone" validate:"required,max=32"`
	Wechat       string           `json:"wechat" validate:"max=64"`
	IsOldStudent bool             `json:"is_old_student"`
	Subjects     []models.Subject `json:"subjects" validate:"required,min=1"`
	Remarks      string           `json:"remarks"`
}

// StudentUpdateRequest carries a partial student edit. Nil fields are left
// untouched.
type StudentUpdateRequest struct {
	Name         *string           `json:"name" validate:"omitempty,max=255"`
	Grade        *string           `json:"grade"`
	Phone        *string           `json:"phone" validate:"omitempty,max=32"`
	Wechat       *string           `json:"wechat" validate:"omitempty,max=64"`
	IsOldStudent *bool             `json:"is_old_student"`
	Subjects     *[]models.Subject `json:"subjects" validate:"omitempty,min=1"`
	Remarks      *string           `json:"remarks"`
}

// StudentResponse is the API view of a student.
type StudentResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Grade        string           `json:"grade"`
	Phone        string           `json:"phone"`
	Wechat       string           `json:"wechat,omitempty"`
	IsOldStudent bool             `json:"is_old_student"`
	Subjects     []models.Subject `json:"subjects"`
	Remarks      string           `json:"remarks,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewStudentResponse maps a student model onto its API view.
func NewStudentResponse(student models.Student) StudentResponse {
	subjects := student.SubjectList()
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return StudentResponse{
		ID:           student.ID,
		Name:         student.Name,
		Grade:        student.Grade,
		Phone:        student.Phone,
		Wechat:       student.Wechat,
		IsOldStudent: student.IsOldStudent,
		Subjects:     subjects,
		Remarks:      student.Remarks,
		CreatedAt:    student.CreatedAt,
		UpdatedAt:    student.UpdatedAt,
	}
}
