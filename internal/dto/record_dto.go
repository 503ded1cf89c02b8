package dto

import (
	"time"

	"github.com/elmtree/tuition-api/internal/models"
)

// RecordBatchRequest enters attendance for the cross product of students,
// subjects and dates in one submission. Re-entering an existing
// (student, subject, date) combination overwrites the stored record.
type RecordBatchRequest struct {
	StudentIDs  []string         `json:"student_ids" validate:"required,min=1,dive,uuid4"`
	Subjects    []models.Subject `json:"subjects" validate:"required,min=1"`
	Dates       []string         `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	Count       float64          `json:"count" validate:"required,gt=0"`
	Status      string           `json:"status" validate:"required"`
	MaterialFee float64          `json:"material_fee" validate:"gte=0"`
	Teacher     string           `json:"teacher" validate:"max=64"`
	Remarks     string           `json:"remarks"`
}

// RecordListRequest filters stored records.
type RecordListRequest struct {
	Year      int
	Month     time.Month
	StudentID string
	Subject   models.Subject
	Status    string
}

// RecordResponse is the API view of a class record.
type RecordResponse struct {
	ID          string         `json:"id"`
	StudentID   string         `json:"student_id"`
	Subject     models.Subject `json:"subject"`
	Date        string         `json:"date"`
	Count       float64        `json:"count"`
	Status      string         `json:"status"`
	MaterialFee float64        `json:"material_fee"`
	Teacher     string         `json:"teacher,omitempty"`
	Remarks     string         `json:"remarks,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewRecordResponse maps a class record onto its API view.
func NewRecordResponse(record models.ClassRecord) RecordResponse {
	return RecordResponse{
		ID:          record.ID,
		StudentID:   record.StudentID,
		Subject:     record.Subject,
		Date:        record.Date,
		Count:       record.Count,
		Status:      record.Status,
		MaterialFee: record.MaterialFee,
		Teacher:     record.Teacher,
		Remarks:     record.Remarks,
		CreatedAt:   record.CreatedAt,
	}
}

// RecordBatchResponse reports the outcome of a batch entry.
type RecordBatchResponse struct {
	Inserted  int `json:"inserted"`
	Replaced  int `json:"replaced"`
	TotalKeys int `json:"total_keys"`
}
