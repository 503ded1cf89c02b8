package models

import (
	"fmt"
	"time"
)

// Attendance states for a class record. Only present hours are billable;
// absent and leave rows still carry material fees into settlement.
const (
	RecordStatusPresent = "present"
	RecordStatusAbsent  = "absent"
	RecordStatusLeave   = "leave"
)

// ValidRecordStatus reports whether the status is a known attendance state.
func ValidRecordStatus(status string) bool {
	switch status {
	case RecordStatusPresent, RecordStatusAbsent, RecordStatusLeave:
		return true
	}
	return false
}

// ClassRecord is one attendance event for one student, subject and day.
// At most one record may exist per (student, subject, date); a later entry
// for the same key replaces the earlier one instead of updating in place.
type ClassRecord struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	StudentID   string    `gorm:"size:36;not null;uniqueIndex:idx_records_dedup_key" json:"student_id"`
	Subject     Subject   `gorm:"size:32;not null;uniqueIndex:idx_records_dedup_key" json:"subject"`
	Date        string    `gorm:"size:10;not null;uniqueIndex:idx_records_dedup_key" json:"date"`
	Count       float64   `gorm:"not null" json:"count"`
	Status      string    `gorm:"size:16;not null" json:"status"`
	MaterialFee float64   `gorm:"not null;default:0" json:"material_fee"`
	Teacher     string    `gorm:"size:64" json:"teacher,omitempty"`
	Remarks     string    `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DedupKey returns the conflict-resolution key for the record.
func (r ClassRecord) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s", r.StudentID, r.Subject, r.Date)
}

// IsBillable reports whether the record's hours count toward tuition.
func (r ClassRecord) IsBillable() bool {
	return r.Status == RecordStatusPresent
}
