package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/elmtree/tuition-api/internal/models"
)

// RecordFilter narrows record listings. Zero values mean "no constraint".
type RecordFilter struct {
	Year      int
	Month     time.Month
	StudentID string
	Subject   models.Subject
	Status    string
}

// ClassRecordRepository provides access to attendance records.
type ClassRecordRepository interface {
	List(ctx context.Context, filter RecordFilter) ([]models.ClassRecord, error)
	ListByMonth(ctx context.Context, year int, month time.Month) ([]models.ClassRecord, error)
	ListAll(ctx context.Context) ([]models.ClassRecord, error)
	// ReplaceBatch removes stored records sharing a (student, subject, date)
	// key with any incoming record, then inserts the batch, atomically.
	// It returns how many stored records the batch displaced.
	ReplaceBatch(ctx context.Context, records []models.ClassRecord) (int64, error)
	Delete(ctx context.Context, id string) error
}

type classRecordRepository struct {
	db *gorm.DB
}

// NewClassRecordRepository constructs a class record repository.
func NewClassRecordRepository(db *gorm.DB) ClassRecordRepository {
	return &classRecordRepository{db: db}
}

func monthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

func (r *classRecordRepository) List(ctx context.Context, filter RecordFilter) ([]models.ClassRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.ClassRecord{})

	if filter.Year != 0 && filter.Month != 0 {
		from, to := monthBounds(filter.Year, filter.Month)
		query = query.Where("date BETWEEN ? AND ?", from, to)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var records []models.ClassRecord
	if err := query.Order("date ASC, created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *classRecordRepository) ListByMonth(ctx context.Context, year int, month time.Month) ([]models.ClassRecord, error) {
	return r.List(ctx, RecordFilter{Year: year, Month: month})
}

func (r *classRecordRepository) ListAll(ctx context.Context) ([]models.ClassRecord, error) {
	return r.List(ctx, RecordFilter{})
}

func (r *classRecordRepository) ReplaceBatch(ctx context.Context, records []models.ClassRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var displaced int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keys := make([][]interface{}, 0, len(records))
		for _, record := range records {
			keys = append(keys, []interface{}{record.StudentID, string(record.Subject), record.Date})
		}

		result := tx.Where("(student_id, subject, date) IN ?", keys).Delete(&models.ClassRecord{})
		if result.Error != nil {
			return fmt.Errorf("clear conflicting records: %w", result.Error)
		}
		displaced = result.RowsAffected

		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert records: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return displaced, nil
}

func (r *classRecordRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ClassRecord{}, "id = ?", id).Error
}
