package service

import (
	"fmt"
	"time"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
)

// FormatPeriod renders a year-month settlement period label.
func FormatPeriod(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// PeriodFromRecords derives the period label from the first record's date,
// falling back to the given processing time for an empty record set. Callers
// that already know the period should pass it to CalculateSettlement directly
// instead of deriving it from record order.
func PeriodFromRecords(records []models.ClassRecord, fallback time.Time) string {
	if len(records) > 0 && len(records[0].Date) >= 7 {
		return records[0].Date[:7]
	}
	return FormatPeriod(fallback.Year(), fallback.Month())
}

// CalculateSettlement produces the itemized bill for one student from that
// student's class records and one price rule. The record set must already be
// scoped to the intended period; the function is deterministic and has no
// side effects.
//
// The non-Chinese per-hour rate is a function of how many distinct
// non-Chinese subjects the student took, not of any single subject: breadth
// picks one rate, and that rate applies to every non-Chinese item.
func CalculateSettlement(student models.Student, records []models.ClassRecord, rule models.PriceRule, period string) dto.StudentSettlement {
	bySubject := make(map[models.Subject][]models.ClassRecord)
	for _, record := range records {
		bySubject[record.Subject] = append(bySubject[record.Subject], record)
	}

	nonChineseCount := 0
	for subject := range bySubject {
		if !subject.IsChinese() {
			nonChineseCount++
		}
	}
	nonChineseRate := rule.NonChineseRate(nonChineseCount, student.IsOldStudent)

	items := make([]dto.SettlementItem, 0, len(bySubject))
	for _, subject := range models.AllSubjects {
		subjectRecords, taken := bySubject[subject]
		if !taken {
			continue
		}

		var totalHours float64
		var materialFee float64
		for _, record := range subjectRecords {
			if record.IsBillable() {
				totalHours += record.Count
			}
			// One material charge per subject per period: take the largest
			// fee entered on any record, billable or not.
			if record.MaterialFee > materialFee {
				materialFee = record.MaterialFee
			}
		}

		price := nonChineseRate
		if subject.IsChinese() {
			price = rule.ChinesePrice
		}

		tuition := totalHours * price
		items = append(items, dto.SettlementItem{
			Subject:          subject,
			TotalHours:       totalHours,
			PricePerHour:     price,
			TuitionTotal:     tuition,
			MaterialFeeTotal: materialFee,
			Subtotal:         tuition + materialFee,
		})
	}

	settlement := dto.StudentSettlement{
		Student: dto.NewStudentResponse(student),
		Items:   items,
		Period:  period,
	}
	for _, item := range items {
		settlement.TotalAmount += item.Subtotal
		settlement.TotalHours += item.TotalHours
	}
	return settlement
}
