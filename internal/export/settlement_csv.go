// Package export renders settlements into downloadable documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/elmtree/tuition-api/internal/dto"
)

// utf8BOM keeps Chinese text readable when the file is opened in Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SettlementCSV renders a month's settlements as CSV, one row per student
// with the subject breakdown folded into a single delimited column.
func SettlementCSV(monthly dto.MonthlySettlementResponse) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)

	writer := csv.NewWriter(buf)
	header := []string{"student", "grade", "total_hours", "total_amount", "breakdown"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, settlement := range monthly.Settlements {
		row := []string{
			settlement.Student.Name,
			settlement.Student.Grade,
			formatAmount(settlement.TotalHours),
			formatAmount(settlement.TotalAmount),
			breakdown(settlement.Items),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName names the exported settlement document for one period.
func FileName(period string) string {
	return fmt.Sprintf("settlement_%s.csv", period)
}

func breakdown(items []dto.SettlementItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s(%sh x ¥%s + ¥%s)",
			item.Subject,
			formatAmount(item.TotalHours),
			formatAmount(item.PricePerHour),
			formatAmount(item.MaterialFeeTotal),
		))
	}
	return strings.Join(parts, "; ")
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
