package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
)

func sampleMonthly() dto.MonthlySettlementResponse {
	return dto.MonthlySettlementResponse{
		Period:   "2024-03",
		RuleID:   "rule-1",
		RuleName: "standard",
		Settlements: []dto.StudentSettlement{
			{
				Student: dto.StudentResponse{Name: "刘爱丽", Grade: models.GradeJunior2},
				Items: []dto.SettlementItem{
					{Subject: models.SubjectChinese, TotalHours: 2, PricePerHour: 100, TuitionTotal: 200, Subtotal: 200},
					{Subject: models.SubjectMath, TotalHours: 2.5, PricePerHour: 85, TuitionTotal: 212.5, MaterialFeeTotal: 30, Subtotal: 242.5},
				},
				TotalAmount: 442.5,
				TotalHours:  4.5,
				Period:      "2024-03",
			},
		},
		TotalRevenue: 442.5,
	}
}

func TestSettlementCSVStartsWithBOM(t *testing.T) {
	payload, err := SettlementCSV(sampleMonthly())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(payload, []byte{0xEF, 0xBB, 0xBF}))
}

func TestSettlementCSVRows(t *testing.T) {
	payload, err := SettlementCSV(sampleMonthly())
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(payload, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, []string{"student", "grade", "total_hours", "total_amount", "breakdown"}, rows[0])

	row := rows[1]
	require.Equal(t, "刘爱丽", row[0])
	require.Equal(t, models.GradeJunior2, row[1])
	require.Equal(t, "4.5", row[2])
	require.Equal(t, "442.5", row[3])
	require.Equal(t, "chinese(2h x ¥100 + ¥0); math(2.5h x ¥85 + ¥30)", row[4])
}

func TestSettlementCSVEmptyMonth(t *testing.T) {
	payload, err := SettlementCSV(dto.MonthlySettlementResponse{Period: "2024-03"})
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(payload, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	require.Equal(t, "settlement_2024-03.csv", FileName("2024-03"))
}
