package handler_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
)

func seedSettlementFixture(t *testing.T, db *gorm.DB) {
	t.Helper()
	seedPriceRule(t, db, standardTestRule())
	seedStudent(t, db, models.Student{ID: testStudentID, Name: "Liu Aili", Grade: models.GradeJunior2, Phone: "13800000000"})
	require.NoError(t, db.Create(&models.ClassRecord{
		ID:        "rec-1",
		StudentID: testStudentID,
		Subject:   models.SubjectMath,
		Date:      "2024-03-04",
		Count:     2,
		Status:    models.RecordStatusPresent,
	}).Error)
}

func TestSettlementHandlerMonth(t *testing.T) {
	app, db := setupTestApp(t)
	seedSettlementFixture(t, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/settlements?year=2024&month=3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                          `json:"success"`
		Data    dto.MonthlySettlementResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "2024-03", body.Data.Period)
	require.Equal(t, testRuleID, body.Data.RuleID)
	require.Len(t, body.Data.Settlements, 1)
	require.Equal(t, float64(170), body.Data.TotalRevenue)
}

func TestSettlementHandlerMonthRejectsBadPeriod(t *testing.T) {
	app, db := setupTestApp(t)
	seedSettlementFixture(t, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/settlements?year=2024&month=13", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSettlementHandlerUnknownRule(t *testing.T) {
	app, db := setupTestApp(t)
	seedSettlementFixture(t, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/settlements?year=2024&month=3&rule_id=99999999-9999-4999-8999-999999999999", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSettlementHandlerExportCSV(t *testing.T) {
	app, db := setupTestApp(t)
	seedSettlementFixture(t, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/settlements/export.csv?year=2024&month=3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "settlement_2024-03.csv")

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.True(t, strings.HasPrefix(string(payload), "\xEF\xBB\xBF"))
	require.Contains(t, string(payload), "Liu Aili")
}

func TestSettlementHandlerDashboard(t *testing.T) {
	app, db := setupTestApp(t)
	seedSettlementFixture(t, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.DashboardResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, 1, body.Data.StudentCount)
	require.Equal(t, float64(170), body.Data.TotalRevenue)
}

func TestSettlementHandlerParentMessagePlaceholder(t *testing.T) {
	app, db := setupTestApp(t)
	seedSettlementFixture(t, db)

	// No summarizer is configured in tests, so the endpoint answers with the
	// fallback text instead of failing.
	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/settlements/"+testStudentID+"/message?year=2024&month=3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.SummaryResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.NotEmpty(t, body.Data.Text)

	missing, err := app.Test(httptest.NewRequest("POST", "/api/v1/settlements/bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb/message?year=2024&month=3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, missing.StatusCode)
}

func TestSettlementHandlerAnalysisPlaceholder(t *testing.T) {
	app, db := setupTestApp(t)
	seedSettlementFixture(t, db)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/settlements/analysis?year=2024&month=3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.SummaryResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.NotEmpty(t, body.Data.Text)
}
