package handler_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
)

const testStudentID = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"

func TestRecordHandlerBatchEntry(t *testing.T) {
	app, db := setupTestApp(t)
	seedStudent(t, db, models.Student{ID: testStudentID, Name: "Liu Aili", Grade: models.GradeJunior2, Phone: "13800000000"})

	payload := dto.RecordBatchRequest{
		StudentIDs: []string{testStudentID},
		Subjects:   []models.Subject{models.SubjectMath, models.SubjectEnglish},
		Dates:      []string{"2024-03-04", "2024-03-05"},
		Count:      2,
		Status:     models.RecordStatusPresent,
	}

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/records/batch", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool                    `json:"success"`
		Data    dto.RecordBatchResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, 4, body.Data.Inserted)
	require.Equal(t, 0, body.Data.Replaced)

	// Re-entering one key overwrites instead of duplicating.
	payload.Subjects = []models.Subject{models.SubjectMath}
	payload.Dates = []string{"2024-03-04"}
	payload.Count = 3
	retry, err := app.Test(jsonRequest(t, "POST", "/api/v1/records/batch", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, retry.StatusCode)

	var retryBody struct {
		Data dto.RecordBatchResponse `json:"data"`
	}
	decodeResponse(t, retry, &retryBody)
	require.Equal(t, 1, retryBody.Data.Replaced)

	var count int64
	require.NoError(t, db.Model(&models.ClassRecord{}).Count(&count).Error)
	require.Equal(t, int64(4), count)
}

func TestRecordHandlerBatchUnknownStudent(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/records/batch", dto.RecordBatchRequest{
		StudentIDs: []string{testStudentID},
		Subjects:   []models.Subject{models.SubjectMath},
		Dates:      []string{"2024-03-04"},
		Count:      2,
		Status:     models.RecordStatusPresent,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRecordHandlerBatchRejectsBadStatus(t *testing.T) {
	app, db := setupTestApp(t)
	seedStudent(t, db, models.Student{ID: testStudentID, Name: "Liu Aili", Grade: models.GradeJunior2, Phone: "13800000000"})

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/records/batch", dto.RecordBatchRequest{
		StudentIDs: []string{testStudentID},
		Subjects:   []models.Subject{models.SubjectMath},
		Dates:      []string{"2024-03-04"},
		Count:      2,
		Status:     "skipped",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecordHandlerListFilters(t *testing.T) {
	app, db := setupTestApp(t)
	seedStudent(t, db, models.Student{ID: testStudentID, Name: "Liu Aili", Grade: models.GradeJunior2, Phone: "13800000000"})
	require.NoError(t, db.Create(&models.ClassRecord{ID: "rec-1", StudentID: testStudentID, Subject: models.SubjectMath, Date: "2024-03-04", Count: 2, Status: models.RecordStatusPresent}).Error)
	require.NoError(t, db.Create(&models.ClassRecord{ID: "rec-2", StudentID: testStudentID, Subject: models.SubjectEnglish, Date: "2024-04-02", Count: 1, Status: models.RecordStatusAbsent}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/records?year=2024&month=3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []dto.RecordResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data, 1)
	require.Equal(t, "2024-03-04", body.Data[0].Date)

	// Year without month is rejected.
	bad, err := app.Test(httptest.NewRequest("GET", "/api/v1/records?year=2024", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, bad.StatusCode)
}

func TestRecordHandlerDelete(t *testing.T) {
	app, db := setupTestApp(t)
	require.NoError(t, db.Create(&models.ClassRecord{ID: "rec-1", StudentID: testStudentID, Subject: models.SubjectMath, Date: "2024-03-04", Count: 2, Status: models.RecordStatusPresent}).Error)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/records/rec-1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.ClassRecord{}).Count(&count).Error)
	require.Zero(t, count)
}
