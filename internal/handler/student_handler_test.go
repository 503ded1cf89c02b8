package handler_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
)

func TestStudentHandlerLifecycle(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/students", dto.StudentCreateRequest{
		Name:     "Liu Aili",
		Grade:    models.GradeJunior2,
		Phone:    "13800000000",
		Subjects: []models.Subject{models.SubjectChinese, models.SubjectMath},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Success bool                `json:"success"`
		Data    dto.StudentResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)
	require.True(t, created.Success)
	require.NotEmpty(t, created.Data.ID)

	getResp, err := app.Test(httptest.NewRequest("GET", "/api/v1/students/"+created.Data.ID, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, getResp.StatusCode)

	old := true
	patchResp, err := app.Test(jsonRequest(t, "PATCH", "/api/v1/students/"+created.Data.ID, dto.StudentUpdateRequest{IsOldStudent: &old}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, patchResp.StatusCode)

	var updated struct {
		Data dto.StudentResponse `json:"data"`
	}
	decodeResponse(t, patchResp, &updated)
	require.True(t, updated.Data.IsOldStudent)

	deleteResp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/students/"+created.Data.ID, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, deleteResp.StatusCode)

	missing, err := app.Test(httptest.NewRequest("GET", "/api/v1/students/"+created.Data.ID, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, missing.StatusCode)
}

func TestStudentHandlerCreateRejectsBadPayload(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/students", dto.StudentCreateRequest{
		Name:     "Liu Aili",
		Grade:    "kindergarten",
		Phone:    "13800000000",
		Subjects: []models.Subject{models.SubjectMath},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStudentHandlerRecordsRoute(t *testing.T) {
	app, db := setupTestApp(t)
	student := seedStudent(t, db, models.Student{
		ID:    "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
		Name:  "Liu Aili",
		Grade: models.GradeJunior2,
		Phone: "13800000000",
	})
	require.NoError(t, db.Create(&models.ClassRecord{
		ID:        "rec-1",
		StudentID: student.ID,
		Subject:   models.SubjectMath,
		Date:      "2024-03-04",
		Count:     2,
		Status:    models.RecordStatusPresent,
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/students/"+student.ID+"/records", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []dto.RecordResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data, 1)
	require.Equal(t, models.SubjectMath, body.Data[0].Subject)

	missing, err := app.Test(httptest.NewRequest("GET", "/api/v1/students/bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb/records", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, missing.StatusCode)
}

func TestHealthRoute(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
