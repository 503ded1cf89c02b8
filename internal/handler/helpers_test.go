package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elmtree/tuition-api/internal/config"
	"github.com/elmtree/tuition-api/internal/handler"
	"github.com/elmtree/tuition-api/internal/models"
	"github.com/elmtree/tuition-api/internal/repository"
	"github.com/elmtree/tuition-api/internal/router"
	"github.com/elmtree/tuition-api/internal/service"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.ClassRecord{}, &models.PriceRule{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	studentRepo := repository.NewStudentRepository(db)
	recordRepo := repository.NewClassRecordRepository(db)
	ruleRepo := repository.NewPriceRuleRepository(db)

	studentService := service.NewStudentService(studentRepo, validate, logger)
	recordService := service.NewRecordService(recordRepo, studentRepo, validate, logger)
	ruleService := service.NewPriceRuleService(ruleRepo, validate, logger)
	settlementService := service.NewSettlementService(studentRepo, recordRepo, ruleRepo, nil, time.Minute, logger)
	summaryService := service.NewSummaryService(settlementService, nil, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", AppEnv: "test", JWTSecret: "secret"}, router.Dependencies{
		StudentHandler:    handler.NewStudentHandler(studentService, recordService, logger),
		RecordHandler:     handler.NewRecordHandler(recordService, settlementService, logger),
		PriceRuleHandler:  handler.NewPriceRuleHandler(ruleService, logger),
		SettlementHandler: handler.NewSettlementHandler(settlementService, summaryService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user", "admin")
			return c.Next()
		},
	})

	return app, db
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func seedPriceRule(t *testing.T, db *gorm.DB, rule models.PriceRule) models.PriceRule {
	t.Helper()
	require.NoError(t, db.Create(&rule).Error)
	return rule
}

func seedStudent(t *testing.T, db *gorm.DB, student models.Student) models.Student {
	t.Helper()
	require.NoError(t, db.Create(&student).Error)
	return student
}
