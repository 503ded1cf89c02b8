package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elmtree/tuition-api/internal/config"
	"github.com/elmtree/tuition-api/internal/database"
	"github.com/elmtree/tuition-api/internal/handler"
	"github.com/elmtree/tuition-api/internal/middleware"
	"github.com/elmtree/tuition-api/internal/models"
	"github.com/elmtree/tuition-api/internal/repository"
	"github.com/elmtree/tuition-api/internal/router"
	"github.com/elmtree/tuition-api/internal/service"
	"github.com/elmtree/tuition-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.ClassRecord{}, &models.PriceRule{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var summarizer ai.Summarizer
	if cfg.OpenAIAPIKey != "" {
		openaiSummarizer, err := ai.NewOpenAISummarizer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai summarizer: %v", err)
		}
		summarizer = openaiSummarizer
	} else {
		logger.Warn().Msg("openai api key missing, summaries will return placeholder text")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	recordRepo := repository.NewClassRecordRepository(db)
	ruleRepo := repository.NewPriceRuleRepository(db)

	studentService := service.NewStudentService(studentRepo, validate, logger)
	recordService := service.NewRecordService(recordRepo, studentRepo, validate, logger)
	ruleService := service.NewPriceRuleService(ruleRepo, validate, logger)
	settlementService := service.NewSettlementService(studentRepo, recordRepo, ruleRepo, redisClient, cfg.DashboardCacheTTL, logger)
	summaryService := service.NewSummaryService(settlementService, summarizer, logger)

	if err := ruleService.EnsureSeed(context.Background()); err != nil {
		log.Fatalf("failed to seed price rules: %v", err)
	}

	studentHandler := handler.NewStudentHandler(studentService, recordService, logger)
	recordHandler := handler.NewRecordHandler(recordService, settlementService, logger)
	ruleHandler := handler.NewPriceRuleHandler(ruleService, logger)
	settlementHandler := handler.NewSettlementHandler(settlementService, summaryService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:    studentHandler,
		RecordHandler:     recordHandler,
		PriceRuleHandler:  ruleHandler,
		SettlementHandler: settlementHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
