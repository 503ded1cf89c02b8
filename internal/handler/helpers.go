package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elmtree/tuition-api/internal/middleware"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// parsePeriodQuery reads the year and month query parameters, defaulting to
// the current month when both are absent.
func parsePeriodQuery(c *fiber.Ctx) (int, time.Month, error) {
	year, err := parseQueryInt(c, "year")
	if err != nil {
		return 0, 0, errors.New("invalid year")
	}
	monthNum, err := parseQueryInt(c, "month")
	if err != nil {
		return 0, 0, errors.New("invalid month")
	}

	if year == 0 && monthNum == 0 {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	if year < 2000 || year > 2100 {
		return 0, 0, errors.New("invalid year")
	}
	if monthNum < 1 || monthNum > 12 {
		return 0, 0, errors.New("invalid month")
	}
	return year, time.Month(monthNum), nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
