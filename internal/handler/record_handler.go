package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
	"github.com/elmtree/tuition-api/internal/service"
	"github.com/elmtree/tuition-api/internal/utils"
)

// RecordHandler wires attendance record endpoints.
type RecordHandler struct {
	records     service.RecordService
	settlements service.SettlementService
	logger      zerolog.Logger
}

// NewRecordHandler constructs the handler.
func NewRecordHandler(records service.RecordService, settlements service.SettlementService, logger zerolog.Logger) *RecordHandler {
	return &RecordHandler{
		records:     records,
		settlements: settlements,
		logger:      logger.With().Str("component", "record_handler").Logger(),
	}
}

// Register attaches record routes to the router group.
func (h *RecordHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/batch", h.enterBatch)
	router.Delete("/:id", h.delete)
}

func (h *RecordHandler) list(c *fiber.Ctx) error {
	year, err := parseQueryInt(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}
	month, err := parseQueryInt(c, "month")
	if err != nil || month < 0 || month > 12 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
	}
	if (year == 0) != (month == 0) {
		return utils.SendError(c, fiber.StatusBadRequest, "year and month must be provided together")
	}

	req := dto.RecordListRequest{
		StudentID: c.Query("student_id"),
		Subject:   models.Subject(c.Query("subject")),
		Status:    c.Query("status"),
	}
	if year != 0 {
		req.Year = year
		req.Month = time.Month(month)
	}

	records, err := h.records.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list records")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list records")
	}
	return utils.SendSuccess(c, "records retrieved", records)
}

func (h *RecordHandler) enterBatch(c *fiber.Ctx) error {
	var payload dto.RecordBatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.records.EnterBatch(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case isValidationError(err),
			errors.Is(err, service.ErrUnknownSubject),
			errors.Is(err, service.ErrUnknownRecordStatus):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to enter records")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to enter records")
		}
	}

	h.settlements.InvalidateDashboard(c.Context())
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "records entered", result)
}

func (h *RecordHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.records.Delete(c.Context(), id); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete record")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete record")
	}

	h.settlements.InvalidateDashboard(c.Context())
	return utils.SendSuccess(c, "record deleted", fiber.Map{"id": id})
}
