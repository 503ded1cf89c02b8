package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elmtree/tuition-api/internal/export"
	"github.com/elmtree/tuition-api/internal/service"
	"github.com/elmtree/tuition-api/internal/utils"
)

// SettlementHandler wires settlement and dashboard endpoints.
type SettlementHandler struct {
	settlements service.SettlementService
	summaries   service.SummaryService
	logger      zerolog.Logger
}

// NewSettlementHandler constructs the handler.
func NewSettlementHandler(settlements service.SettlementService, summaries service.SummaryService, logger zerolog.Logger) *SettlementHandler {
	return &SettlementHandler{
		settlements: settlements,
		summaries:   summaries,
		logger:      logger.With().Str("component", "settlement_handler").Logger(),
	}
}

// Register attaches settlement routes to the router group.
func (h *SettlementHandler) Register(router fiber.Router) {
	router.Get("", h.settleMonth)
	router.Get("/export.csv", h.exportCSV)
	router.Post("/analysis", h.analyze)
	router.Post("/:student_id/message", h.parentMessage)
}

// RegisterDashboard attaches the dashboard route to the router group.
func (h *SettlementHandler) RegisterDashboard(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
}

func (h *SettlementHandler) settleMonth(c *fiber.Ctx) error {
	year, month, err := parsePeriodQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	monthly, err := h.settlements.SettleMonth(c.Context(), year, month, c.Query("rule_id"))
	if err != nil {
		if errors.Is(err, service.ErrPriceRuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to settle month")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to settle month")
	}
	return utils.SendSuccess(c, "settlements computed", monthly)
}

func (h *SettlementHandler) exportCSV(c *fiber.Ctx) error {
	year, month, err := parsePeriodQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	monthly, err := h.settlements.SettleMonth(c.Context(), year, month, c.Query("rule_id"))
	if err != nil {
		if errors.Is(err, service.ErrPriceRuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to settle month for export")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export settlements")
	}

	payload, err := export.SettlementCSV(monthly)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render settlement csv")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export settlements")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.FileName(monthly.Period)+`"`)
	return c.Send(payload)
}

func (h *SettlementHandler) dashboard(c *fiber.Ctx) error {
	dashboard, err := h.settlements.Dashboard(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrPriceRuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "no price rule configured")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build dashboard")
	}
	return utils.SendSuccess(c, "dashboard computed", dashboard)
}

func (h *SettlementHandler) parentMessage(c *fiber.Ctx) error {
	year, month, err := parsePeriodQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.summaries.ParentMessage(c.Context(), c.Params("student_id"), year, month, c.Query("rule_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrPriceRuleNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate parent message")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate parent message")
		}
	}
	return utils.SendSuccess(c, "message generated", summary)
}

func (h *SettlementHandler) analyze(c *fiber.Ctx) error {
	year, month, err := parsePeriodQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.summaries.AnalyzeMonth(c.Context(), year, month, c.Query("rule_id"))
	if err != nil {
		if errors.Is(err, service.ErrPriceRuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to analyze settlements")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to analyze settlements")
	}
	return utils.SendSuccess(c, "analysis generated", summary)
}
