package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/service"
	"github.com/elmtree/tuition-api/internal/utils"
)

// PriceRuleHandler wires price rule administration endpoints.
type PriceRuleHandler struct {
	rules  service.PriceRuleService
	logger zerolog.Logger
}

// NewPriceRuleHandler constructs the handler.
func NewPriceRuleHandler(rules service.PriceRuleService, logger zerolog.Logger) *PriceRuleHandler {
	return &PriceRuleHandler{
		rules:  rules,
		logger: logger.With().Str("component", "price_rule_handler").Logger(),
	}
}

// Register attaches price rule routes to the router group.
func (h *PriceRuleHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.clone)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Post("/:id/activate", h.activate)
	router.Post("/:id/lock", h.lock)
	router.Delete("/:id", h.delete)
}

func (h *PriceRuleHandler) list(c *fiber.Ctx) error {
	rules, err := h.rules.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list price rules")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list price rules")
	}
	return utils.SendSuccess(c, "price rules retrieved", rules)
}

func (h *PriceRuleHandler) get(c *fiber.Ctx) error {
	rule, err := h.rules.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrPriceRuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch price rule")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch price rule")
	}
	return utils.SendSuccess(c, "price rule retrieved", rule)
}

func (h *PriceRuleHandler) clone(c *fiber.Ctx) error {
	var payload dto.PriceRuleCloneRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	rule, err := h.rules.Clone(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPriceRuleNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "source price rule not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to clone price rule")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to clone price rule")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "price rule created", rule)
}

func (h *PriceRuleHandler) update(c *fiber.Ctx) error {
	var payload dto.PriceRuleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	rule, err := h.rules.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPriceRuleNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		case errors.Is(err, service.ErrPriceRuleLocked):
			return utils.SendError(c, fiber.StatusConflict, "price rule is locked")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update price rule")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update price rule")
		}
	}

	return utils.SendSuccess(c, "price rule updated", rule)
}

func (h *PriceRuleHandler) activate(c *fiber.Ctx) error {
	rule, err := h.rules.Activate(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrPriceRuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to activate price rule")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to activate price rule")
	}
	return utils.SendSuccess(c, "price rule activated", rule)
}

func (h *PriceRuleHandler) lock(c *fiber.Ctx) error {
	var payload dto.PriceRuleLockRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	rule, err := h.rules.SetLocked(c.Context(), c.Params("id"), payload.Locked)
	if err != nil {
		if errors.Is(err, service.ErrPriceRuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to set price rule lock")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to set price rule lock")
	}
	return utils.SendSuccess(c, "price rule lock updated", rule)
}

func (h *PriceRuleHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.rules.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrPriceRuleNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "price rule not found")
		case errors.Is(err, service.ErrPriceRuleActive):
			return utils.SendError(c, fiber.StatusConflict, "active price rule cannot be deleted")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete price rule")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete price rule")
		}
	}
	return utils.SendSuccess(c, "price rule deleted", fiber.Map{"id": id})
}
