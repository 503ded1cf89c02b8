package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
	"github.com/elmtree/tuition-api/internal/repository"
)

// ErrPriceRuleNotFound indicates the rule id did not resolve.
var ErrPriceRuleNotFound = errors.New("price rule not found")

// ErrPriceRuleActive indicates a delete attempt on the active rule.
var ErrPriceRuleActive = errors.New("price rule is active and protected from deletion")

// ErrPriceRuleLocked indicates an edit attempt on a locked rule.
var ErrPriceRuleLocked = errors.New("price rule is locked")

// PriceRuleService manages the versioned pricing configurations.
type PriceRuleService interface {
	List(ctx context.Context) ([]dto.PriceRuleResponse, error)
	Get(ctx context.Context, id string) (dto.PriceRuleResponse, error)
	Clone(ctx context.Context, payload dto.PriceRuleCloneRequest) (dto.PriceRuleResponse, error)
	Update(ctx context.Context, id string, payload dto.PriceRuleUpdateRequest) (dto.PriceRuleResponse, error)
	SetLocked(ctx context.Context, id string, locked bool) (dto.PriceRuleResponse, error)
	Activate(ctx context.Context, id string) (dto.PriceRuleResponse, error)
	Delete(ctx context.Context, id string) error
	// EnsureSeed inserts the default rule when the store is empty.
	EnsureSeed(ctx context.Context) error
}

type priceRuleService struct {
	repo      repository.PriceRuleRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPriceRuleService constructs the price rule service.
func NewPriceRuleService(repo repository.PriceRuleRepository, validate *validator.Validate, logger zerolog.Logger) PriceRuleService {
	return &priceRuleService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "price_rule_service").Logger(),
		now:       time.Now,
	}
}

func (s *priceRuleService) List(ctx context.Context) ([]dto.PriceRuleResponse, error) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PriceRuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, dto.NewPriceRuleResponse(rule))
	}
	return responses, nil
}

func (s *priceRuleService) Get(ctx context.Context, id string) (dto.PriceRuleResponse, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PriceRuleResponse{}, ErrPriceRuleNotFound
		}
		return dto.PriceRuleResponse{}, err
	}
	return dto.NewPriceRuleResponse(rule), nil
}

func (s *priceRuleService) Clone(ctx context.Context, payload dto.PriceRuleCloneRequest) (dto.PriceRuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PriceRuleResponse{}, err
	}

	source, err := s.repo.GetByID(ctx, payload.SourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PriceRuleResponse{}, ErrPriceRuleNotFound
		}
		return dto.PriceRuleResponse{}, err
	}

	name := payload.Name
	if name == "" {
		name = fmt.Sprintf("%s (copy)", source.Name)
	}

	clone := models.PriceRule{
		ID:                     uuid.NewString(),
		Name:                   name,
		IsActive:               false,
		IsLocked:               false,
		CreatedAt:              s.now(),
		ChinesePrice:           source.ChinesePrice,
		NonChineseBasePrice:    source.NonChineseBasePrice,
		NonChineseDiscountNew:  source.NonChineseDiscountNew,
		NonChineseDiscountOld:  source.NonChineseDiscountOld,
		NonChineseFourSubPrice: source.NonChineseFourSubPrice,
	}

	if err := s.repo.Create(ctx, &clone); err != nil {
		return dto.PriceRuleResponse{}, err
	}

	s.logger.Info().Str("rule_id", clone.ID).Str("source_id", source.ID).Msg("price rule cloned")
	return dto.NewPriceRuleResponse(clone), nil
}

func (s *priceRuleService) Update(ctx context.Context, id string, payload dto.PriceRuleUpdateRequest) (dto.PriceRuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PriceRuleResponse{}, err
	}

	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PriceRuleResponse{}, ErrPriceRuleNotFound
		}
		return dto.PriceRuleResponse{}, err
	}

	if rule.IsLocked {
		return dto.PriceRuleResponse{}, ErrPriceRuleLocked
	}

	if payload.Name != nil {
		rule.Name = *payload.Name
	}
	if payload.ChinesePrice != nil {
		rule.ChinesePrice = *payload.ChinesePrice
	}
	if payload.NonChineseBasePrice != nil {
		rule.NonChineseBasePrice = *payload.NonChineseBasePrice
	}
	if payload.NonChineseDiscountNew != nil {
		rule.NonChineseDiscountNew = *payload.NonChineseDiscountNew
	}
	if payload.NonChineseDiscountOld != nil {
		rule.NonChineseDiscountOld = *payload.NonChineseDiscountOld
	}
	if payload.NonChineseFourSubPrice != nil {
		rule.NonChineseFourSubPrice = *payload.NonChineseFourSubPrice
	}

	if err := s.repo.Update(ctx, &rule); err != nil {
		return dto.PriceRuleResponse{}, err
	}
	return dto.NewPriceRuleResponse(rule), nil
}

func (s *priceRuleService) SetLocked(ctx context.Context, id string, locked bool) (dto.PriceRuleResponse, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PriceRuleResponse{}, ErrPriceRuleNotFound
		}
		return dto.PriceRuleResponse{}, err
	}

	// The lock flag itself stays editable on a locked rule, otherwise
	// unlocking would be impossible.
	rule.IsLocked = locked
	if err := s.repo.Update(ctx, &rule); err != nil {
		return dto.PriceRuleResponse{}, err
	}
	return dto.NewPriceRuleResponse(rule), nil
}

func (s *priceRuleService) Activate(ctx context.Context, id string) (dto.PriceRuleResponse, error) {
	if err := s.repo.Activate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PriceRuleResponse{}, ErrPriceRuleNotFound
		}
		return dto.PriceRuleResponse{}, err
	}

	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.PriceRuleResponse{}, err
	}

	s.logger.Info().Str("rule_id", id).Str("rule_name", rule.Name).Msg("price rule activated")
	return dto.NewPriceRuleResponse(rule), nil
}

func (s *priceRuleService) Delete(ctx context.Context, id string) error {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPriceRuleNotFound
		}
		return err
	}

	if rule.IsActive {
		return ErrPriceRuleActive
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("rule_id", id).Str("rule_name", rule.Name).Msg("price rule deleted")
	return nil
}

func (s *priceRuleService) EnsureSeed(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := models.PriceRule{
		ID:                     uuid.NewString(),
		Name:                   "2024 standard pricing",
		IsActive:               true,
		IsLocked:               true,
		CreatedAt:              s.now(),
		ChinesePrice:           100,
		NonChineseBasePrice:    85,
		NonChineseDiscountNew:  76,
		NonChineseDiscountOld:  72,
		NonChineseFourSubPrice: 72,
	}
	if err := s.repo.Create(ctx, &seed); err != nil {
		return err
	}

	s.logger.Info().Str("rule_id", seed.ID).Msg("seeded default price rule")
	return nil
}
