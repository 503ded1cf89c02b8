package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/elmtree/tuition-api/internal/models"
)

// PriceRuleRepository provides access to versioned pricing configurations.
type PriceRuleRepository interface {
	List(ctx context.Context) ([]models.PriceRule, error)
	GetByID(ctx context.Context, id string) (models.PriceRule, error)
	// GetDefault resolves the rule settlements fall back to: the active rule,
	// or the oldest rule when none is marked active.
	GetDefault(ctx context.Context) (models.PriceRule, error)
	Create(ctx context.Context, rule *models.PriceRule) error
	Update(ctx context.Context, rule *models.PriceRule) error
	// Activate flips the active flag to the named rule in one transaction, so
	// the store never holds zero or multiple active rules.
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type priceRuleRepository struct {
	db *gorm.DB
}

// NewPriceRuleRepository constructs a price rule repository.
func NewPriceRuleRepository(db *gorm.DB) PriceRuleRepository {
	return &priceRuleRepository{db: db}
}

func (r *priceRuleRepository) List(ctx context.Context) ([]models.PriceRule, error) {
	var rules []models.PriceRule
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *priceRuleRepository) GetByID(ctx context.Context, id string) (models.PriceRule, error) {
	var rule models.PriceRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return models.PriceRule{}, err
	}
	return rule, nil
}

func (r *priceRuleRepository) GetDefault(ctx context.Context) (models.PriceRule, error) {
	var rule models.PriceRule
	err := r.db.WithContext(ctx).First(&rule, "is_active = ?", true).Error
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PriceRule{}, err
	}

	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&rule).Error; err != nil {
		return models.PriceRule{}, err
	}
	return rule, nil
}

func (r *priceRuleRepository) Create(ctx context.Context, rule *models.PriceRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *priceRuleRepository) Update(ctx context.Context, rule *models.PriceRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *priceRuleRepository) Activate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rule models.PriceRule
		if err := tx.First(&rule, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PriceRule{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("clear active flags: %w", err)
		}
		if err := tx.Model(&models.PriceRule{}).Where("id = ?", id).Update("is_active", true).Error; err != nil {
			return fmt.Errorf("set active flag: %w", err)
		}
		return nil
	})
}

func (r *priceRuleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.PriceRule{}, "id = ?", id).Error
}

func (r *priceRuleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PriceRule{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
