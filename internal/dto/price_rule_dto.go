package dto

import (
	"time"

	"github.com/elmtree/tuition-api/internal/models"
)

// PriceRuleCloneRequest asks for a new rule cloned from an existing one.
type PriceRuleCloneRequest struct {
	SourceID string `json:"source_id" validate:"required,uuid4"`
	Name     string `json:"name" validate:"max=255"`
}

// PriceRuleUpdateRequest carries edits to a rule's name or rates. Nil fields
// are left untouched. Lock and active state have their own endpoints.
type PriceRuleUpdateRequest struct {
	Name                   *string  `json:"name" validate:"omitempty,max=255"`
	ChinesePrice           *float64 `json:"chinese_price" validate:"omitempty,gte=0"`
	NonChineseBasePrice    *float64 `json:"non_chinese_base_price" validate:"omitempty,gte=0"`
	NonChineseDiscountNew  *float64 `json:"non_chinese_discount_new" validate:"omitempty,gte=0"`
	NonChineseDiscountOld  *float64 `json:"non_chinese_discount_old" validate:"omitempty,gte=0"`
	NonChineseFourSubPrice *float64 `json:"non_chinese_four_sub_price" validate:"omitempty,gte=0"`
}

// PriceRuleLockRequest toggles the lock on a rule.
type PriceRuleLockRequest struct {
	Locked bool `json:"locked"`
}

// PriceRuleResponse is the API view of a pricing configuration.
type PriceRuleResponse struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	IsActive               bool      `json:"is_active"`
	IsLocked               bool      `json:"is_locked"`
	CreatedAt              time.Time `json:"created_at"`
	ChinesePrice           float64   `json:"chinese_price"`
	NonChineseBasePrice    float64   `json:"non_chinese_base_price"`
	NonChineseDiscountNew  float64   `json:"non_chinese_discount_new"`
	NonChineseDiscountOld  float64   `json:"non_chinese_discount_old"`
	NonChineseFourSubPrice float64   `json:"non_chinese_four_sub_price"`
}

// NewPriceRuleResponse maps a rule model onto its API view.
func NewPriceRuleResponse(rule models.PriceRule) PriceRuleResponse {
	return PriceRuleResponse{
		ID:                     rule.ID,
		Name:                   rule.Name,
		IsActive:               rule.IsActive,
		IsLocked:               rule.IsLocked,
		CreatedAt:              rule.CreatedAt,
		ChinesePrice:           rule.ChinesePrice,
		NonChineseBasePrice:    rule.NonChineseBasePrice,
		NonChineseDiscountNew:  rule.NonChineseDiscountNew,
		NonChineseDiscountOld:  rule.NonChineseDiscountOld,
		NonChineseFourSubPrice: rule.NonChineseFourSubPrice,
	}
}
