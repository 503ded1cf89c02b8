package models

import "time"

// PriceRule is a named, versioned pricing configuration. At most one rule is
// active at a time; a locked rule rejects edits to everything except its own
// lock and active flags.
type PriceRule struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	IsLocked  bool      `gorm:"not null" json:"is_locked"`
	CreatedAt time.Time `json:"created_at"`

	// Per-hour rates. Chinese is billed standalone; the remaining subjects
	// share one rate resolved from how many of them the student took.
	ChinesePrice           float64 `gorm:"not null" json:"chinese_price"`
	NonChineseBasePrice    float64 `gorm:"not null" json:"non_chinese_base_price"`
	NonChineseDiscountNew  float64 `gorm:"not null" json:"non_chinese_discount_new"`
	NonChineseDiscountOld  float64 `gorm:"not null" json:"non_chinese_discount_old"`
	NonChineseFourSubPrice float64 `gorm:"not null" json:"non_chinese_four_sub_price"`
}

// NonChineseRate resolves the shared per-hour rate for non-Chinese subjects
// from the student's distinct non-Chinese subject count in the period.
func (p PriceRule) NonChineseRate(subjectCount int, isOldStudent bool) float64 {
	switch {
	case subjectCount >= 4:
		return p.NonChineseFourSubPrice
	case subjectCount == 3:
		if isOldStudent {
			return p.NonChineseDiscountOld
		}
		return p.NonChineseDiscountNew
	default:
		return p.NonChineseBasePrice
	}
}
