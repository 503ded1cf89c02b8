package dto

import "github.com/elmtree/tuition-api/internal/models"

// SettlementItem is the computed per-subject breakdown for one student in
// one period.
type SettlementItem struct {
	Subject          models.Subject `json:"subject"`
	TotalHours       float64        `json:"total_hours"`
	PricePerHour     float64        `json:"price_per_hour"`
	TuitionTotal     float64        `json:"tuition_total"`
	MaterialFeeTotal float64        `json:"material_fee_total"`
	Subtotal         float64        `json:"subtotal"`
}

// StudentSettlement is the computed bill for one student in one period.
type StudentSettlement struct {
	Student     StudentResponse  `json:"student"`
	Items       []SettlementItem `json:"items"`
	TotalAmount float64          `json:"total_amount"`
	TotalHours  float64          `json:"total_hours"`
	Period      string           `json:"period"`
}

// HasActivity reports whether the settlement carries any billable hours or
// charges. Zero-activity settlements are dropped from period views.
func (s StudentSettlement) HasActivity() bool {
	return s.TotalAmount != 0 || s.TotalHours != 0
}

// MonthlySettlementResponse is the period view across all students.
type MonthlySettlementResponse struct {
	Period       string              `json:"period"`
	RuleID       string              `json:"rule_id"`
	RuleName     string              `json:"rule_name"`
	Settlements  []StudentSettlement `json:"settlements"`
	TotalRevenue float64             `json:"total_revenue"`
}

// DashboardResponse aggregates all-time settlements under the active rule.
type DashboardResponse struct {
	RuleID       string              `json:"rule_id"`
	RuleName     string              `json:"rule_name"`
	StudentCount int                 `json:"student_count"`
	TotalRevenue float64             `json:"total_revenue"`
	TotalHours   float64             `json:"total_hours"`
	Settlements  []StudentSettlement `json:"settlements"`
}

// SummaryResponse wraps generated natural-language text. Generation failures
// surface as placeholder text here, never as settlement errors.
type SummaryResponse struct {
	Text string `json:"text"`
}
