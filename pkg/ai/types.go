package ai

import "context"

// SettlementLine is one subject row of a settlement, flattened for prompting.
type SettlementLine struct {
	Subject      string
	Hours        float64
	PricePerHour float64
	MaterialFee  float64
	Subtotal     float64
}

// ParentMessageInput carries one student's monthly bill.
type ParentMessageInput struct {
	StudentName string
	Period      string
	TotalAmount float64
	Lines       []SettlementLine
}

// AnalysisStudent summarises one student's settlement for the period.
type AnalysisStudent struct {
	Name     string
	Total    float64
	Hours    float64
	Subjects []string
}

// AnalysisInput carries the whole period for financial analysis.
type AnalysisInput struct {
	Period   string
	Students []AnalysisStudent
}

// Summarizer renders tuition settlements into natural-language text.
type Summarizer interface {
	ParentMessage(ctx context.Context, input ParentMessageInput) (string, error)
	AnalyzeFinancials(ctx context.Context, input AnalysisInput) (string, error)
}
