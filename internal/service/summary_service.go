package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/pkg/ai"
)

// Placeholder text returned when the summarizer is missing or fails.
// Collaborator failures never affect settlement figures.
const (
	parentMessageUnavailable = "消息生成失败，请稍后重试或手动编写。"
	analysisUnavailable      = "分析暂不可用，请稍后重试。"
)

// SummaryService turns settlements into natural-language text.
type SummaryService interface {
	// ParentMessage drafts a parent-facing message for one student's monthly
	// settlement. Generation failures surface as placeholder text, never as
	// an error.
	ParentMessage(ctx context.Context, studentID string, year int, month time.Month, ruleID string) (dto.SummaryResponse, error)
	// AnalyzeMonth produces a revenue analysis across the month's settlements.
	AnalyzeMonth(ctx context.Context, year int, month time.Month, ruleID string) (dto.SummaryResponse, error)
}

type summaryService struct {
	settlements SettlementService
	summarizer  ai.Summarizer
	logger      zerolog.Logger
}

// NewSummaryService constructs the summary service. A nil summarizer is
// allowed and yields placeholder text for every request.
func NewSummaryService(settlements SettlementService, summarizer ai.Summarizer, logger zerolog.Logger) SummaryService {
	return &summaryService{
		settlements: settlements,
		summarizer:  summarizer,
		logger:      logger.With().Str("component", "summary_service").Logger(),
	}
}

func (s *summaryService) ParentMessage(ctx context.Context, studentID string, year int, month time.Month, ruleID string) (dto.SummaryResponse, error) {
	settlement, err := s.settlements.SettleStudentMonth(ctx, studentID, year, month, ruleID)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	if s.summarizer == nil {
		return dto.SummaryResponse{Text: parentMessageUnavailable}, nil
	}

	lines := make([]ai.SettlementLine, 0, len(settlement.Items))
	for _, item := range settlement.Items {
		lines = append(lines, ai.SettlementLine{
			Subject:      string(item.Subject),
			Hours:        item.TotalHours,
			PricePerHour: item.PricePerHour,
			MaterialFee:  item.MaterialFeeTotal,
			Subtotal:     item.Subtotal,
		})
	}

	text, err := s.summarizer.ParentMessage(ctx, ai.ParentMessageInput{
		StudentName: settlement.Student.Name,
		Period:      settlement.Period,
		TotalAmount: settlement.TotalAmount,
		Lines:       lines,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", studentID).Msg("parent message generation failed")
		return dto.SummaryResponse{Text: parentMessageUnavailable}, nil
	}
	return dto.SummaryResponse{Text: text}, nil
}

func (s *summaryService) AnalyzeMonth(ctx context.Context, year int, month time.Month, ruleID string) (dto.SummaryResponse, error) {
	monthly, err := s.settlements.SettleMonth(ctx, year, month, ruleID)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	if s.summarizer == nil {
		return dto.SummaryResponse{Text: analysisUnavailable}, nil
	}

	students := make([]ai.AnalysisStudent, 0, len(monthly.Settlements))
	for _, settlement := range monthly.Settlements {
		subjects := make([]string, 0, len(settlement.Items))
		for _, item := range settlement.Items {
			subjects = append(subjects, string(item.Subject))
		}
		students = append(students, ai.AnalysisStudent{
			Name:     settlement.Student.Name,
			Total:    settlement.TotalAmount,
			Hours:    settlement.TotalHours,
			Subjects: subjects,
		})
	}

	text, err := s.summarizer.AnalyzeFinancials(ctx, ai.AnalysisInput{
		Period:   monthly.Period,
		Students: students,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("period", monthly.Period).Msg("financial analysis failed")
		return dto.SummaryResponse{Text: analysisUnavailable}, nil
	}
	return dto.SummaryResponse{Text: text}, nil
}
