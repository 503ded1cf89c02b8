package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/elmtree/tuition-api/internal/dto"
	"github.com/elmtree/tuition-api/internal/models"
	"github.com/elmtree/tuition-api/internal/repository"
)

const dashboardCacheKey = "dashboard:settlements"

// SettlementService runs the calculator across students for period and
// all-time views.
type SettlementService interface {
	// SettleMonth bills every student for one year-month under the given rule
	// (empty ruleID resolves the default rule). Students without activity in
	// the month are dropped from the result.
	SettleMonth(ctx context.Context, year int, month time.Month, ruleID string) (dto.MonthlySettlementResponse, error)
	// SettleStudentMonth bills a single student for one year-month.
	SettleStudentMonth(ctx context.Context, studentID string, year int, month time.Month, ruleID string) (dto.StudentSettlement, error)
	// Dashboard aggregates all-time settlements under the default rule.
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	// InvalidateDashboard drops the cached dashboard after a mutation.
	InvalidateDashboard(ctx context.Context)
}

type settlementService struct {
	students repository.StudentRepository
	records  repository.ClassRecordRepository
	rules    repository.PriceRuleRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSettlementService constructs the settlement aggregator.
func NewSettlementService(students repository.StudentRepository, records repository.ClassRecordRepository, rules repository.PriceRuleRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) SettlementService {
	return &settlementService{
		students: students,
		records:  records,
		rules:    rules,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "settlement_service").Logger(),
		now:      time.Now,
	}
}

func (s *settlementService) resolveRule(ctx context.Context, ruleID string) (models.PriceRule, error) {
	if ruleID == "" {
		rule, err := s.rules.GetDefault(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.PriceRule{}, ErrPriceRuleNotFound
			}
			return models.PriceRule{}, err
		}
		return rule, nil
	}

	rule, err := s.rules.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PriceRule{}, ErrPriceRuleNotFound
		}
		return models.PriceRule{}, err
	}
	return rule, nil
}

func (s *settlementService) SettleMonth(ctx context.Context, year int, month time.Month, ruleID string) (dto.MonthlySettlementResponse, error) {
	tracer := otel.Tracer("github.com/elmtree/tuition-api/internal/service/settlement")
	ctx, span := tracer.Start(ctx, "settlement.month")
	span.SetAttributes(
		attribute.Int("settlement.year", year),
		attribute.Int("settlement.month", int(month)),
	)
	defer span.End()

	rule, err := s.resolveRule(ctx, ruleID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rule_resolution_failed")
		return dto.MonthlySettlementResponse{}, err
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return dto.MonthlySettlementResponse{}, err
	}

	// Records are scoped to the month before any grouping, so the calculator
	// never sees cross-month data.
	records, err := s.records.ListByMonth(ctx, year, month)
	if err != nil {
		return dto.MonthlySettlementResponse{}, err
	}

	byStudent := make(map[string][]models.ClassRecord)
	for _, record := range records {
		byStudent[record.StudentID] = append(byStudent[record.StudentID], record)
	}

	period := FormatPeriod(year, month)
	settlements := make([]dto.StudentSettlement, 0, len(students))
	var totalRevenue float64
	for _, student := range students {
		settlement := CalculateSettlement(student, byStudent[student.ID], rule, period)
		if !settlement.HasActivity() {
			continue
		}
		settlements = append(settlements, settlement)
		totalRevenue += settlement.TotalAmount
	}

	span.SetAttributes(
		attribute.Int("settlement.students", len(settlements)),
		attribute.Float64("settlement.total_revenue", totalRevenue),
	)

	return dto.MonthlySettlementResponse{
		Period:       period,
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		Settlements:  settlements,
		TotalRevenue: totalRevenue,
	}, nil
}

func (s *settlementService) SettleStudentMonth(ctx context.Context, studentID string, year int, month time.Month, ruleID string) (dto.StudentSettlement, error) {
	rule, err := s.resolveRule(ctx, ruleID)
	if err != nil {
		return dto.StudentSettlement{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentSettlement{}, ErrStudentNotFound
		}
		return dto.StudentSettlement{}, err
	}

	records, err := s.records.List(ctx, repository.RecordFilter{Year: year, Month: month, StudentID: studentID})
	if err != nil {
		return dto.StudentSettlement{}, err
	}

	return CalculateSettlement(student, records, rule, FormatPeriod(year, month)), nil
}

func (s *settlementService) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	rule, err := s.resolveRule(ctx, "")
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	records, err := s.records.ListAll(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	byStudent := make(map[string][]models.ClassRecord)
	for _, record := range records {
		byStudent[record.StudentID] = append(byStudent[record.StudentID], record)
	}

	response := dto.DashboardResponse{RuleID: rule.ID, RuleName: rule.Name}
	for _, student := range students {
		studentRecords := byStudent[student.ID]
		settlement := CalculateSettlement(student, studentRecords, rule, PeriodFromRecords(studentRecords, s.now()))
		response.Settlements = append(response.Settlements, settlement)
		response.TotalRevenue += settlement.TotalAmount
		response.TotalHours += settlement.TotalHours
	}
	response.StudentCount = len(students)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *settlementService) InvalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}
