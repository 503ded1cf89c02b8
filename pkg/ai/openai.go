package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	summaryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tuition",
		Subsystem: "ai",
		Name:      "summary_duration_seconds",
		Help:      "Duration of AI summary requests",
	}, []string{"model", "kind"})

	summaryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tuition",
		Subsystem: "ai",
		Name:      "summary_failures_total",
		Help:      "Number of AI summary failures",
	}, []string{"model", "kind"})
)

// OpenAIConfig defines configuration options for the OpenAI summarizer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAISummarizer implements Summarizer against the OpenAI chat completion API.
type OpenAISummarizer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAISummarizer builds a new summarizer using the provided configuration.
func NewOpenAISummarizer(cfg OpenAIConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	tracer := otel.Tracer("github.com/elmtree/tuition-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAISummarizer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// ParentMessage writes a short notice to a parent describing the monthly bill.
func (s *OpenAISummarizer) ParentMessage(ctx context.Context, input ParentMessageInput) (string, error) {
	prompt := buildParentMessagePrompt(input)
	return s.complete(ctx, "parent_message", parentMessageSystemPrompt(), prompt)
}

// AnalyzeFinancials produces a short revenue analysis for the period.
func (s *OpenAISummarizer) AnalyzeFinancials(ctx context.Context, input AnalysisInput) (string, error) {
	prompt := buildAnalysisPrompt(input)
	return s.complete(ctx, "analysis", analysisSystemPrompt(), prompt)
}

func (s *OpenAISummarizer) complete(parent context.Context, kind, system, user string) (string, error) {
	ctx, span := s.tracer.Start(parent, "openai.summarize", trace.WithAttributes(
		attribute.String("model", s.cfg.Model),
		attribute.String("kind", kind),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	summaryDuration.WithLabelValues(s.cfg.Model, kind).Observe(time.Since(start).Seconds())
	if err != nil {
		summaryFailures.WithLabelValues(s.cfg.Model, kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai summarize: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		summaryFailures.WithLabelValues(s.cfg.Model, kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func parentMessageSystemPrompt() string {
	return "You are a polite and professional administrator at a tutoring center. Write a short, friendly WeChat message to " +
		"a parent detailing the month's tuition settlement. Start with a polite greeting, state the total clearly, briefly " +
		"summarize the classes, and end with a thank you. Language: Chinese (Simplified). Keep it concise."
}

func buildParentMessagePrompt(input ParentMessageInput) string {
	builder := strings.Builder{}
	builder.WriteString("Student: ")
	builder.WriteString(input.StudentName)
	builder.WriteString("\nMonth: ")
	builder.WriteString(input.Period)
	fmt.Fprintf(&builder, "\nTotal Amount: ¥%.2f\nDetails:\n", input.TotalAmount)
	for _, line := range input.Lines {
		fmt.Fprintf(&builder, "- %s: %.1f hours @ ¥%.2f/hour + material fee ¥%.2f = ¥%.2f\n",
			line.Subject, line.Hours, line.PricePerHour, line.MaterialFee, line.Subtotal)
	}
	return builder.String()
}

func analysisSystemPrompt() string {
	return "Analyze tuition data for a tutoring center. Identify: 1. top revenue generating subjects, 2. students with " +
		"unusually high or low hours, 3. a brief strategic tip for next month. Output Language: Chinese (Simplified). " +
		"Output as a Markdown formatted list."
}

func buildAnalysisPrompt(input AnalysisInput) string {
	builder := strings.Builder{}
	builder.WriteString("Period: ")
	builder.WriteString(input.Period)
	builder.WriteString("\nData:\n")
	for _, student := range input.Students {
		fmt.Fprintf(&builder, "%s: ¥%.2f, %.1f hours (%s)\n",
			student.Name, student.Total, student.Hours, strings.Join(student.Subjects, ", "))
	}
	return builder.String()
}
