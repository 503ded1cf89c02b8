package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elmtree/tuition-api/internal/models"
	"github.com/elmtree/tuition-api/pkg/ai"
)

type summarizerStub struct {
	message     string
	analysis    string
	err         error
	lastMessage ai.ParentMessageInput
	lastInput   ai.AnalysisInput
}

func (s *summarizerStub) ParentMessage(ctx context.Context, input ai.ParentMessageInput) (string, error) {
	s.lastMessage = input
	return s.message, s.err
}

func (s *summarizerStub) AnalyzeFinancials(ctx context.Context, input ai.AnalysisInput) (string, error) {
	s.lastInput = input
	return s.analysis, s.err
}

func newSummaryFixture(summarizer ai.Summarizer) (*recordRepoStub, SummaryService) {
	_, records, settlements := newSettlementFixture(nil)
	return records, NewSummaryService(settlements, summarizer, testLogger())
}

func TestParentMessagePassesSettlementToSummarizer(t *testing.T) {
	stub := &summarizerStub{message: "尊敬的家长，您好。"}
	records, svc := newSummaryFixture(stub)
	storeRecord(records, studentIDA, models.SubjectMath, "2024-03-04", 2, models.RecordStatusPresent, 0)

	resp, err := svc.ParentMessage(context.Background(), studentIDA, 2024, time.March, "")
	require.NoError(t, err)
	require.Equal(t, "尊敬的家长，您好。", resp.Text)

	require.Equal(t, "Liu Aili", stub.lastMessage.StudentName)
	require.Equal(t, "2024-03", stub.lastMessage.Period)
	require.Equal(t, float64(170), stub.lastMessage.TotalAmount)
	require.Len(t, stub.lastMessage.Lines, 1)
	require.Equal(t, string(models.SubjectMath), stub.lastMessage.Lines[0].Subject)
}

func TestParentMessageFailureYieldsPlaceholder(t *testing.T) {
	stub := &summarizerStub{err: errors.New("upstream unavailable")}
	records, svc := newSummaryFixture(stub)
	storeRecord(records, studentIDA, models.SubjectMath, "2024-03-04", 2, models.RecordStatusPresent, 0)

	resp, err := svc.ParentMessage(context.Background(), studentIDA, 2024, time.March, "")
	require.NoError(t, err)
	require.Equal(t, parentMessageUnavailable, resp.Text)
}

func TestParentMessageWithoutSummarizer(t *testing.T) {
	_, svc := newSummaryFixture(nil)

	resp, err := svc.ParentMessage(context.Background(), studentIDA, 2024, time.March, "")
	require.NoError(t, err)
	require.Equal(t, parentMessageUnavailable, resp.Text)
}

func TestParentMessageUnknownStudentIsAnError(t *testing.T) {
	stub := &summarizerStub{message: "ok"}
	_, svc := newSummaryFixture(stub)

	_, err := svc.ParentMessage(context.Background(), "cccccccc-cccc-4ccc-8ccc-cccccccccccc", 2024, time.March, "")
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestAnalyzeMonthFailureYieldsPlaceholder(t *testing.T) {
	stub := &summarizerStub{err: errors.New("upstream unavailable")}
	records, svc := newSummaryFixture(stub)
	storeRecord(records, studentIDA, models.SubjectMath, "2024-03-04", 2, models.RecordStatusPresent, 0)

	resp, err := svc.AnalyzeMonth(context.Background(), 2024, time.March, "")
	require.NoError(t, err)
	require.Equal(t, analysisUnavailable, resp.Text)
}

func TestAnalyzeMonthPassesStudentsToSummarizer(t *testing.T) {
	stub := &summarizerStub{analysis: "本月营收稳定。"}
	records, svc := newSummaryFixture(stub)
	storeRecord(records, studentIDA, models.SubjectMath, "2024-03-04", 2, models.RecordStatusPresent, 0)
	storeRecord(records, studentIDB, models.SubjectEnglish, "2024-03-05", 1, models.RecordStatusPresent, 0)

	resp, err := svc.AnalyzeMonth(context.Background(), 2024, time.March, "")
	require.NoError(t, err)
	require.Equal(t, "本月营收稳定。", resp.Text)

	require.Equal(t, "2024-03", stub.lastInput.Period)
	require.Len(t, stub.lastInput.Students, 2)
}
