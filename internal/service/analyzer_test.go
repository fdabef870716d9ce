package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tumorboard-analysis-server/internal/domain"
)

type fakeResolver struct {
	records []domain.ArticleRecord
	err     error
	calls   int
}

func (f *fakeResolver) Resolve(ctx context.Context, records []domain.ArticleRecord) ([]domain.ArticleRecord, error) {
	f.calls++
	return f.records, f.err
}

type fakeInvoker struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

func newAnalyzerLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAnalysisService_Analyze_Success(t *testing.T) {
	resolver := &fakeResolver{
		records: []domain.ArticleRecord{
			{PMCID: "PMC1111111", Content: "full text"},
		},
	}
	invoker := &fakeInvoker{response: "## Case Analysis: ALL\n\nreport body"}

	svc := NewAnalysisService(resolver, invoker, newAnalyzerLogger())
	analysis, err := svc.Analyze(context.Background(), testCaseContext(), []domain.ArticleRecord{{PMCID: "PMC1111111"}})
	require.NoError(t, err)
	require.NotNil(t, analysis)

	assert.Equal(t, "## Case Analysis: ALL\n\nreport body", analysis.MarkdownContent)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 1, invoker.calls)

	// The invoker received the synthesized prompt, not the raw input
	assert.Contains(t, invoker.lastPrompt, "PMCID: PMC1111111")
	assert.Contains(t, invoker.lastPrompt, "## Case Analysis: ALL")
}

func TestAnalysisService_Analyze_ResolverError(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("store unavailable")}
	invoker := &fakeInvoker{}

	svc := NewAnalysisService(resolver, invoker, newAnalyzerLogger())
	analysis, err := svc.Analyze(context.Background(), testCaseContext(), []domain.ArticleRecord{{PMCID: "PMC1111111"}})
	require.Error(t, err)
	assert.Nil(t, analysis)

	var resErr *domain.EvidenceResolutionError
	require.ErrorAs(t, err, &resErr)

	// Synthesis and invocation are never reached
	assert.Equal(t, 0, invoker.calls)
}

func TestAnalysisService_Analyze_NoArticlesResolved(t *testing.T) {
	resolver := &fakeResolver{records: nil}
	invoker := &fakeInvoker{}

	svc := NewAnalysisService(resolver, invoker, newAnalyzerLogger())
	_, err := svc.Analyze(context.Background(), testCaseContext(), []domain.ArticleRecord{{PMCID: "PMC4040404"}})
	require.Error(t, err)

	var resErr *domain.EvidenceResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.ErrorIs(t, err, domain.ErrNoEvidence)
	assert.Equal(t, 0, invoker.calls)
}

func TestAnalysisService_Analyze_InvokerError(t *testing.T) {
	resolver := &fakeResolver{
		records: []domain.ArticleRecord{{PMCID: "PMC1111111", Content: "full text"}},
	}
	invoker := &fakeInvoker{err: errors.New("model quota exceeded")}

	svc := NewAnalysisService(resolver, invoker, newAnalyzerLogger())
	analysis, err := svc.Analyze(context.Background(), testCaseContext(), []domain.ArticleRecord{{PMCID: "PMC1111111"}})
	require.Error(t, err)
	assert.Nil(t, analysis)

	var invErr *domain.AnalysisInvocationError
	require.ErrorAs(t, err, &invErr)

	// Evidence was resolved before the invocation failed
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 1, invoker.calls)
}
