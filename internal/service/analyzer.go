// Package service implements the analysis pipeline: evidence resolution,
// prompt synthesis, and model invocation, in that order, once per request.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tumorboard-analysis-server/internal/domain"
)

// AnalysisService runs the report-generation pipeline. It holds only
// process-wide client handles; no state survives a request.
type AnalysisService struct {
	resolver domain.EvidenceResolver
	invoker  domain.AnalysisInvoker
	log      *logrus.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(resolver domain.EvidenceResolver, invoker domain.AnalysisInvoker, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{
		resolver: resolver,
		invoker:  invoker,
		log:      logger,
	}
}

// Analyze resolves full text for the supplied article records, synthesizes
// the analysis prompt, and invokes the model. A request with no resolvable
// evidence fails outright: a report that cites nothing is worse than an
// error the caller can act on.
func (s *AnalysisService) Analyze(ctx context.Context, caseCtx domain.CaseContext, records []domain.ArticleRecord) (*domain.Analysis, error) {
	s.log.WithFields(logrus.Fields{
		"disease":       caseCtx.Disease,
		"event_count":   len(caseCtx.Events),
		"article_count": len(records),
	}).Info("Starting final analysis")

	articles, err := s.resolver.Resolve(ctx, records)
	if err != nil {
		s.log.WithError(err).Error("Failed to retrieve articles from literature store")
		return nil, &domain.EvidenceResolutionError{Err: err}
	}
	if len(articles) == 0 {
		s.log.Error("Failed to retrieve any articles from literature store")
		return nil, &domain.EvidenceResolutionError{Err: domain.ErrNoEvidence}
	}

	s.log.WithField("resolved_count", len(articles)).Debug("Articles resolved with full text")

	prompt := BuildPrompt(caseCtx, articles)

	text, err := s.invoker.Invoke(ctx, prompt)
	if err != nil {
		s.log.WithError(err).Error("Failed to generate analysis")
		return nil, &domain.AnalysisInvocationError{Err: err}
	}

	return &domain.Analysis{
		MarkdownContent: text,
	}, nil
}
