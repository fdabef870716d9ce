package domain

import (
	"context"
)

// EvidenceResolver retrieves full article text for a batch of partially
// analyzed records and merges it into each record without discarding the
// fields supplied by upstream screening. Records whose identifier has no
// match in the literature store are omitted from the result; output order
// follows input order. Implementations issue a single batch query per call,
// with no retry.
//
// Two mutually exclusive implementations exist: direct lookup by PMCID and
// a two-table join by PMID. The deployment selects one at configuration
// time; the choice is never made per record.
type EvidenceResolver interface {
	Resolve(ctx context.Context, records []ArticleRecord) ([]ArticleRecord, error)
}

// AnalysisInvoker submits a synthesized prompt to a generative-text
// capability and returns the raw text result. It has no knowledge of the
// prompt's structure.
type AnalysisInvoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}
