package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tumorboard-analysis-server/internal/domain"
)

// PMCIDResolver resolves full article text by direct PMCID lookup against
// the article table. Matching is case-sensitive; PMCIDs are
// repository-assigned and arrive in canonical form.
type PMCIDResolver struct {
	db      *sql.DB
	timeout time.Duration
	log     *logrus.Logger
}

// NewPMCIDResolver creates a new PMCID-keyed evidence resolver. A zero
// timeout disables the per-query deadline.
func NewPMCIDResolver(db *sql.DB, timeout time.Duration, logger *logrus.Logger) *PMCIDResolver {
	return &PMCIDResolver{
		db:      db,
		timeout: timeout,
		log:     logger,
	}
}

// Resolve fetches full text for every record carrying a PMCID and merges it
// into a copy of the record. Records without a PMCID are skipped; records
// whose PMCID has no row in the store are dropped and logged.
func (r *PMCIDResolver) Resolve(ctx context.Context, records []domain.ArticleRecord) ([]domain.ArticleRecord, error) {
	var ids []interface{}
	for _, rec := range records {
		if rec.PMCID != "" {
			ids = append(ids, rec.PMCID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	query := fmt.Sprintf(`
		SELECT pmcid, article_text
		FROM pmc_articles
		WHERE pmcid IN (%s)`, placeholders(len(ids)))

	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"pmcid_count": len(ids),
			"error":       err,
		}).Error("Failed to query articles by PMCID")
		return nil, fmt.Errorf("querying articles by pmcid: %w", err)
	}
	defer rows.Close()

	contentByPMCID := make(map[string]string)
	for rows.Next() {
		var pmcid, content string
		if err := rows.Scan(&pmcid, &content); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		contentByPMCID[pmcid] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating article rows: %w", err)
	}

	var resolved []domain.ArticleRecord
	for _, rec := range records {
		if rec.PMCID == "" {
			continue
		}
		content, ok := contentByPMCID[rec.PMCID]
		if !ok {
			r.log.WithField("pmcid", rec.PMCID).Warn("No content found for article")
			continue
		}
		merged := rec
		merged.Content = content
		resolved = append(resolved, merged)
	}

	return resolved, nil
}
