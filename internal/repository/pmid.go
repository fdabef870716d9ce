package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tumorboard-analysis-server/internal/domain"
)

// PMIDResolver resolves full article text by PMID, joining the identifier
// link table against the article table to recover each record's PMCID.
// PMIDs are uppercased on both sides of the match before comparison.
type PMIDResolver struct {
	db      *sql.DB
	timeout time.Duration
	log     *logrus.Logger
}

// NewPMIDResolver creates a new PMID-keyed evidence resolver. A zero
// timeout disables the per-query deadline.
func NewPMIDResolver(db *sql.DB, timeout time.Duration, logger *logrus.Logger) *PMIDResolver {
	return &PMIDResolver{
		db:      db,
		timeout: timeout,
		log:     logger,
	}
}

type linkedArticle struct {
	pmcid   string
	content string
}

// Resolve fetches full text for every record carrying a PMID and merges the
// content plus the joined PMCID into a copy of the record. Records without
// a PMID are skipped; records whose PMID has no link row are dropped and
// logged.
func (r *PMIDResolver) Resolve(ctx context.Context, records []domain.ArticleRecord) ([]domain.ArticleRecord, error) {
	var ids []interface{}
	for _, rec := range records {
		if rec.PMID != "" {
			ids = append(ids, strings.ToUpper(rec.PMID))
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
		SELECT UPPER(l.pmid), l.pmcid, a.article_text
		FROM pmid_pmcid_links l
		JOIN pmc_articles a ON a.pmcid = l.pmcid
		WHERE UPPER(l.pmid) IN (%s)`, placeholders(len(ids)))

	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"pmid_count": len(ids),
			"error":      err,
		}).Error("Failed to query articles by PMID")
		return nil, fmt.Errorf("querying articles by pmid: %w", err)
	}
	defer rows.Close()

	articleByPMID := make(map[string]linkedArticle)
	for rows.Next() {
		var pmid string
		var art linkedArticle
		if err := rows.Scan(&pmid, &art.pmcid, &art.content); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		articleByPMID[pmid] = art
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating article rows: %w", err)
	}

	var resolved []domain.ArticleRecord
	for _, rec := range records {
		if rec.PMID == "" {
			continue
		}
		art, ok := articleByPMID[strings.ToUpper(rec.PMID)]
		if !ok {
			r.log.WithField("pmid", rec.PMID).Warn("No content found for article")
			continue
		}
		merged := rec
		merged.PMCID = art.pmcid
		merged.Content = art.content
		resolved = append(resolved, merged)
	}

	return resolved, nil
}
