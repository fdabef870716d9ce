package repository

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tumorboard-analysis-server/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPMCIDResolver_Resolve_MergesContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	records := []domain.ArticleRecord{
		{
			PMCID:         "PMC1111111",
			Title:         "CAR-T in KMT2A-rearranged leukemia",
			JournalTitle:  "Blood",
			JournalSJR:    5.2,
			Year:          2023,
			PaperType:     "clinical trial",
			TypeOfCancer:  "ALL",
			Events:        []domain.EventMatch{{Event: "KMT2A-rearranged", MatchesQuery: true}},
			DrugResults:   []string{"blinatumomab: CR"},
			OverallPoints: 12.5,
		},
		{
			PMCID: "PMC2222222",
			Title: "Menin inhibitors in infant ALL",
		},
	}

	rows := sqlmock.NewRows([]string{"pmcid", "article_text"}).
		AddRow("PMC1111111", "full text one").
		AddRow("PMC2222222", "full text two")
	mock.ExpectQuery("SELECT pmcid, article_text").
		WithArgs("PMC1111111", "PMC2222222").
		WillReturnRows(rows)

	resolver := NewPMCIDResolver(db, 0, newTestLogger())
	resolved, err := resolver.Resolve(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	// Original fields survive the merge untouched
	assert.Equal(t, "CAR-T in KMT2A-rearranged leukemia", resolved[0].Title)
	assert.Equal(t, "Blood", resolved[0].JournalTitle)
	assert.Equal(t, 5.2, resolved[0].JournalSJR)
	assert.Equal(t, 2023, resolved[0].Year)
	assert.Equal(t, []domain.EventMatch{{Event: "KMT2A-rearranged", MatchesQuery: true}}, resolved[0].Events)
	assert.Equal(t, []string{"blinatumomab: CR"}, resolved[0].DrugResults)
	assert.Equal(t, 12.5, resolved[0].OverallPoints)

	assert.Equal(t, "full text one", resolved[0].Content)
	assert.Equal(t, "full text two", resolved[1].Content)

	// Input records are not mutated
	assert.Empty(t, records[0].Content)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPMCIDResolver_Resolve_SkipsRecordsWithoutIdentifier(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	records := []domain.ArticleRecord{
		{Title: "no identifier"},
		{PMCID: "PMC3333333"},
	}

	rows := sqlmock.NewRows([]string{"pmcid", "article_text"}).
		AddRow("PMC3333333", "body")
	mock.ExpectQuery("SELECT pmcid, article_text").
		WithArgs("PMC3333333").
		WillReturnRows(rows)

	resolver := NewPMCIDResolver(db, 0, newTestLogger())
	resolved, err := resolver.Resolve(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "PMC3333333", resolved[0].PMCID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPMCIDResolver_Resolve_DropsUnmatchedKeepsOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	records := []domain.ArticleRecord{
		{PMCID: "PMC1111111"},
		{PMCID: "PMC4040404"}, // not in store
		{PMCID: "PMC2222222"},
	}

	rows := sqlmock.NewRows([]string{"pmcid", "article_text"}).
		AddRow("PMC2222222", "two").
		AddRow("PMC1111111", "one")
	mock.ExpectQuery("SELECT pmcid, article_text").
		WithArgs("PMC1111111", "PMC4040404", "PMC2222222").
		WillReturnRows(rows)

	resolver := NewPMCIDResolver(db, 0, newTestLogger())
	resolved, err := resolver.Resolve(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	// Output preserves input order, not row order
	assert.Equal(t, "PMC1111111", resolved[0].PMCID)
	assert.Equal(t, "PMC2222222", resolved[1].PMCID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPMCIDResolver_Resolve_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pmcid, article_text").
		WillReturnError(errors.New("connection refused"))

	resolver := NewPMCIDResolver(db, 0, newTestLogger())
	resolved, err := resolver.Resolve(context.Background(), []domain.ArticleRecord{{PMCID: "PMC1111111"}})
	require.Error(t, err)
	assert.Nil(t, resolved)
}

func TestPMCIDResolver_Resolve_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pmcid, article_text").
		WithArgs("PMC1111111").
		WillReturnRows(sqlmock.NewRows([]string{"pmcid", "article_text"}))

	resolver := NewPMCIDResolver(db, 0, newTestLogger())
	resolved, err := resolver.Resolve(context.Background(), []domain.ArticleRecord{{PMCID: "PMC1111111"}})
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestPMCIDResolver_Resolve_EmptyBatch(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	resolver := NewPMCIDResolver(db, 0, newTestLogger())
	resolved, err := resolver.Resolve(context.Background(), []domain.ArticleRecord{{Title: "no id"}})
	require.NoError(t, err)
	assert.Empty(t, resolved)
}
