package domain

// EventMatch records whether a single actionable event discussed in an
// article matched the events supplied with the case.
type EventMatch struct {
	Event        string `json:"event"`
	MatchesQuery bool   `json:"matches_query"`
}

// ArticleRecord is a previously screened literature reference. Upstream
// screening supplies the metadata and scoring fields; the evidence resolver
// fills in Content (and, when resolving by PMID, the PMCID recovered from
// the identifier join). A record with no identifier is dropped.
type ArticleRecord struct {
	PMCID         string       `json:"pmcid,omitempty"`
	PMID          string       `json:"pmid,omitempty"`
	Title         string       `json:"title,omitempty"`
	JournalTitle  string       `json:"journal_title,omitempty"`
	JournalSJR    float64      `json:"journal_sjr,omitempty"`
	Year          int          `json:"year,omitempty"`
	PaperType     string       `json:"paper_type,omitempty"`
	TypeOfCancer  string       `json:"type_of_cancer,omitempty"`
	Events        []EventMatch `json:"events,omitempty"`
	DrugResults   []string     `json:"drug_results,omitempty"`
	OverallPoints float64      `json:"overall_points,omitempty"`
	Content       string       `json:"content,omitempty"`
}

// CaseContext carries the clinical framing for one analysis request. It is
// immutable for the duration of the request and never persisted.
type CaseContext struct {
	CaseNotes string   `json:"case_notes"`
	Disease   string   `json:"disease"`
	Events    []string `json:"events"`
}

// Analysis is the generated tumor-board report.
type Analysis struct {
	MarkdownContent string `json:"markdown_content"`
}

// AnalysisRequest is the inbound request body for the analysis endpoint.
type AnalysisRequest struct {
	CaseNotes        string          `json:"case_notes"`
	Disease          string          `json:"disease"`
	Events           []string        `json:"events"`
	AnalyzedArticles []ArticleRecord `json:"analyzed_articles"`
}

// MissingFields returns the names of required fields absent from the
// request, in declaration order.
func (r *AnalysisRequest) MissingFields() []string {
	var missing []string
	if r.CaseNotes == "" {
		missing = append(missing, "case_notes")
	}
	if r.Disease == "" {
		missing = append(missing, "disease")
	}
	if len(r.Events) == 0 {
		missing = append(missing, "events")
	}
	if len(r.AnalyzedArticles) == 0 {
		missing = append(missing, "analyzed_articles")
	}
	return missing
}

// CaseContext extracts the clinical framing from the request.
func (r *AnalysisRequest) CaseContext() CaseContext {
	return CaseContext{
		CaseNotes: r.CaseNotes,
		Disease:   r.Disease,
		Events:    r.Events,
	}
}

// AnalysisResponse is the successful response body for the analysis endpoint.
type AnalysisResponse struct {
	Success  bool      `json:"success"`
	Analysis *Analysis `json:"analysis"`
}
