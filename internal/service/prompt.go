package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tumorboard-analysis-server/internal/domain"
)

// missingField is rendered in place of any optional article field the
// upstream screening did not supply. Evidence columns in the generated
// report explicitly forbid it; see the instruction block below.
const missingField = "N/A"

// articleRule separates rendered article blocks.
var articleRule = strings.Repeat("=", 80)

// BuildPrompt renders the case context and resolved articles into the
// analysis instruction document. It is a pure function of its inputs:
// identical (case, articles) pairs produce byte-identical prompts.
func BuildPrompt(caseCtx domain.CaseContext, articles []domain.ArticleRecord) string {
	blocks := make([]string, 0, len(articles))
	for _, article := range articles {
		blocks = append(blocks, formatArticle(article))
	}

	return fmt.Sprintf(promptTemplate,
		caseCtx.CaseNotes,
		caseCtx.Disease,
		strings.Join(caseCtx.Events, ", "),
		articleRule,
		strings.Join(blocks, "\n"),
		articleRule,
		caseCtx.Disease,
	)
}

// formatArticle renders one resolved article as a fixed-field text block.
func formatArticle(article domain.ArticleRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nPMCID: %s\n", orMissing(article.PMCID))
	fmt.Fprintf(&b, "Title: %s\n", orMissing(article.Title))
	fmt.Fprintf(&b, "Journal: %s (SJR: %s)\n", orMissing(article.JournalTitle), formatScore(article.JournalSJR))
	fmt.Fprintf(&b, "Year: %s\n", formatYear(article.Year))
	fmt.Fprintf(&b, "Type: %s\n", orMissing(article.PaperType))
	fmt.Fprintf(&b, "Cancer Type: %s\n", orMissing(article.TypeOfCancer))
	fmt.Fprintf(&b, "Events: %s\n", formatEvents(article.Events))
	fmt.Fprintf(&b, "Drug Results: %s\n", formatDrugResults(article.DrugResults))
	fmt.Fprintf(&b, "Points: %s\n", formatScore(article.OverallPoints))
	fmt.Fprintf(&b, "Full Text:\n%s\n", orMissing(article.Content))
	fmt.Fprintf(&b, "%s\n", articleRule)

	return b.String()
}

func orMissing(s string) string {
	if s == "" {
		return missingField
	}
	return s
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatYear(year int) string {
	if year == 0 {
		return missingField
	}
	return strconv.Itoa(year)
}

func formatEvents(events []domain.EventMatch) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		match := "no match"
		if e.MatchesQuery {
			match = "matches"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", e.Event, match))
	}
	return strings.Join(parts, ", ")
}

func formatDrugResults(results []string) string {
	if len(results) == 0 {
		return "None"
	}
	return strings.Join(results, ", ")
}

// promptTemplate is the versioned output-format contract the model must
// follow. Section names, table schemas, and citation rules are load-bearing:
// the frontend renders the returned markdown as-is, and downstream review
// expects every recommendation row to cite at least one supplied PMCID.
const promptTemplate = `You are a pediatric hematologist sitting on a tumor board for patients with complex diseases. Your goal is to find the best treatment for every patient, considering their actionable events (genetic, immune-related, or other).

CASE INFORMATION:
%s

Disease: %s
Actionable Events: %s

ANALYZED ARTICLES:
%s
%s
%s

Based on the clinical input, actionable events, and the analyzed articles above, please provide a comprehensive analysis in markdown format with the following sections:

## Case Analysis: %s

### 1. Case Summary
A brief paragraph summarizing the case.

### 2. Actionable Events Analysis
| Event | Type | Explanation | Targetable | Prognostic Value |
|-------|------|-------------|------------|------------------|
[Fill with event details, one row per event]

Following the table, provide a concise interpretation of the actionable events, focusing on their clinical implications, potential impact on treatment decisions, and overall prognosis. Highlight any synergistic or conflicting interactions between events.

### 3. Treatment Options
| Event | Treatment | Evidence (PMCID) | Evidence Summary | Previous Response | Warnings |
|-------|-----------|------------------|------------------|-------------------|-----------|
[Fill with treatment details, one row per recommendation]

IMPORTANT FOR TREATMENT OPTIONS:
- You MUST include at least one PMCID from the provided articles in the Evidence column for EACH recommendation
- DO NOT use "N/A" in the Evidence column - instead, find the most relevant article(s) from the provided list
- If multiple articles support a recommendation, include all relevant PMCIDs
- If direct evidence is limited but an article suggests the approach, still cite that PMCID and indicate it's a suggestion
- For every treatment recommendation, you MUST trace it back to specific information in at least one of the articles
- Format PMCIDs as clickable links with publication year: [PMCID: PMC12345 (2023)](https://www.ncbi.nlm.nih.gov/pmc/articles/PMC12345/)

After the table, offer a succinct clinical perspective on the recommended treatments. Address the strength of evidence, potential benefits and risks, and how these treatments align with the patient's specific genetic and clinical profile. Discuss any notable drug interactions or sequencing considerations.

### 4. Multi-Target Opportunities
| Treatment Combination | Targeted Events | Evidence (PMCID) | Summary |
|---------------------|-----------------|------------------|----------|
[Fill with combination details, one row per opportunity]

IMPORTANT FOR MULTI-TARGET OPPORTUNITIES:
- You MUST include at least one PMCID in the Evidence column for EACH recommendation
- The definition of evidence is broader here - it includes any article that:
  * Directly studies the combination
  * Suggests the combination might be effective
  * Provides a scientific rationale for the combination
  * Discusses similar combinations in related contexts
- Format PMCIDs as clickable links with publication year: [PMCID: PMC12345 (2023)](https://www.ncbi.nlm.nih.gov/pmc/articles/PMC12345/)
- DO NOT use "N/A" in the Evidence column

Following this table, provide a brief analysis of the multi-target approach. Evaluate the potential synergistic effects, discuss the rationale behind combining therapies, and comment on the anticipated efficacy and safety profile of these combinations in the context of this specific case.

IMPORTANT FORMATTING NOTES:
1. Use proper markdown table syntax with | separators and aligned headers
2. Format PMCID links as clickable links with publication year: [PMCID: PMC12345 (2023)](https://www.ncbi.nlm.nih.gov/pmc/articles/PMC12345/)
3. For multiple items in a cell, use bullet points:
   * First item
   * Second item
4. Keep content concise but informative
5. Ensure table cells are properly aligned
6. Use proper markdown headers (##, ###) for sections

IMPORTANT NOTES:
- Include any warnings about sensitivities, adverse events, or allergies in the Warnings column
- If a treatment was previously used, include the response details in the Previous Response column
- Keep explanations and summaries concise but informative
- Ensure all PMCIDs are formatted as clickable links
- Use bullet points in cells where multiple items need to be listed
- For each summary, prioritize clinically actionable insights. Focus on how the information in each table translates to practical decision-making in patient care. Keep the language concise and directly relevant to the case at hand.
- NEVER use "N/A" in the Evidence (PMCID) columns - always find relevant articles to cite

IMPORTANT: Return the analysis in markdown format with the specified table structure. Do not include any JSON formatting.`
