package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/iafnetworkspa/elsevier-mcp/internal/elsevier"
)

const (
	defaultSearchCount = 10
	maxSearchCount     = 25

	defaultInstitutionCount = 5
	maxInstitutionCount     = 25
	defaultInstitutionYear  = 2024

	defaultOpenAccessCount = 10
	maxOpenAccessCount     = 20
	defaultOpenAccessYear  = 2024
)

type searchPapersArgs struct {
	Query string `mapstructure:"query"`
	Count int    `mapstructure:"count"`
	Year  string `mapstructure:"year"`
}

// SearchPapersResult is the payload of search_papers
type SearchPapersResult struct {
	Success      bool          `json:"success"`
	TotalResults int           `json:"total_results"`
	Papers       []SearchPaper `json:"papers"`
	Query        string        `json:"query"`
}

// SearchPapers searches Scopus by title, abstract and keywords
func (t *Toolset) SearchPapers(ctx context.Context, args Arguments) Outcome {
	a := searchPapersArgs{Count: defaultSearchCount}
	if err := DecodeArguments(args, &a); err != nil {
		return Failure(err)
	}
	query := strings.TrimSpace(a.Query)
	if query == "" {
		return Failuref("query is required")
	}

	searchQuery := fmt.Sprintf("TITLE-ABS-KEY(%s)", query)
	if year := strings.TrimSpace(a.Year); year != "" {
		searchQuery += fmt.Sprintf(" AND PUBYEAR = %s", year)
	}

	results, err := t.api.Search(ctx, elsevier.SearchQuery{
		Query: searchQuery,
		Count: clamp(a.Count, 1, maxSearchCount),
		Sort:  relevanceSort,
	}, t.searchTimeout)
	if err != nil {
		return Failure(err)
	}

	papers := make([]SearchPaper, 0, len(results.Entries))
	for _, e := range results.Entries {
		papers = append(papers, toSearchPaper(e))
	}

	return Success(SearchPapersResult{
		Success:      true,
		TotalResults: int(results.TotalResults),
		Papers:       papers,
		Query:        a.Query,
	})
}

type institutionArgs struct {
	Institution string `mapstructure:"institution"`
	Year        int    `mapstructure:"year"`
	Count       int    `mapstructure:"count"`
}

// InstitutionPapersResult is the payload of get_institution_papers
type InstitutionPapersResult struct {
	Success     bool           `json:"success"`
	Institution string         `json:"institution"`
	Year        int            `json:"year"`
	TotalPapers int            `json:"total_papers"`
	TopPapers   []PaperSummary `json:"top_papers"`
}

// GetInstitutionPapers counts an institution's papers for a year and lists the most cited ones
func (t *Toolset) GetInstitutionPapers(ctx context.Context, args Arguments) Outcome {
	a := institutionArgs{Year: defaultInstitutionYear, Count: defaultInstitutionCount}
	if err := DecodeArguments(args, &a); err != nil {
		return Failure(err)
	}
	institution := strings.TrimSpace(a.Institution)
	if institution == "" {
		return Failuref("institution is required")
	}

	results, err := t.api.Search(ctx, elsevier.SearchQuery{
		Query: fmt.Sprintf("aff(%s) AND PUBYEAR = %d", institution, a.Year),
		Count: clamp(a.Count, 1, maxInstitutionCount),
		Sort:  relevanceSort,
	}, t.searchTimeout)
	if err != nil {
		return Failure(err)
	}

	top := make([]PaperSummary, 0, len(results.Entries))
	for _, e := range results.Entries {
		top = append(top, summarize(e))
	}

	return Success(InstitutionPapersResult{
		Success:     true,
		Institution: institution,
		Year:        a.Year,
		TotalPapers: int(results.TotalResults),
		TopPapers:   top,
	})
}

type openAccessArgs struct {
	Field string `mapstructure:"field"`
	Count int    `mapstructure:"count"`
	Year  int    `mapstructure:"year"`
}

// OpenAccessResult is the payload of search_open_access_papers
type OpenAccessResult struct {
	Success         bool              `json:"success"`
	Field           string            `json:"field"`
	TotalOpenAccess int               `json:"total_open_access"`
	Papers          []OpenAccessPaper `json:"papers"`
}

// SearchOpenAccessPapers searches open access papers in a field
func (t *Toolset) SearchOpenAccessPapers(ctx context.Context, args Arguments) Outcome {
	a := openAccessArgs{Count: defaultOpenAccessCount, Year: defaultOpenAccessYear}
	if err := DecodeArguments(args, &a); err != nil {
		return Failure(err)
	}
	field := strings.TrimSpace(a.Field)
	if field == "" {
		return Failuref("field is required")
	}

	results, err := t.api.Search(ctx, elsevier.SearchQuery{
		Query: fmt.Sprintf("TITLE-ABS-KEY(%s) AND OPENACCESS(1) AND PUBYEAR = %d", field, a.Year),
		Count: clamp(a.Count, 1, maxOpenAccessCount),
		Sort:  relevanceSort,
	}, t.searchTimeout)
	if err != nil {
		return Failure(err)
	}

	papers := make([]OpenAccessPaper, 0, len(results.Entries))
	for _, e := range results.Entries {
		papers = append(papers, OpenAccessPaper{PaperSummary: summarize(e), OpenAccess: true})
	}

	return Success(OpenAccessResult{
		Success:         true,
		Field:           field,
		TotalOpenAccess: int(results.TotalResults),
		Papers:          papers,
	})
}
