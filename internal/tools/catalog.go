package tools

import (
	"context"
	"time"

	"github.com/iafnetworkspa/elsevier-mcp/internal/config"
	"github.com/iafnetworkspa/elsevier-mcp/internal/elsevier"
)

// API is the subset of the Elsevier client the handlers use
type API interface {
	Search(ctx context.Context, q elsevier.SearchQuery, timeout time.Duration) (*elsevier.SearchResults, error)
	Abstract(ctx context.Context, by elsevier.IDType, id string, timeout time.Duration) (*elsevier.AbstractCoreData, error)
	FullText(ctx context.Context, by elsevier.IDType, id string, timeout time.Duration) (string, error)
	Author(ctx context.Context, authorID string, timeout time.Duration) (*elsevier.AuthorProfile, error)
	AuthorMetrics(ctx context.Context, authorID, yearRange string, timeout time.Duration) ([]elsevier.Metric, error)
}

// Tool names
const (
	SearchPapers           = "search_papers"
	GetPaperAbstract       = "get_paper_abstract"
	GetAuthorInfo          = "get_author_info"
	AnalyzeResearchTrends  = "analyze_research_trends"
	GetInstitutionPapers   = "get_institution_papers"
	SearchOpenAccessPapers = "search_open_access_papers"
)

// Toolset binds the handlers to an API client and the process configuration
type Toolset struct {
	api           API
	searchTimeout time.Duration
	lookupTimeout time.Duration
	hasInstToken  bool
}

// NewToolset creates the handler set
func NewToolset(cfg config.Config, api API) *Toolset {
	searchTimeout := cfg.SearchTimeout
	if searchTimeout <= 0 {
		searchTimeout = config.DefaultSearchTimeout
	}
	lookupTimeout := cfg.LookupTimeout
	if lookupTimeout <= 0 {
		lookupTimeout = config.DefaultLookupTimeout
	}
	return &Toolset{
		api:           api,
		searchTimeout: searchTimeout,
		lookupTimeout: lookupTimeout,
		hasInstToken:  cfg.HasInstToken(),
	}
}

// NewCatalog builds the sealed registry of all bibliographic tools
func NewCatalog(cfg config.Config, api API) *Registry {
	ts := NewToolset(cfg, api)
	r := NewRegistry()

	r.MustRegister(Descriptor{
		Name:        SearchPapers,
		Description: "Search the Scopus database for papers by keyword, author name, field, or publication year. Results are sorted by citation count.",
		InputSchema: objectSchema(map[string]Property{
			"query": stringProp("Search keywords (e.g. 'machine learning', an author name, a field name)"),
			"count": boundedIntProp("Number of papers to return (values above the maximum are capped)", 1, maxSearchCount, defaultSearchCount),
			"year":  stringProp("Publication year (YYYY)"),
		}, "query"),
	}, HandlerFunc(ts.SearchPapers))

	r.MustRegister(Descriptor{
		Name:        GetPaperAbstract,
		Description: "Get the abstract and metadata of a paper by its EID or DOI. Optionally fetches the full text when an institution token is configured.",
		InputSchema: objectSchema(map[string]Property{
			"eid":               stringProp("Elsevier ID (EID) of the paper; preferred over doi when both are given"),
			"doi":               stringProp("Digital Object Identifier (DOI) of the paper"),
			"include_full_text": boolProp("Also retrieve the full text from ScienceDirect (requires an institution token for most articles)"),
		}),
	}, HandlerFunc(ts.GetPaperAbstract))

	r.MustRegister(Descriptor{
		Name:        GetAuthorInfo,
		Description: "Get a researcher profile by Scopus author ID, optionally with yearly citation and output metrics.",
		InputSchema: objectSchema(map[string]Property{
			"author_id":       stringProp("Scopus author ID"),
			"include_metrics": boolProp("Also retrieve CitationCount and ScholarlyOutput by year"),
			"year_range":      {Type: "string", Description: "Year range for metrics (e.g. '2023-2024')", Default: defaultYearRange},
		}, "author_id"),
	}, HandlerFunc(ts.GetAuthorInfo))

	r.MustRegister(Descriptor{
		Name:        AnalyzeResearchTrends,
		Description: "Analyze the yearly number of papers published in a research field and the year-over-year growth rate.",
		InputSchema: objectSchema(map[string]Property{
			"field": stringProp("Research field keywords (e.g. 'artificial intelligence', 'quantum computing')"),
			"years": {
				Type:        "array",
				Description: "Years to analyze (e.g. [2022, 2023, 2024])",
				Items:       &Property{Type: "integer"},
				MaxItems:    intPtr(maxTrendYears),
				Default:     defaultTrendYears(),
			},
		}, "field"),
	}, HandlerFunc(ts.AnalyzeResearchTrends))

	r.MustRegister(Descriptor{
		Name:        GetInstitutionPapers,
		Description: "Get the paper count and the most cited papers of an institution for a given year.",
		InputSchema: objectSchema(map[string]Property{
			"institution": stringProp("Institution name (e.g. 'MIT', 'Stanford University')"),
			"year":        intProp("Publication year", defaultInstitutionYear),
			"count":       boundedIntProp("Number of top papers to return (values above the maximum are capped)", 1, maxInstitutionCount, defaultInstitutionCount),
		}, "institution"),
	}, HandlerFunc(ts.GetInstitutionPapers))

	r.MustRegister(Descriptor{
		Name:        SearchOpenAccessPapers,
		Description: "Search open access papers in a research field, sorted by citation count.",
		InputSchema: objectSchema(map[string]Property{
			"field": stringProp("Research field (e.g. 'machine learning', 'climate change')"),
			"count": boundedIntProp("Number of papers to return (values above the maximum are capped)", 1, maxOpenAccessCount, defaultOpenAccessCount),
			"year":  intProp("Publication year", defaultOpenAccessYear),
		}, "field"),
	}, HandlerFunc(ts.SearchOpenAccessPapers))

	r.Seal()
	return r
}

func intPtr(n int) *int {
	return &n
}
