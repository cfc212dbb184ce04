package tools

import (
	"context"
	"time"

	"github.com/iafnetworkspa/elsevier-mcp/internal/config"
	"github.com/iafnetworkspa/elsevier-mcp/internal/elsevier"
)

type fakeAPI struct {
	searchFn   func(q elsevier.SearchQuery) (*elsevier.SearchResults, error)
	abstractFn func(by elsevier.IDType, id string) (*elsevier.AbstractCoreData, error)
	fullTextFn func(by elsevier.IDType, id string) (string, error)
	authorFn   func(id string) (*elsevier.AuthorProfile, error)
	metricsFn  func(id, yearRange string) ([]elsevier.Metric, error)

	queries  []elsevier.SearchQuery
	timeouts []time.Duration
}

func (f *fakeAPI) Search(ctx context.Context, q elsevier.SearchQuery, timeout time.Duration) (*elsevier.SearchResults, error) {
	f.queries = append(f.queries, q)
	f.timeouts = append(f.timeouts, timeout)
	return f.searchFn(q)
}

func (f *fakeAPI) Abstract(ctx context.Context, by elsevier.IDType, id string, timeout time.Duration) (*elsevier.AbstractCoreData, error) {
	f.timeouts = append(f.timeouts, timeout)
	return f.abstractFn(by, id)
}

func (f *fakeAPI) FullText(ctx context.Context, by elsevier.IDType, id string, timeout time.Duration) (string, error) {
	return f.fullTextFn(by, id)
}

func (f *fakeAPI) Author(ctx context.Context, authorID string, timeout time.Duration) (*elsevier.AuthorProfile, error) {
	return f.authorFn(authorID)
}

func (f *fakeAPI) AuthorMetrics(ctx context.Context, authorID, yearRange string, timeout time.Duration) ([]elsevier.Metric, error) {
	return f.metricsFn(authorID, yearRange)
}

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.APIKey = "test-api-key"
	return cfg
}
