package elsevier

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	searchPath   = "/content/search/scopus"
	abstractPath = "/content/abstract"
	articlePath  = "/content/article"
	authorPath   = "/analytics/scival/author"
	metricsPath  = "/analytics/scival/author/metrics"

	SortCitedBy = "citedby-count"
)

// IDType selects how a document is addressed
type IDType string

const (
	ByEID IDType = "eid"
	ByDOI IDType = "doi"
)

// SearchQuery describes one Scopus search
type SearchQuery struct {
	Query string
	Count int
	Sort  string
}

// Search runs a Scopus search. Placeholder entries that Scopus returns for
// an empty result set are dropped.
func (c *Client) Search(ctx context.Context, q SearchQuery, timeout time.Duration) (*SearchResults, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	if q.Count > 0 {
		params.Set("count", strconv.Itoa(q.Count))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}

	var resp SearchResponse
	if err := c.Get(ctx, searchPath, params, timeout, &resp); err != nil {
		return nil, err
	}

	entries := resp.Results.Entries[:0]
	for _, e := range resp.Results.Entries {
		if e.Error != "" {
			continue
		}
		entries = append(entries, e)
	}
	resp.Results.Entries = entries
	return &resp.Results, nil
}

// Abstract retrieves the abstract record of a document
func (c *Client) Abstract(ctx context.Context, by IDType, id string, timeout time.Duration) (*AbstractCoreData, error) {
	var resp AbstractResponse
	path := fmt.Sprintf("%s/%s/%s", abstractPath, by, id)
	if err := c.Get(ctx, path, nil, timeout, &resp); err != nil {
		return nil, err
	}
	return &resp.Retrieval.CoreData, nil
}

// FullText retrieves the full text of an article. The institution token is
// attached when configured; without it most articles answer 401 or 404.
func (c *Client) FullText(ctx context.Context, by IDType, id string, timeout time.Duration) (string, error) {
	var resp FullTextResponse
	path := fmt.Sprintf("%s/%s/%s", articlePath, by, id)
	if err := c.Get(ctx, path, nil, timeout, &resp, WithInstToken()); err != nil {
		return "", err
	}
	return string(resp.Retrieval.OriginalText), nil
}

// Author retrieves a SciVal author profile
func (c *Client) Author(ctx context.Context, authorID string, timeout time.Duration) (*AuthorProfile, error) {
	var resp AuthorResponse
	path := fmt.Sprintf("%s/%s", authorPath, authorID)
	if err := c.Get(ctx, path, nil, timeout, &resp); err != nil {
		return nil, err
	}
	return &resp.Author, nil
}

// AuthorMetrics retrieves citation and output counts per year for an author
func (c *Client) AuthorMetrics(ctx context.Context, authorID, yearRange string, timeout time.Duration) ([]Metric, error) {
	params := url.Values{}
	params.Set("authors", authorID)
	params.Set("metricTypes", "CitationCount,ScholarlyOutput")
	params.Set("yearRange", yearRange)
	params.Set("byYear", "true")

	var resp MetricsResponse
	if err := c.Get(ctx, metricsPath, params, timeout, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return resp.Results[0].Metrics, nil
}
