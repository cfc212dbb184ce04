package tools

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultYearRange = "2023-2024"

type authorArgs struct {
	AuthorID       string `mapstructure:"author_id"`
	IncludeMetrics bool   `mapstructure:"include_metrics"`
	YearRange      string `mapstructure:"year_range"`
}

// AuthorInfo is a researcher profile
type AuthorInfo struct {
	AuthorID           string `json:"author_id"`
	Name               string `json:"name"`
	CurrentInstitution string `json:"current_institution"`
	ScopusURL          string `json:"scopus_url"`
}

// AuthorMetric is one yearly metric series
type AuthorMetric struct {
	MetricType string             `json:"metric_type"`
	ByYear     map[string]float64 `json:"by_year"`
}

// AuthorResult is the payload of get_author_info
type AuthorResult struct {
	Success      bool           `json:"success"`
	Author       AuthorInfo     `json:"author"`
	Metrics      []AuthorMetric `json:"metrics,omitempty"`
	MetricsError string         `json:"metrics_error,omitempty"`
}

// GetAuthorInfo retrieves an author profile and, on request, yearly metrics
func (t *Toolset) GetAuthorInfo(ctx context.Context, args Arguments) Outcome {
	a := authorArgs{YearRange: defaultYearRange}
	if err := DecodeArguments(args, &a); err != nil {
		return Failure(err)
	}
	authorID := strings.TrimSpace(a.AuthorID)
	if authorID == "" {
		return Failuref("author_id is required")
	}

	profile, err := t.api.Author(ctx, authorID, t.lookupTimeout)
	if err != nil {
		return Failure(err)
	}

	result := AuthorResult{
		Success: true,
		Author: AuthorInfo{
			AuthorID:           authorID,
			Name:               profile.Name.Or(unknown),
			CurrentInstitution: profile.CurrentInstitutionName.Or(unknown),
			ScopusURL:          string(profile.Link.Href),
		},
	}

	if a.IncludeMetrics {
		yearRange := strings.TrimSpace(a.YearRange)
		if yearRange == "" {
			yearRange = defaultYearRange
		}
		metrics, err := t.api.AuthorMetrics(ctx, authorID, yearRange, t.lookupTimeout)
		if err != nil {
			log.Debug().Err(err).Str("author_id", authorID).Msg("Author metrics not available")
			result.MetricsError = err.Error()
		}
		for _, m := range metrics {
			byYear := map[string]float64(m.ValueByYear)
			if byYear == nil {
				byYear = map[string]float64{}
			}
			result.Metrics = append(result.Metrics, AuthorMetric{
				MetricType: m.MetricType.Or(unknown),
				ByYear:     byYear,
			})
		}
	}
	return Success(result)
}
