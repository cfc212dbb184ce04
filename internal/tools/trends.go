package tools

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iafnetworkspa/elsevier-mcp/internal/elsevier"
	"github.com/rs/zerolog/log"
)

const maxTrendYears = 20

func defaultTrendYears() []int {
	return []int{2022, 2023, 2024}
}

type trendArgs struct {
	Field string `mapstructure:"field"`
	Years []int  `mapstructure:"years"`
}

// TrendResult is the payload of analyze_research_trends
type TrendResult struct {
	Success      bool               `json:"success"`
	Field        string             `json:"field"`
	YearlyPapers map[string]int     `json:"yearly_papers"`
	GrowthRates  map[string]float64 `json:"growth_rates"`
	TotalPapers  int                `json:"total_papers"`
	FailedYears  []int              `json:"failed_years,omitempty"`
}

// trendAccumulator collects per-year totals. A year whose query failed is
// recorded as skipped and left out of every aggregate.
type trendAccumulator struct {
	counts  map[int]int
	skipped []int
}

func newTrendAccumulator() *trendAccumulator {
	return &trendAccumulator{counts: make(map[int]int)}
}

func (a *trendAccumulator) record(year, total int) {
	a.counts[year] = total
}

func (a *trendAccumulator) skip(year int) {
	a.skipped = append(a.skipped, year)
}

func (a *trendAccumulator) years() []int {
	years := make([]int, 0, len(a.counts))
	for y := range a.counts {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (a *trendAccumulator) yearly() map[string]int {
	out := make(map[string]int, len(a.counts))
	for y, n := range a.counts {
		out[strconv.Itoa(y)] = n
	}
	return out
}

// growthRates compares each succeeded year with the previous succeeded year.
// Pairs whose earlier year has no papers are left out.
func (a *trendAccumulator) growthRates() map[string]float64 {
	out := make(map[string]float64)
	years := a.years()
	for i := 1; i < len(years); i++ {
		prev, cur := years[i-1], years[i]
		if a.counts[prev] <= 0 {
			continue
		}
		rate := float64(a.counts[cur]-a.counts[prev]) / float64(a.counts[prev]) * 100
		out[fmt.Sprintf("%d-%d", prev, cur)] = math.Round(rate*100) / 100
	}
	return out
}

func (a *trendAccumulator) total() int {
	sum := 0
	for _, n := range a.counts {
		sum += n
	}
	return sum
}

// normalizeYears de-duplicates and sorts the requested years and caps how
// many are queried.
func normalizeYears(years []int) []int {
	if len(years) == 0 {
		return defaultTrendYears()
	}
	seen := make(map[int]bool, len(years))
	out := make([]int, 0, len(years))
	for _, y := range years {
		if seen[y] {
			continue
		}
		seen[y] = true
		out = append(out, y)
	}
	sort.Ints(out)
	if len(out) > maxTrendYears {
		out = out[len(out)-maxTrendYears:]
	}
	return out
}

// AnalyzeResearchTrends counts a field's papers per year, one query per year
func (t *Toolset) AnalyzeResearchTrends(ctx context.Context, args Arguments) Outcome {
	var a trendArgs
	if err := DecodeArguments(args, &a); err != nil {
		return Failure(err)
	}
	field := strings.TrimSpace(a.Field)
	if field == "" {
		return Failuref("field is required")
	}

	acc := newTrendAccumulator()
	for _, year := range normalizeYears(a.Years) {
		results, err := t.api.Search(ctx, elsevier.SearchQuery{
			Query: fmt.Sprintf("TITLE-ABS-KEY(%s) AND PUBYEAR = %d", field, year),
			Count: 1,
		}, t.lookupTimeout)
		if err != nil {
			log.Warn().Err(err).Str("field", field).Int("year", year).Msg("Skipping year in trend analysis")
			acc.skip(year)
			continue
		}
		acc.record(year, int(results.TotalResults))
	}

	return Success(TrendResult{
		Success:      true,
		Field:        field,
		YearlyPapers: acc.yearly(),
		GrowthRates:  acc.growthRates(),
		TotalPapers:  acc.total(),
		FailedYears:  acc.skipped,
	})
}
