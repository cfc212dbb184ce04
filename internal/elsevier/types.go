package elsevier

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Text is a string field that tolerates numbers, booleans, null and nested
// objects in the upstream document. Anything that is not a scalar decodes to "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*t = ""
			return nil
		}
		*t = Text(s)
	case '{', '[', 'n':
		*t = ""
	default:
		*t = Text(data)
	}
	return nil
}

// Or returns t, or def when t is empty.
func (t Text) Or(def string) string {
	if t == "" {
		return def
	}
	return string(t)
}

// Count is an integer the API may send as a number or a numeric string.
// Absent, malformed and negative values decode to 0.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count(parseCount(data))
	return nil
}

func parseCount(data []byte) int {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if math.IsInf(f, 1) {
		return math.MaxInt
	}
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	// saturate instead of wrapping around
	if f >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(f)
}

// Link is the {"@href": ...} object the API uses for URLs
type Link struct {
	Href Text `json:"@href"`
}

// SearchResponse is the envelope of /content/search/scopus
type SearchResponse struct {
	Results SearchResults `json:"search-results"`
}

// SearchResults holds the total hit count and the returned page
type SearchResults struct {
	TotalResults Count   `json:"opensearch:totalResults"`
	Entries      []Entry `json:"entry"`
}

// Entry is one search hit
type Entry struct {
	Title           Text  `json:"dc:title"`
	Creator         Text  `json:"dc:creator"`
	PublicationName Text  `json:"prism:publicationName"`
	CoverDate       Text  `json:"prism:coverDate"`
	CitedByCount    Count `json:"citedby-count"`
	DOI             Text  `json:"prism:doi"`
	EID             Text  `json:"eid"`
	// Error is set on the placeholder entry Scopus returns for an empty result set.
	Error Text `json:"error"`
}

// AbstractResponse is the envelope of /content/abstract/{eid|doi}/{id}
type AbstractResponse struct {
	Retrieval struct {
		CoreData AbstractCoreData `json:"coredata"`
	} `json:"abstracts-retrieval-response"`
}

// AbstractCoreData holds the bibliographic core of an abstract record
type AbstractCoreData struct {
	Title           Text  `json:"dc:title"`
	Description     Text  `json:"dc:description"`
	Creator         Text  `json:"dc:creator"`
	PublicationName Text  `json:"prism:publicationName"`
	CoverDate       Text  `json:"prism:coverDate"`
	DOI             Text  `json:"prism:doi"`
	EID             Text  `json:"eid"`
	CitedByCount    Count `json:"citedby-count"`
}

// AuthorResponse is the envelope of /analytics/scival/author/{id}
type AuthorResponse struct {
	Author AuthorProfile `json:"author"`
}

// AuthorProfile is a SciVal author record
type AuthorProfile struct {
	Name                   Text `json:"name"`
	CurrentInstitutionName Text `json:"currentInstitutionName"`
	Link                   Link `json:"link"`
}

// MetricsResponse is the envelope of /analytics/scival/author/metrics
type MetricsResponse struct {
	Results []struct {
		Metrics []Metric `json:"metrics"`
	} `json:"results"`
}

// Metric is one metric series for an author
type Metric struct {
	MetricType  Text        `json:"metricType"`
	ValueByYear ValueByYear `json:"valueByYear"`
}

// ValueByYear accepts both {"2023": 5} and [{"year": 2023, "value": 5}].
type ValueByYear map[string]float64

func (v *ValueByYear) UnmarshalJSON(data []byte) error {
	out := ValueByYear{}
	data = bytes.TrimSpace(data)

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &asMap); err == nil {
		for year, raw := range asMap {
			if f, ok := parseNumber(raw); ok {
				out[year] = f
			}
		}
		*v = out
		return nil
	}

	var asList []struct {
		Year  json.RawMessage `json:"year"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &asList); err == nil {
		for _, item := range asList {
			year := strings.Trim(strings.TrimSpace(string(item.Year)), `"`)
			if year == "" || year == "null" {
				continue
			}
			f, _ := parseNumber(item.Value)
			out[year] = f
		}
	}
	*v = out
	return nil
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FullTextResponse is the envelope of /content/article/{eid|doi}/{id}
type FullTextResponse struct {
	Retrieval struct {
		OriginalText Text `json:"originalText"`
	} `json:"full-text-retrieval-response"`
}
