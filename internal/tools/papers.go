package tools

import "github.com/iafnetworkspa/elsevier-mcp/internal/elsevier"

const (
	noTitle       = "No title"
	unknown       = "Unknown"
	noAbstract    = "No abstract"
	relevanceSort = elsevier.SortCitedBy
)

// PaperSummary is the short form of a search hit
type PaperSummary struct {
	Title     string `json:"title"`
	Authors   string `json:"authors"`
	Journal   string `json:"journal"`
	Citations int    `json:"citations"`
	DOI       string `json:"doi"`
}

// SearchPaper is a search hit with its cover date and EID
type SearchPaper struct {
	Title     string `json:"title"`
	Authors   string `json:"authors"`
	Journal   string `json:"journal"`
	Year      string `json:"year"`
	Citations int    `json:"citations"`
	DOI       string `json:"doi"`
	EID       string `json:"eid"`
}

// OpenAccessPaper is a summary flagged as open access
type OpenAccessPaper struct {
	PaperSummary
	OpenAccess bool `json:"open_access"`
}

func summarize(e elsevier.Entry) PaperSummary {
	return PaperSummary{
		Title:     e.Title.Or(noTitle),
		Authors:   e.Creator.Or(unknown),
		Journal:   e.PublicationName.Or(unknown),
		Citations: int(e.CitedByCount),
		DOI:       string(e.DOI),
	}
}

func toSearchPaper(e elsevier.Entry) SearchPaper {
	s := summarize(e)
	return SearchPaper{
		Title:     s.Title,
		Authors:   s.Authors,
		Journal:   s.Journal,
		Year:      string(e.CoverDate),
		Citations: s.Citations,
		DOI:       s.DOI,
		EID:       string(e.EID),
	}
}
