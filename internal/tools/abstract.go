package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/iafnetworkspa/elsevier-mcp/internal/elsevier"
	"github.com/rs/zerolog/log"
)

type abstractArgs struct {
	EID             string `mapstructure:"eid"`
	DOI             string `mapstructure:"doi"`
	IncludeFullText bool   `mapstructure:"include_full_text"`
}

// PaperDetail is the abstract record of one paper
type PaperDetail struct {
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Authors   string `json:"authors"`
	Journal   string `json:"journal"`
	Year      string `json:"year"`
	DOI       string `json:"doi"`
	EID       string `json:"eid"`
	Citations int    `json:"citations"`
}

// FullTextInfo reports the outcome of the optional full-text retrieval
type FullTextInfo struct {
	Available bool   `json:"available"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AbstractResult is the payload of get_paper_abstract
type AbstractResult struct {
	Success  bool          `json:"success"`
	Paper    PaperDetail   `json:"paper"`
	FullText *FullTextInfo `json:"full_text,omitempty"`
}

// GetPaperAbstract retrieves a paper's abstract by EID (preferred) or DOI
func (t *Toolset) GetPaperAbstract(ctx context.Context, args Arguments) Outcome {
	var a abstractArgs
	if err := DecodeArguments(args, &a); err != nil {
		return Failure(err)
	}

	by, id := elsevier.ByEID, strings.TrimSpace(a.EID)
	if id == "" {
		by, id = elsevier.ByDOI, strings.TrimSpace(a.DOI)
	}
	if id == "" {
		return Failuref("eid or doi is required")
	}

	core, err := t.api.Abstract(ctx, by, id, t.lookupTimeout)
	if err != nil {
		return Failure(err)
	}

	result := AbstractResult{
		Success: true,
		Paper: PaperDetail{
			Title:     core.Title.Or(noTitle),
			Abstract:  core.Description.Or(noAbstract),
			Authors:   core.Creator.Or(unknown),
			Journal:   core.PublicationName.Or(unknown),
			Year:      string(core.CoverDate),
			DOI:       string(core.DOI),
			EID:       string(core.EID),
			Citations: int(core.CitedByCount),
		},
	}

	if a.IncludeFullText {
		result.FullText = t.fullText(ctx, by, id)
	}
	return Success(result)
}

// fullText is best effort: a failure is reported inside the payload and
// never fails the abstract lookup.
func (t *Toolset) fullText(ctx context.Context, by elsevier.IDType, id string) *FullTextInfo {
	text, err := t.api.FullText(ctx, by, id, t.lookupTimeout)
	if err == nil {
		return &FullTextInfo{Available: true, Text: text}
	}

	log.Debug().Err(err).Str("id", id).Msg("Full text not available")
	msg := err.Error()
	var statusErr *elsevier.StatusError
	if errors.As(err, &statusErr) && !t.hasInstToken {
		msg += " (no institution token configured)"
	}
	return &FullTextInfo{Available: false, Error: msg}
}
