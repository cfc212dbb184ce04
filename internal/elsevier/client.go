package elsevier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/iafnetworkspa/elsevier-mcp/internal/config"
	"github.com/rs/zerolog/log"
)

// maxErrorBody caps how much of a failed response body is kept for logging.
const maxErrorBody = 512

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d", e.StatusCode)
}

// Client handles HTTP requests to the Elsevier API
type Client struct {
	creds      Credentials
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Elsevier API client. Timeouts are applied per call.
func NewClient(cfg config.Config) *Client {
	return &Client{
		creds:      NewCredentials(cfg),
		httpClient: cleanhttp.DefaultPooledClient(),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type requestOptions struct {
	instToken bool
}

// RequestOption tweaks a single upstream request
type RequestOption func(*requestOptions)

// WithInstToken attaches the institution token header, if one is configured.
func WithInstToken() RequestOption {
	return func(o *requestOptions) {
		o.instToken = true
	}
}

// Get makes a GET request to path with the given query and decodes the JSON
// body into out. The call is bounded by timeout.
func (c *Client) Get(ctx context.Context, path string, query url.Values, timeout time.Duration, out interface{}, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	log := log.With().
		Str("component", "elsevier_client").
		Str("path", path).
		Logger()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fullURL, err := c.buildURL(path, query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build URL")
		return fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create HTTP request")
		return fmt.Errorf("failed to create request: %w", err)
	}
	withInst := c.creds.Apply(req, o.instToken)

	startedAt := time.Now()
	log.Debug().
		Bool("inst_token", withInst).
		Dur("timeout", timeout).
		Msg("Sending HTTP request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(startedAt)).Msg("HTTP request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status_code", resp.StatusCode).
		Dur("elapsed", time.Since(startedAt)).
		Msg("Received HTTP response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn().
			Int("status_code", resp.StatusCode).
			Str("status", resp.Status).
			Str("response_body", string(bodyBytes)).
			Msg("API returned non-success status")
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Warn().Err(err).Msg("Failed to parse API response")
		return fmt.Errorf("failed to parse API response: %w", err)
	}
	return nil
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	// Identifiers such as DOIs keep their slashes; everything else is escaped
	// by url.URL when rendered.
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}
