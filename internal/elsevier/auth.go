package elsevier

import (
	"net/http"

	"github.com/iafnetworkspa/elsevier-mcp/internal/config"
)

const (
	headerAPIKey    = "X-ELS-APIKey"
	headerInstToken = "X-ELS-Insttoken"
)

// Credentials holds the headers attached to upstream requests
type Credentials struct {
	APIKey    string
	InstToken string
}

// NewCredentials extracts the credentials from the process configuration
func NewCredentials(cfg config.Config) Credentials {
	return Credentials{
		APIKey:    cfg.APIKey,
		InstToken: cfg.InstToken,
	}
}

// Apply sets the API key on req. The institution token is only added when
// withInstToken is true and a token is configured; the return value reports
// whether it was added.
func (c Credentials) Apply(req *http.Request, withInstToken bool) bool {
	req.Header.Set(headerAPIKey, c.APIKey)
	req.Header.Set("Accept", "application/json")

	if withInstToken && c.InstToken != "" {
		req.Header.Set(headerInstToken, c.InstToken)
		return true
	}
	return false
}
