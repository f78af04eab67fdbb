package client

import (
	"fmt"
	"strings"

	"github.com/tingly-dev/streambox/internal/constant"
	"github.com/tingly-dev/streambox/internal/protocol"
)

// Provider describes one upstream text-generation service.
type Provider struct {
	// Name is a human-readable label used in logs
	Name string `json:"name"`

	// APIBase is the service base URL, e.g. https://api.openai.com/v1
	APIBase string `json:"api_base"`

	// Token authenticates requests; header placement depends on APIStyle
	Token string `json:"token"`

	// APIStyle selects the wire format the provider speaks
	APIStyle protocol.APIStyle `json:"api_style"`

	// ProxyURL optionally routes requests through an HTTP or SOCKS5 proxy
	ProxyURL string `json:"proxy_url,omitempty"`

	// Timeout is the whole-request timeout in seconds; zero means the default
	Timeout int64 `json:"timeout,omitempty"`
}

// Validate checks the provider is usable for streaming requests.
func (p *Provider) Validate() error {
	if p.APIBase == "" {
		return fmt.Errorf("provider %s: api base is required", p.Name)
	}
	if !p.APIStyle.Valid() {
		return fmt.Errorf("provider %s: unknown api style %q", p.Name, p.APIStyle)
	}
	return nil
}

// TimeoutSeconds returns the configured timeout or the default.
func (p *Provider) TimeoutSeconds() int64 {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return constant.DefaultRequestTimeout
}

// endpointURL builds the per-style request URL.
func (p *Provider) endpointURL(model string) string {
	base := strings.TrimSuffix(p.APIBase, "/")
	switch p.APIStyle {
	case protocol.APIStyleAnthropic:
		// Anthropic-style bases sometimes omit the version segment.
		parts := strings.Split(base, "/")
		if last := parts[len(parts)-1]; !strings.HasPrefix(last, "v") {
			base += "/v1"
		}
		return base + "/messages"
	case protocol.APIStyleGoogle:
		return fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", base, model)
	default:
		return base + "/chat/completions"
	}
}
