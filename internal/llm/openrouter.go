package llm

import (
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/util"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterReferer = "https://github.com/ppiankov/syllogix"
	openRouterTitle   = "Syllogix"
)

// NewOpenRouterProvider creates an OpenAI-compatible provider pointed at
// OpenRouter, with its attribution headers on every request
func NewOpenRouterProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidConfig, "OpenRouter API key is required"),
			"set OPENROUTER_API_KEY or llm.api_key",
		)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = firstNonEmpty(config.BaseURL, openRouterBaseURL)
	clientConfig.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base: util.NewTransport(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			headers: map[string]string{
				"HTTP-Referer": openRouterReferer,
				"X-Title":      openRouterTitle,
			},
		},
	}

	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(clientConfig),
		config:       config,
		name:         "openrouter",
		defaultModel: "moonshotai/kimi-k2.5",
	}, nil
}

// headerTransport adds fixed headers without mutating the caller's request
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}
