package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/syllogix/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the raw model text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a single completion
type CompletionRequest struct {
	// System is the system instruction (empty uses DefaultSystemPrompt)
	System string

	// Prompt is the user prompt
	Prompt string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length (0 uses the configured value)
	MaxTokens int

	// Temperature overrides the configured temperature when non-nil
	Temperature *float64

	// JSONMode asks the provider for a bare JSON object where supported
	JSONMode bool
}

// CompletionResponse contains the provider's output
type CompletionResponse struct {
	// Text is the generated text, trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// DefaultSystemPrompt keeps every provider on structured, premise-shaped output
const DefaultSystemPrompt = "You convert questions and evidence into categorical propositions for syllogistic reasoning. " +
	"Respond with a single JSON object matching the requested shape and nothing else."

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "openrouter", "anthropic", "google", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxRetries is the number of retries after the first attempt
	MaxRetries int

	// RetryBackoff is the base delay in seconds, doubled per attempt
	RetryBackoff float64

	// Temperature for generation
	Temperature float64

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return ConfigFromModel(model.DefaultConfig().LLM)
}

// Enabled reports whether a provider is configured
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Provider) != ""
}

// Validate returns every configuration problem found; empty means valid.
// A disabled config is always valid.
func (c Config) Validate() []string {
	if !c.Enabled() {
		return nil
	}

	var problems []string
	provider := normalizeProvider(c.Provider)
	if provider != "ollama" && c.APIKey == "" {
		problems = append(problems, "API key is required")
	}
	if c.Timeout <= 0 {
		problems = append(problems, "Timeout must be positive")
	}
	if c.MaxRetries < 0 {
		problems = append(problems, "Max retries must be non-negative")
	}
	if c.RetryBackoff < 0 {
		problems = append(problems, "Retry backoff must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("Temperature must be between 0 and 2 (got %.2f)", c.Temperature))
	}
	if c.MaxTokens <= 0 {
		problems = append(problems, "Max tokens must be positive")
	}
	return problems
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:     modelConfig.Provider,
		Model:        modelConfig.Model,
		APIKey:       modelConfig.APIKey,
		BaseURL:      modelConfig.BaseURL,
		Timeout:      modelConfig.Timeout,
		MaxRetries:   modelConfig.MaxRetries,
		RetryBackoff: modelConfig.RetryBackoff,
		Temperature:  modelConfig.Temperature,
		MaxTokens:    modelConfig.MaxTokens,
		HTTPProxy:    modelConfig.HTTPProxy,
		HTTPSProxy:   modelConfig.HTTPSProxy,
		NoProxy:      modelConfig.NoProxy,
	}
}

// WithEnvDefaults fills an empty API key (or Ollama base URL) from the
// provider's conventional environment variable
func (c Config) WithEnvDefaults() Config {
	switch normalizeProvider(c.Provider) {
	case "openai":
		c.APIKey = firstNonEmpty(c.APIKey, os.Getenv("OPENAI_API_KEY"))
	case "openrouter":
		c.APIKey = firstNonEmpty(c.APIKey, os.Getenv("OPENROUTER_API_KEY"))
	case "anthropic":
		c.APIKey = firstNonEmpty(c.APIKey, os.Getenv("ANTHROPIC_API_KEY"))
	case "google":
		c.APIKey = firstNonEmpty(c.APIKey, os.Getenv("GOOGLE_API_KEY"))
	case "ollama":
		c.BaseURL = firstNonEmpty(c.BaseURL, os.Getenv("OLLAMA_BASE_URL"))
	}
	return c
}

// resolveModel picks the request override, then the config value, then the fallback
func (c Config) resolveModel(req CompletionRequest, fallback string) string {
	return firstNonEmpty(req.Model, c.Model, fallback)
}

func (c Config) resolveMaxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1000
}

func (c Config) resolveTemperature(req CompletionRequest) float64 {
	if req.Temperature != nil {
		return *req.Temperature
	}
	return c.Temperature
}

func systemPrompt(req CompletionRequest) string {
	return firstNonEmpty(req.System, DefaultSystemPrompt)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
