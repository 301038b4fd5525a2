package llm

import (
	"strings"

	"github.com/ppiankov/syllogix/internal/errors"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name returns (nil, nil): the LLM is disabled.
func NewProvider(config Config) (Provider, error) {
	switch normalizeProvider(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "openrouter":
		return NewOpenRouterProvider(config)

	case "anthropic":
		return NewAnthropicProvider(config)

	case "google":
		return NewGoogleProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "unknown LLM provider: %s", config.Provider),
			"supported: "+strings.Join(SupportedProviders(), ", "),
		)
	}
}

// SupportedProviders lists canonical provider names
func SupportedProviders() []string {
	return []string{"openai", "openrouter", "anthropic", "google", "ollama"}
}

// SupportedModels returns the curated model list for a provider
func SupportedModels(provider string) []string {
	switch normalizeProvider(provider) {
	case "openai":
		return []string{"gpt-5.2", "gpt-5-mini", "gpt-4o-mini"}
	case "anthropic":
		return []string{"claude-sonnet-4-6", "claude-haiku-4-5"}
	case "google":
		return []string{"gemini-3-flash-preview", "gemini-3.1-pro-preview"}
	case "openrouter":
		return []string{"moonshotai/kimi-k2.5", "z-ai/glm-5"}
	case "ollama":
		return []string{"llama3.1:8b", "mistral", "qwen2.5:7b"}
	}
	return nil
}

func normalizeProvider(name string) string {
	switch p := strings.ToLower(strings.TrimSpace(name)); p {
	case "claude":
		return "anthropic"
	case "gemini":
		return "google"
	default:
		return p
	}
}
