package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/syllogix/internal/errors"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{Provider: "openai", APIKey: "k", Timeout: 30, MaxRetries: 3, Temperature: 0.7, MaxTokens: 4000}
	assert.Empty(t, valid.Validate())

	assert.Empty(t, Config{}.Validate(), "disabled config is valid")

	ollama := valid
	ollama.Provider = "ollama"
	ollama.APIKey = ""
	assert.Empty(t, ollama.Validate(), "ollama needs no key")

	bad := Config{Provider: "anthropic", Timeout: 0, MaxRetries: -1, Temperature: 2.5, MaxTokens: 0}
	problems := bad.Validate()
	assert.Contains(t, problems, "API key is required")
	assert.Contains(t, problems, "Timeout must be positive")
	assert.Contains(t, problems, "Max retries must be non-negative")
	assert.Contains(t, problems, "Max tokens must be positive")
	assert.Len(t, problems, 5)
}

func TestDefaultConfig_MatchesModelDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled())
	assert.Equal(t, 30, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.InDelta(t, 1.5, cfg.RetryBackoff, 1e-9)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, 4000, cfg.MaxTokens)
}

func TestConfig_WithEnvDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg := Config{Provider: "claude"}.WithEnvDefaults()
	assert.Equal(t, "from-env", cfg.APIKey)

	explicit := Config{Provider: "anthropic", APIKey: "explicit"}.WithEnvDefaults()
	assert.Equal(t, "explicit", explicit.APIKey)

	ollama := Config{Provider: "ollama"}.WithEnvDefaults()
	assert.Equal(t, "http://gpu-box:11434", ollama.BaseURL)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.Nil(t, p, "empty provider disables the LLM")

	tests := []struct {
		name string
		want string
	}{
		{"openai", "openai"},
		{"OpenRouter", "openrouter"},
		{"claude", "anthropic"},
		{"anthropic", "anthropic"},
		{"gemini", "google"},
		{"ollama", "ollama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(Config{Provider: tt.name, APIKey: "k", BaseURL: "http://127.0.0.1:1"})
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.Name())
		})
	}

	_, err = NewProvider(Config{Provider: "cohere"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	assert.Contains(t, errors.FlattenHints(err), "openrouter")
}

func TestSupportedModels(t *testing.T) {
	for _, name := range SupportedProviders() {
		assert.NotEmpty(t, SupportedModels(name), name)
	}
	assert.Equal(t, SupportedModels("google"), SupportedModels("gemini"))
	assert.Nil(t, SupportedModels("unknown"))
}
