package model

import "time"

// Config is the complete runtime configuration.
// Precedence: CLI flags, SYLLOGIX_* environment, config file, DefaultConfig.
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the proposition-authoring collaborator
type LLMConfig struct {
	Provider     string  `yaml:"provider" mapstructure:"provider"` // openai, openrouter, anthropic, google, ollama, "" (disabled)
	Model        string  `yaml:"model" mapstructure:"model"`
	APIKey       string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL      string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout      int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxRetries   int     `yaml:"max_retries" mapstructure:"max_retries"`
	RetryBackoff float64 `yaml:"retry_backoff" mapstructure:"retry_backoff"` // seconds, doubled per attempt
	Temperature  float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens    int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy    string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the LLM response cache
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MaxEntries int           `yaml:"max_entries" mapstructure:"max_entries"`
	Dir        string        `yaml:"dir,omitempty" mapstructure:"dir"` // empty: memory only
	DiskTTL    time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig bounds calls per LLM provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig configures logging and rendering
type OutputConfig struct {
	Verbose  bool `yaml:"verbose" mapstructure:"verbose"`
	JSONLogs bool `yaml:"json_logs" mapstructure:"json_logs"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:     "", // disabled until configured
			Timeout:      30,
			MaxRetries:   3,
			RetryBackoff: 1.5,
			Temperature:  0.7,
			MaxTokens:    4000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        time.Hour,
			MaxEntries: 1000,
			DiskTTL:    24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
	}
}
