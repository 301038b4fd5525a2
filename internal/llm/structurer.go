package llm

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/syllogix/internal/cache"
	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/logger"
)

var (
	// ErrProviderDisabled is returned when no provider is configured
	ErrProviderDisabled = errors.New("LLM provider disabled")

	// ErrSchemaViolation marks output that decoded but broke a schema constraint
	ErrSchemaViolation = errors.Wrap(errors.ErrInvalidInput, "schema violation")

	// ErrNoContent marks an empty model response
	ErrNoContent = errors.New("no content in LLM response")
)

// RateLimiter throttles calls per key (the provider name)
type RateLimiter interface {
	Wait(ctx context.Context, key string) error
}

// Structurer turns prompts into validated schema values.
// Each call goes cache, rate limit, then provider with retries.
type Structurer struct {
	provider Provider
	config   Config
	cache    cache.Cache
	cacheTTL time.Duration
	limiter  RateLimiter

	// sleep is swapped out in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// StructurerOption configures a Structurer
type StructurerOption func(*Structurer)

// WithCache enables response caching
func WithCache(c cache.Cache, ttl time.Duration) StructurerOption {
	return func(s *Structurer) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithRateLimiter throttles provider calls
func WithRateLimiter(l RateLimiter) StructurerOption {
	return func(s *Structurer) {
		s.limiter = l
	}
}

// NewStructurer wraps a provider; provider may be nil (disabled)
func NewStructurer(provider Provider, config Config, opts ...StructurerOption) *Structurer {
	s := &Structurer{
		provider: provider,
		config:   config,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsEnabled reports whether a provider is wired
func (s *Structurer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (s *Structurer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Available runs the provider's cheap reachability check
func (s *Structurer) Available(ctx context.Context) bool {
	return s.IsEnabled() && s.provider.IsAvailable(ctx)
}

// Generate asks the provider for out's schema and decodes the answer into out.
// Transport failures and schema violations are retried up to MaxRetries times.
func (s *Structurer) Generate(ctx context.Context, prompt string, out Schema) error {
	if !s.IsEnabled() {
		return ErrProviderDisabled
	}

	requestID := uuid.NewString()
	ctx = logger.WithRequestID(ctx, requestID)
	log := logger.FromContext(ctx).With(
		logger.FieldProvider, s.provider.Name(),
		logger.FieldModel, s.config.Model,
		logger.FieldSchema, out.SchemaName(),
	)

	fullPrompt := BuildStructuredPrompt(prompt, out)
	key := cache.Key(fullPrompt, s.provider.Name(), s.config.Model, out.SchemaName())

	if s.cache != nil {
		if raw, ok := s.cache.Get(key); ok {
			if err := decode(raw, out); err == nil {
				log.Debugw("structured output served from cache", logger.FieldCacheHit, true)
				return nil
			}
			// stale or foreign entry; fall through to a fresh call
			_ = s.cache.Delete(key)
		}
	}

	attempts := s.config.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, s.backoff(attempt-1)); err != nil {
				return errors.Wrap(err, "waiting to retry")
			}
		}

		raw, err := s.attempt(ctx, fullPrompt, out)
		if err == nil {
			if s.cache != nil {
				if cerr := s.cache.Set(key, raw, s.cacheTTL); cerr != nil {
					log.Warnw("failed to cache structured output", logger.FieldError, cerr)
				}
			}
			log.Debugw("structured output generated", logger.FieldAttempt, attempt)
			return nil
		}
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "structured generation cancelled")
		}

		lastErr = err
		log.Warnw("structured generation attempt failed",
			logger.FieldAttempt, attempt,
			logger.FieldError, err,
		)
	}

	return errors.Wrapf(lastErr, "%s failed after %d attempts", out.SchemaName(), attempts)
}

func (s *Structurer) attempt(ctx context.Context, prompt string, out Schema) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
			return nil, errors.Wrap(err, "rate limit")
		}
	}

	start := time.Now()
	resp, err := s.provider.Complete(ctx, CompletionRequest{
		Prompt:   prompt,
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debugw("LLM call completed",
		logger.FieldProvider, s.provider.Name(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		"tokens", resp.TokensUsed,
	)

	raw, err := ExtractJSON(resp.Text)
	if err != nil {
		return nil, err
	}
	if err := decode(raw, out); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *Structurer) backoff(retry int) time.Duration {
	base := s.config.RetryBackoff
	if base <= 0 {
		return 0
	}
	seconds := base * math.Pow(2, float64(retry-1))
	return time.Duration(seconds * float64(time.Second))
}

func decode(raw []byte, out Schema) error {
	// earlier attempts may have partially filled out
	if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(ErrSchemaViolation, "%s: decode: %v", out.SchemaName(), err)
	}
	return out.Validate()
}

// ExtractJSON pulls the outermost JSON object out of a model reply,
// tolerating code fences and surrounding prose
func ExtractJSON(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoContent
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:] // drop the language tag line
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, errors.Wrap(ErrSchemaViolation, "no JSON object in response")
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return nil, errors.Wrap(ErrSchemaViolation, "malformed JSON in response")
	}
	return candidate, nil
}

// BuildStructuredPrompt appends the schema contract to a task prompt
func BuildStructuredPrompt(prompt string, out Schema) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(prompt))
	b.WriteString("\n\nRespond with a single JSON object for schema ")
	b.WriteString(out.SchemaName())
	b.WriteString(" shaped like:\n")
	b.WriteString(out.Shape())
	return b.String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
