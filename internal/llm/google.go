package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/logger"
	"github.com/ppiankov/syllogix/internal/util"
)

const googleDefaultModel = "gemini-3-flash-preview"

// GoogleProvider implements the Provider interface for Gemini models
type GoogleProvider struct {
	client *genai.Client
	config Config
}

// NewGoogleProvider creates a Gemini API client
func NewGoogleProvider(config Config) (*GoogleProvider, error) {
	if config.APIKey == "" {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidConfig, "Google API key is required"),
			"set GOOGLE_API_KEY or llm.api_key",
		)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout: requestTimeout(config, 30*time.Second),
			Transport: util.NewTransport(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, errors.Wrap(err, "create GenAI client")
	}

	return &GoogleProvider{client: client, config: config}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// IsAvailable fetches the configured model's metadata
func (p *GoogleProvider) IsAvailable(ctx context.Context) bool {
	model := firstNonEmpty(p.config.Model, googleDefaultModel)
	if _, err := p.client.Models.Get(ctx, model, nil); err != nil {
		logger.FromContext(ctx).Warnw("LLM availability check failed",
			logger.FieldProvider, p.Name(),
			logger.FieldModel, model,
			logger.FieldError, err,
		)
		return false
	}
	return true
}

// Complete calls GenerateContent with an optional JSON response MIME type
func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := p.config.resolveModel(req, googleDefaultModel)

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(req), genai.RoleUser),
		Temperature:       genai.Ptr(float32(p.config.resolveTemperature(req))),
		MaxOutputTokens:   int32(p.config.resolveMaxTokens(req)),
	}
	if req.JSONMode {
		genConfig.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), genConfig)
	if err != nil {
		return nil, errors.Wrap(markGenAIError(err), "google API error")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, errors.Wrap(ErrNoContent, "no content in Gemini response")
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &CompletionResponse{
		Text:       text,
		Model:      firstNonEmpty(resp.ModelVersion, model),
		TokensUsed: tokens,
	}, nil
}

func markGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return markStatus(err, apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return markStatus(err, apiErrPtr.Code)
	}
	return errors.Mark(err, errors.ErrServiceUnavailable)
}
