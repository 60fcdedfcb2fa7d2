package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/umputun/newsdigest/pkg/config"
)

// GeminiProvider queries a Google Gemini model
type GeminiProvider struct {
	name   string
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider creates a gemini client for cfg.Model. Endpoint, if set, overrides the API endpoint.
func NewGeminiProvider(ctx context.Context, name string, cfg config.ProviderConfig, systemPrompt string) (*GeminiProvider, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens)) //nolint:gosec // small configured value
	}
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}
	return &GeminiProvider{name: name, client: client, model: model}, nil
}

// Name returns the provider name used in logs and metrics
func (p *GeminiProvider) Name() string { return p.name }

// Query sends the entry context with the task prompt and returns the raw answer
func (p *GeminiProvider) Query(ctx context.Context, contextText, taskPrompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(userMessage(contextText, taskPrompt)))
	if err != nil {
		return "", p.wrapError(err)
	}
	text, ok := responseText(resp)
	if !ok {
		return "", &ProviderError{Provider: p.name, Kind: KindUnknown, Err: errors.New("no text in response")}
	}
	return text, nil
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// responseText joins text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", false
	}
	return strings.TrimSpace(sb.String()), true
}

// wrapError maps googleapi errors to provider error kinds
func (p *GeminiProvider) wrapError(err error) *ProviderError {
	if kind, ok := kindFromError(err); ok {
		return &ProviderError{Provider: p.name, Kind: kind, Err: err}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &ProviderError{Provider: p.name, Kind: kindFromStatus(gErr.Code), Err: err}
	}
	return &ProviderError{Provider: p.name, Kind: KindUnknown, Err: fmt.Errorf("generate content: %w", err)}
}
