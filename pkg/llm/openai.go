package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newsdigest/pkg/config"
)

// OpenAIProvider queries an OpenAI-compatible chat completion endpoint (OpenAI, OpenRouter, local servers)
type OpenAIProvider struct {
	name      string
	client    *openai.Client
	cfg       config.ProviderConfig
	systemMsg string
}

// NewOpenAIProvider creates a provider for the OpenAI-compatible endpoint in cfg
func NewOpenAIProvider(name string, cfg config.ProviderConfig, systemPrompt string) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAIProvider{
		name:      name,
		client:    openai.NewClientWithConfig(clientConfig),
		cfg:       cfg,
		systemMsg: systemPrompt,
	}
}

// Name returns the provider name used in logs and metrics
func (p *OpenAIProvider) Name() string { return p.name }

// Query sends the entry context with the task prompt and returns the raw answer
func (p *OpenAIProvider) Query(ctx context.Context, contextText, taskPrompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if p.systemMsg != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.systemMsg})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userMessage(contextText, taskPrompt)})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Temperature: float32(p.cfg.Temperature),
		MaxTokens:   p.cfg.MaxTokens,
		Messages:    messages,
	})
	if err != nil {
		return "", p.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: p.name, Kind: KindUnknown, Err: errors.New("no choices in response")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// wrapError maps go-openai errors to provider error kinds
func (p *OpenAIProvider) wrapError(err error) *ProviderError {
	if kind, ok := kindFromError(err); ok {
		return &ProviderError{Provider: p.name, Kind: kind, Err: err}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: p.name, Kind: kindFromStatus(apiErr.HTTPStatusCode), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{Provider: p.name, Kind: kindFromStatus(reqErr.HTTPStatusCode), Err: err}
	}
	return &ProviderError{Provider: p.name, Kind: KindUnknown, Err: fmt.Errorf("chat completion: %w", err)}
}
