package llm

import (
	"context"
	"fmt"

	"github.com/umputun/newsdigest/pkg/config"
)

//go:generate moq -out mocks/provider.go -pkg mocks -skip-ensure -fmt goimports . Provider

// Provider is one language-model backend of the chain.
// Query returns the raw response text, failures are *ProviderError.
type Provider interface {
	Name() string
	Query(ctx context.Context, contextText, taskPrompt string) (string, error)
}

// NewProvider makes a provider for the configured kind. The caller closes providers implementing io.Closer.
func NewProvider(ctx context.Context, name string, cfg config.ProviderConfig, systemPrompt string) (Provider, error) {
	switch cfg.Kind {
	case config.ProviderOpenAI, "":
		return NewOpenAIProvider(name, cfg, systemPrompt), nil
	case config.ProviderGemini:
		p, err := NewGeminiProvider(ctx, name, cfg, systemPrompt)
		if err != nil {
			return nil, fmt.Errorf("make gemini provider %s: %w", name, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
	}
}
