package llm

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/abhisek/triviaz/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → event logging → provider.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *log.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	var p Provider = base
	if events != nil {
		p = WithLogging(p, cfg.Provider, events, logger)
	}
	return WithRetry(p, cfg.Retry), nil
}
