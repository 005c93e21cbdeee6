package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures a provider. Fields carry toml and env tags
// so the application config can embed it directly.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter", "mock".
	Provider string `toml:"provider" env:"PROVIDER"`

	Anthropic  AnthropicConfig  `toml:"anthropic" envPrefix:"ANTHROPIC_"`
	OpenAI     OpenAIConfig     `toml:"openai" envPrefix:"OPENAI_"`
	Gemini     GeminiConfig     `toml:"gemini" envPrefix:"GEMINI_"`
	OpenRouter OpenRouterConfig `toml:"openrouter" envPrefix:"OPENROUTER_"`
	Retry      RetryConfig      `toml:"retry" envPrefix:"RETRY_"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey string `toml:"api_key" env:"API_KEY"`
	Model  string `toml:"model" env:"MODEL"`
}

// OpenAIConfig configures the OpenAI provider. BaseURL points it at any
// OpenAI-compatible API.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key" env:"API_KEY"`
	Model   string `toml:"model" env:"MODEL"`
	BaseURL string `toml:"base_url" env:"BASE_URL"`
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string `toml:"api_key" env:"API_KEY"`
	Model  string `toml:"model" env:"MODEL"`
}

// OpenRouterConfig configures the OpenRouter provider.
type OpenRouterConfig struct {
	APIKey  string `toml:"api_key" env:"API_KEY"`
	Model   string `toml:"model" env:"MODEL"`
	BaseURL string `toml:"base_url" env:"BASE_URL"`
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `toml:"max_attempts" env:"MAX_ATTEMPTS"`
	InitialWait time.Duration `toml:"initial_wait" env:"INITIAL_WAIT"`
	MaxWait     time.Duration `toml:"max_wait" env:"MAX_WAIT"`
	Multiplier  float64       `toml:"multiplier" env:"MULTIPLIER"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// Discover fills in a provider from the vendors' standard API key
// variables when cfg has no key for its selected provider. The second
// result is false when no key is available anywhere.
func Discover(cfg Config) (Config, bool) {
	if cfg.Validate() == nil {
		return cfg, true
	}

	probes := []struct {
		env      string
		provider string
		set      func(string)
	}{
		{"GEMINI_API_KEY", "gemini", func(k string) { cfg.Gemini.APIKey = k }},
		{"OPENAI_API_KEY", "openai", func(k string) { cfg.OpenAI.APIKey = k }},
		{"ANTHROPIC_API_KEY", "anthropic", func(k string) { cfg.Anthropic.APIKey = k }},
		{"OPENROUTER_API_KEY", "openrouter", func(k string) { cfg.OpenRouter.APIKey = k }},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			p.set(k)
			return cfg, true
		}
	}
	return cfg, false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("an API key is required for the %s provider", c.Provider)
	}
	return nil
}
