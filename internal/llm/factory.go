package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGroq      Provider = "groq"
	ProviderDeepSeek  Provider = "deepseek"
	ProviderMistral   Provider = "mistral"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// Config is the explicit provider configuration handed to NewClient. The
// pipeline never reads environment variables itself; the CLI layer resolves
// them into one of these.
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// EnvKeyFor returns the conventional API key environment variable for a
// provider. Ollama runs locally and has no key.
func EnvKeyFor(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	case ProviderMistral:
		return "MISTRAL_API_KEY"
	}
	return ""
}

// NewClient creates an LLM client for the configured provider.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	compat := OpenAIConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		if compat.BaseURL == "" {
			compat.BaseURL = DefaultOpenAIConfig("").BaseURL
		}
		if compat.Model == "" {
			compat.Model = DefaultOpenAIConfig("").Model
		}
		return NewOpenAIClientWithConfig(compat), nil

	case ProviderGroq:
		return NewGroqClient(compat), nil

	case ProviderDeepSeek:
		return NewDeepSeekClient(compat), nil

	case ProviderMistral:
		return NewMistralClient(compat), nil

	case ProviderOllama:
		return NewOllamaClient(compat), nil

	case ProviderAnthropic:
		acfg := DefaultAnthropicConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			acfg.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			acfg.Model = cfg.Model
		}
		if cfg.Temperature > 0 {
			acfg.Temperature = cfg.Temperature
		}
		if cfg.MaxTokens > 0 {
			acfg.MaxTokens = cfg.MaxTokens
		}
		if cfg.Timeout > 0 {
			acfg.Timeout = cfg.Timeout
		}
		return NewAnthropicClientWithConfig(acfg), nil

	case ProviderGemini:
		gcfg := DefaultGeminiConfig(cfg.APIKey)
		if cfg.Model != "" {
			gcfg.Model = cfg.Model
		}
		if cfg.Temperature > 0 {
			gcfg.Temperature = cfg.Temperature
		}
		if cfg.MaxTokens > 0 {
			gcfg.MaxTokens = cfg.MaxTokens
		}
		return NewGeminiClientWithConfig(ctx, gcfg)

	default:
		return nil, fmt.Errorf("unknown provider: %s (valid: openai, groq, deepseek, mistral, gemini, anthropic, ollama)", cfg.Provider)
	}
}
