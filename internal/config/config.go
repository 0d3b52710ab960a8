// Package config loads user configuration for the persona generator.
// Configuration lives in ~/.personagen/config.json; environment variables are
// the fallback. This is the only layer that touches the process environment —
// everything below it receives an explicit llm.Config.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UserConfig holds all configuration from ~/.personagen/config.json.
//
// Supported models by provider:
//   - openai:    gpt-4o (default), gpt-4o-mini, gpt-4-turbo
//   - anthropic: claude-sonnet-4-20250514 (default)
//   - gemini:    gemini-2.5-flash (default), gemini-2.5-pro
//   - groq:      llama-3.3-70b-versatile (default)
//   - deepseek:  deepseek-chat (default)
//   - mistral:   mistral-medium-latest (default)
//   - ollama:    llama3 (default, local server)
type UserConfig struct {
	// Provider selection (openai, anthropic, gemini, groq, deepseek, mistral, ollama)
	Provider string `json:"provider,omitempty"`

	// API keys for each provider
	APIKey          string `json:"api_key,omitempty"` // Legacy: single key
	OpenAIAPIKey    string `json:"openai_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	GroqAPIKey      string `json:"groq_api_key,omitempty"`
	DeepSeekAPIKey  string `json:"deepseek_api_key,omitempty"`
	MistralAPIKey   string `json:"mistral_api_key,omitempty"`

	// Optional model override (see supported models above)
	Model string `json:"model,omitempty"`

	// Optional API base URL override (self-hosted gateways, Ollama servers)
	BaseURL string `json:"base_url,omitempty"`

	// Sampling temperature for generation calls (default 0.7)
	Temperature float64 `json:"temperature,omitempty"`

	// Max completion tokens per call (default 4096)
	MaxTokens int `json:"max_tokens,omitempty"`

	// Request timeout in seconds (default 120)
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// Embedding engine configuration for task similarity search
	Embedding *EmbeddingConfig `json:"embedding,omitempty"`

	// Path to the prompt memory database (default ~/.personagen/memory.db)
	StorePath string `json:"store_path,omitempty"`
}

// EmbeddingConfig selects the embedding backend used for task memory.
type EmbeddingConfig struct {
	// Provider: "ollama" or "genai"
	Provider string `json:"provider,omitempty"`

	OllamaEndpoint string `json:"ollama_endpoint,omitempty"` // Default: "http://localhost:11434"
	OllamaModel    string `json:"ollama_model,omitempty"`    // Default: "embeddinggemma"

	GenAIAPIKey string `json:"genai_api_key,omitempty"`
	GenAIModel  string `json:"genai_model,omitempty"` // Default: "gemini-embedding-001"
}

// DefaultUserConfigPath returns the default path to ~/.personagen/config.json.
func DefaultUserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".personagen", "config.json")
	}
	return filepath.Join(home, ".personagen", "config.json")
}

// DefaultStorePath returns the default path to the memory database.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".personagen", "memory.db")
	}
	return filepath.Join(home, ".personagen", "memory.db")
}

// LoadUserConfig reads and parses the config file at path.
func LoadUserConfig(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config back to path, creating the directory if needed.
func (c *UserConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Timeout returns the configured request timeout.
func (c *UserConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// KeyFor returns the API key configured for the given provider, falling back
// to the legacy single api_key field.
func (c *UserConfig) KeyFor(provider string) string {
	var key string
	switch provider {
	case "openai":
		key = c.OpenAIAPIKey
	case "anthropic":
		key = c.AnthropicAPIKey
	case "gemini":
		key = c.GeminiAPIKey
	case "groq":
		key = c.GroqAPIKey
	case "deepseek":
		key = c.DeepSeekAPIKey
	case "mistral":
		key = c.MistralAPIKey
	}
	if key == "" {
		key = c.APIKey
	}
	return key
}
