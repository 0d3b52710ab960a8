package config

import (
	"fmt"
	"os"

	"personagen/internal/llm"
)

// envProviders is the environment fallback scan order, mirroring the config
// file's provider field. First variable with a non-empty value wins.
var envProviders = []struct {
	envVar   string
	provider llm.Provider
}{
	{"OPENAI_API_KEY", llm.ProviderOpenAI},
	{"ANTHROPIC_API_KEY", llm.ProviderAnthropic},
	{"GEMINI_API_KEY", llm.ProviderGemini},
	{"GROQ_API_KEY", llm.ProviderGroq},
	{"DEEPSEEK_API_KEY", llm.ProviderDeepSeek},
	{"MISTRAL_API_KEY", llm.ProviderMistral},
}

// DetectProvider resolves the active LLM configuration. Priority:
// config file at path (when it exists and names a usable provider), then
// environment variables in envProviders order. Ollama never needs a key and
// is only selected when named explicitly in the config file.
func DetectProvider(path string) (llm.Config, error) {
	if path == "" {
		path = DefaultUserConfigPath()
	}

	if userCfg, err := LoadUserConfig(path); err == nil {
		if cfg, ok := userCfg.resolve(); ok {
			return cfg, nil
		}
	}

	for _, p := range envProviders {
		if key := os.Getenv(p.envVar); key != "" {
			return llm.Config{Provider: p.provider, APIKey: key}, nil
		}
	}

	return llm.Config{}, fmt.Errorf(
		"no LLM provider configured; create %s or set one of: OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, GROQ_API_KEY, DEEPSEEK_API_KEY, MISTRAL_API_KEY",
		DefaultUserConfigPath())
}

// resolve turns a UserConfig into an llm.Config, reporting whether the config
// names a usable provider.
func (c *UserConfig) resolve() (llm.Config, bool) {
	base := llm.Config{
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.Timeout(),
	}

	// Explicit provider selection.
	if c.Provider != "" {
		base.Provider = llm.Provider(c.Provider)
		base.APIKey = c.KeyFor(c.Provider)
		if base.APIKey != "" || base.Provider == llm.ProviderOllama {
			return base, true
		}
		return llm.Config{}, false
	}

	// No provider named: first provider-specific key wins, same order as
	// the environment scan.
	for _, p := range envProviders {
		if key := c.KeyFor(string(p.provider)); key != "" && key != c.APIKey {
			base.Provider = p.provider
			base.APIKey = key
			return base, true
		}
	}

	// Only the legacy single api_key is set: resolve it to the first
	// provider in the scan order.
	if c.APIKey != "" {
		base.Provider = envProviders[0].provider
		base.APIKey = c.APIKey
		return base, true
	}
	return llm.Config{}, false
}
