package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"personagen/internal/config"
	"personagen/internal/llm"
)

var (
	cfgProvider string
	cfgKey      string
	cfgModel    string
	cfgBaseURL  string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Show or update provider configuration",
	Long: `Without flags, shows the resolved provider. With flags, updates
~/.personagen/config.json.

Examples:
  personagen configure
  personagen configure --set-provider anthropic --set-key sk-ant-...
  personagen configure --set-provider ollama --set-model llama3`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&cfgProvider, "set-provider", "", "Set the active provider")
	configureCmd.Flags().StringVar(&cfgKey, "set-key", "", "Set the API key for the active provider")
	configureCmd.Flags().StringVar(&cfgModel, "set-model", "", "Set the model override")
	configureCmd.Flags().StringVar(&cfgBaseURL, "set-base-url", "", "Set the API base URL override")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	path := userConfigPath()

	if cfgProvider == "" && cfgKey == "" && cfgModel == "" && cfgBaseURL == "" {
		return showConfig(cmd, path)
	}

	userCfg, err := config.LoadUserConfig(path)
	if err != nil {
		userCfg = &config.UserConfig{}
	}

	if cfgProvider != "" {
		userCfg.Provider = cfgProvider
	}
	if cfgKey != "" {
		target := userCfg.Provider
		if target == "" {
			return fmt.Errorf("--set-key needs a provider; pass --set-provider too")
		}
		setKey(userCfg, target, cfgKey)
	}
	if cfgModel != "" {
		userCfg.Model = cfgModel
	}
	if cfgBaseURL != "" {
		userCfg.BaseURL = cfgBaseURL
	}

	if err := userCfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", path)
	return nil
}

func showConfig(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n", path)

	cfg, err := config.DetectProvider(path)
	if err != nil {
		fmt.Fprintf(out, "No provider configured.\n\n%v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Provider:    %s\n", cfg.Provider)
	if cfg.Model != "" {
		fmt.Fprintf(out, "Model:       %s\n", cfg.Model)
	}
	if cfg.BaseURL != "" {
		fmt.Fprintf(out, "Base URL:    %s\n", cfg.BaseURL)
	}
	if cfg.APIKey != "" {
		fmt.Fprintf(out, "API key:     %s\n", maskKey(cfg.APIKey))
	}
	return nil
}

func setKey(c *config.UserConfig, provider, key string) {
	switch llm.Provider(provider) {
	case llm.ProviderOpenAI:
		c.OpenAIAPIKey = key
	case llm.ProviderAnthropic:
		c.AnthropicAPIKey = key
	case llm.ProviderGemini:
		c.GeminiAPIKey = key
	case llm.ProviderGroq:
		c.GroqAPIKey = key
	case llm.ProviderDeepSeek:
		c.DeepSeekAPIKey = key
	case llm.ProviderMistral:
		c.MistralAPIKey = key
	default:
		c.APIKey = key
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
