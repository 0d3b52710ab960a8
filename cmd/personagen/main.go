package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"personagen/internal/config"
	"personagen/internal/embedding"
	"personagen/internal/llm"
	"personagen/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	provider   string
	model      string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "personagen",
	Short: "Persona-driven prompt generator",
	Long: `personagen generates sets of synthetic personas for a task and turns
them into persona-driven prompts, agent conversations, and AutoGen workflows.

Persona generation always yields a usable set: when the model response cannot
be parsed or the call fails, a deterministic fallback catalog fills in.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.personagen/config.json)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "LLM provider override (openai, anthropic, gemini, groq, deepseek, mistral, ollama)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model override for the selected provider")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout override (e.g. 90s)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(workflowCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(configureCmd)
}

// newLLMClient resolves provider config and builds the client. Flag overrides
// win over the config file and environment.
func newLLMClient(cmd *cobra.Command) (llm.Client, error) {
	cfg, err := config.DetectProvider(configPath)
	if err != nil && provider == "" {
		return nil, err
	}
	if provider != "" {
		cfg.Provider = llm.Provider(provider)
		if userCfg, loadErr := config.LoadUserConfig(userConfigPath()); loadErr == nil {
			if key := userCfg.KeyFor(provider); key != "" {
				cfg.APIKey = key
			}
		}
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv(llm.EnvKeyFor(cfg.Provider))
		}
	}
	if model != "" {
		cfg.Model = model
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	logger.Debug("provider resolved",
		zap.String("provider", string(cfg.Provider)),
		zap.String("model", cfg.Model))
	return llm.NewClient(cmd.Context(), cfg)
}

func userConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultUserConfigPath()
}

// openStore opens the prompt memory database, wiring the embedding engine
// when one is configured.
func openStore() (*store.Store, error) {
	path := config.DefaultStorePath()
	var embedCfg *config.EmbeddingConfig
	if userCfg, err := config.LoadUserConfig(userConfigPath()); err == nil {
		if userCfg.StorePath != "" {
			path = userCfg.StorePath
		}
		embedCfg = userCfg.Embedding
	}

	var engine embedding.Engine
	if embedCfg != nil {
		var err error
		engine, err = embedding.NewEngine(embedCfg)
		if err != nil {
			logger.Warn("embedding engine unavailable, similarity search disabled", zap.Error(err))
		}
	}
	return store.Open(path, engine, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
