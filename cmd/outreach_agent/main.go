// Package main provides the command line entry point for Cold Connect.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/config"
	"github.com/jonathan/cold-connect/internal/llm"
)

var rootCmd = &cobra.Command{
	Use:   "outreach_agent",
	Short: "Cold outreach emails from careers pages and resumes",
	Long: `Cold Connect reads a company's careers page, extracts its job postings, and drafts
one personalized outreach email per posting from the candidate's details and resume.

Configuration can be loaded from a JSON file using --config. Command-line flags override
config file values, which override LLM_PROVIDER and LLM_MODEL from the environment.`,
	SilenceUsage: true,
}

var (
	rootConfigPath string
	rootProvider   string
	rootModel      string
	rootAPIKey     string
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&rootProvider, "provider", "", "LLM provider: groq, gemini or anthropic (default groq)")
	rootCmd.PersistentFlags().StringVar(&rootModel, "model", "", "Model name for every tier (defaults to the provider's model)")
	rootCmd.PersistentFlags().StringVar(&rootAPIKey, "api-key", "", "API key (defaults to the provider's *_API_KEY env var)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config, applies the persistent flags that were set and
// fills the rest from the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = rootProvider
	}
	if flags.Changed("model") {
		cfg.Model = rootModel
	}
	if flags.Changed("api-key") {
		cfg.APIKey = rootAPIKey
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}

	cfg = cfg.MergeWithDefaults(config.FromEnv())
	if cfg.Verbose && rootConfigPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded config from: %s\n", rootConfigPath)
	}
	return cfg, nil
}

// newLLMClient builds the configured provider client.
func newLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}
	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}
