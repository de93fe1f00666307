// Package config provides configuration loading and validation for the CLI
// and HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cold-connect/internal/llm"
	"github.com/jonathan/cold-connect/internal/resume"
)

// Environment variables read by FromEnv and ResolveAPIKey.
const (
	EnvProvider     = "LLM_PROVIDER"
	EnvModel        = "LLM_MODEL"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvGroqKey      = "GROQ_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

// DefaultMaxConcurrentRuns caps pipeline runs served at once by the HTTP server.
const DefaultMaxConcurrentRuns = 4

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags.
type Config struct {
	// Sources
	JobURL   string `json:"job_url,omitempty" validate:"omitempty,url"` // Careers page to fetch
	PageFile string `json:"page_file,omitempty"`                        // Saved careers page (HTML or text)
	Resume   string `json:"resume,omitempty"`                           // Resume PDF or text file

	// Candidate Info
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty" validate:"omitempty,email"`
	Company     string   `json:"company,omitempty"`
	Designation string   `json:"designation,omitempty"`
	Experience  string   `json:"experience,omitempty"` // Free text, entries separated by ", "
	Skills      []string `json:"skills,omitempty"`

	// Resume extraction
	SkillVocabulary []string `json:"skill_vocabulary,omitempty"` // Replaces the built-in vocabulary
	NameScanLines   int      `json:"name_scan_lines,omitempty" validate:"gte=0"`

	// Model
	Provider string `json:"provider,omitempty"` // gemini, groq or anthropic
	Model    string `json:"model,omitempty"`    // Overrides the provider default for every tier
	APIKey   string `json:"api_key,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Render JS-heavy careers pages in headless Chrome
	Verbose    bool `json:"verbose,omitempty"`

	// Server
	Addr              string `json:"addr,omitempty"`
	MaxConcurrentRuns int    `json:"max_concurrent_runs,omitempty" validate:"gte=0"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config holding only the values found in the environment.
func FromEnv() Config {
	return Config{
		Provider: os.Getenv(EnvProvider),
		Model:    os.Getenv(EnvModel),
	}
}

// Validate checks that the configuration has valid values.
// Required candidate fields are checked later, by the pipeline.
func (c *Config) Validate() error {
	if c.JobURL != "" && c.PageFile != "" {
		return fmt.Errorf("config error: 'job_url' and 'page_file' are mutually exclusive")
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Provider != "" {
		if _, err := llm.ParseProvider(c.Provider); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	for label, path := range map[string]string{"page": c.PageFile, "resume": c.Resume} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", label, path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file and environment values beneath CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []struct {
		dst *string
		src string
	}{
		{&result.JobURL, defaults.JobURL},
		{&result.PageFile, defaults.PageFile},
		{&result.Resume, defaults.Resume},
		{&result.Name, defaults.Name},
		{&result.Email, defaults.Email},
		{&result.Company, defaults.Company},
		{&result.Designation, defaults.Designation},
		{&result.Experience, defaults.Experience},
		{&result.Provider, defaults.Provider},
		{&result.Model, defaults.Model},
		{&result.APIKey, defaults.APIKey},
		{&result.Addr, defaults.Addr},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}

	if len(result.Skills) == 0 {
		result.Skills = defaults.Skills
	}
	if len(result.SkillVocabulary) == 0 {
		result.SkillVocabulary = defaults.SkillVocabulary
	}
	if result.NameScanLines == 0 {
		result.NameScanLines = defaults.NameScanLines
	}
	if result.MaxConcurrentRuns == 0 {
		if defaults.MaxConcurrentRuns > 0 {
			result.MaxConcurrentRuns = defaults.MaxConcurrentRuns
		} else {
			result.MaxConcurrentRuns = DefaultMaxConcurrentRuns
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig returns the model configuration for the selected provider.
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return nil, err
	}
	cfg := llm.DefaultConfigFor(provider)
	if model := strings.TrimSpace(c.Model); model != "" {
		cfg = cfg.WithAllModels(model)
	}
	return cfg, nil
}

// ResolveAPIKey returns the configured key, or the provider's environment variable.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return "", err
	}

	envVar := APIKeyEnvVar(provider)
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("API key is required: set %s or pass --api-key", envVar)
}

// APIKeyEnvVar names the environment variable holding a provider's key.
func APIKeyEnvVar(p llm.Provider) string {
	switch p {
	case llm.ProviderGemini:
		return EnvGeminiKey
	case llm.ProviderAnthropic:
		return EnvAnthropicKey
	default:
		return EnvGroqKey
	}
}

// ResumeOptions returns extractor options with the configured vocabulary and scan limit.
func (c *Config) ResumeOptions() resume.Options {
	return resume.Options{
		Vocabulary:    c.SkillVocabulary,
		NameScanLines: c.NameScanLines,
	}
}
