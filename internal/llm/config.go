// Package llm provides centralized LLM configuration and client abstractions.
// Every provider is driven at temperature zero so that extraction and drafting
// are as repeatable as the backend allows.
package llm

import (
	"fmt"
	"strings"
)

// ModelTier names the job a model is used for.
type ModelTier string

const (
	// TierExtraction turns careers-page text into structured postings.
	TierExtraction ModelTier = "extraction"
	// TierWriting drafts the outreach email.
	TierWriting ModelTier = "writing"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderGroq is Groq's OpenAI-compatible endpoint
	ProviderGroq Provider = "groq"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// GroqBaseURL is the OpenAI-compatible endpoint served by Groq.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// ParseProvider maps a user supplied provider name to a Provider.
// An empty name selects Groq.
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case "", ProviderGroq:
		return ProviderGroq, nil
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderAnthropic, "claude":
		return ProviderAnthropic, nil
	default:
		return "", fmt.Errorf("unknown LLM provider %q (want gemini, groq or anthropic)", name)
	}
}

// DefaultConfig returns the default configuration (Groq)
func DefaultConfig() *Config {
	return DefaultGroqConfig()
}

// DefaultConfigFor returns the default configuration for a provider.
func DefaultConfigFor(p Provider) *Config {
	switch p {
	case ProviderGemini:
		return DefaultGeminiConfig()
	case ProviderAnthropic:
		return DefaultAnthropicConfig()
	default:
		return DefaultGroqConfig()
	}
}

// DefaultGroqConfig returns the default Groq configuration
func DefaultGroqConfig() *Config {
	return &Config{
		Provider: ProviderGroq,
		Models: map[ModelTier]string{
			TierExtraction: "llama-3.3-70b-versatile",
			TierWriting:    "llama-3.3-70b-versatile",
		},
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierExtraction: "gemini-2.5-flash",
			TierWriting:    "gemini-2.5-flash",
		},
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierExtraction: "claude-sonnet-4-20250514",
			TierWriting:    "claude-sonnet-4-20250514",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	// Writing is the general purpose model.
	if model, ok := c.Models[TierWriting]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)+1),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// WithAllModels returns a new Config that uses one model for every tier.
func (c *Config) WithAllModels(model string) *Config {
	out := c.WithModel(TierExtraction, model)
	out.Models[TierWriting] = model
	return out
}
