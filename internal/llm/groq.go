package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GroqClient implements Client for Groq through langchaingo's OpenAI driver.
type GroqClient struct {
	model  llms.Model
	config *Config
}

// NewGroqClient creates a new Groq client
func NewGroqClient(config *Config, apiKey string) (*GroqClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(GroqBaseURL),
		openai.WithModel(config.GetModel(TierWriting)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Groq client: %w", err)
	}

	return &GroqClient{model: model, config: config}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GroqClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName, err := modelFor(c.config, tier)
	if err != nil {
		return "", err
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithModel(modelName),
		llms.WithTemperature(0),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return text, nil
}

// GenerateJSON generates JSON content using the specified model tier.
// Groq's JSON mode only admits a top-level object, and postings may come back
// as an array, so the reply is requested as plain text and cleaned.
func (c *GroqClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.GenerateContent(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *GroqClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP transport is shared.
func (c *GroqClient) Close() error {
	return nil
}
