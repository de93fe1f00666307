// Package parsing turns careers-page text into structured job postings using
// LLM extraction.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/jonathan/cold-connect/internal/llm"
	"github.com/jonathan/cold-connect/internal/prompts"
	"github.com/jonathan/cold-connect/internal/schemas"
	"github.com/jonathan/cold-connect/internal/types"
)

// JobExtractor asks a language model for the postings on a careers page.
type JobExtractor struct {
	client  llm.Client
	verbose bool
}

// NewJobExtractor creates an extractor backed by client.
func NewJobExtractor(client llm.Client, verbose bool) *JobExtractor {
	return &JobExtractor{client: client, verbose: verbose}
}

// ExtractJobs sends one extraction prompt and returns the postings in the
// order the model listed them. A single posting object is returned as a
// one-element slice. The result is never nil on success.
func (e *JobExtractor) ExtractJobs(ctx context.Context, cleanedText string) ([]types.JobPosting, error) {
	prompt := BuildExtractionPrompt(cleanedText)

	responseText, err := e.client.GenerateJSON(ctx, prompt, llm.TierExtraction)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate job postings",
			Cause:   err,
		}
	}

	postings, err := ParseJobPostings(responseText)
	if err != nil {
		if e.verbose {
			var perr *ParseError
			if errors.As(err, &perr) {
				log.Printf("[PARSING] %s", perr.Detail())
			}
		}
		return nil, err
	}

	if e.verbose {
		log.Printf("[PARSING] Extracted %d job posting(s) with %s", len(postings), e.client.GetModel(llm.TierExtraction))
	}
	return postings, nil
}

// BuildExtractionPrompt embeds the cleaned page text in the extraction prompt.
func BuildExtractionPrompt(cleanedText string) string {
	return prompts.MustRender(prompts.OutreachFile, prompts.ExtractJobs, map[string]string{
		"PageText": cleanedText,
	})
}

// ParseJobPostings decodes a model response into postings. Any response that
// is not a posting object or list of posting objects yields a *ParseError.
func ParseJobPostings(responseText string) ([]types.JobPosting, error) {
	jsonText := llm.CleanJSONBlock(responseText)

	if err := schemas.ValidateJobPostings(jsonText); err != nil {
		return nil, newParseError(err)
	}

	var postings types.JobPostings
	if err := json.Unmarshal([]byte(jsonText), &postings); err != nil {
		return nil, newParseError(err)
	}

	return NormalizePostings(postings), nil
}
