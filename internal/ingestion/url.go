package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/cold-connect/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the careers page cannot be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrEmptyContent is returned when a page normalizes to nothing
	ErrEmptyContent = errors.New("page has no text content")
)

// IngestFromURL fetches a careers page through fetcher and returns its
// normalized text with metadata.
func IngestFromURL(ctx context.Context, fetcher fetch.Fetcher, urlStr string, verbose bool) (string, *Metadata, error) {
	result, err := fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	cleaned := Normalize(result.Text)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrEmptyContent, urlStr)
	}
	if verbose {
		log.Printf("[INGEST] %s: %d chars extracted, %d chars after normalization", urlStr, len(result.Text), len(cleaned))
	}

	metadata := NewMetadata(cleaned, urlStr)
	metadata.Platform = string(result.Platform)
	metadata.Rendered = result.Rendered
	metadata.RawLength = len(result.Text)

	return cleaned, metadata, nil
}

// IngestFromFile reads a saved page (HTML or text) and returns its normalized text.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	cleaned := Normalize(string(content))
	metadata := NewMetadata(cleaned, "")
	metadata.RawLength = len(content)

	return cleaned, metadata, nil
}
