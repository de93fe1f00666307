package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes one ingested careers page.
type Metadata struct {
	URL           string `json:"url,omitempty"`
	Timestamp     string `json:"timestamp"` // RFC3339
	Hash          string `json:"hash"`      // SHA-256 of the normalized text
	Platform      string `json:"platform,omitempty"`
	Rendered      bool   `json:"rendered,omitempty"` // text came from the headless browser
	RawLength     int    `json:"raw_length"`
	CleanedLength int    `json:"cleaned_length"`
}

// NewMetadata creates Metadata for normalized content fetched from url.
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:           url,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Hash:          computeHash(content),
		CleanedLength: len(content),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return b, nil
}
