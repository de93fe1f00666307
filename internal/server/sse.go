package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSE event names.
const (
	EventStep     = "step"
	EventError    = "error"
	EventComplete = "complete"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer and sends the stream headers.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event with the HTTP status the error would have had.
func (s *SSEWriter) WriteError(status int, message string) {
	s.WriteEvent(EventError, map[string]any{ //nolint:errcheck
		"status": status,
		"error":  message,
	})
}

// WriteComplete sends the final outreach result.
func (s *SSEWriter) WriteComplete(result *OutreachResponse) {
	s.WriteEvent(EventComplete, result) //nolint:errcheck
}
