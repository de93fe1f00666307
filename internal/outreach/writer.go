package outreach

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/cold-connect/internal/llm"
	"github.com/jonathan/cold-connect/internal/types"
)

// Writer drafts one outreach email per job posting.
type Writer struct {
	client  llm.Client
	verbose bool
}

// NewWriter creates a Writer backed by client.
func NewWriter(client llm.Client, verbose bool) *Writer {
	return &Writer{client: client, verbose: verbose}
}

// WriteMail composes the request for job and returns the drafted email text.
// Missing required fields fail with *ValidationError before the model is called.
func (w *Writer) WriteMail(ctx context.Context, job types.JobPosting, info types.UserInfo) (string, error) {
	email, err := w.Draft(ctx, job, info)
	if err != nil {
		return "", err
	}
	return email.Content, nil
}

// Draft is WriteMail returning the assembled email value.
func (w *Writer) Draft(ctx context.Context, job types.JobPosting, info types.UserInfo) (*types.GeneratedEmail, error) {
	req, err := Compose(job, info)
	if err != nil {
		return nil, err
	}
	return w.Generate(ctx, req)
}

// Generate sends an already composed request to the model. One attempt is made.
func (w *Writer) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GeneratedEmail, error) {
	text, err := w.client.GenerateContent(ctx, BuildEmailPrompt(req), llm.TierWriting)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate email",
			Cause:   err,
		}
	}
	if w.verbose && strings.TrimSpace(text) == "" {
		log.Printf("[OUTREACH] Model returned an empty email")
	}
	return Assemble(text), nil
}
