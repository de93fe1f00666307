package outreach

import "github.com/jonathan/cold-connect/internal/types"

// Assemble wraps the model text as the final email. The text is kept
// verbatim, including an empty reply.
func Assemble(response string) *types.GeneratedEmail {
	return &types.GeneratedEmail{Content: response}
}
