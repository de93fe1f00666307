// Package types provides the value objects passed between the outreach pipeline stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// Display values used when a resume field could not be extracted.
const (
	NameNotFound  = "Name not found"
	EmailNotFound = "Email not found"
)

// Field is a single extracted value with explicit presence, so callers can
// tell "not found" apart from a value that happens to be empty.
type Field struct {
	Value string
	Found bool
}

// FoundField returns a present field holding value.
func FoundField(value string) Field {
	return Field{Value: value, Found: true}
}

// MissingField returns an absent field.
func MissingField() Field {
	return Field{}
}

// Or returns the field value, or fallback when the field is absent.
func (f Field) Or(fallback string) string {
	if !f.Found {
		return fallback
	}
	return f.Value
}

// CandidateProfile is the structured view of an uploaded resume.
// Skills and Experience are never nil.
type CandidateProfile struct {
	Name       Field
	Email      Field
	Skills     []string // vocabulary order
	Experience []string // document order, "N years at Company"
}

// DisplayName returns the extracted name or the "Name not found" sentinel.
func (p *CandidateProfile) DisplayName() string {
	return p.Name.Or(NameNotFound)
}

// DisplayEmail returns the extracted email or the "Email not found" sentinel.
func (p *CandidateProfile) DisplayEmail() string {
	return p.Email.Or(EmailNotFound)
}

type candidateProfileJSON struct {
	Name       string   `json:"name"`
	NameFound  bool     `json:"name_found"`
	Email      string   `json:"email"`
	EmailFound bool     `json:"email_found"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
}

// MarshalJSON renders absent fields as their sentinels alongside explicit presence flags.
func (p CandidateProfile) MarshalJSON() ([]byte, error) {
	out := candidateProfileJSON{
		Name:       p.DisplayName(),
		NameFound:  p.Name.Found,
		Email:      p.DisplayEmail(),
		EmailFound: p.Email.Found,
		Skills:     p.Skills,
		Experience: p.Experience,
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	if out.Experience == nil {
		out.Experience = []string{}
	}
	return json.Marshal(out)
}
