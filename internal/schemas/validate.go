// Package schemas validates LLM output against embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed job_postings.schema.json
var jobPostingsSchema string

var (
	jobPostingsOnce   sync.Once
	jobPostingsLoaded *gojsonschema.Schema
	jobPostingsErr    error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
// or the document handed to it.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// JobPostingsSchema returns the embedded schema source, as served to API clients.
func JobPostingsSchema() string {
	return jobPostingsSchema
}

// ValidateJobPostings checks that jsonContent is a posting object or a list of
// posting objects.
func ValidateJobPostings(jsonContent string) error {
	jobPostingsOnce.Do(func() {
		jobPostingsLoaded, jobPostingsErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(jobPostingsSchema))
	})
	if jobPostingsErr != nil {
		return &SchemaLoadError{Path: "job_postings.schema.json", Message: "invalid embedded schema", Cause: jobPostingsErr}
	}

	result, err := jobPostingsLoaded.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{Path: "job_postings.schema.json", Message: "document could not be loaded", Cause: err}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
