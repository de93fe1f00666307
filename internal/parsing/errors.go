package parsing

import "fmt"

// ParseFailureMessage is the user-facing text of every ParseError.
const ParseFailureMessage = "Context too big. Unable to parse jobs."

// APICallError represents a failed call to the language model
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError reports a model response that is not a usable job-postings
// document. Error returns only Message so it can be shown to users as is;
// the decoder or schema failure is kept in Cause.
type ParseError struct {
	Message string
	Cause   error
}

func newParseError(cause error) *ParseError {
	return &ParseError{Message: ParseFailureMessage, Cause: cause}
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Detail includes the underlying cause, for logs.
func (e *ParseError) Detail() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}
