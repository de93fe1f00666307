// Package server provides the HTTP API for cold outreach generation.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cold-connect/internal/ingestion"
	"github.com/jonathan/cold-connect/internal/outreach"
	"github.com/jonathan/cold-connect/internal/parsing"
)

// ErrBadRequest indicates a request body that could not be read
type ErrBadRequest struct {
	Message string
	Cause   error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("bad request: %s", e.Message)
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// ErrUnreadableResume indicates an uploaded resume that could not be decoded
type ErrUnreadableResume struct {
	Cause error
}

func (e *ErrUnreadableResume) Error() string {
	return fmt.Sprintf("unable to read resume: %v", e.Cause)
}

func (e *ErrUnreadableResume) Unwrap() error {
	return e.Cause
}

// ErrBusy indicates every pipeline slot is in use
var ErrBusy = errors.New("too many outreach runs in progress, try again shortly")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest  *ErrBadRequest
		validation  *outreach.ValidationError
		parseErr    *parsing.ParseError
		unreadable  *ErrUnreadableResume
		mailCall    *outreach.APICallError
		extractCall *parsing.APICallError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &badRequest), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &parseErr), errors.As(err, &unreadable), errors.Is(err, ingestion.ErrEmptyContent):
		return http.StatusUnprocessableEntity
	case errors.As(err, &mailCall), errors.As(err, &extractCall), errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the text returned to clients for err. Job extraction
// failures only ever expose their fixed message.
func errorMessage(err error) string {
	var parseErr *parsing.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Error()
	}
	return err.Error()
}
