package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrBusy is returned when a form is submitted while a previous submission is still pending.
	ErrBusy = errors.New("a submission is already in progress")

	// ErrAccessDenied is the authorization denial rendered in place of gated content.
	ErrAccessDenied = errors.New("Access Denied: Admin privileges required.")
)

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a local, field-scoped error. It never reaches the network.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// FieldMap returns the first message reported for each field.
func (err ValidationError) FieldMap() map[string]string {
	fields := make(map[string]string, len(err.Fields))
	for _, fErr := range err.Fields {
		if _, ok := fields[fErr.Field]; !ok {
			fields[fErr.Field] = fErr.Error
		}
	}
	return fields
}

// RequestError is a network or backend failure, surfaced as a single form-level message.
type RequestError struct {
	Status  int    // 0 when the request never got a response
	Message string // user-displayable message extracted from the response, if any
	Err     error
}

func NewRequestError(status int, msg string, err error) *RequestError {
	return &RequestError{Status: status, Message: msg, Err: err}
}

func (err *RequestError) Error() string {
	switch {
	case err.Message != "":
		return err.Message
	case err.Err != nil:
		return err.Err.Error()
	case err.Status != 0:
		return fmt.Sprintf("request failed with status %d (%s)", err.Status, http.StatusText(err.Status))
	default:
		return "request failed"
	}
}

func (err *RequestError) Unwrap() error { return err.Err }

// MessageOr returns the message sent by the backend, or fallback when none was sent.
func (err *RequestError) MessageOr(fallback string) string {
	if err == nil || err.Message == "" {
		return fallback
	}
	return err.Message
}

// AsRequestError converts any error into a *RequestError, keeping existing ones as-is.
func AsRequestError(err error) *RequestError {
	if err == nil {
		return nil
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return &RequestError{Err: err}
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
