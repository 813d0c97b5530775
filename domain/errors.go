package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("conflicting state")
)

// Error kinds recorded in ErrorFeedback.ErrorKind.
const (
	ErrorKindMalformedResponse    = "malformed_response"
	ErrorKindInvalidResponseShape = "invalid_response_shape"
	ErrorKindServiceFailure       = "service_failure"
	ErrorKindTimeout              = "timeout"
	ErrorKindInterrupted          = "interrupted"
)

// MalformedResponseError means the model returned text that is not parseable JSON.
type MalformedResponseError struct {
	Excerpt string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// InvalidResponseShapeError means the model returned JSON that fails the
// required-field and type checklist.
type InvalidResponseShapeError struct {
	Fields []FieldError
}

func (e *InvalidResponseShapeError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid model response shape: " + strings.Join(parts, "; ")
}

// ServiceError wraps a transport or provider failure of the generator call.
type ServiceError struct {
	Provider string
	Timeout  bool
	Cause    error
}

func (e *ServiceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: request timed out: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Cause)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// ErrorKindOf classifies an analysis failure for ErrorFeedback.
func ErrorKindOf(err error) string {
	var malformed *MalformedResponseError
	var shape *InvalidResponseShapeError
	var svc *ServiceError
	switch {
	case errors.As(err, &malformed):
		return ErrorKindMalformedResponse
	case errors.As(err, &shape):
		return ErrorKindInvalidResponseShape
	case errors.As(err, &svc) && svc.Timeout:
		return ErrorKindTimeout
	default:
		return ErrorKindServiceFailure
	}
}
