package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBackend marks failures reported by the model backend or its transport.
	ErrBackend = errors.New("model backend error")
	// ErrUnexpectedResponse marks model replies that do not have the expected shape.
	ErrUnexpectedResponse = errors.New("unexpected model response")
	// ErrPermanent marks backend failures that retrying cannot fix, such as
	// rejected credentials or an unknown model.
	ErrPermanent = errors.New("permanent failure")

	ErrSessionNotFound = errors.New("session not found")
	ErrScanNotFound    = errors.New("scan not found")
)

// ValidationError reports caller input that was rejected before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// SchemaViolationError reports a model reply that does not satisfy the
// seven-finding contract. Raw carries the reply text as received.
type SchemaViolationError struct {
	Raw string
	Err error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("model response violates finding schema: %v", e.Err)
}

func (e *SchemaViolationError) Unwrap() error { return e.Err }

// ErrorKind classifies failures surfaced from the fail-fast model path.
type ErrorKind string

const (
	KindBackend            ErrorKind = "backend"
	KindUnexpectedResponse ErrorKind = "unexpected_response"
	KindUnknown            ErrorKind = "unknown"
)

// InvocationError is a model invocation failure tagged with its kind.
type InvocationError struct {
	Kind    ErrorKind
	ModelID string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s error invoking model %q: %v", e.Kind, e.ModelID, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ClassifyInvocationError tags err with the kind matching the sentinel it wraps.
func ClassifyInvocationError(modelID string, err error) *InvocationError {
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return invErr
	}

	kind := KindUnknown
	switch {
	case errors.Is(err, ErrBackend):
		kind = KindBackend
	case errors.Is(err, ErrUnexpectedResponse):
		kind = KindUnexpectedResponse
	}
	return &InvocationError{Kind: kind, ModelID: modelID, Err: err}
}

// RetryExhaustedError is returned when a retry policy gives up.
type RetryExhaustedError struct {
	Attempts int
	Reason   string
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "giving up after %d attempt(s)", e.Attempts)
	if e.Reason != "" {
		fmt.Fprintf(&sb, " (%s)", e.Reason)
	}
	if e.Last != nil {
		fmt.Fprintf(&sb, ": %v", e.Last)
	}
	return sb.String()
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }
