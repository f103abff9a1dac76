package core

import (
	"errors"
	"fmt"
)

// NotFoundError reports a reference to an unknown session, method, or
// framework. It is never silently recovered; callers check for it with
// errors.As.
type NotFoundError struct {
	Resource string // "session", "method", "framework", "stage"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ErrSessionNotFound builds the NotFoundError for an unknown session id.
func ErrSessionNotFound(id string) error {
	return &NotFoundError{Resource: "session", ID: id}
}

// ErrUnknownMethod builds the NotFoundError for an unknown method id.
func ErrUnknownMethod(id string) error {
	return &NotFoundError{Resource: "method", ID: id}
}

// IsSessionNotFound reports whether err is a session NotFoundError.
func IsSessionNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Resource == "session"
}

// IsUnknownMethod reports whether err is a method NotFoundError.
func IsUnknownMethod(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Resource == "method"
}

// Validation error codes.
const (
	CodeMissingParameter     = "missing_parameter"
	CodeInvalidParameterType = "invalid_parameter_type"
	CodeInvalidArgument      = "invalid_argument"
)

// ValidationError reports bad or missing input, detected before any side
// effect. Retrying after correcting the input is always safe.
type ValidationError struct {
	Code    string
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: parameter %q: %s", e.Code, e.Param, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UpstreamError wraps a persistence or knowledge-source failure. The
// enclosing operation either degrades with a partial result or surfaces
// this wrapper; it never leaves a single atomic mutation half-applied.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure during %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
