package api

import "fmt"

// Kind classifies a failed client operation. Every boundary-crossing call
// in the client reports failure through exactly one *Error carrying a Kind;
// callers branch on the kind, never on status codes or error strings.
type Kind string

const (
	// KindValidation: input rejected before or by the backend.
	KindValidation Kind = "validation"
	// KindUnauthenticated: no token in the local credential store; the
	// request was never attempted.
	KindUnauthenticated Kind = "unauthenticated"
	// KindUnauthorized: the backend rejected the token (401).
	KindUnauthorized Kind = "unauthorized"
	// KindConflict: duplicate account (409).
	KindConflict Kind = "conflict"
	// KindNotFound: missing resource or ownership mismatch (404).
	KindNotFound Kind = "not_found"
	// KindNetwork: the request never completed.
	KindNetwork Kind = "network"
	// KindServer: unexpected 5xx or a malformed response body.
	KindServer Kind = "server"
	// KindConfiguration: a required credential or setting is missing.
	KindConfiguration Kind = "configuration"
	// KindAnalysisFailed: the vision service call or its response parse failed.
	KindAnalysisFailed Kind = "analysis_failed"
)

// Error is the uniform failure type surfaced by all client operations.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches an underlying cause.
func WrapError(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" when err is not a client *Error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

func IsUnauthenticated(err error) bool { return KindOf(err) == KindUnauthenticated }
func IsUnauthorized(err error) bool    { return KindOf(err) == KindUnauthorized }
func IsNotFound(err error) bool        { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool        { return KindOf(err) == KindConflict }
