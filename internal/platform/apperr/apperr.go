// Package apperr defines the request-level error taxonomy shared by all
// domain services. Every error a service returns is classified by Kind so
// the HTTP layer can map it to a status code without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP mapping and retry policy.
type Kind int

const (
	// KindUnknown is any error that carries no classification.
	KindUnknown Kind = iota
	// KindValidation marks malformed or out-of-policy input.
	KindValidation
	// KindNotFound marks a missing referenced resource.
	KindNotFound
	// KindConflict marks a uniqueness or state-machine violation,
	// including lost races surfaced by the store.
	KindConflict
	// KindAuthorization marks a caller that is not the resource owner.
	KindAuthorization
	// KindUpstream marks a failure of an external collaborator.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is a classified error. The message describes the violated rule.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is matching on kind sentinels created with New.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// New creates a classified error with a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Validationf builds a KindValidation error.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf builds a KindConflict error.
func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Authorizationf builds a KindAuthorization error.
func Authorizationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

// Upstreamf builds a KindUpstream error. The formatted message should carry
// the raw upstream diagnostic.
func Upstreamf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUpstream, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the classification of err, unwrapping as needed.
// Errors without a classification report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
