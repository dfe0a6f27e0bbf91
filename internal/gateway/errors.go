package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidCredentials
	KindMissingAuth
	KindServer
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid-credentials"
	case KindMissingAuth:
		return "missing-auth"
	case KindServer:
		return "server-error"
	case KindDecode:
		return "decode-error"
	default:
		return "unknown"
	}
}

// Fallback messages shown to the user when the backend gives nothing better.
const (
	msgInvalidCredentials = "Invalid email or password."
	msgMissingAuth        = "Not logged in."
	msgServerFallback     = "Server error"
	msgDecode             = "Bad server response."
	msgUnknown            = "Unknown error."
)

// Error is returned by every gateway operation that fails.
//
// Error() is the text a form shows inline: for server errors it is the raw response
// body so backend validation messages reach the user verbatim.
type Error struct {
	Kind   Kind
	Op     string // gateway operation, e.g. "createGroup"
	Status int    // HTTP status, 0 when no response was received
	// Message is the raw response body for server errors.
	Message string
	// Err is the underlying transport or decode error, if any.
	Err error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrMissingAuth        = &Error{Kind: KindMissingAuth}
	ErrServer             = &Error{Kind: KindServer}
	ErrDecode             = &Error{Kind: KindDecode}
	ErrUnknown            = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidCredentials:
		return msgInvalidCredentials
	case KindMissingAuth:
		return msgMissingAuth
	case KindServer:
		if e.Message != "" {
			return e.Message
		}
		return msgServerFallback
	case KindDecode:
		return msgDecode
	default:
		return msgUnknown
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Detail describes the failure for logs, including the underlying cause.
func (e *Error) Detail() string {
	s := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		s += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// KindOf returns the Kind of a gateway error, or KindUnknown for any other error.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindUnknown
}
