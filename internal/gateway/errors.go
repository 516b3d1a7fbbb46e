package gateway

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures so callers can tell a transport
// fault from a remote rejection without parsing message strings.
type ErrorKind string

const (
	// KindTransport: the request never produced an HTTP response
	// (dial failure, timeout, context cancellation).
	KindTransport ErrorKind = "transport"
	// KindRemote: non-2xx with a parseable detail/message body.
	KindRemote ErrorKind = "remote"
	// KindDecode: the response arrived but its body was not the
	// expected JSON.
	KindDecode ErrorKind = "decode"
	// KindValidation: the client refused to send the request.
	KindValidation ErrorKind = "validation"
	// KindUnauthenticated: no usable session token.
	KindUnauthenticated ErrorKind = "unauthenticated"
	// KindConflict: remote state changed underneath a multi-step
	// operation (set by the workflow layer, not by raw calls).
	KindConflict ErrorKind = "conflict"
)

// Error is the single error type surfaced by all gateway calls.
type Error struct {
	Kind    ErrorKind
	Status  int    // HTTP status, 0 when no response was received
	Path    string // request path
	Message string // human-readable; detail/message field or status text
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s [%d]: %s", e.Kind, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Path, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of err, or "" for non-gateway errors.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
