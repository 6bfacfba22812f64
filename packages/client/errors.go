package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client failures so callers can tell "server too
// slow" from "server unreachable" from "request never left the machine".
type ErrorKind int

const (
	// KindInvalidRequest covers malformed URLs and invalid header syntax,
	// detected before dispatch. Never retried.
	KindInvalidRequest ErrorKind = iota

	// KindTransport covers connection, TLS and DNS failures reported by
	// the transport. Opaque beyond classification.
	KindTransport

	// KindTimeout is returned when the effective deadline elapses before
	// the transport completes.
	KindTimeout

	// KindMiddleware wraps a failure reported by a middleware, aborting
	// the pipeline.
	KindMiddleware

	// KindMissingLocation is a redirect status with no Location header.
	KindMissingLocation

	// KindTooManyRedirects means the hop limit was exceeded.
	KindTooManyRedirects
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid request"
	case KindTransport:
		return "transport error"
	case KindTimeout:
		return "timeout"
	case KindMiddleware:
		return "middleware error"
	case KindMissingLocation:
		return "missing Location header"
	case KindTooManyRedirects:
		return "too many redirects"
	}
	return "unknown error"
}

// Error is the error type returned by every client operation. It carries
// the attempted URL and, for redirect failures, the hop number and the
// last response received so callers can inspect what actually came back.
type Error struct {
	Kind     ErrorKind
	URL      string
	Hop      int
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.URL != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.URL)
	}
	if e.Hop > 0 {
		msg = fmt.Sprintf("%s (hop %d)", msg, e.Hop)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a client *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// LastResponse extracts the most recent response attached to a redirect
// failure, or nil when err carries none.
func LastResponse(err error) *Response {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Response
	}
	return nil
}
