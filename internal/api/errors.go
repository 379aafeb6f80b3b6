package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client failures.
type ErrorKind int

const (
	// KindInvalidRequest means no well-formed request could be built.
	KindInvalidRequest ErrorKind = iota + 1
	// KindAuthenticationRequired means the call needs a credential and none
	// is stored. No I/O was attempted.
	KindAuthenticationRequired
	// KindTransport wraps a failed network exchange.
	KindTransport
	// KindDecoding means the response body did not match the expected shape.
	KindDecoding
	// KindServer is reserved for structured server errors. No call site
	// produces it yet.
	KindServer
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrTransport              = errors.New("transport failure")
	ErrDecoding               = errors.New("decoding failure")
	ErrServer                 = errors.New("server error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidRequest:
		return ErrInvalidRequest
	case KindAuthenticationRequired:
		return ErrAuthenticationRequired
	case KindTransport:
		return ErrTransport
	case KindDecoding:
		return ErrDecoding
	case KindServer:
		return ErrServer
	}
	return nil
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by every Client operation that fails.
type Error struct {
	Kind ErrorKind
	// Op is the client method that failed, e.g. "FetchEvents".
	Op string
	// StatusCode is the HTTP status when a response was received, else 0.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDecoding) and friends match by kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}
