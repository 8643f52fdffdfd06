// Package api implements the resilient request layer for the storefront
// backend.
//
// This package contains:
//   - Error / ErrorKind: closed taxonomy of request failures
//   - RetryConfig / Backoff: retry budget and wait schedule
//   - Executor: HTTP request execution with classification and retries
package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure surfaced by the request layer.
// Callers branch on the kind, never on message text.
type ErrorKind int

const (
	// KindUnknown wraps anything that escaped classification.
	KindUnknown ErrorKind = iota

	// KindValidation means the caller supplied invalid input. Raised
	// before any request is issued, never as a result of network activity.
	KindValidation

	// KindNetwork means the transport failed or the response status
	// indicated failure. The only retryable kind.
	KindNetwork

	// KindProtocol means a response arrived but its body did not match
	// the expected shape. A contract violation, never retried.
	KindProtocol
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Retryable reports whether a failure of this kind may be re-attempted.
func (k ErrorKind) Retryable() bool {
	return k == KindNetwork
}

// Error is a classified request failure. It carries the original cause
// where one exists, reachable through errors.Unwrap.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validationf builds a caller-misuse error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NetworkErr wraps a transport or HTTP-status failure.
func NetworkErr(msg string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Cause: cause}
}

// ProtocolErr wraps a malformed success response.
func ProtocolErr(msg string, cause error) *Error {
	return &Error{Kind: KindProtocol, Message: msg, Cause: cause}
}

// UnknownErr wraps an unclassified failure.
func UnknownErr(msg string, cause error) *Error {
	return &Error{Kind: KindUnknown, Message: msg, Cause: cause}
}

// KindOf returns the classified kind of err. Errors produced outside
// this layer report KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
