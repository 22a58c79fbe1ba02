// Package proxyerr provides the structured error type shared by every stage
// of the proxy pipeline, in the style of the teacher library's pkg/errors.
package proxyerr

import (
	"errors"
	"fmt"
	"time"
)

// Kind categorizes a failure along the lines of spec.md §7's error taxonomy.
type Kind string

const (
	// KindParse is a malformed client request line or header.
	KindParse Kind = "parse"
	// KindUpstream is a DNS/connect failure reaching the origin server.
	KindUpstream Kind = "upstream"
	// KindStream is a mid-stream read/write failure talking to upstream.
	KindStream Kind = "stream"
	// KindClientWrite is a failure writing to the client socket (EPIPE etc).
	KindClientWrite Kind = "client_write"
	// KindCache is a non-fatal failure inserting into the cache.
	KindCache Kind = "cache"
)

// Error is a structured, context-carrying error.
type Error struct {
	Kind      Kind
	Op        string
	Message   string
	Cause     error
	Timestamp time.Time
}

// Error implements the error interface.
// Format: [kind] op: message: cause
func (e *Error) Error() string {
	s := fmt.Sprintf("[%s]", e.Kind)
	if e.Op != "" {
		s += " " + e.Op
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newErr(kind Kind, op, message string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Op:        op,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// NewParseError reports a malformed client request (spec.md §4.1 edge cases).
func NewParseError(op, message string) *Error {
	return newErr(KindParse, op, message, nil)
}

// NewUpstreamError reports a failure opening the upstream connection.
func NewUpstreamError(op string, cause error) *Error {
	return newErr(KindUpstream, op, "failed to reach origin server", cause)
}

// NewStreamError reports a mid-stream failure talking to upstream.
func NewStreamError(op string, cause error) *Error {
	return newErr(KindStream, op, "upstream stream failed", cause)
}

// NewClientWriteError reports a failure writing to the client socket.
func NewClientWriteError(op string, cause error) *Error {
	return newErr(KindClientWrite, op, "client write failed", cause)
}

// NewCacheError reports a non-fatal cache insertion failure.
func NewCacheError(op string, cause error) *Error {
	return newErr(KindCache, op, "cache insert skipped", cause)
}

// KindOf returns the Kind of err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
