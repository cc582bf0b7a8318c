package apperr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingProduct = errors.New("no product selected")
	ErrNetwork        = errors.New("network failure")
	ErrRejected       = errors.New("request rejected")

	// ErrValidation marks user input rejected before any request is sent.
	ErrValidation = errors.New("validation failed")
)

// NetworkError describes a failed call to the storefront backend: either the
// request never completed (Err set) or the server answered with a non-2xx
// status (StatusCode set, Message holds the server-provided error if any).
type NetworkError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}

// Rejected reports a request the server answered but refused, keeping the
// server-provided message.
func Rejected(op, msg string) error {
	return &rejectedError{op: op, msg: msg}
}

type rejectedError struct {
	op  string
	msg string
}

func (e *rejectedError) Error() string {
	if e.msg == "" {
		return e.op + ": " + ErrRejected.Error()
	}
	return e.op + ": " + ErrRejected.Error() + ": " + e.msg
}

func (e *rejectedError) Unwrap() error { return ErrRejected }

// ServerMessage extracts the message a server attached to err, if any.
func ServerMessage(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Message
	}
	var rej *rejectedError
	if errors.As(err, &rej) {
		return rej.msg
	}
	return ""
}

// UserMessage returns the server-provided message carried by err, or fallback.
func UserMessage(err error, fallback string) string {
	if msg := strings.TrimSpace(ServerMessage(err)); msg != "" {
		return msg
	}
	return fallback
}

func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrMissingProduct):
		return "missing_product"

	case errors.Is(err, ErrValidation):
		return "validation"

	case errors.Is(err, ErrRejected):
		return "rejected"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, context.Canceled):
		return "canceled"

	case errors.Is(err, ErrNetwork):
		return "network"

	default:
		return "internal"
	}
}
