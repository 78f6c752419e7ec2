package cora

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures by the real HTTP status carried on
// the error, so callers never have to sniff message substrings.
type ErrorKind int

const (
	// KindTransport is a network-level failure reaching the relay or the
	// provider. The only retryable kind.
	KindTransport ErrorKind = iota
	// KindAuth is a rejected credential or bearer token (401).
	KindAuth
	// KindValidation is a rejected payload (400); Details carries the
	// provider's structured validation body verbatim.
	KindValidation
	// KindNotFound means the provider object no longer exists (404).
	KindNotFound
	// KindProvider is any other non-2xx provider response.
	KindProvider
)

// Error is the structured provider/relay error.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Details json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindTransport {
		return fmt.Sprintf("cora: transport error: %v", e.Err)
	}
	return fmt.Sprintf("cora: provider returned %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func kindOf(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

func IsAuth(err error) bool       { return kindOf(err, KindAuth) }
func IsValidation(err error) bool { return kindOf(err, KindValidation) }
func IsNotFound(err error) bool   { return kindOf(err, KindNotFound) }
func IsTransport(err error) bool  { return kindOf(err, KindTransport) }

func transportErr(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// errorFromStatus builds an Error from a non-2xx relay response body.
func errorFromStatus(status int, message string, details json.RawMessage) *Error {
	e := &Error{Status: status, Message: message, Details: details}
	switch status {
	case 400:
		e.Kind = KindValidation
	case 401:
		e.Kind = KindAuth
	case 404:
		e.Kind = KindNotFound
	default:
		e.Kind = KindProvider
	}
	return e
}
