// Package common defines shared sentinel errors and the error taxonomy used
// across the qbank client. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized signals a 401 from the backend or the identity provider.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound signals a 404 from the backend.
	ErrNotFound = errors.New("not found")

	// ErrCancelled signals that the user declined a confirmation prompt.
	ErrCancelled = errors.New("cancelled")
)

// AuthError wraps a failure of a provider or backend auth operation.
// Op names the operation that failed (e.g. "register", "login").
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError wraps err into an *AuthError for the given operation.
func NewAuthError(op string, err error) *AuthError {
	return &AuthError{Op: op, Err: err}
}

// RequestError is any non-auth failure of a backend call. Message carries the
// server-supplied message when the response body contained one; otherwise it
// is a generic fallback. Status is the HTTP status code, or 0 when the
// request never reached the server.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

func (e *RequestError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	}
	return nil
}

// ParseError reports a malformed record encountered while parsing a CSV file
// on the client. Line is 1-based; 0 means the line is unknown.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
