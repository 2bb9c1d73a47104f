// Package apperr carries the error taxonomy shared by all HTTP handlers:
// validation, not-found, external-service and state-conflict failures each
// map to a distinct status code at the edge.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindExternal
	KindConflict
)

type Error struct {
	Kind     Kind
	Message  string
	Fields   map[string]string // set for validation errors
	Provider string            // set for external-service errors
	Err      error
}

func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports bad input, field by field.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// External wraps a provider failure. The raw cause stays wrapped for
// operator logs; only Message is shown to end users.
func External(provider, msg string, err error) *Error {
	return &Error{Kind: KindExternal, Message: msg, Provider: provider, Err: err}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// KindOf extracts the kind from any error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldsOf returns the per-field messages of a validation error, or nil.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
