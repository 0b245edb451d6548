// Package errs defines the error taxonomy shared by all layers.
// Each layer translates failures from the layer below into one of
// these members; native driver or client errors never cross a layer
// boundary.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound indicates a requested record or route is missing.
var ErrNotFound = errors.New("not found")

// ErrForbidden indicates the acting user holds no permission for the
// attempted action.
var ErrForbidden = errors.New("permission denied")

// ErrAuth is returned for any credential mismatch. The message is
// deliberately identical for "no such identity" and "wrong password"
// so responses cannot be used to enumerate accounts.
var ErrAuth = errors.New("email or password incorrect")

// ValidationError carries per-field validation messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validation builds a single-field validation error.
func Validation(field string, messages ...string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: messages}}
}

// Add appends a message for a field.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// UpstreamError wraps a failed or timed-out call to an external
// identity provider.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as a provider failure.
func Upstream(provider string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Err: err}
}

// StoreError wraps a failed store operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a persistence failure.
func Store(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// TokenError indicates a token could not be signed or parsed.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token: %v", e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Token wraps err as a token encoding failure.
func Token(err error) *TokenError {
	return &TokenError{Err: err}
}
