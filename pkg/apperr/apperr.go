// Package apperr provides the typed application errors used across services
// and mapped to HTTP statuses at the handler boundary.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected persistence or system failure. The
	// original error is kept for operators but not shown as actionable.
	KindInternal Kind = iota
	// KindNotFound means a referenced order, assignment, entity, or
	// inventory item does not exist.
	KindNotFound
	// KindValidation means submitted quantities or fields violate a budget
	// or requirement; the whole stage transaction is rolled back.
	KindValidation
	// KindInsufficient is a ledger-level shortfall during a strict
	// operation (direct stock sale, tape consumption).
	KindInsufficient
)

// Error carries a kind, a human-readable message, and for validation
// failures the identifying data (product names etc.) needed to fix the
// input without re-fetching state.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, ", ")
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// NotFound reports a missing entity by name and identifier.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// Validation reports a rejected submission. Details list the offending
// items (e.g. product names) for the caller to correct.
func Validation(msg string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// Validationf formats a validation message.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Insufficient reports a hard shortfall on a strict resource.
func Insufficient(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficient, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// DetailsOf returns the detail list if err is an application error.
func DetailsOf(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
