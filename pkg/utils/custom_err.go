package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrValidation          = errors.New("validation error")
	ErrTripNotFound        = errors.New("trip not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrRequestShape        = errors.New("request shape error")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMissingCredential   = errors.New("missing credential")
	ErrUnexpectedAIOutput  = errors.New("unexpected behavior of AI")
	ErrSchemaMismatch      = errors.New("schema mismatch")
	ErrDatabaseError       = errors.New("database error")
	ErrSyncDeferred        = errors.New("sync deferred")
)

// ValidationError names the offending field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Reason)
	}
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TransactionError reports a failure inside an atomic write. The whole
// transaction has been rolled back when one of these is returned.
type TransactionError struct {
	Op             string
	Cause          error
	SchemaMismatch bool
}

func (e *TransactionError) Error() string {
	if e.SchemaMismatch {
		return fmt.Sprintf("%s: schema mismatch: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Cause)
}

func (e *TransactionError) Unwrap() error { return e.Cause }

func (e *TransactionError) Is(target error) bool {
	if target == ErrSchemaMismatch {
		return e.SchemaMismatch
	}
	return target == ErrDatabaseError
}

// RequestShapeError is a structurally invalid query reported by a provider,
// e.g. overlapping multi-leg segments. It is shown to the user as is.
type RequestShapeError struct {
	Code    string
	Message string
}

func (e *RequestShapeError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request shape error: %s", e.Message)
	}
	return fmt.Sprintf("request shape error (%s): %s", e.Code, e.Message)
}

func (e *RequestShapeError) Is(target error) bool { return target == ErrRequestShape }
