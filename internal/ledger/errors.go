package ledger

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes ledger failures.
type ErrorCode string

const (
	// CodeValidation indicates caller-supplied data violates a domain rule.
	// Not retryable; Entity and Field name the offending value.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeUnknownReference indicates a write referenced a store, receipt,
	// or item id that does not exist. Not retryable.
	CodeUnknownReference ErrorCode = "UNKNOWN_REFERENCE"

	// CodeNotFound indicates a read targeted a non-existent id.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeStorageUnavailable indicates a transient storage failure
	// (lock contention, timeout). Retryable with backoff.
	CodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"

	// CodeSchema indicates schema initialization failed.
	// Fatal to process startup.
	CodeSchema ErrorCode = "SCHEMA"
)

// Error is the failure type crossing ledger package boundaries.
//
// Entity names the affected table-level entity ("store", "receipt",
// "item"); Field is set for validation errors; ID is set when a specific
// row was targeted.
type Error struct {
	Code    ErrorCode
	Message string
	Entity  string
	Field   string
	ID      int64
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s %s: %s", e.Code, e.Entity, e.Field, e.Message)
	case e.ID != 0:
		return fmt.Sprintf("%s: %s %d: %s", e.Code, e.Entity, e.ID, e.Message)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Entity, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a domain-rule violation on entity.field.
func NewValidationError(entity, field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Entity: entity, Field: field}
}

// NewReferenceError reports a write against a non-existent row.
func NewReferenceError(entity string, id int64) *Error {
	return &Error{Code: CodeUnknownReference, Message: "unknown " + entity, Entity: entity, ID: id}
}

// NewNotFoundError reports a read against a non-existent row.
func NewNotFoundError(entity string, id int64) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found", Entity: entity, ID: id}
}

// NewStorageError wraps a transient storage failure.
func NewStorageError(err error) *Error {
	return &Error{Code: CodeStorageUnavailable, Message: "storage unavailable", Err: err}
}

// NewSchemaError wraps a schema initialization failure.
func NewSchemaError(err error) *Error {
	return &Error{Code: CodeSchema, Message: "schema initialization failed", Err: err}
}

func hasCode(err error, code ErrorCode) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}

// IsValidation reports whether err is a VALIDATION error.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsReference reports whether err is an UNKNOWN_REFERENCE error.
func IsReference(err error) bool { return hasCode(err, CodeUnknownReference) }

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsUnavailable reports whether err is a STORAGE_UNAVAILABLE error.
func IsUnavailable(err error) bool { return hasCode(err, CodeStorageUnavailable) }

// IsSchema reports whether err is a SCHEMA error.
func IsSchema(err error) bool { return hasCode(err, CodeSchema) }
