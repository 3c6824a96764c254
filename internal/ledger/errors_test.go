package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Messages(t *testing.T) {
	assert.Equal(t,
		"VALIDATION: item price: must not be negative",
		NewValidationError("item", "price", "must not be negative").Error())
	assert.Equal(t,
		"UNKNOWN_REFERENCE: store 42: unknown store",
		NewReferenceError("store", 42).Error())
	assert.Equal(t,
		"NOT_FOUND: receipt 9: receipt not found",
		NewNotFoundError("receipt", 9).Error())
}

func TestErrorHelpers_MatchWrapped(t *testing.T) {
	base := NewReferenceError("receipt", 5)
	wrapped := fmt.Errorf("add item: %w", base)

	assert.True(t, IsReference(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsReference(errors.New("plain")))
}

func TestStorageError_Unwraps(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewStorageError(cause)

	assert.True(t, IsUnavailable(err))
	assert.ErrorIs(t, err, cause)
}

func TestSchemaError(t *testing.T) {
	err := NewSchemaError(errors.New("no such table"))
	assert.True(t, IsSchema(err))
	assert.False(t, IsUnavailable(err))
}
