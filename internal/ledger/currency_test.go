package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitScale(t *testing.T) {
	scale, ok := UnitScale("NOK")
	assert.True(t, ok)
	assert.Equal(t, int64(100), scale)

	_, ok = UnitScale("XXX")
	assert.False(t, ok)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "3.00 NOK", FormatAmount(300, "NOK"))
	assert.Equal(t, "1.50 EUR", FormatAmount(150, "EUR"))
	assert.Equal(t, "0.05 NOK", FormatAmount(5, "NOK"))
	assert.Equal(t, "-2.50 NOK", FormatAmount(-250, "NOK"))
	// Unknown codes render raw minor units.
	assert.Equal(t, "300 XXX", FormatAmount(300, "XXX"))
}

func TestNewBatchToken_Unique(t *testing.T) {
	a, b := NewBatchToken(), NewBatchToken()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
