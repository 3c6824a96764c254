package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordkart/kvitt/internal/ledger"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", ledger.NewValidationError("item", "name", "must not be empty"), ExitFailure},
		{"reference", ledger.NewReferenceError("receipt", 9), ExitFailure},
		{"not found", ledger.NewNotFoundError("receipt", 9), ExitFailure},
		{"storage", ledger.NewStorageError(errors.New("locked")), ExitCommandError},
		{"schema", ledger.NewSchemaError(errors.New("bad ddl")), ExitCommandError},
		{"plain error", errors.New("bad flag"), ExitCommandError},
		{"wrapped domain error", fmt.Errorf("context: %w", ledger.NewNotFoundError("item", 3)), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestSuccess_TextCallsRender(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.Success(map[string]int64{"id": 7}, func(w io.Writer) {
		fmt.Fprintln(w, "Created receipt 7")
	})
	require.NoError(t, err)
	assert.Equal(t, "Created receipt 7\n", buf.String())
}

func TestSuccess_JSONEncodesData(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	err := f.Success(map[string]int64{"id": 7}, func(w io.Writer) {
		t.Fatal("render must not be called in json mode")
	})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestErrorResponse_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	orig := ledger.NewNotFoundError("receipt", 42)
	err := f.ErrorResponse(orig)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Error [NOT_FOUND]:")
	assert.True(t, Reported(err))
	assert.Equal(t, ExitFailure, ExitCodeFor(err))
}

func TestErrorResponse_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	err := f.ErrorResponse(ledger.NewValidationError("item", "unit", "must not be empty"))
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION", resp.Error.Code)
}

func TestReported_PlainErrorIsNot(t *testing.T) {
	assert.False(t, Reported(errors.New("bad flag")))
}
