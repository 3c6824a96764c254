package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nordkart/kvitt/internal/ledger"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (validation, unknown id, not found)
	ExitCommandError = 2 // Command error (bad flags, unreachable database)
)

// ExitCodeFor maps an error to a process exit code.
// Domain failures are exit 1; infrastructure and usage problems exit 2.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var le *ledger.Error
	if errors.As(err, &le) {
		switch le.Code {
		case ledger.CodeValidation, ledger.CodeUnknownReference, ledger.CodeNotFound:
			return ExitFailure
		case ledger.CodeStorageUnavailable, ledger.CodeSchema:
			return ExitCommandError
		}
	}
	return ExitCommandError
}

// reportedError marks an error that a formatter has already rendered.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported tells whether a command already rendered the error through a
// formatter, so callers at the top level do not print it twice.
func Reported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success outputs a successful result in the configured format.
// In text mode, render is called to produce human-readable output; in
// JSON mode, data is encoded directly.
func (f *OutputFormatter) Success(data interface{}, render func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	render(f.Writer)
	return nil
}

// ErrorResponse renders an error in the configured format and returns it
// marked as reported, so the caller can still propagate it for the exit code.
func (f *OutputFormatter) ErrorResponse(err error) error {
	code := "INTERNAL"
	var le *ledger.Error
	if errors.As(err, &le) {
		code = string(le.Code)
	}
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: err.Error()},
		})
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, err.Error())
	}
	return &reportedError{err: err}
}
