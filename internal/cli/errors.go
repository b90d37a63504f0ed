package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/guardgen/internal/core/patch"
	"github.com/example/guardgen/internal/scaffold"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2 // bad flags or guard names
	ExitDialect = 3 // framework version unusable
	ExitPartial = 4 // run finished with failed guards
)

// CommandError provides structured error reporting for CLI commands.
type CommandError struct {
	Message    string
	Cause      error
	Suggestion string
	ExitCode   int
}

// Error implements the error interface.
func (e CommandError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "command failed"
}

// Unwrap exposes the wrapped error.
func (e CommandError) Unwrap() error {
	return e.Cause
}

// ExitStatus returns the process exit code associated with the error.
func (e CommandError) ExitStatus() int {
	if e.ExitCode != 0 {
		return e.ExitCode
	}
	return ExitFailure
}

// classifyError maps domain errors onto exit codes and hints.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var cerr CommandError
	if errors.As(err, &cerr) {
		return err
	}

	switch {
	case errors.Is(err, scaffold.ErrInvalidName):
		return CommandError{
			Cause:      err,
			Suggestion: "guard names start with a letter and use only letters, digits, '_', '-' or spaces",
			ExitCode:   ExitUsage,
		}
	case errors.Is(err, patch.ErrDialectMismatch):
		return CommandError{
			Cause:      err,
			Suggestion: "pass --framework-version (e.g. --framework-version 11.0.0) or set framework_version in .guardgen/config.yaml",
			ExitCode:   ExitDialect,
		}
	default:
		return CommandError{Cause: err, ExitCode: ExitFailure}
	}
}

// ReportError prints err to w and returns the exit code for it.
func ReportError(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}

	var cerr CommandError
	if !errors.As(classifyError(err), &cerr) {
		fmt.Fprintln(w, err)
		return ExitFailure
	}

	msg := strings.TrimSpace(cerr.Error())
	if msg != "" {
		fmt.Fprintf(w, "Error: %s\n", msg)
	}
	if cerr.Cause != nil && cerr.Message != "" && verbose {
		fmt.Fprintf(w, "details: %v\n", cerr.Cause)
	}
	if cerr.Suggestion != "" {
		fmt.Fprintf(w, "hint: %s\n", cerr.Suggestion)
	}
	return cerr.ExitStatus()
}
