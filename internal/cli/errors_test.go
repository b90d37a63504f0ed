package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/example/guardgen/internal/core/patch"
	"github.com/example/guardgen/internal/scaffold"
)

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"nil", nil, ExitOK, ""},
		{"plain", errors.New("boom"), ExitFailure, "Error: boom"},
		{"invalid name", fmt.Errorf("%w: name is empty", scaffold.ErrInvalidName), ExitUsage, "hint: guard names start with a letter"},
		{"dialect mismatch", fmt.Errorf("flag: %w", &patch.DialectMismatchError{Version: "latest"}), ExitDialect, `"latest" is not a semantic version`},
		{"partial", CommandError{Message: "1 of 2 guard(s) failed", ExitCode: ExitPartial}, ExitPartial, "Error: 1 of 2 guard(s) failed"},
		{"command error default code", CommandError{Message: "project validation failed"}, ExitFailure, "project validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := ReportError(&buf, tt.err)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(buf.String(), tt.wantOut) {
				t.Errorf("output %q missing %q", buf.String(), tt.wantOut)
			}
		})
	}
}

func TestClassifyError_KeepsCommandErrors(t *testing.T) {
	original := CommandError{Message: "custom", ExitCode: ExitPartial}
	var cerr CommandError
	if !errors.As(classifyError(original), &cerr) || cerr.ExitCode != ExitPartial {
		t.Errorf("classifyError changed a CommandError: %+v", cerr)
	}
}
