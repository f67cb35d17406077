package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/terminal"
)

func TestExitCode_SuccessIsNil(t *testing.T) {
	if err := exitCode(domain.ExitSuccess); err != nil {
		t.Errorf("expected nil for success, got %v", err)
	}
}

func TestExitCode_WrapsCode(t *testing.T) {
	tests := []struct {
		code domain.ExitCode
		want string
	}{
		{domain.ExitBuildFailed, "build failed"},
		{domain.ExitError, "buildwatch failed with error"},
		{domain.ExitInterrupted, "build was interrupted"},
		{domain.ExitCode(7), "exit code 7"},
	}

	for _, tt := range tests {
		err := exitCode(tt.code)
		exitErr, ok := err.(exitCodeError)
		if !ok {
			t.Fatalf("expected exitCodeError for %d, got %T", tt.code, err)
		}
		if exitErr.code != tt.code {
			t.Errorf("code = %d, want %d", exitErr.code, tt.code)
		}
		if err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
		}
	}
}

func TestLogError_PrintsHints(t *testing.T) {
	var buf bytes.Buffer
	logger := terminal.NewLoggerTo(&buf, false)
	err := errors.WithHint(errors.New("boom"), "try again")

	terminal.WithColorsDisabled(func() {
		logError(logger, "Failed", err)
	})

	out := buf.String()
	if !strings.Contains(out, "Failed: boom") {
		t.Errorf("expected error line, got:\n%s", out)
	}
	if !strings.Contains(out, "hint: try again") {
		t.Errorf("expected hint line, got:\n%s", out)
	}
}

func TestBuildVersionString(t *testing.T) {
	if v := buildVersionString(); !strings.HasPrefix(v, "buildwatch ") {
		t.Errorf("unexpected version string %q", v)
	}
}
