package main

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/terminal"
)

// exitCodeError is a wrapper type for returning exit codes via error interface.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitBuildFailed:
		return "build failed"
	case domain.ExitError:
		return "buildwatch failed with error"
	case domain.ExitInterrupted:
		return "build was interrupted"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitSuccess {
		return nil
	}
	return exitCodeError{code: code}
}

// logError logs err under prefix, followed by any hints attached to it.
func logError(logger *terminal.Logger, prefix string, err error) {
	logger.Logf(terminal.StyleError, "%s: %v", prefix, err)
	for _, hint := range errors.GetAllHints(err) {
		logger.Logf(terminal.StyleDim, "hint: %s", hint)
	}
}
