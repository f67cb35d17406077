// Package domain provides core types for buildwatch.
package domain

// ExitCode represents the exit status of buildwatch itself.
type ExitCode int

const (
	// ExitSuccess indicates the build ran and exited with code 0.
	ExitSuccess ExitCode = 0
	// ExitBuildFailed indicates the build ran and exited with a non-zero code.
	ExitBuildFailed ExitCode = 1
	// ExitError indicates buildwatch could not run the build (usage, config, spawn).
	ExitError ExitCode = 2
	// ExitInterrupted indicates the run was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
