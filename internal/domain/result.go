package domain

import "time"

// Outcome is the overall result of a launch, derived only from the exit code.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// OutcomeFromExitCode returns OutcomeSuccess for 0 and OutcomeFailure otherwise.
func OutcomeFromExitCode(code int) Outcome {
	if code == 0 {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// ExitCode maps a build outcome to buildwatch's own exit code.
func (o Outcome) ExitCode() ExitCode {
	if o == OutcomeSuccess {
		return ExitSuccess
	}
	return ExitBuildFailed
}

// BuildResult holds everything known about one finished launch.
type BuildResult struct {
	ID       string
	Spec     LaunchSpec
	Outcome  Outcome
	ExitCode int
	Log      ParsedLog
	// ParseErr is set when reading the diagnostic stream failed.
	ParseErr error
	// SystemWarnings counts extractor failures; their chunks were skipped.
	SystemWarnings int
	Duration       time.Duration
}
