package domain

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnknownExtractor is returned when a LaunchSpec names an extractor
	// that is not registered.
	ErrUnknownExtractor = errors.New("unknown extractor")

	// ErrEngineClosed is returned when a parse engine is used after it completed or failed.
	ErrEngineClosed = errors.New("parse engine already finished")

	// ErrReentrantFeed is returned when an event handler feeds the engine that is notifying it.
	ErrReentrantFeed = errors.New("reentrant feed from event handler")
)

// SpawnError reports that the build process could not be started.
type SpawnError struct {
	Command string
	Dir     string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// SourceStreamError reports a failure reading the diagnostic stream.
// The parse it aborted produced an incomplete log.
type SourceStreamError struct {
	// Offset is the number of bytes consumed before the failure.
	Offset int
	Err    error
}

func (e *SourceStreamError) Error() string {
	return fmt.Sprintf("diagnostic stream failed after %d bytes: %v", e.Offset, e.Err)
}

func (e *SourceStreamError) Unwrap() error { return e.Err }

// ExtractorError reports that an extractor produced no usable result for one window.
// Only the candidates of that window are lost.
type ExtractorError struct {
	Extractor string
	// WindowStart is the absolute offset of the window that failed.
	WindowStart int
	WindowEnd   int
	Err         error
}

func (e *ExtractorError) Error() string {
	return fmt.Sprintf("extractor %s failed on bytes [%d,%d): %v", e.Extractor, e.WindowStart, e.WindowEnd, e.Err)
}

func (e *ExtractorError) Unwrap() error { return e.Err }
