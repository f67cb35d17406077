package build

import "github.com/richhaase/buildwatch/internal/domain"

// Stream identifies one of the build's output streams.
type Stream int

const (
	StreamStdout Stream = iota
	StreamStderr
)

func (s Stream) String() string {
	if s == StreamStderr {
		return "stderr"
	}
	return "stdout"
}

// Notification is one event of a launch. All notifications of a launch are
// delivered from a single goroutine, in order.
type Notification interface {
	isNotification()
}

// RawOutput carries one chunk of build output as read.
type RawOutput struct {
	Stream Stream
	Text   string
}

// BuildError reports a newly discovered error entry.
type BuildError struct{ Entry domain.Entry }

// BuildWarning reports a newly discovered warning entry.
type BuildWarning struct{ Entry domain.Entry }

// BuildNote reports a newly discovered note entry.
type BuildNote struct{ Entry domain.Entry }

// BuildDone reports that the process exited.
type BuildDone struct {
	ExitCode int
}

// FinalReport carries the complete parsed log once stderr has ended.
type FinalReport struct {
	Log domain.ParsedLog
}

// ParseFailed reports that the diagnostic stream failed. Err is a *domain.SourceStreamError.
type ParseFailed struct {
	Err error
}

// SystemWarning reports a problem that did not stop the build, such as an
// extractor failing on one chunk.
type SystemWarning struct {
	Err error
}

func (RawOutput) isNotification()     {}
func (BuildError) isNotification()    {}
func (BuildWarning) isNotification()  {}
func (BuildNote) isNotification()     {}
func (BuildDone) isNotification()     {}
func (FinalReport) isNotification()   {}
func (ParseFailed) isNotification()   {}
func (SystemWarning) isNotification() {}

// Handler receives launch notifications.
type Handler func(Notification)
