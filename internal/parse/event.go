package parse

import "github.com/richhaase/buildwatch/internal/domain"

// Event is one notification from an Engine. It is one of EntryDiscovered,
// Completed, SourceError or ExtractorFailed.
type Event interface {
	isEvent()
}

// EntryDiscovered is emitted once per new entry, in discovery order.
type EntryDiscovered struct {
	Entry domain.Entry
}

// Completed is emitted when the input ended normally.
type Completed struct {
	Counts domain.Counts
}

// SourceError is emitted when the input failed. Err is a *domain.SourceStreamError.
type SourceError struct {
	Err error
}

// ExtractorFailed is a system-level warning: one chunk's candidates were dropped.
// Err is a *domain.ExtractorError.
type ExtractorFailed struct {
	Err error
}

func (EntryDiscovered) isEvent() {}
func (Completed) isEvent()       {}
func (SourceError) isEvent()     {}
func (ExtractorFailed) isEvent() {}

// Handler receives engine events synchronously.
type Handler func(Event)
