package extract

import "github.com/richhaase/buildwatch/internal/domain"

// RawEntry is a candidate diagnostic with offsets relative to the window it was found in.
type RawEntry struct {
	Kind       domain.Kind
	Filename   string
	Line       int
	Column     int
	StartIndex int
	EndIndex   int
}

// Extractor recognizes diagnostics of one compiler output format.
type Extractor interface {
	// Name returns the registry name (e.g., "gcc").
	Name() string

	// Extract returns the entries found in window, in order of appearance.
	// window always begins at the start of a line and must not be written to.
	// correction is the absolute offset of window[0] in the full log.
	// Returned offsets are relative to window.
	Extract(window []byte, correction int) ([]RawEntry, error)
}

// OverlapHinter is implemented by extractors that know the largest span an
// entry of their format usually takes.
type OverlapHinter interface {
	DefaultOverlap() int
}

// DefaultOverlap is used when an extractor gives no hint.
const DefaultOverlap = 200

// OverlapFor returns the extractor's preferred overlap or DefaultOverlap.
func OverlapFor(x Extractor) int {
	if h, ok := x.(OverlapHinter); ok {
		if n := h.DefaultOverlap(); n > 0 {
			return n
		}
	}
	return DefaultOverlap
}

// Func adapts a plain function to the Extractor interface.
type Func struct {
	ExtractorName string
	Fn            func(window []byte, correction int) ([]RawEntry, error)
}

// Name implements Extractor.
func (f Func) Name() string { return f.ExtractorName }

// Extract implements Extractor.
func (f Func) Extract(window []byte, correction int) ([]RawEntry, error) {
	return f.Fn(window, correction)
}
