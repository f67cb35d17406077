package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a diagnostic entry.
type Kind int

const (
	KindOther   Kind = iota // Recognized entry with an unclassified type (e.g. "remark")
	KindError               // "error", "fatal error", ...
	KindWarning             // "warning"
	KindNote                // "note"
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindNote:
		return "note"
	default:
		return "other"
	}
}

// ParseKind maps a compiler type word to a Kind.
// Any type containing "error" counts as an error, so "fatal error" is KindError.
func ParseKind(s string) Kind {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "error"):
		return KindError
	case s == "warning":
		return KindWarning
	case s == "note":
		return KindNote
	default:
		return KindOther
	}
}

// MarshalJSON encodes the kind as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid kind: %w", err)
	}
	*k = ParseKind(s)
	return nil
}

// Entry is one diagnostic discovered in build output.
//
// Entry is comparable and the whole struct is its identity: two entries are
// the same only if every field matches.
type Entry struct {
	Kind     Kind   `json:"type"`
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	// Text is the verbatim span of the log, context lines and caret included.
	Text string `json:"text"`
	// StartIndex and EndIndex are absolute byte offsets into the accumulated log.
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

// Location returns "file:line:col".
func (e Entry) Location() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", e.Filename, e.Line, e.Column)
	}
	return fmt.Sprintf("%s:%d", e.Filename, e.Line)
}

// Headline returns the first line of the entry text.
func (e Entry) Headline() string {
	if i := strings.IndexByte(e.Text, '\n'); i >= 0 {
		return e.Text[:i]
	}
	return e.Text
}

// Counts holds per-kind totals. Other entries are never counted.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Notes    int `json:"notes"`
}

// Add increments the counter for kind k.
func (c *Counts) Add(k Kind) {
	switch k {
	case KindError:
		c.Errors++
	case KindWarning:
		c.Warnings++
	case KindNote:
		c.Notes++
	}
}

// Total returns errors + warnings + notes.
func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Notes
}

// ParsedLog is the ordered, deduplicated set of entries found in one parse session.
type ParsedLog struct {
	Entries []Entry `json:"entries"`
	Counts
	// Incomplete is set when the input stream failed before its end.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Clone returns a copy that shares no mutable state with l.
func (l ParsedLog) Clone() ParsedLog {
	out := l
	out.Entries = make([]Entry, len(l.Entries))
	copy(out.Entries, l.Entries)
	return out
}

// ByKind returns the entries of kind k in discovery order.
func (l ParsedLog) ByKind(k Kind) []Entry {
	var out []Entry
	for _, e := range l.Entries {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// LaunchSpec describes one build invocation.
type LaunchSpec struct {
	WorkingDirectory string
	Command          string
	Arguments        []string
	// ExtractorSelector names the extractor in the registry.
	ExtractorSelector string
}

// Clone returns a copy that shares no slices with s.
func (s LaunchSpec) Clone() LaunchSpec {
	out := s
	out.Arguments = append([]string(nil), s.Arguments...)
	return out
}

// CommandLine returns the command and its arguments joined by spaces.
func (s LaunchSpec) CommandLine() string {
	return strings.TrimSpace(s.Command + " " + strings.Join(s.Arguments, " "))
}
