package extract

import (
	"regexp"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/domain"
)

// Pattern describes a single-line diagnostic format by capture-group index.
// A zero index means the field is not captured.
type Pattern struct {
	Regexp   *regexp.Regexp
	File     int
	Line     int
	Column   int
	Severity int
	// Kind is used when Severity is zero.
	Kind domain.Kind
}

// PatternExtractor reports every complete line matching its pattern.
type PatternExtractor struct {
	name    string
	pattern Pattern
}

// NewPatternExtractor creates a line-oriented extractor.
func NewPatternExtractor(name string, p Pattern) *PatternExtractor {
	return &PatternExtractor{name: name, pattern: p}
}

// NewGo matches go build and go vet output: "file.go:12:3: message".
func NewGo() *PatternExtractor {
	return NewPatternExtractor("go", Pattern{
		Regexp: regexp.MustCompile(`^(.+?\.go):(\d+):(?:(\d+):)? (.+)$`),
		File:   1,
		Line:   2,
		Column: 3,
		Kind:   domain.KindError,
	})
}

// NewGeneric matches "file:line[:col]: severity: message" with severity
// one of error, warning, note or info.
func NewGeneric() *PatternExtractor {
	return NewPatternExtractor("generic", Pattern{
		Regexp:   regexp.MustCompile(`^([^\s:][^:]*):(\d+):(?:(\d+):)?\s*(fatal error|error|warning|note|info)\s*:\s*(.*)$`),
		File:     1,
		Line:     2,
		Column:   3,
		Severity: 4,
	})
}

// Name implements Extractor.
func (p *PatternExtractor) Name() string { return p.name }

// DefaultOverlap implements OverlapHinter. Entries are one line long.
func (p *PatternExtractor) DefaultOverlap() int { return 512 }

// Extract implements Extractor.
func (p *PatternExtractor) Extract(window []byte, _ int) ([]RawEntry, error) {
	lines := splitLines(window)
	var out []RawEntry
	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		if !ln.complete {
			break
		}
		m := p.pattern.Regexp.FindSubmatchIndex(window[ln.start:ln.end])
		if m == nil {
			continue
		}
		e, err := p.entry(window[ln.start:ln.end], m)
		if err != nil {
			return nil, err
		}
		e.StartIndex = ln.start
		e.EndIndex = ln.end
		out = append(out, e)
	}
	return out, nil
}

func (p *PatternExtractor) entry(text []byte, m []int) (RawEntry, error) {
	group := func(n int) string {
		if n <= 0 || 2*n+1 >= len(m) || m[2*n] < 0 {
			return ""
		}
		return string(text[m[2*n]:m[2*n+1]])
	}

	e := RawEntry{Filename: group(p.pattern.File), Kind: p.pattern.Kind}
	var err error
	if e.Line, err = atoiGroup(group(p.pattern.Line)); err != nil {
		return RawEntry{}, errors.Wrap(err, "line number")
	}
	if e.Column, err = atoiGroup(group(p.pattern.Column)); err != nil {
		return RawEntry{}, errors.Wrap(err, "column number")
	}
	if p.pattern.Severity > 0 {
		e.Kind = domain.ParseKind(group(p.pattern.Severity))
	}
	return e, nil
}

func atoiGroup(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
