package extract

import (
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/domain"
)

var (
	gccHeader = regexp.MustCompile(`^(.+?):(\d+):(\d+): (fatal error|error|warning|note): (.*)$`)
	// Legacy "    ^" and gutter style "      |     ^~~~~~" caret lines.
	gccCaret = regexp.MustCompile(`^[ \t]*(?:\|[ \t]*)?[~ \t]*\^[~^ \t]*$`)
)

// GCC extracts gcc and clang diagnostics that carry a source line and a caret line:
//
//	./regex.c:280:4: error: 'spatule' undeclared (first use in this function)
//	    spatule++;
//	    ^
//
// Headers without that context (summary notes, "In function" lines) are not entries.
type GCC struct{}

// NewGCC returns the gcc/clang extractor.
func NewGCC() *GCC { return &GCC{} }

// Name implements Extractor.
func (g *GCC) Name() string { return "gcc" }

// DefaultOverlap implements OverlapHinter.
func (g *GCC) DefaultOverlap() int { return 200 }

// Extract implements Extractor.
func (g *GCC) Extract(window []byte, _ int) ([]RawEntry, error) {
	lines := splitLines(window)
	var out []RawEntry
	for i := 0; i+2 < len(lines); i++ {
		header := lines[i]
		m := gccHeader.FindSubmatchIndex(window[header.start:header.end])
		if m == nil {
			continue
		}
		caret := lines[i+2]
		if !caret.complete || !gccCaret.Match(window[caret.start:caret.end]) {
			continue
		}

		text := window[header.start:header.end]
		lineNo, err := atoiGroup(string(text[m[4]:m[5]]))
		if err != nil {
			return nil, errors.Wrap(err, "line number")
		}
		col, err := atoiGroup(string(text[m[6]:m[7]]))
		if err != nil {
			return nil, errors.Wrap(err, "column number")
		}

		out = append(out, RawEntry{
			Kind:       domain.ParseKind(string(text[m[8]:m[9]])),
			Filename:   string(text[m[2]:m[3]]),
			Line:       lineNo,
			Column:     col,
			StartIndex: header.start,
			EndIndex:   caret.end,
		})
		i += 2
	}
	return out, nil
}
