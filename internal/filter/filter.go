// Package filter hides diagnostics from display by message pattern or file glob.
// Filtering never changes what the parse engine recorded.
package filter

import (
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"

	"github.com/richhaase/buildwatch/internal/domain"
)

// Filter holds compiled exclusion rules.
type Filter struct {
	excludePatterns []*regexp.Regexp
	excludeFiles    []glob.Glob
}

// New creates a Filter from regex patterns matched against entry text and
// glob patterns matched against entry filenames ('/' is the separator, so
// "vendor/**" skips a whole tree).
// Returns an error if any pattern does not compile.
func New(patterns, files []string) (*Filter, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid exclude pattern %q", p)
		}
		compiled = append(compiled, re)
	}

	globs := make([]glob.Glob, 0, len(files))
	for _, p := range files {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid exclude file glob %q", p)
		}
		globs = append(globs, g)
	}

	return &Filter{excludePatterns: compiled, excludeFiles: globs}, nil
}

// Excludes reports whether e should be hidden.
func (f *Filter) Excludes(e domain.Entry) bool {
	if f == nil {
		return false
	}
	for _, g := range f.excludeFiles {
		if g.Match(e.Filename) {
			return true
		}
	}
	for _, re := range f.excludePatterns {
		if re.MatchString(e.Text) {
			return true
		}
	}
	return false
}

// Apply returns a copy of log without excluded entries, with counts recomputed.
// Does not mutate the original.
func (f *Filter) Apply(log domain.ParsedLog) domain.ParsedLog {
	if f == nil || (len(f.excludePatterns) == 0 && len(f.excludeFiles) == 0) {
		return log
	}

	out := domain.ParsedLog{
		Entries:    make([]domain.Entry, 0, len(log.Entries)),
		Incomplete: log.Incomplete,
	}
	for _, e := range log.Entries {
		if f.Excludes(e) {
			continue
		}
		out.Entries = append(out.Entries, e)
		out.Add(e.Kind)
	}
	return out
}
