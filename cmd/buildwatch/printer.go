package main

import (
	"io"

	"github.com/richhaase/buildwatch/internal/build"
	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/filter"
	"github.com/richhaase/buildwatch/internal/terminal"
)

// printer shows launch notifications as they arrive. Build stdout goes to
// stdout and build stderr goes through the logger, unless quiet.
type printer struct {
	stdout   io.Writer
	logger   *terminal.Logger
	filter   *filter.Filter
	quiet    bool
	progress progress
}

// progress receives live counts of the diagnostics that pass the display
// filters. *terminal.Spinner implements it.
type progress interface {
	AddError()
	AddWarning()
}

func (p *printer) handle(n build.Notification) {
	switch n := n.(type) {
	case build.RawOutput:
		if p.quiet {
			return
		}
		if n.Stream == build.StreamStderr {
			_, _ = io.WriteString(p.logger, n.Text)
		} else {
			_, _ = io.WriteString(p.stdout, n.Text)
		}

	case build.BuildError:
		p.count(n.Entry)

	case build.BuildWarning:
		p.count(n.Entry)

	case build.ParseFailed:
		p.logger.Logf(terminal.StyleWarning, "Diagnostic stream failed: %v", n.Err)

	case build.SystemWarning:
		p.logger.Logf(terminal.StyleDim, "Skipped output: %v", n.Err)
	}
}

func (p *printer) count(e domain.Entry) {
	if p.progress == nil || p.filter.Excludes(e) {
		return
	}
	switch e.Kind {
	case domain.KindError:
		p.progress.AddError()
	case domain.KindWarning:
		p.progress.AddWarning()
	}
}
