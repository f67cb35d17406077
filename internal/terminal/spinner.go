package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
)

const spinnerInterval = 200 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner shows a running build with live error and warning counts.
type Spinner struct {
	out      io.Writer
	isTTY    bool
	label    string
	errors   atomic.Int32
	warnings atomic.Int32
}

// NewSpinner creates a spinner on stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{out: os.Stderr, isTTY: IsStderrTTY(), label: label}
}

// AddError increments the live error count.
func (s *Spinner) AddError() { s.errors.Add(1) }

// AddWarning increments the live warning count.
func (s *Spinner) AddWarning() { s.warnings.Add(1) }

func (s *Spinner) progress() string {
	return fmt.Sprintf("%s, %s",
		Plural(int(s.errors.Load()), "error"), Plural(int(s.warnings.Load()), "warning"))
}

// Run draws the spinner until ctx is cancelled. It draws nothing when
// stderr is not a terminal.
func (s *Spinner) Run(ctx context.Context) {
	if !s.isTTY {
		<-ctx.Done()
		return
	}

	idx := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ClearLine(s.out)
			return

		case <-ticker.C:
			frame := string(spinnerFrames[idx%len(spinnerFrames)])
			line := fmt.Sprintf("\r%s %s%s%s %s %s(%s)%s",
				Tag(Cyan), Color(Cyan), frame, Color(Reset), s.label, Color(Dim), s.progress(), Color(Reset))
			fmt.Fprint(s.out, line+"          ")
			idx++
		}
	}
}
