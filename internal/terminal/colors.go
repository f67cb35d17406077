// Package terminal provides styled terminal output and TTY detection.
package terminal

import (
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/richhaase/buildwatch/internal/domain"
)

// ANSI color codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Cyan    = "\033[36m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Red     = "\033[31m"
	Magenta = "\033[35m"
	Blue    = "\033[34m"
)

// colorMu protects colorsEnabled.
var colorMu sync.RWMutex

var colorsEnabled = true

// ColorsEnabled returns whether colors are currently enabled.
func ColorsEnabled() bool {
	colorMu.RLock()
	defer colorMu.RUnlock()
	return colorsEnabled
}

// SetColorsEnabled sets the color output state.
func SetColorsEnabled(enabled bool) {
	colorMu.Lock()
	defer colorMu.Unlock()
	colorsEnabled = enabled
}

// WithColorsDisabled runs fn with colors disabled, then restores the previous state.
func WithColorsDisabled(fn func()) {
	colorMu.Lock()
	prev := colorsEnabled
	colorsEnabled = false
	colorMu.Unlock()

	defer SetColorsEnabled(prev)

	fn()
}

// Color returns the color code if colors are enabled, otherwise empty string.
func Color(c string) string {
	colorMu.RLock()
	defer colorMu.RUnlock()
	if colorsEnabled {
		return c
	}
	return ""
}

// KindColor returns the color used for diagnostics of kind k.
func KindColor(k domain.Kind) string {
	switch k {
	case domain.KindError:
		return Color(Red)
	case domain.KindWarning:
		return Color(Yellow)
	case domain.KindNote:
		return Color(Blue)
	default:
		return Color(Dim)
	}
}

// IsTTY returns true if the given file descriptor is a TTY.
func IsTTY(fd int) bool {
	return term.IsTerminal(fd)
}

// IsStdoutTTY returns true if stdout is a TTY.
func IsStdoutTTY() bool {
	return IsTTY(int(os.Stdout.Fd()))
}

// IsStderrTTY returns true if stderr is a TTY.
func IsStderrTTY() bool {
	return IsTTY(int(os.Stderr.Fd()))
}

// GetTerminalWidth returns the terminal width, or 80 if detection fails.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
