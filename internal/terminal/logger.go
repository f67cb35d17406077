package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Style represents a log message style.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
	StylePhase   Style = "phase"
)

// Logger writes styled, tagged status lines. Safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	isTTY bool
}

// NewLogger creates a logger writing to stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stderr, IsStderrTTY())
}

// NewLoggerTo creates a logger writing to w. When isTTY is set every message
// first clears the current line so it does not collide with a spinner.
func NewLoggerTo(w io.Writer, isTTY bool) *Logger {
	return &Logger{out: w, isTTY: isTTY}
}

// Log prints a styled message.
func (l *Logger) Log(msg string, style Style) {
	styleColor := Cyan
	switch style {
	case StyleSuccess:
		styleColor = Green
	case StyleWarning:
		styleColor = Yellow
	case StyleError:
		styleColor = Red
	case StyleDim:
		styleColor = Dim
	case StylePhase:
		styleColor = Magenta + Bold
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.isTTY {
		ClearLine(l.out)
	}
	fmt.Fprintf(l.out, "%s %s\n", Tag(styleColor), msg)
}

// Logf prints a formatted styled message.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

// Write passes p through unchanged, serialized with styled messages.
// It lets raw build output share the logger's stream.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Write(p)
}

// Tag returns the "[build]" prefix in the given color.
func Tag(color string) string {
	return fmt.Sprintf("%s[%s%sbuild%s%s]%s",
		Color(Dim), Color(Reset), Color(color), Color(Reset), Color(Dim), Color(Reset))
}

// ClearLine erases the current terminal line.
func ClearLine(w io.Writer) {
	fmt.Fprint(w, "\r"+strings.Repeat(" ", 100)+"\r")
}
