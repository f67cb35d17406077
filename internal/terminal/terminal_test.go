package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/richhaase/buildwatch/internal/domain"
)

func TestLogger_Log_AllStyles(t *testing.T) {
	styles := []Style{StyleInfo, StyleSuccess, StyleWarning, StyleError, StyleDim, StylePhase}

	for _, style := range styles {
		t.Run(string(style), func(t *testing.T) {
			var buf bytes.Buffer
			WithColorsDisabled(func() {
				NewLoggerTo(&buf, false).Log("test message", style)
			})

			if buf.String() != "[build] test message\n" {
				t.Errorf("output = %q", buf.String())
			}
		})
	}
}

func TestLogger_Logf(t *testing.T) {
	var buf bytes.Buffer
	WithColorsDisabled(func() {
		NewLoggerTo(&buf, false).Logf(StyleInfo, "formatted %s %d", "test", 42)
	})

	if !strings.Contains(buf.String(), "formatted test 42") {
		t.Errorf("expected formatted message, got %q", buf.String())
	}
}

func TestLogger_Log_WithColors(t *testing.T) {
	SetColorsEnabled(true)

	var buf bytes.Buffer
	NewLoggerTo(&buf, false).Log("colored message", StyleSuccess)

	if !strings.Contains(buf.String(), Green) {
		t.Errorf("expected green tag in colored output, got %q", buf.String())
	}
}

func TestLogger_Log_TTYClearsLine(t *testing.T) {
	var buf bytes.Buffer
	WithColorsDisabled(func() {
		NewLoggerTo(&buf, true).Log("tty message", StyleInfo)
	})

	if !strings.HasPrefix(buf.String(), "\r") {
		t.Errorf("expected carriage return in TTY output, got %q", buf.String())
	}
}

func TestLogger_WritePassesThrough(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, true)

	n, err := logger.Write([]byte("raw\n"))
	if err != nil || n != 4 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if buf.String() != "raw\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestColor_DisabledReturnsEmpty(t *testing.T) {
	WithColorsDisabled(func() {
		if Color(Red) != "" {
			t.Error("Color() should return empty string when disabled")
		}
		if KindColor(domain.KindError) != "" {
			t.Error("KindColor() should return empty string when disabled")
		}
	})
	if !ColorsEnabled() {
		t.Error("WithColorsDisabled did not restore state")
	}
}

func TestKindColor(t *testing.T) {
	SetColorsEnabled(true)
	tests := map[domain.Kind]string{
		domain.KindError:   Red,
		domain.KindWarning: Yellow,
		domain.KindNote:    Blue,
		domain.KindOther:   Dim,
	}
	for kind, want := range tests {
		if got := KindColor(kind); got != want {
			t.Errorf("KindColor(%v) = %q, want %q", kind, got, want)
		}
	}
}

func TestGetTerminalWidth(t *testing.T) {
	if w := GetTerminalWidth(); w <= 0 {
		t.Errorf("GetTerminalWidth() = %d, want > 0", w)
	}
	if w := ReportWidth(); w > MaxReportWidth {
		t.Errorf("ReportWidth() = %d exceeds %d", w, MaxReportWidth)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0s"},
		{1500 * time.Millisecond, "1.5s"},
		{59 * time.Second, "59.0s"},
		{90 * time.Second, "1m 30.0s"},
		{125*time.Second + 500*time.Millisecond, "2m 5.5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 errors"},
		{1, "1 error"},
		{2, "2 errors"},
	}
	for _, tt := range tests {
		if got := Plural(tt.n, "error"); got != tt.want {
			t.Errorf("Plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestIndent(t *testing.T) {
	if got := Indent("a\nb", "  "); got != "  a\n  b" {
		t.Errorf("Indent() = %q", got)
	}
}

func TestSpinner_NonTTYDrawsNothing(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{out: &buf, label: "make"}
	s.AddError()
	s.AddWarning()
	s.AddWarning()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)

	if buf.Len() != 0 {
		t.Errorf("non-TTY spinner wrote %q", buf.String())
	}
	if s.progress() != "1 error, 2 warnings" {
		t.Errorf("progress() = %q", s.progress())
	}
}
