package process

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/domain"
)

func spawnSh(t *testing.T, ctx context.Context, script string) Handle {
	t.Helper()
	h, err := Exec{}.Spawn(ctx, "sh", []string{"-c", script}, "")
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestExec_SeparatesStreams(t *testing.T) {
	h := spawnSh(t, context.Background(), "echo out; echo err >&2")

	stdout, err := io.ReadAll(h.Stdout())
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	stderr, err := io.ReadAll(h.Stderr())
	if err != nil {
		t.Fatalf("read stderr: %v", err)
	}

	if string(stdout) != "out\n" {
		t.Errorf("stdout = %q, want %q", stdout, "out\n")
	}
	if string(stderr) != "err\n" {
		t.Errorf("stderr = %q, want %q", stderr, "err\n")
	}

	code, err := h.Wait()
	if err != nil || code != 0 {
		t.Errorf("Wait() = %d, %v; want 0, nil", code, err)
	}
}

func TestExec_ExitCode(t *testing.T) {
	h := spawnSh(t, context.Background(), "exit 42")

	code, err := h.Wait()
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if code != 42 {
		t.Errorf("exit code = %d, want 42", code)
	}

	// Wait is idempotent
	if again, _ := h.Wait(); again != 42 {
		t.Errorf("second Wait() = %d, want 42", again)
	}
}

func TestExec_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	h, err := Exec{}.Spawn(context.Background(), "pwd", nil, dir)
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	defer h.Close()

	out, _ := io.ReadAll(h.Stdout())
	if _, err := h.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(string(out)), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("pwd = %q, want %q", out, dir)
	}
}

func TestExec_ExitObservedBeforeStreamsDrain(t *testing.T) {
	// The background child keeps stderr open after sh exits.
	h := spawnSh(t, context.Background(), "(sleep 1; echo late >&2) & exit 3")

	done := make(chan int, 1)
	go func() {
		code, _ := h.Wait()
		done <- code
	}()

	select {
	case code := <-done:
		if code != 3 {
			t.Errorf("exit code = %d, want 3", code)
		}
	case <-time.After(800 * time.Millisecond):
		t.Fatal("Wait() blocked on an open stream")
	}

	stderr, _ := io.ReadAll(h.Stderr())
	if string(stderr) != "late\n" {
		t.Errorf("stderr = %q, want %q", stderr, "late\n")
	}
}

func TestExec_ContextCancelKillsGroup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := spawnSh(t, ctx, "sleep 30 & sleep 30")

	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	code, _ := h.Wait()
	if code != -1 {
		t.Errorf("exit code = %d, want -1 for a killed process", code)
	}

	// Both sleeps were in the group, so the streams close promptly
	_, _ = io.ReadAll(h.Stdout())
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("streams stayed open for %v after cancellation", elapsed)
	}
}

func TestExec_SpawnErrors(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		dir      string
		wantHint string
		wantIs   error
	}{
		{
			name:     "missing command",
			command:  "buildwatch-no-such-command",
			wantHint: "on PATH",
			wantIs:   exec.ErrNotFound,
		},
		{
			name:     "missing directory",
			command:  "sh",
			dir:      "/nonexistent/buildwatch",
			wantHint: "working directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Exec{}.Spawn(context.Background(), tt.command, nil, tt.dir)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var serr *domain.SpawnError
			if !errors.As(err, &serr) {
				t.Fatalf("error %T is not a SpawnError", err)
			}
			if serr.Command != tt.command {
				t.Errorf("SpawnError.Command = %q", serr.Command)
			}
			if !strings.Contains(errors.FlattenHints(err), tt.wantHint) {
				t.Errorf("hints %q do not mention %q", errors.FlattenHints(err), tt.wantHint)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
		})
	}
}
