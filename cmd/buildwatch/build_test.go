package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/richhaase/buildwatch/internal/config"
	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/report"
	"github.com/richhaase/buildwatch/internal/terminal"
)

func scriptOpts(t *testing.T, script string) BuildOpts {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", script))
	if err != nil {
		t.Fatal(err)
	}
	opts := BuildOpts{ResolvedConfig: config.Defaults}
	opts.Command = []string{"sh", path}
	return opts
}

func runExecuteBuild(t *testing.T, ctx context.Context, opts BuildOpts) (domain.ExitCode, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	logger := terminal.NewLoggerTo(&stderr, false)
	var code domain.ExitCode
	terminal.WithColorsDisabled(func() {
		code = executeBuild(ctx, opts, logger, &stdout)
	})
	return code, stdout.String(), stderr.String()
}

func TestExecuteBuild_Failure(t *testing.T) {
	code, stdout, stderr := runExecuteBuild(t, context.Background(), scriptOpts(t, "fail.sh"))

	if code != domain.ExitBuildFailed {
		t.Errorf("expected exit code %d, got %d", domain.ExitBuildFailed, code)
	}
	if !strings.Contains(stdout, "cc -c util.c") {
		t.Errorf("expected build stdout to be passed through, got:\n%s", stdout)
	}
	if !strings.Contains(stderr, "'buf' undeclared") {
		t.Errorf("expected build stderr to be passed through, got:\n%s", stderr)
	}
	if !strings.Contains(stdout, "Build failed with exit code 1 (1 error, 1 warning, 0 notes)") {
		t.Errorf("expected failure summary, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "1. util.c:15:10") {
		t.Errorf("expected the error to be listed, got:\n%s", stdout)
	}
}

func TestExecuteBuild_SuccessWithFilteredWarning(t *testing.T) {
	opts := scriptOpts(t, "ok.sh")
	opts.ExcludeFiles = []string{"vendor/**"}

	code, stdout, _ := runExecuteBuild(t, context.Background(), opts)

	if code != domain.ExitSuccess {
		t.Errorf("expected exit code %d, got %d", domain.ExitSuccess, code)
	}
	if !strings.Contains(stdout, "Build succeeded (0 errors, 0 warnings, 0 notes)") {
		t.Errorf("expected success summary with the warning hidden, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "1 diagnostic hidden by filters") {
		t.Errorf("expected hidden count, got:\n%s", stdout)
	}
}

func TestExecuteBuild_QuietHidesBuildOutput(t *testing.T) {
	opts := scriptOpts(t, "fail.sh")
	opts.Quiet = true

	_, stdout, stderr := runExecuteBuild(t, context.Background(), opts)

	if strings.Contains(stdout, "cc -c util.c") {
		t.Errorf("quiet mode should hide build stdout, got:\n%s", stdout)
	}
	if strings.Contains(stderr, "return buf;") {
		t.Errorf("quiet mode should hide build stderr, got:\n%s", stderr)
	}
	if !strings.Contains(stdout, "Build failed") {
		t.Errorf("quiet mode should still print the report, got:\n%s", stdout)
	}
}

func TestExecuteBuild_WritesJSONReport(t *testing.T) {
	opts := scriptOpts(t, "fail.sh")
	opts.Report = filepath.Join(t.TempDir(), "out", "build.json")

	runExecuteBuild(t, context.Background(), opts)

	r, err := report.LoadJSON(opts.Report)
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if r.Outcome != domain.OutcomeFailure || r.ExitCode != 1 {
		t.Errorf("unexpected outcome %s / %d", r.Outcome, r.ExitCode)
	}
	if r.Log.Errors != 1 || r.Log.Warnings != 1 {
		t.Errorf("unexpected counts: %+v", r.Log.Counts)
	}
	if r.ID == "" {
		t.Error("expected a build ID in the report")
	}
}

func TestExecuteBuild_ReportKeepsFilteredEntries(t *testing.T) {
	opts := scriptOpts(t, "ok.sh")
	opts.ExcludeFiles = []string{"vendor/**"}
	opts.Report = filepath.Join(t.TempDir(), "build.json")

	runExecuteBuild(t, context.Background(), opts)

	r, err := report.LoadJSON(opts.Report)
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if len(r.Log.Entries) != 1 {
		t.Errorf("display filters must not change the saved log, got %d entries", len(r.Log.Entries))
	}
}

func TestExecuteBuild_SpawnFailure(t *testing.T) {
	opts := BuildOpts{ResolvedConfig: config.Defaults}
	opts.Command = []string{"buildwatch-no-such-command"}

	code, _, stderr := runExecuteBuild(t, context.Background(), opts)

	if code != domain.ExitError {
		t.Errorf("expected exit code %d, got %d", domain.ExitError, code)
	}
	if !strings.Contains(stderr, "Could not start build") {
		t.Errorf("expected spawn error, got:\n%s", stderr)
	}
	if !strings.Contains(stderr, "hint:") {
		t.Errorf("expected a hint for a missing command, got:\n%s", stderr)
	}
}

func TestExecuteBuild_InvalidFilter(t *testing.T) {
	opts := scriptOpts(t, "ok.sh")
	opts.ExcludePatterns = []string{"("}

	code, _, stderr := runExecuteBuild(t, context.Background(), opts)

	if code != domain.ExitError {
		t.Errorf("expected exit code %d, got %d", domain.ExitError, code)
	}
	if !strings.Contains(stderr, "Invalid filter") {
		t.Errorf("expected filter error, got:\n%s", stderr)
	}
}

func TestExecuteBuild_Timeout(t *testing.T) {
	opts := BuildOpts{ResolvedConfig: config.Defaults}
	opts.Command = []string{"sh", "-c", "sleep 30"}
	opts.Timeout = 200 * time.Millisecond

	start := time.Now()
	code, _, stderr := runExecuteBuild(t, context.Background(), opts)

	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("build was not killed on timeout (took %s)", elapsed)
	}
	if code != domain.ExitBuildFailed {
		t.Errorf("expected exit code %d, got %d", domain.ExitBuildFailed, code)
	}
	if !strings.Contains(stderr, "Build timed out") {
		t.Errorf("expected timeout message, got:\n%s", stderr)
	}
}

func TestExecuteBuild_Interrupted(t *testing.T) {
	opts := BuildOpts{ResolvedConfig: config.Defaults}
	opts.Command = []string{"sh", "-c", "sleep 30"}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	code, _, _ := runExecuteBuild(t, ctx, opts)

	if code != domain.ExitInterrupted {
		t.Errorf("expected exit code %d, got %d", domain.ExitInterrupted, code)
	}
}
