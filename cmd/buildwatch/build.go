package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/build"
	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/extract"
	"github.com/richhaase/buildwatch/internal/filter"
	"github.com/richhaase/buildwatch/internal/process"
	"github.com/richhaase/buildwatch/internal/report"
	"github.com/richhaase/buildwatch/internal/terminal"
)

func executeBuild(ctx context.Context, opts BuildOpts, logger *terminal.Logger, stdout io.Writer) domain.ExitCode {
	f, err := filter.New(opts.ExcludePatterns, opts.ExcludeFiles)
	if err != nil {
		logger.Logf(terminal.StyleError, "Invalid filter: %v", err)
		return domain.ExitError
	}

	spec := domain.LaunchSpec{
		WorkingDirectory:  opts.Workdir,
		Command:           opts.Command[0],
		Arguments:         opts.Command[1:],
		ExtractorSelector: opts.Extractor,
	}

	p := &printer{stdout: stdout, logger: logger, filter: f, quiet: opts.Quiet}

	launchOpts := []build.Option{build.WithHandler(p.handle), build.WithLogger(opts.DebugLog)}
	if opts.Overlap >= 0 {
		launchOpts = append(launchOpts, build.WithOverlap(opts.Overlap))
	}
	launcher := build.NewLauncher(extract.Default(), process.Exec{}, launchOpts...)

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	logger.Logf(terminal.StylePhase, "Running %s%s%s %s(extractor=%s)%s",
		terminal.Color(terminal.Bold), spec.CommandLine(), terminal.Color(terminal.Reset),
		terminal.Color(terminal.Dim), extractorLabel(opts.Extractor), terminal.Color(terminal.Reset))

	// Quiet mode replaces the build output with a spinner
	stopSpinner := func() {}
	if opts.Quiet {
		spinner := terminal.NewSpinner(spec.CommandLine())
		p.progress = spinner
		spinnerCtx, spinnerCancel := context.WithCancel(context.Background())
		spinnerDone := make(chan struct{})
		go func() {
			spinner.Run(spinnerCtx)
			close(spinnerDone)
		}()
		stopSpinner = func() {
			spinnerCancel()
			<-spinnerDone
		}
	}

	result, err := launcher.Launch(runCtx, spec)
	stopSpinner()

	if result == nil {
		logError(logger, "Could not start build", err)
		return domain.ExitError
	}

	interrupted := ctx.Err() != nil
	if err != nil && !interrupted && errors.Is(err, context.DeadlineExceeded) {
		logger.Logf(terminal.StyleError, "Build timed out after %s", terminal.FormatDuration(opts.Timeout))
	}

	shown := f.Apply(result.Log)
	hidden := len(result.Log.Entries) - len(shown.Entries)
	fmt.Fprintln(stdout, report.RenderReport(result, shown, hidden))

	if opts.Report != "" {
		if err := report.SaveJSON(opts.Report, report.FromResult(result, time.Now())); err != nil {
			logger.Logf(terminal.StyleWarning, "Could not write report: %v", err)
		} else {
			logger.Logf(terminal.StyleDim, "Report written to %s", opts.Report)
		}
	}

	if interrupted {
		return domain.ExitInterrupted
	}
	return result.Outcome.ExitCode()
}

func extractorLabel(name string) string {
	if name == "" {
		return extract.DefaultExtractor
	}
	return name
}
