// Package main provides the CLI entry point for buildwatch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/richhaase/buildwatch/internal/config"
	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/logging"
	"github.com/richhaase/buildwatch/internal/terminal"
)

var (
	extractorName   string
	overlap         int
	workdir         string
	timeout         time.Duration
	quiet           bool
	reportPath      string
	excludePatterns []string
	excludeFiles    []string
	noConfig        bool
	noColor         bool
	debug           bool
	logJSON         bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		// Check if this is an exit code wrapper (not a real error)
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitError.Int()
	}

	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "buildwatch [flags] [--] command [args...]",
		Short: "Run a build and report its compiler diagnostics as they stream",
		Long: `Run a build command, parse compiler diagnostics from its stderr while it runs,
and report errors, warnings and notes when it finishes.

Exit codes:
  0 - Build succeeded
  1 - Build failed
  2 - Error (usage, config, or the build could not be started)
  130 - Interrupted`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runBuild,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersionString(),
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	// Everything after the build command belongs to the build.
	rootCmd.Flags().SetInterspersed(false)

	// Configuration flags (defaults are resolved via config.Resolve with precedence: flag > env > config > default)
	rootCmd.Flags().StringVarP(&extractorName, "extractor", "x", "",
		"Diagnostic extractor: gcc, clang, go, generic (default: gcc, env: BUILDWATCH_EXTRACTOR)")
	rootCmd.Flags().IntVar(&overlap, "overlap", 0,
		"Bytes of earlier output re-parsed with each chunk (default: extractor's own, env: BUILDWATCH_OVERLAP)")
	rootCmd.Flags().StringVarP(&workdir, "workdir", "C", "",
		"Run the build in this directory (env: BUILDWATCH_WORKDIR)")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0,
		"Kill the build after this long (default: no limit, env: BUILDWATCH_TIMEOUT)")

	// Output options
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Hide build output; show a progress spinner and the final report only")
	rootCmd.Flags().StringVar(&reportPath, "report", "",
		"Write a JSON report of the build to this path")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")

	// Filtering options
	rootCmd.Flags().StringArrayVar(&excludePatterns, "exclude-pattern", nil,
		"Hide diagnostics whose text matches regex pattern (repeatable)")
	rootCmd.Flags().StringArrayVar(&excludeFiles, "exclude-file", nil,
		"Hide diagnostics whose file matches glob (repeatable)")

	rootCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading .buildwatch.yaml config file")
	rootCmd.Flags().BoolVar(&debug, "debug", false,
		"Write internal debug logs to stderr")
	rootCmd.Flags().BoolVar(&logJSON, "log-json", false,
		"Format debug logs as JSON")

	setGroupedUsage(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newExtractorsCmd())
	rootCmd.AddCommand(newParseCmd())

	return rootCmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Disable colors if stdout is not a TTY
	if noColor || !terminal.IsStdoutTTY() {
		terminal.SetColorsEnabled(false)
	}

	logger := terminal.NewLogger()

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr)
			logger.Log("Interrupted, stopping build...", terminal.StyleWarning)
			cancel()
		case <-ctx.Done():
		}
	}()

	// Load config file (unless --no-config)
	// With --workdir, the config is looked up from the build directory.
	var cfg *config.Config
	if !noConfig {
		dir := workdir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				logger.Logf(terminal.StyleError, "%v", err)
				return exitCode(domain.ExitError)
			}
			dir = wd
		}
		result, err := config.LoadWithWarnings(dir)
		if err != nil {
			logError(logger, "Config error", err)
			return exitCode(domain.ExitError)
		}
		cfg = result.Config
		// Display warnings for unknown keys
		for _, warning := range result.Warnings {
			logger.Logf(terminal.StyleWarning, "Warning: %s", warning)
		}
	}

	// Build flag state from cobra's Changed() method
	flagState := config.FlagState{
		ExtractorSet: cmd.Flags().Changed("extractor"),
		OverlapSet:   cmd.Flags().Changed("overlap"),
		WorkdirSet:   cmd.Flags().Changed("workdir"),
		TimeoutSet:   cmd.Flags().Changed("timeout"),
		QuietSet:     cmd.Flags().Changed("quiet"),
		ReportSet:    cmd.Flags().Changed("report"),
	}

	// Load env var state
	envState, envWarnings := config.LoadEnvState()
	for _, warning := range envWarnings {
		logger.Logf(terminal.StyleWarning, "Warning: %s", warning)
	}

	flagValues := config.ResolvedConfig{
		Extractor: extractorName,
		Overlap:   overlap,
		Command:   args,
		Workdir:   workdir,
		Timeout:   timeout,
		Quiet:     quiet,
		Report:    reportPath,
	}

	// Resolve final configuration (precedence: flags > env vars > config file > defaults)
	resolved, err := config.Resolve(cfg, envState, flagState, flagValues)
	if err != nil {
		logError(logger, "Config error", err)
		return exitCode(domain.ExitError)
	}

	if errs := resolved.ValidateAll(); len(errs) > 0 {
		for _, e := range errs {
			logger.Log(e, terminal.StyleError)
		}
		return exitCode(domain.ExitError)
	}
	if len(resolved.Command) == 0 {
		logger.Log("No build command given (pass one after the flags, or set command in "+config.ConfigFileName+")", terminal.StyleError)
		_ = cmd.Usage()
		return exitCode(domain.ExitError)
	}

	// Merge display filters (config filters + CLI filters)
	patterns, files := config.MergeFilters(cfg, excludePatterns, excludeFiles)

	debugLog := logging.New(logging.Options{Debug: debug, JSON: logJSON})
	defer func() { _ = debugLog.Sync() }()

	opts := BuildOpts{
		ResolvedConfig:  resolved,
		ExcludePatterns: patterns,
		ExcludeFiles:    files,
		DebugLog:        debugLog,
	}

	code := executeBuild(ctx, opts, logger, os.Stdout)
	return exitCode(code)
}
