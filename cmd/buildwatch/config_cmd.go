package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/richhaase/buildwatch/internal/config"
	"github.com/richhaase/buildwatch/internal/git"
	"github.com/richhaase/buildwatch/internal/terminal"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage buildwatch configuration",
		Long:  "View, initialize, and validate buildwatch configuration files and environment variables.",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

// configRoot returns the directory holding .buildwatch.yaml for the current
// directory: the git root, or the current directory outside a repository.
func configRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root, err := git.GetRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display resolved configuration",
		Long:  "Show the fully resolved configuration from defaults, config file, and environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := configRoot()
			if err != nil {
				return err
			}
			result, err := config.LoadFromDirWithWarnings(dir)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			envState, _ := config.LoadEnvState()

			resolved, err := config.Resolve(result.Config, envState, config.FlagState{}, config.Defaults)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			patterns, files := config.MergeFilters(result.Config, nil, nil)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Resolved configuration:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %-26s %s\n", "extractor:", resolved.Extractor)
			if resolved.Overlap >= 0 {
				fmt.Fprintf(out, "  %-26s %d\n", "overlap:", resolved.Overlap)
			} else {
				fmt.Fprintf(out, "  %-26s %s\n", "overlap:", "(extractor default)")
			}
			if len(resolved.Command) > 0 {
				fmt.Fprintf(out, "  %-26s %s\n", "command:", shellquote.Join(resolved.Command...))
			} else {
				fmt.Fprintf(out, "  %-26s %s\n", "command:", "(none)")
			}
			fmt.Fprintf(out, "  %-26s %s\n", "workdir:", valueOr(resolved.Workdir, "(current directory)"))
			if resolved.Timeout > 0 {
				fmt.Fprintf(out, "  %-26s %s\n", "timeout:", resolved.Timeout)
			} else {
				fmt.Fprintf(out, "  %-26s %s\n", "timeout:", "(none)")
			}
			fmt.Fprintf(out, "  %-26s %t\n", "quiet:", resolved.Quiet)
			fmt.Fprintf(out, "  %-26s %s\n", "report:", valueOr(resolved.Report, "(none)"))
			fmt.Fprintf(out, "  %-26s %s\n", "filters.exclude_patterns:", valueOr(strings.Join(patterns, ", "), "(none)"))
			fmt.Fprintf(out, "  %-26s %s\n", "filters.exclude_files:", valueOr(strings.Join(files, ", "), "(none)"))

			return nil
		},
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

const starterConfig = `# buildwatch configuration file

# Diagnostic extractor: gcc, clang, go, generic (default: gcc)
# extractor: gcc

# Bytes of earlier output re-parsed with each new chunk, so diagnostics split
# across reads are still found (default: the extractor's own, 200 for gcc)
# overlap: 200

# Build command used when none is given on the command line
# command: make -j4
# args: []

# Directory to run the build in (default: current directory)
# workdir: ""

# Kill the build after this long, Go duration format (default: no limit)
# timeout: 30m

# Hide build output and show a spinner instead (default: false)
# quiet: false

# Write a JSON report of each build to this path
# report: .buildwatch/last-build.json

# Display filters (diagnostics are still parsed and counted in the report file)
# filters:
#   exclude_patterns:
#     - "-Wunused-parameter"
#   exclude_files:
#     - "vendor/**"
`

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a starter .buildwatch.yaml file",
		Long:  "Create a commented .buildwatch.yaml configuration file in the git repository root (or the current directory).",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Write to the same location runtime loading uses
			dir, err := configRoot()
			if err != nil {
				return err
			}
			configPath := filepath.Join(dir, config.ConfigFileName)

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists; remove it first or edit it directly", configPath)
			}

			if err := os.WriteFile(configPath, []byte(starterConfig), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", configPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s with default settings (commented out).\n", configPath)
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and environment variables",
		Long:  "Load and validate the config file and environment variables, reporting any warnings or errors.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !terminal.IsStdoutTTY() {
				terminal.SetColorsEnabled(false)
			}
			logger := terminal.NewLoggerTo(cmd.ErrOrStderr(), false)
			var errors []string
			var warnings []string

			// Load and validate config file (don't early-return so env var issues are also reported)
			cfg := &config.Config{}
			dir, err := configRoot()
			if err != nil {
				return err
			}
			result, err := config.LoadFromDirWithWarnings(dir)
			if err != nil {
				errors = append(errors, fmt.Sprintf("config file: %v", err))
			}
			if result != nil {
				cfg = result.Config
				warnings = append(warnings, result.Warnings...)
			}

			// At runtime unparsable env vars are warnings (values are ignored),
			// but in validation mode they are errors.
			envState, envWarnings := config.LoadEnvState()
			errors = append(errors, envWarnings...)

			// A broken config file was already reported; resolve env vars
			// against defaults only so its errors are not repeated.
			resolved, err := config.Resolve(cfg, envState, config.FlagState{}, config.Defaults)
			if err != nil {
				errors = append(errors, err.Error())
			} else {
				errors = append(errors, resolved.ValidateAll()...)
			}

			// Report warnings
			for _, w := range warnings {
				logger.Logf(terminal.StyleWarning, "Config: %s", w)
			}

			// Report errors
			for _, e := range errors {
				logger.Logf(terminal.StyleError, "%s", e)
			}

			if len(errors) > 0 {
				return fmt.Errorf("configuration has %d error(s)", len(errors))
			}

			if len(warnings) > 0 {
				logger.Log("Configuration is valid (with warnings).", terminal.StyleSuccess)
			} else {
				logger.Log("Configuration is valid.", terminal.StyleSuccess)
			}

			return nil
		},
	}
}
