package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/extract"
	"github.com/richhaase/buildwatch/internal/parse"
	"github.com/richhaase/buildwatch/internal/report"
	"github.com/richhaase/buildwatch/internal/terminal"
)

func newParseCmd() *cobra.Command {
	var (
		name     string
		window   int
		asJSON   bool
		noColors bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse diagnostics from a saved build log",
		Long: `Parse compiler diagnostics from a build log file, or stdin when no file
(or "-") is given.

Exits 1 when the log contains errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColors || !terminal.IsStdoutTTY() {
				terminal.SetColorsEnabled(false)
			}

			x, err := extract.Default().Lookup(name)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var opts []parse.Option
			if cmd.Flags().Changed("overlap") {
				opts = append(opts, parse.WithOverlap(window))
			}
			engine := parse.New(x, opts...)

			log, err := engine.Run(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := report.WriteLogJSON(out, log); err != nil {
					return err
				}
			} else {
				for _, e := range log.Entries {
					if e.Kind == domain.KindOther {
						continue
					}
					fmt.Fprintln(out, report.RenderEntry(e))
				}
				fmt.Fprintf(out, "%s, %s, %s\n",
					terminal.Plural(log.Errors, "error"),
					terminal.Plural(log.Warnings, "warning"),
					terminal.Plural(log.Notes, "note"))
			}

			if log.Errors > 0 {
				return exitCode(domain.ExitBuildFailed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "extractor", "x", extract.DefaultExtractor, "Diagnostic extractor")
	cmd.Flags().IntVar(&window, "overlap", 0, "Bytes of earlier input re-parsed with each chunk (default: extractor's own)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the parsed log as JSON")
	cmd.Flags().BoolVar(&noColors, "no-color", false, "Disable colored output")

	return cmd
}
