package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/richhaase/buildwatch/internal/extract"
)

func newExtractorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extractors",
		Short: "List the available diagnostic extractors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := extract.Default()
			out := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				x, err := reg.Lookup(name)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%-10s overlap %d", name, extract.OverlapFor(x))
				if name == extract.DefaultExtractor {
					line += " (default)"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
