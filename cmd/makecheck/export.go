package main

import (
	"github.com/dusk-indust/makecheck/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the parsed model as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := resolveOptions(cmd, *flags)
			if err != nil {
				return err
			}
			results, err := parseTargets(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if !opts.Recursive && len(results) == 1 && results[0].Err != nil {
				return results[0].Err
			}
			return export.WriteJSON(cmd.OutOrStdout(), export.FromResults(results))
		},
	}
}
