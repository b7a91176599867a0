package main

import (
	"log"

	"github.com/dusk-indust/makecheck/internal/mcptools"
	"github.com/spf13/cobra"
)

func newServeMCPCmd(flags *cliFlags) *cobra.Command {
	var cacheSize int

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the parser as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := resolveOptions(cmd, *flags)
			if err != nil {
				return err
			}
			svc, err := mcptools.NewMakefileService(cacheSize, opts.Scan)
			if err != nil {
				return err
			}
			if opts.Verbose {
				log.Printf("serve-mcp: listening on stdio, cache size %d", cacheSize)
			}
			return mcptools.RunStdio(cmd.Context(), mcptools.NewMakefileMCPServer(svc))
		},
	}
	cmd.Flags().IntVar(&cacheSize, "cache-size", mcptools.DefaultCacheSize, "number of parsed makefiles kept in memory")
	return cmd
}
