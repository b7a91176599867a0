package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewMakefileMCPServer creates an MCP server with the parse_makefile,
// check_makefile and scan_makefiles tools registered.
func NewMakefileMCPServer(svc *MakefileService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "makecheck",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_makefile",
		Description: "Parse a Makefile into its variables, rules (target, dependency text, recipe commands), .PHONY targets and parse anomalies. Variable references are not expanded.",
	}, svc.ParseMakefile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_makefile",
		Description: "Check a Makefile against a JSON rules file (required targets, required variables, phony targets, anomalies). Returns the violations found.",
	}, svc.CheckMakefile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_makefiles",
		Description: "Find every Makefile (Makefile, makefile, GNUmakefile, *.mk) under a directory and parse each one independently.",
	}, svc.ScanMakefiles)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
