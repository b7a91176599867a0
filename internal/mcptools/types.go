package mcptools

import (
	"github.com/dusk-indust/makecheck/internal/export"
	"github.com/dusk-indust/makecheck/internal/rules"
)

// --- MCP Tool Input Types ---
// The MCP Go SDK derives each tool's JSON schema from these struct tags.

// ParseMakefileInput is the input for the parse_makefile MCP tool.
type ParseMakefileInput struct {
	Path string `json:"path" jsonschema:"path to the Makefile to parse"`
}

// ParseMakefileOutput is the result of the parse_makefile MCP tool.
type ParseMakefileOutput struct {
	Makefile export.MakefileExport `json:"makefile"`
	Cached   bool                  `json:"cached"`
}

// CheckMakefileInput is the input for the check_makefile MCP tool.
type CheckMakefileInput struct {
	Path      string `json:"path" jsonschema:"path to the Makefile to check"`
	RulesPath string `json:"rulesPath" jsonschema:"path to the JSON rules file"`
}

// CheckMakefileOutput is the result of the check_makefile MCP tool.
type CheckMakefileOutput struct {
	Passed     bool              `json:"passed"`
	Violations []rules.Violation `json:"violations"`
}

// ScanMakefilesInput is the input for the scan_makefiles MCP tool.
type ScanMakefilesInput struct {
	Root        string   `json:"root" jsonschema:"directory to search for Makefiles"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directory names to skip in addition to .git, vendor and node_modules"`
}

// ScanMakefilesOutput is the result of the scan_makefiles MCP tool.
type ScanMakefilesOutput struct {
	Makefiles []export.MakefileExport `json:"makefiles"`
	Total     int                     `json:"total"`
}
