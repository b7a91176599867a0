package mcptools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dusk-indust/makecheck/internal/export"
	"github.com/dusk-indust/makecheck/internal/makefile"
	"github.com/dusk-indust/makecheck/internal/rules"
	"github.com/dusk-indust/makecheck/internal/scan"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultCacheSize is the number of parsed Makefiles kept in memory.
const DefaultCacheSize = 256

// MakefileService holds the parse cache used by the MCP tool handlers.
type MakefileService struct {
	cache *lru.Cache[string, *makefile.Makefile]
	scan  scan.Options
}

// NewMakefileService creates a service caching up to size parses. A size of
// zero or less uses DefaultCacheSize.
func NewMakefileService(size int, opts scan.Options) (*MakefileService, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *makefile.Makefile](size)
	if err != nil {
		return nil, fmt.Errorf("create parse cache: %w", err)
	}
	return &MakefileService{cache: cache, scan: opts}, nil
}

// load parses path, reusing a cached model while the file's size and
// modification time are unchanged.
func (s *MakefileService) load(path string) (*makefile.Makefile, bool, error) {
	if path == "" {
		return nil, false, fmt.Errorf("path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, false, &makefile.Error{Kind: makefile.SourceUnreadable, Path: path, Detail: "failed to open", Err: err}
	}
	if info.IsDir() {
		return nil, false, fmt.Errorf("path is a directory: %s", path)
	}

	key := abs + "|" + strconv.FormatInt(info.ModTime().UnixNano(), 10) + "|" + strconv.FormatInt(info.Size(), 10)
	if m, ok := s.cache.Get(key); ok {
		return m, true, nil
	}
	m, err := makefile.ParseFile(path)
	if err != nil {
		return nil, false, err
	}
	s.cache.Add(key, m)
	return m, false, nil
}

// ParseMakefile parses a Makefile and returns its variables, rules, .PHONY
// set and anomalies.
func (s *MakefileService) ParseMakefile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ParseMakefileInput,
) (*mcp.CallToolResult, ParseMakefileOutput, error) {
	m, cached, err := s.load(input.Path)
	if err != nil {
		return nil, ParseMakefileOutput{}, err
	}
	return nil, ParseMakefileOutput{Makefile: export.FromMakefile(m), Cached: cached}, nil
}

// CheckMakefile parses a Makefile and checks it against a JSON rules file.
func (s *MakefileService) CheckMakefile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CheckMakefileInput,
) (*mcp.CallToolResult, CheckMakefileOutput, error) {
	if input.RulesPath == "" {
		return nil, CheckMakefileOutput{}, fmt.Errorf("rulesPath is required")
	}
	rs, err := rules.Load(input.RulesPath)
	if err != nil {
		return nil, CheckMakefileOutput{}, err
	}
	m, _, err := s.load(input.Path)
	if err != nil {
		return nil, CheckMakefileOutput{}, err
	}

	violations := rs.Check(m)
	if violations == nil {
		violations = []rules.Violation{}
	}
	return nil, CheckMakefileOutput{Passed: len(violations) == 0, Violations: violations}, nil
}

// ScanMakefiles discovers and parses every Makefile under a directory.
func (s *MakefileService) ScanMakefiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanMakefilesInput,
) (*mcp.CallToolResult, ScanMakefilesOutput, error) {
	if input.Root == "" {
		return nil, ScanMakefilesOutput{}, fmt.Errorf("root is required")
	}
	opts := s.scan
	opts.ExcludeDirs = append(append([]string(nil), opts.ExcludeDirs...), input.ExcludeDirs...)

	results, err := scan.Run(ctx, input.Root, opts)
	if err != nil {
		return nil, ScanMakefilesOutput{}, err
	}
	report := export.FromResults(results)
	return nil, ScanMakefilesOutput{Makefiles: report.Makefiles, Total: len(report.Makefiles)}, nil
}
