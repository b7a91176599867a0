// Package scan discovers Makefiles under a directory tree and parses them
// concurrently. Every file is an independent parse; one unreadable file does
// not stop the others.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/dusk-indust/makecheck/internal/makefile"
	"golang.org/x/sync/errgroup"
)

// makefileNames are the base names recognized as Makefiles, besides *.mk.
var makefileNames = map[string]bool{
	"Makefile":    true,
	"makefile":    true,
	"GNUmakefile": true,
}

// defaultExcludes are directory names never descended into.
var defaultExcludes = []string{".git", "vendor", "node_modules"}

// Options controls discovery and parsing.
type Options struct {
	// ExcludeDirs are directory base names to skip, in addition to the
	// defaults (.git, vendor, node_modules).
	ExcludeDirs []string

	// Concurrency bounds parallel parses. Zero means GOMAXPROCS.
	Concurrency int

	// Verbose logs skipped directories and per-file results.
	Verbose bool
}

// Result is the outcome of parsing one file. Exactly one of Makefile and Err
// is set.
type Result struct {
	Path     string
	Makefile *makefile.Makefile
	Err      error
}

// IsMakefile reports whether a file name looks like a Makefile.
func IsMakefile(name string) bool {
	return makefileNames[name] || strings.HasSuffix(name, ".mk")
}

// Discover walks root and returns the Makefiles found, sorted by path. A
// root that is a file is returned as the only entry.
func Discover(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	exclude := make(map[string]bool)
	for _, d := range defaultExcludes {
		exclude[d] = true
	}
	for _, d := range opts.ExcludeDirs {
		exclude[d] = true
	}

	var paths []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if opts.Verbose {
				log.Printf("scan: skipping %s: %v", path, err)
			}
			return nil
		}
		if d.IsDir() {
			if path != root && exclude[d.Name()] {
				if opts.Verbose {
					log.Printf("scan: excluding directory %s", path)
				}
				return filepath.SkipDir
			}
			return nil
		}
		if IsMakefile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	sort.Strings(paths)
	return paths, nil
}

// ParseAll parses every path with bounded concurrency. Results are in the
// order of paths. The returned error is non-nil only when ctx ends before
// all files are parsed.
func ParseAll(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := makefile.ParseFile(path)
			results[i] = Result{Path: path, Makefile: m, Err: err}
			if opts.Verbose {
				if err != nil {
					log.Printf("scan: %s: %v", path, err)
				} else {
					log.Printf("scan: %s: %d rules, %d variables, %d anomalies",
						path, len(m.Rules()), len(m.Variables()), len(m.Anomalies()))
				}
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// Run discovers Makefiles under root and parses them.
func Run(ctx context.Context, root string, opts Options) ([]Result, error) {
	paths, err := Discover(root, opts)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		log.Printf("scan: %d makefile(s) under %s", len(paths), root)
	}
	return ParseAll(ctx, paths, opts)
}
