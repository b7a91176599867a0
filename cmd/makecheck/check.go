package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dusk-indust/makecheck/internal/export"
	"github.com/dusk-indust/makecheck/internal/rules"
	"github.com/dusk-indust/makecheck/internal/scan"
)

// parseTargets parses the configured makefile, or every makefile under its
// directory when recursive.
func parseTargets(ctx context.Context, opts options) ([]scan.Result, error) {
	if !opts.Recursive {
		return scan.ParseAll(ctx, []string{opts.Makefile}, opts.Scan)
	}
	root := opts.Makefile
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}
	return scan.Run(ctx, root, opts.Scan)
}

func runCheck(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	if opts.Verbose {
		fmt.Fprintf(stdout, "Makefile path = %s\n", opts.Makefile)
		fmt.Fprintf(stdout, "Rules path = %s\n", opts.Rules)
		fmt.Fprintf(stdout, "Recursive is %s\n", onOff(opts.Recursive))
		fmt.Fprintf(stdout, "Verbose is %s\n", onOff(opts.Verbose))
	}

	results, err := parseTargets(ctx, opts)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no makefiles found under %s", opts.Makefile)
	}
	if !opts.Recursive && results[0].Err != nil {
		return results[0].Err
	}

	rs, err := rules.Load(opts.Rules)
	if err != nil {
		return err
	}

	var failed, violations int
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "error: %v\n", r.Err)
			failed++
			continue
		}
		if opts.Verbose {
			if err := export.WriteText(stdout, r.Makefile); err != nil {
				return err
			}
		} else {
			for _, a := range r.Makefile.Anomalies() {
				fmt.Fprintf(stderr, "warning: %v\n", a)
			}
		}
		for _, v := range rs.Check(r.Makefile) {
			fmt.Fprintln(stdout, v.String())
			violations++
		}
	}

	fmt.Fprintf(stdout, "makecheck: %d makefile(s) checked, %d violation(s)\n", len(results)-failed, violations)
	if failed > 0 || violations > 0 {
		return errViolations
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
