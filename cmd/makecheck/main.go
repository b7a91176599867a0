package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/dusk-indust/makecheck/internal/config"
	"github.com/dusk-indust/makecheck/internal/scan"
	"github.com/spf13/cobra"
)

// version is set by goreleaser at build time.
var version = "dev"

// errViolations signals a completed check that found violations or
// unreadable files; the details are already printed.
var errViolations = errors.New("check failed")

// cliFlags are the flags shared by every command.
type cliFlags struct {
	ConfigDir   string
	Makefile    string
	Rules       string
	Recursive   bool
	Verbose     bool
	ExcludeDirs []string
	Concurrency int
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("makecheck: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	root := &cobra.Command{
		Use:   "makecheck",
		Short: "Parse a Makefile and check it against a JSON rule set",
		Long: `makecheck parses a Makefile into its variables, rules and .PHONY
targets, then checks the result against the rules file.

Recipe lines start with a tab, or with the value of .RECIPEPREFIX when the
Makefile sets it. Variable references are kept as written.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := resolveOptions(cmd, flags)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigDir, "config-dir", ".", "directory holding makecheck.yml and .env")
	pf.StringVarP(&flags.Makefile, "makefile", "m", config.DefaultMakefile, "path to a makefile, or the directory to scan with --recursive")
	pf.BoolVarP(&flags.Recursive, "recursive", "R", false, "check every makefile under the makefile's directory")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "print the parsed model and scan progress")
	pf.StringSliceVar(&flags.ExcludeDirs, "exclude", nil, "directory names to skip when scanning")
	pf.IntVarP(&flags.Concurrency, "concurrency", "j", 0, "parallel parses when scanning (0 = GOMAXPROCS)")
	root.Flags().StringVarP(&flags.Rules, "rules", "r", config.DefaultRules, "path to the JSON rules file")

	root.AddCommand(newExportCmd(&flags))
	root.AddCommand(newServeMCPCmd(&flags))
	root.AddCommand(newVersionCmd())
	return root
}

// options is the merged configuration a command runs with.
type options struct {
	Makefile  string
	Rules     string
	Recursive bool
	Verbose   bool
	Scan      scan.Options
}

// resolveOptions layers explicitly set flags over the project config.
func resolveOptions(cmd *cobra.Command, flags cliFlags) (options, error) {
	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return options{}, fmt.Errorf("load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("makefile") {
		cfg.Makefile = flags.Makefile
	}
	if changed("rules") {
		cfg.Rules = flags.Rules
	}
	if changed("recursive") {
		cfg.Recursive = flags.Recursive
	}
	if changed("verbose") {
		cfg.Verbose = flags.Verbose
	}
	if changed("exclude") {
		cfg.ExcludeDirs = append(cfg.ExcludeDirs, flags.ExcludeDirs...)
	}
	if changed("concurrency") {
		cfg.Concurrency = flags.Concurrency
	}

	return options{
		Makefile:  cfg.Makefile,
		Rules:     cfg.Rules,
		Recursive: cfg.Recursive,
		Verbose:   cfg.Verbose,
		Scan: scan.Options{
			ExcludeDirs: cfg.ExcludeDirs,
			Concurrency: cfg.Concurrency,
			Verbose:     cfg.Verbose,
		},
	}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
