// Package cli implements the aoc command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/aoc/internal/aoc"
	"github.com/roach88/aoc/internal/config"
	"github.com/roach88/aoc/internal/engine"
	"github.com/roach88/aoc/internal/input"
	"github.com/roach88/aoc/internal/logging"
	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/solution"
)

// Service is the puzzle website as seen by the command.
type Service interface {
	input.Fetcher
	reconcile.Submitter
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Debug      bool
	Format     string // "text" | "json" | "yaml"
	ConfigPath string
	Year       int

	// Registry overrides the solution registry (for testing).
	// If nil, defaults to solution.Default.
	Registry *solution.Registry

	// Clock overrides the wall clock used to resolve --date (for testing).
	Clock puzzle.Clock

	// Service overrides the puzzle website client (for testing).
	Service Service

	// AttemptIDs overrides the submission attempt id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	AttemptIDs engine.AttemptIDGenerator

	// Executor overrides the solution executor (for testing).
	Executor *engine.Executor
}

// NewRootCommand creates the root command. Running it without a
// subcommand solves the selected puzzle.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = &RootOptions{}
	}
	solveOpts := &SolveOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "aoc",
		Short: "Run, time and submit puzzle solutions",
		Long: `Run solutions for the yearly programming puzzle event.

The puzzle is selected by exactly one of --day, --path or --date. Its input
is downloaded once and cached, both parts are run, and the answers are
recorded. With --submit, new answers are sent to the puzzle website; a
value that was rejected before is never sent again.

Example:
  aoc --day 1
  aoc --day 1 --year 2021 --submit
  aoc --path solutions/y2020/day05 --time
  aoc --date --init`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, solveOpts)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultFile+")")
	cmd.PersistentFlags().IntVar(&opts.Year, "year", 0, "event year (default from config)")

	addSelectorFlags(cmd, &solveOpts.Selector)
	cmd.Flags().BoolVar(&solveOpts.Init, "init", false, "create a solution stub and exit")
	cmd.Flags().BoolVar(&solveOpts.Init, "create", false, "alias for --init")
	cmd.Flags().BoolVar(&solveOpts.Time, "time", false, "time the prepare step and both parts")
	cmd.Flags().BoolVar(&solveOpts.Submit, "submit", false, "submit new answers")
	cmd.Flags().BoolVar(&solveOpts.IgnoreCache, "ignore-cache", false, "re-download the input and recompute the answers")
	cmd.MarkFlagsMutuallyExclusive("time", "ignore-cache")

	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewSolvedCommand(opts))

	return cmd
}

// SelectorOptions holds the puzzle selection flags.
type SelectorOptions struct {
	Day  int
	Path string
	Date bool
}

func addSelectorFlags(cmd *cobra.Command, sel *SelectorOptions) {
	cmd.Flags().IntVar(&sel.Day, "day", 0, "puzzle day (1-25)")
	cmd.Flags().StringVar(&sel.Path, "path", "", "path to a solution directory or file")
	cmd.Flags().BoolVar(&sel.Date, "date", false, "today's puzzle (during the event)")
	cmd.MarkFlagsMutuallyExclusive("day", "path", "date")
	cmd.MarkFlagsOneRequired("day", "path", "date")
}

// resolve returns the key selected on cmd. A flag given with its zero
// value ("--day 0", "--path ''") still counts as the chosen selector.
func resolve(cmd *cobra.Command, r *puzzle.Resolver, sel SelectorOptions) (puzzle.Key, error) {
	ids, err := r.Resolve(puzzle.Selector{
		Day:     sel.Day,
		DaySet:  cmd.Flags().Changed("day"),
		Path:    sel.Path,
		PathSet: cmd.Flags().Changed("path"),
		Date:    cmd.Flags().Changed("date") && sel.Date,
	})
	if err != nil {
		return puzzle.Key{}, WrapExitError(ExitCommandError, "cannot resolve puzzle", err)
	}
	return ids[0].Key(), nil
}

// loadConfig loads the config and applies the global flags on top.
func (o *RootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if cmd.Flags().Changed("year") {
		cfg.Year = o.Year
		if err := config.Validate(cfg); err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "invalid --year", err)
		}
	}
	return cfg, nil
}

func (o *RootOptions) logger(cmd *cobra.Command) zerolog.Logger {
	return logging.New(cmd.ErrOrStderr(), o.Debug)
}

// service returns the puzzle website client for cfg.
func (o *RootOptions) service(cfg config.Config) (Service, error) {
	if o.Service != nil {
		return o.Service, nil
	}
	client, err := aoc.NewClient(aoc.Config{
		BaseURL:   cfg.BaseURL,
		Session:   cfg.Session,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create client", err)
	}
	return client, nil
}

// Main runs the command with args and returns the process exit code.
// Generated solution runners call it with their year and day prepended.
func Main(args []string) int {
	_ = godotenv.Load()
	return Execute(context.Background(), args, os.Stdout, os.Stderr, &RootOptions{})
}

// Execute runs the root command with explicit streams and options.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, opts *RootOptions) int {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return GetExitCode(err)
}
