package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aoc/internal/config"
	"github.com/roach88/aoc/internal/engine"
	"github.com/roach88/aoc/internal/input"
	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/solution"
	"github.com/roach88/aoc/internal/store"
)

// SolveOptions holds flags for solving a puzzle.
type SolveOptions struct {
	*RootOptions
	Selector SelectorOptions

	Init        bool
	Time        bool
	Submit      bool
	IgnoreCache bool
}

// mode returns the engine mode selected by the flags.
func (o *SolveOptions) mode() engine.Mode {
	switch {
	case o.Time:
		return engine.ModeTimed
	case o.IgnoreCache:
		return engine.ModeForced
	default:
		return engine.ModePlain
	}
}

func runSolve(cmd *cobra.Command, opts *SolveOptions) error {
	if opts.Init && (opts.Time || opts.Submit || opts.IgnoreCache) {
		return NewExitError(ExitCommandError, "--init cannot be combined with --time, --submit or --ignore-cache")
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	log := opts.logger(cmd)

	resolver := puzzle.NewResolver(cfg.Year, opts.Clock)
	key, err := resolve(cmd, resolver, opts.Selector)
	if err != nil {
		return err
	}

	scaffolder, scaffoldErr := newScaffolder(cfg)
	loader := solution.NewLoader(opts.Registry, scaffolder)
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if opts.Init {
		if scaffoldErr != nil {
			return WrapExitError(ExitCommandError, "failed to create solution", scaffoldErr)
		}
		stub, err := loader.Init(key)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create solution", err)
		}
		log.Info().Str("puzzle", key.String()).Str("dir", stub.Dir).Msg("solution created")
		return formatter.Encode(newStubView(stub), func(w io.Writer) error {
			fmt.Fprintf(w, "Created %s in %s\n", key, stub.Dir)
			for _, f := range stub.Files {
				fmt.Fprintf(w, "  %s\n", f)
			}
			fmt.Fprintln(w, "Rebuild the command to register the new solution.")
			return nil
		})
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open answer store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing answer store")
		}
	}()

	ctx := cmd.Context()
	seq, err := st.MaxSeq(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read answer store", err)
	}

	svc, err := opts.service(cfg)
	if err != nil {
		return err
	}

	ids := opts.AttemptIDs
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}

	cache := input.New(cfg.InputsDir, svc, input.WithAvailability(resolver), input.WithLogger(log))
	rec := reconcile.New(st, engine.NewClockAt(seq), ids, log)

	engineOpts := []engine.Option{engine.WithSubmitter(svc), engine.WithLogger(log)}
	if opts.Executor != nil {
		engineOpts = append(engineOpts, engine.WithExecutor(opts.Executor))
	}
	eng := engine.New(loader, cache, rec, engineOpts...)

	log.Debug().Str("puzzle", key.String()).Str("mode", opts.mode().String()).Bool("submit", opts.Submit).Msg("running")
	report, err := eng.Run(ctx, engine.Request{Key: key, Mode: opts.mode(), Submit: opts.Submit})
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("cannot run %s", key), err)
	}

	view := newReportView(report, puzzleURL(svc, key))
	if err := formatter.Encode(view, view.renderText); err != nil {
		return err
	}

	if err := report.Err(); err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("%s did not complete", key), err)
	}
	return nil
}

// newScaffolder returns the scaffolder for the configured solutions
// directory. The error only matters when a stub is generated: reading
// solution sources does not need the import path.
func newScaffolder(cfg config.Config) (*solution.Scaffolder, error) {
	importPath, err := solution.ImportPathFor(cfg.Module, cfg.SolutionsDir)
	return &solution.Scaffolder{
		Root:       cfg.SolutionsDir,
		ImportPath: importPath,
	}, err
}

// puzzleURL returns the puzzle page when the service knows it.
func puzzleURL(svc Service, key puzzle.Key) string {
	if u, ok := svc.(interface{ PuzzleURL(year, day int) string }); ok {
		return u.PuzzleURL(key.Year, key.Day)
	}
	return ""
}
