package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/aoc/internal/engine"
	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/store"
)

// SolvedOptions holds flags for the solved command.
type SolvedOptions struct {
	*RootOptions
	Selector SelectorOptions
	Part     int
}

// NewSolvedCommand creates the solved command.
func NewSolvedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolvedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solved ANSWER",
		Short: "Record an answer accepted on the website",
		Long: `Record ANSWER as the accepted answer of one part without submitting
it. Use it for parts solved outside this tool: part 2 is only submitted
once part 1 is recorded as solved.

Example:
  aoc solved --day 1 --part 1 514579`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolved(cmd, opts, args[0])
		},
	}

	addSelectorFlags(cmd, &opts.Selector)
	cmd.Flags().IntVar(&opts.Part, "part", puzzle.PartOne, "puzzle part (1 or 2)")
	return cmd
}

func runSolved(cmd *cobra.Command, opts *SolvedOptions, answer string) error {
	value := strings.TrimSpace(answer)
	if value == "" {
		return NewExitError(ExitCommandError, "answer must not be empty")
	}
	if opts.Part != puzzle.PartOne && opts.Part != puzzle.PartTwo {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --part %d: must be 1 or 2", opts.Part))
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	key, err := resolve(cmd, puzzle.NewResolver(cfg.Year, opts.Clock), opts.Selector)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open answer store", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	seq, err := st.MaxSeq(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read answer store", err)
	}

	ids := opts.AttemptIDs
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}
	rec := reconcile.New(st, engine.NewClockAt(seq), ids, opts.logger(cmd))

	d, err := rec.MarkSolved(ctx, key.Part(opts.Part), value)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record answer", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Encode(d, func(w io.Writer) error {
		fmt.Fprintf(w, "%s: %s (%s)\n", d.ID, d.Reason, d.Value)
		return nil
	}); err != nil {
		return err
	}

	if d.Action == reconcile.ActionWarn {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("%s was already solved with %s", d.ID, d.Accepted))
	}
	return nil
}
