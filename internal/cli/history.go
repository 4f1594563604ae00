package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Selector SelectorOptions
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded answers and submission attempts",
		Long: `Show the recorded answer of both parts of a puzzle and every
submission attempt made for them, oldest first.

Example:
  aoc history --day 1
  aoc history --day 1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	addSelectorFlags(cmd, &opts.Selector)
	return cmd
}

type historyView struct {
	Puzzle string            `json:"puzzle" yaml:"puzzle"`
	Parts  []historyPartView `json:"parts" yaml:"parts"`
}

type historyPartView struct {
	Part        int                 `json:"part" yaml:"part"`
	Record      *store.AnswerRecord `json:"record,omitempty" yaml:"record,omitempty"`
	Submissions []store.Submission  `json:"submissions" yaml:"submissions"`
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
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
	view := historyView{Puzzle: key.String()}
	for _, id := range key.Parts() {
		pv := historyPartView{Part: id.Part}

		rec, found, err := st.GetAnswer(ctx, id)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read answer store", err)
		}
		if found {
			pv.Record = &rec
		}

		pv.Submissions, err = st.ListSubmissions(ctx, id)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read answer store", err)
		}
		view.Parts = append(view.Parts, pv)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Encode(view, view.renderText)
}

func (v historyView) renderText(w io.Writer) error {
	fmt.Fprintf(w, "Puzzle %s\n", v.Puzzle)

	t := newTable(w)
	t.AppendHeader(table.Row{"Part", "Answer", "Status", "Attempt", "Outcome"})
	for _, p := range v.Parts {
		answer, status := "(none)", "-"
		if p.Record != nil {
			answer, status = p.Record.Value, string(p.Record.Status)
		}
		t.AppendRow(table.Row{p.Part, answer, status, "", ""})
		for _, s := range p.Submissions {
			t.AppendRow(table.Row{"", s.Value, "", s.AttemptID, s.Outcome})
		}
	}
	t.Render()
	return nil
}
