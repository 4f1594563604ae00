package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/roach88/aoc/internal/engine"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/solution"
	"github.com/roach88/aoc/internal/store"
)

// reportView is the encoded form of an engine.Report.
type reportView struct {
	Puzzle  string      `json:"puzzle" yaml:"puzzle"`
	Year    int         `json:"year" yaml:"year"`
	Day     int         `json:"day" yaml:"day"`
	Mode    string      `json:"mode" yaml:"mode"`
	URL     string      `json:"url,omitempty" yaml:"url,omitempty"`
	Prepare *timingView `json:"prepare,omitempty" yaml:"prepare,omitempty"`
	Error   string      `json:"error,omitempty" yaml:"error,omitempty"`
	Parts   []partView  `json:"parts" yaml:"parts"`
}

type timingView struct {
	Runs   int    `json:"runs" yaml:"runs"`
	Total  string `json:"total" yaml:"total"`
	PerRun string `json:"per_run" yaml:"per_run"`

	perRun time.Duration
}

type partView struct {
	Part        int                  `json:"part" yaml:"part"`
	Answer      string               `json:"answer,omitempty" yaml:"answer,omitempty"`
	Status      store.Status         `json:"status,omitempty" yaml:"status,omitempty"`
	Cached      bool                 `json:"cached,omitempty" yaml:"cached,omitempty"`
	Timing      *timingView          `json:"timing,omitempty" yaml:"timing,omitempty"`
	Action      reconcile.Action     `json:"action,omitempty" yaml:"action,omitempty"`
	Outcome     string               `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Wait        string               `json:"wait,omitempty" yaml:"wait,omitempty"`
	Error       string               `json:"error,omitempty" yaml:"error,omitempty"`
	SubmitError string               `json:"submit_error,omitempty" yaml:"submit_error,omitempty"`
	Decisions   []reconcile.Decision `json:"decisions,omitempty" yaml:"decisions,omitempty"`
}

func newTimingView(t engine.Timing) *timingView {
	return &timingView{
		Runs:   t.Runs,
		Total:  t.Total.String(),
		PerRun: t.PerRun().String(),
		perRun: t.PerRun(),
	}
}

func newReportView(r *engine.Report, url string) *reportView {
	v := &reportView{
		Puzzle: r.Key.String(),
		Year:   r.Key.Year,
		Day:    r.Key.Day,
		Mode:   r.Mode.String(),
		URL:    url,
	}
	if r.Prepare != nil {
		v.Prepare = newTimingView(*r.Prepare)
	}
	if r.PrepareErr != nil {
		v.Error = r.PrepareErr.Error()
	}

	for _, p := range r.Parts {
		pv := partView{
			Part:      p.ID.Part,
			Answer:    p.Answer.String(),
			Cached:    p.Cached,
			Action:    p.Action(),
			Outcome:   string(p.Outcome()),
			Decisions: p.Decisions,
		}
		if p.Timing.Runs > 0 && !p.Cached {
			pv.Timing = newTimingView(p.Timing)
		}
		if n := len(p.Decisions); n > 0 {
			last := p.Decisions[n-1]
			pv.Status = last.Status
			if last.Wait > 0 {
				pv.Wait = last.Wait.String()
			}
		}
		if p.Err != nil {
			pv.Error = p.Err.Error()
		}
		if p.SubmitErr != nil {
			pv.SubmitError = p.SubmitErr.Error()
		}
		v.Parts = append(v.Parts, pv)
	}
	return v
}

// renderText writes the answers table, the timing table for timed runs and
// one note per warning, deferred submission or error.
func (v *reportView) renderText(w io.Writer) error {
	fmt.Fprintf(w, "Puzzle %s (%s)\n", v.Puzzle, v.Mode)

	t := newTable(w)
	t.AppendHeader(table.Row{"Part", "Answer", "Status", "Runtime"})
	for _, p := range v.Parts {
		t.AppendRow(table.Row{p.Part, answerCell(p), statusCell(p), runtimeCell(p)})
	}
	t.Render()

	if v.Mode == engine.ModeTimed.String() {
		v.renderTimings(w)
	}

	for _, note := range v.notes() {
		fmt.Fprintln(w, note)
	}
	return nil
}

// renderTimings prints the average runtime of every step and their sum.
func (v *reportView) renderTimings(w io.Writer) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Step", "Avg per run", "Runs"})

	var combined time.Duration
	if v.Prepare != nil {
		t.AppendRow(table.Row{"Data parsing", formatSeconds(v.Prepare.perRun), v.Prepare.Runs})
		combined += v.Prepare.perRun
	}
	for _, p := range v.Parts {
		if p.Timing == nil {
			continue
		}
		t.AppendRow(table.Row{fmt.Sprintf("Part %d", p.Part), formatSeconds(p.Timing.perRun), p.Timing.Runs})
		combined += p.Timing.perRun
	}
	t.AppendFooter(table.Row{"Combined", formatSeconds(combined), ""})
	t.Render()
}

func (v *reportView) notes() []string {
	var notes []string
	if v.Error != "" {
		notes = append(notes, "error: "+v.Error)
	}
	for _, p := range v.Parts {
		for _, d := range p.Decisions {
			switch d.Action {
			case reconcile.ActionWarn:
				notes = append(notes, fmt.Sprintf("warning: part %d answer %s differs from the accepted answer %s", p.Part, d.Value, d.Accepted))
			case reconcile.ActionRetryLater:
				notes = append(notes, fmt.Sprintf("part %d: answered too recently, try again in %s", p.Part, d.Wait))
			case reconcile.ActionApplied:
				if d.Reason != "" {
					notes = append(notes, fmt.Sprintf("part %d: %s", p.Part, d.Reason))
				}
			case reconcile.ActionNoOp:
				if d.Status != "" && !d.Status.Solved() && d.Reason != "" {
					notes = append(notes, fmt.Sprintf("part %d not submitted: %s", p.Part, d.Reason))
				}
				if d.Reason == engine.ReasonPartOneUnsolved {
					notes = append(notes, "if part 1 was solved on the website, record it with: aoc solved --day N --part 1 ANSWER")
				}
			}
		}
		if p.Error != "" && v.Error == "" {
			notes = append(notes, fmt.Sprintf("part %d failed: %s", p.Part, p.Error))
		}
		if p.SubmitError != "" {
			notes = append(notes, fmt.Sprintf("part %d not submitted: %s", p.Part, p.SubmitError))
		}
		if p.Outcome == "already-solved" && v.URL != "" {
			notes = append(notes, fmt.Sprintf("part %d: see %s", p.Part, v.URL))
		}
	}
	return notes
}

func answerCell(p partView) string {
	switch {
	case p.Error != "":
		return "(failed)"
	case p.Answer == "":
		return "(no answer)"
	default:
		return p.Answer
	}
}

func statusCell(p partView) string {
	if p.Status == "" {
		return "-"
	}
	return strings.ReplaceAll(string(p.Status), "-", " ")
}

func runtimeCell(p partView) string {
	switch {
	case p.Cached:
		return "cached solution"
	case p.Timing == nil:
		return "-"
	case p.Timing.Runs > 1:
		return fmt.Sprintf("%s avg", formatSeconds(p.Timing.perRun))
	default:
		return formatSeconds(p.Timing.perRun)
	}
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.6fs", d.Seconds())
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t
}

// stubView is the encoded form of a created solution stub.
type stubView struct {
	Puzzle string   `json:"puzzle" yaml:"puzzle"`
	Dir    string   `json:"dir" yaml:"dir"`
	Files  []string `json:"files" yaml:"files"`
}

func newStubView(s *solution.Stub) stubView {
	return stubView{Puzzle: s.Key.String(), Dir: s.Dir, Files: s.Files}
}
