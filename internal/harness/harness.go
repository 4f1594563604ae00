package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/aoc/internal/aoc"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/solution"
	"github.com/roach88/aoc/internal/store"
	"github.com/roach88/aoc/internal/testutil"
)

// Harness is the scenario execution engine.
type Harness struct {
	store      *store.Store
	reconciler *reconcile.Reconciler
	service    *testutil.FakeService
	clock      *testutil.DeterministicClock
	scenario   *Scenario
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. Expect clause and
// assertion failures are reported in the Result; an error is returned only
// when the scenario could not be executed.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock()
	h := &Harness{
		store:      st,
		reconciler: reconcile.New(st, clock, testutil.NewSequentialIDs(scenario.AttemptPrefix), zerolog.Nop()),
		service:    testutil.NewFakeService(),
		clock:      clock,
		scenario:   scenario,
	}

	ctx := context.Background()
	if err := h.executeSetup(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	result := NewResult()
	if err := h.executeFlow(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
		Key:   scenario.Puzzle,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// executeSetup writes the seed records.
func (h *Harness) executeSetup(ctx context.Context) error {
	for i, seed := range h.scenario.Setup {
		rec := store.AnswerRecord{
			ID:          h.scenario.Puzzle.Part(seed.Part),
			Value:       seed.Value,
			Status:      seed.Status,
			Fingerprint: seed.Fingerprint,
			Seq:         h.clock.Next(),
		}
		if err := h.store.PutAnswer(ctx, rec); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
	}
	return nil
}

// executeFlow runs every step and checks its expect clause.
func (h *Harness) executeFlow(ctx context.Context, result *Result) error {
	for i, step := range h.scenario.Flow {
		d, stepErr, err := h.executeStep(ctx, step)
		if err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}

		ev := TraceEvent{
			Step:    i,
			Op:      step.Op,
			Part:    step.Part,
			Value:   d.Value,
			Action:  string(d.Action),
			Status:  string(d.Status),
			Outcome: string(d.Outcome),
			Reason:  d.Reason,
			Seq:     h.clock.Current(),
		}
		if d.Wait > 0 {
			ev.Wait = d.Wait.String()
		}
		if stepErr != nil {
			ev.Value = step.Answer
			ev.Error = stepErr.Error()
		}
		result.AddTrace(ev)

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, d, stepErr) {
				result.AddError(fmt.Sprintf("flow[%d]: %s", i, msg))
			}
		}
	}
	return nil
}

// executeStep runs one step. Failures of the step itself (a rejected
// submission transport, an unknown outcome) are returned as stepErr so
// scenarios can expect them; store failures abort the run.
func (h *Harness) executeStep(ctx context.Context, step FlowStep) (d reconcile.Decision, stepErr, err error) {
	id := h.scenario.Puzzle.Part(step.Part)

	switch step.Op {
	case OpRecord:
		d, err = h.reconciler.RecordAndReconcile(ctx, id, solution.Answer(step.Answer), step.Fingerprint)
		return d, nil, err

	case OpSubmit:
		h.service.SubmitErr = nil
		if step.Outcome == OutcomeTransportError {
			h.service.SubmitErr = errors.New(step.Message)
		} else {
			res := aoc.Result{Outcome: aoc.Outcome(step.Outcome), Message: step.Message}
			if step.Wait != "" {
				res.Wait, _ = time.ParseDuration(step.Wait)
			}
			h.service.Outcomes = append(h.service.Outcomes, res)
		}
		d, stepErr = h.reconciler.Submit(ctx, h.service, id, step.Answer)
		return d, stepErr, nil

	default:
		return d, nil, fmt.Errorf("unknown op %q", step.Op)
	}
}

func checkExpect(want *ExpectClause, got reconcile.Decision, stepErr error) []string {
	var msgs []string
	if want.Error != (stepErr != nil) {
		msgs = append(msgs, fmt.Sprintf("expected error=%t, got %v", want.Error, stepErr))
	}
	if want.Action != "" && want.Action != got.Action {
		msgs = append(msgs, fmt.Sprintf("expected action %s, got %s", want.Action, got.Action))
	}
	if want.Status != "" && want.Status != got.Status {
		msgs = append(msgs, fmt.Sprintf("expected status %s, got %s", want.Status, got.Status))
	}
	if want.Outcome != "" && want.Outcome != got.Outcome {
		msgs = append(msgs, fmt.Sprintf("expected outcome %s, got %s", want.Outcome, got.Outcome))
	}
	return msgs
}
