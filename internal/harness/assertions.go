package harness

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/store"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent // nil for state assertions
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s part%d %q -> %s\n", ev.Step, ev.Op, ev.Part, ev.Value, ev.Action)
		}
	}
	return buf.String()
}

// assertTraceContains checks that the action appears in the trace, for the
// given part when one is set.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Action == string(a.Action) && (a.Part == 0 || ev.Part == a.Part) {
			return nil
		}
	}

	expected := fmt.Sprintf("action %s", a.Action)
	if a.Part != 0 {
		expected += fmt.Sprintf(" for part %d", a.Part)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first occurrences of the actions appear
// in the given order. Other steps may appear in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[reconcile.Action]int)
	for i, ev := range trace {
		action := reconcile.Action(ev.Action)
		if _, seen := positions[action]; !seen {
			positions[action] = i + 1
		}
	}

	for _, action := range a.Actions {
		if positions[action] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all actions present: %v", a.Actions),
				Actual:   fmt.Sprintf("missing action: %s", action),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Actions); i++ {
		prev, curr := a.Actions[i-1], a.Actions[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", a.Actions),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that the action appears exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Action == string(a.Action) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks the stored answer record of a part against the
// expected fields.
func assertFinalState(ctx context.Context, st *store.Store, key puzzle.Key, a Assertion) error {
	id := key.Part(a.Part)
	rec, found, err := st.GetAnswer(ctx, id)
	if err != nil {
		return fmt.Errorf("read answer %s: %w", id, err)
	}
	if !found {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("answer record for %s", id),
			Actual:   "record not found",
		}
	}

	actual := map[string]string{
		"value":       rec.Value,
		"status":      string(rec.Status),
		"fingerprint": rec.Fingerprint,
	}

	// Sorted for stable failure messages.
	fields := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	for _, field := range fields {
		got, known := actual[field]
		if !known {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", field),
				Actual:   "record fields are value, status and fingerprint",
			}
		}
		if got != a.Expect[field] {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s = %q", id, field, a.Expect[field]),
				Actual:   fmt.Sprintf("%s %s = %q", id, field, got),
			}
		}
	}
	return nil
}

// assertSubmissionCount checks the number of stored attempts of a part.
func assertSubmissionCount(ctx context.Context, st *store.Store, key puzzle.Key, a Assertion) error {
	id := key.Part(a.Part)
	subs, err := st.ListSubmissions(ctx, id)
	if err != nil {
		return fmt.Errorf("list submissions %s: %w", id, err)
	}
	if len(subs) != a.Count {
		return &AssertionError{
			Type:     AssertSubmissionCount,
			Expected: fmt.Sprintf("%d submissions for %s", a.Count, id),
			Actual:   fmt.Sprintf("%d submissions", len(subs)),
		}
	}
	return nil
}

// AssertionContext provides the store the state assertions read from.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
	Key   puzzle.Key
}

// EvaluateAssertions evaluates all assertions against the result and
// returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState, AssertSubmissionCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: %s requires database context", i, a.Type)
			} else if a.Type == AssertFinalState {
				err = assertFinalState(actx.Ctx, actx.Store, actx.Key, a)
			} else {
				err = assertSubmissionCount(actx.Ctx, actx.Store, actx.Key, a)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
