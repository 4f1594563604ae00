package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/store"
)

var sampleTrace = []TraceEvent{
	{Step: 0, Op: OpRecord, Part: 1, Value: "1", Action: "submit-if-requested", Seq: 1},
	{Step: 1, Op: OpSubmit, Part: 1, Value: "1", Action: "applied", Seq: 3},
	{Step: 2, Op: OpRecord, Part: 2, Value: "2", Action: "submit-if-requested", Seq: 4},
	{Step: 3, Op: OpRecord, Part: 1, Value: "1", Action: "no-op", Seq: 4},
}

func TestAssertTraceContains(t *testing.T) {
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Action: "applied"}))
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Action: "submit-if-requested", Part: 2}))

	err := assertTraceContains(sampleTrace, Assertion{Action: "applied", Part: 2})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "action applied for part 2", ae.Expected)
	assert.Contains(t, err.Error(), "Full trace:")
}

func TestAssertTraceOrder(t *testing.T) {
	assert.NoError(t, assertTraceOrder(sampleTrace, Assertion{
		Actions: []reconcile.Action{"submit-if-requested", "applied", "no-op"},
	}))

	err := assertTraceOrder(sampleTrace, Assertion{Actions: []reconcile.Action{"no-op", "applied"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-op (pos 4) should be before applied (pos 2)")

	err = assertTraceOrder(sampleTrace, Assertion{Actions: []reconcile.Action{"warn"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing action: warn")
}

func TestAssertTraceCount(t *testing.T) {
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Action: "submit-if-requested", Count: 2}))
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Action: "warn", Count: 0}))

	err := assertTraceCount(sampleTrace, Assertion{Action: "applied", Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 occurrences")
}

func TestStateAssertions(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	key := puzzle.Key{Year: 2020, Day: 1}
	require.NoError(t, st.PutAnswer(ctx, store.AnswerRecord{
		ID: key.Part(1), Value: "7", Status: store.StatusIncorrect, Fingerprint: "fp", Seq: 1,
	}))
	require.NoError(t, st.AppendSubmission(ctx, store.Submission{
		AttemptID: "a-1", ID: key.Part(1), Value: "7", Outcome: "incorrect", Seq: 2,
	}))

	assert.NoError(t, assertFinalState(ctx, st, key, Assertion{
		Part:   1,
		Expect: map[string]string{"value": "7", "status": "submitted-incorrect", "fingerprint": "fp"},
	}))

	err = assertFinalState(ctx, st, key, Assertion{Part: 1, Expect: map[string]string{"status": "submitted-correct"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `status = "submitted-incorrect"`)

	err = assertFinalState(ctx, st, key, Assertion{Part: 1, Expect: map[string]string{"color": "red"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "color" to exist`)

	assert.NoError(t, assertSubmissionCount(ctx, st, key, Assertion{Part: 1, Count: 1}))
	assert.NoError(t, assertSubmissionCount(ctx, st, key, Assertion{Part: 2, Count: 0}))
	assert.Error(t, assertSubmissionCount(ctx, st, key, Assertion{Part: 1, Count: 3}))
}

func TestEvaluateAssertions_NoStore(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertFinalState, Part: 1, Expect: map[string]string{"value": "1"}},
		{Type: "eventually"},
	}, nil)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "requires database context")
	assert.Contains(t, errs[1], `unknown assertion type "eventually"`)
}
