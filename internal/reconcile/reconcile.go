// Package reconcile decides what to do with a freshly computed answer.
//
// It compares the answer against the stored record of the puzzle part,
// updates the record, and folds the verdict of the puzzle service back
// into it. Every remote attempt is appended to the submission history so a
// value the service rejected is never sent again.
//
// Transitions:
//
//	no record                      -> not-submitted, submit if requested
//	solved, same value             -> no-op
//	solved, different value        -> warn, record unchanged
//	not-submitted/incorrect, value -> record updated, submit if requested
//	value rejected before          -> no-op
//	empty answer                   -> no-op
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/aoc/internal/aoc"
	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/solution"
	"github.com/roach88/aoc/internal/store"
)

// Action is the follow-up a Decision asks for.
type Action string

const (
	ActionSubmitIfRequested Action = "submit-if-requested"
	ActionNoOp              Action = "no-op"
	ActionWarn              Action = "warn"
	ActionRetryLater        Action = "retry-later"
	ActionApplied           Action = "applied"
)

// Decision is the result of one reconcile step.
type Decision struct {
	ID     puzzle.ID    `json:"id" yaml:"id"`
	Action Action       `json:"action" yaml:"action"`
	Value  string       `json:"value" yaml:"value"`
	Status store.Status `json:"status" yaml:"status"`
	Reason string       `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Accepted is the value the service accepted. Only set for ActionWarn.
	Accepted string `json:"accepted,omitempty" yaml:"accepted,omitempty"`

	// Outcome and Wait are only set after a submission.
	Outcome aoc.Outcome   `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Wait    time.Duration `json:"wait,omitempty" yaml:"wait,omitempty"`
}

// Sequencer hands out strictly increasing sequence numbers.
// Implemented by *engine.Clock.
type Sequencer interface {
	Next() int64
}

// IDGenerator generates submission attempt ids.
type IDGenerator interface {
	Generate() string
}

// Submitter sends an answer to the puzzle service.
// Implemented by *aoc.Client.
type Submitter interface {
	SubmitAnswer(ctx context.Context, year, day, part int, answer string) (aoc.Result, error)
}

// Reconciler applies the answer record transitions against a store.
type Reconciler struct {
	Store      *store.Store
	Clock      Sequencer
	AttemptIDs IDGenerator
	Logger     zerolog.Logger
}

// New creates a Reconciler.
func New(st *store.Store, clock Sequencer, ids IDGenerator, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		Store:      st,
		Clock:      clock,
		AttemptIDs: ids,
		Logger:     logger,
	}
}

// RecordAndReconcile stores answer as the latest answer of id and returns
// what should happen next. Calling it twice with the same answer leaves the
// store unchanged and returns the same Decision.
func (r *Reconciler) RecordAndReconcile(ctx context.Context, id puzzle.ID, answer solution.Answer, fingerprint string) (Decision, error) {
	value := answer.String()
	if answer.IsEmpty() {
		return Decision{ID: id, Action: ActionNoOp, Reason: "no answer"}, nil
	}

	rec, found, err := r.Store.GetAnswer(ctx, id)
	if err != nil {
		return Decision{}, err
	}

	if !found {
		rec = store.AnswerRecord{ID: id, Value: value, Status: store.StatusNotSubmitted, Fingerprint: fingerprint}
		if err := r.put(ctx, rec); err != nil {
			return Decision{}, err
		}
		return Decision{ID: id, Action: ActionSubmitIfRequested, Value: value, Status: rec.Status}, nil
	}

	if rec.Status.Solved() {
		if rec.Value == value {
			if rec.Fingerprint != fingerprint {
				rec.Fingerprint = fingerprint
				if err := r.put(ctx, rec); err != nil {
					return Decision{}, err
				}
			}
			return Decision{ID: id, Action: ActionNoOp, Value: value, Status: rec.Status, Reason: "already solved"}, nil
		}

		r.Logger.Warn().
			Str("puzzle", id.String()).
			Str("answer", value).
			Str("accepted", rec.Value).
			Msg("answer differs from the accepted answer")
		return Decision{
			ID:       id,
			Action:   ActionWarn,
			Value:    value,
			Status:   rec.Status,
			Accepted: rec.Value,
			Reason:   "answer differs from the accepted answer",
		}, nil
	}

	outcome, seen, err := r.Store.SubmissionOutcome(ctx, id, value)
	if err != nil {
		return Decision{}, err
	}

	next := store.AnswerRecord{ID: id, Value: value, Status: store.StatusNotSubmitted, Fingerprint: fingerprint}
	rejected := seen && outcome == string(aoc.OutcomeIncorrect)
	if rejected {
		next.Status = store.StatusIncorrect
	}

	if next.Value != rec.Value || next.Status != rec.Status || next.Fingerprint != rec.Fingerprint {
		if err := r.put(ctx, next); err != nil {
			return Decision{}, err
		}
	}

	if rejected {
		return Decision{ID: id, Action: ActionNoOp, Value: value, Status: next.Status, Reason: "answer was already rejected"}, nil
	}
	return Decision{ID: id, Action: ActionSubmitIfRequested, Value: value, Status: next.Status}, nil
}

// ApplyRemoteOutcome records a submission attempt and folds its verdict
// into the answer record. A rate-limited attempt leaves the record as it
// was.
func (r *Reconciler) ApplyRemoteOutcome(ctx context.Context, id puzzle.ID, value string, res aoc.Result) (Decision, error) {
	sub := store.Submission{
		AttemptID: r.AttemptIDs.Generate(),
		ID:        id,
		Value:     value,
		Outcome:   string(res.Outcome),
		Message:   res.Message,
		Seq:       r.Clock.Next(),
	}
	if err := r.Store.AppendSubmission(ctx, sub); err != nil {
		return Decision{}, err
	}

	rec, found, err := r.Store.GetAnswer(ctx, id)
	if err != nil {
		return Decision{}, err
	}

	var status store.Status
	switch res.Outcome {
	case aoc.OutcomeCorrect:
		status = store.StatusCorrect
	case aoc.OutcomeIncorrect:
		status = store.StatusIncorrect
	case aoc.OutcomeAlreadySolved:
		status = store.StatusAlreadySolved
	case aoc.OutcomeRateLimited:
		current := store.StatusNotSubmitted
		if found {
			current = rec.Status
		}
		r.Logger.Warn().
			Str("puzzle", id.String()).
			Dur("wait", res.Wait).
			Msg("submitted too recently; try again later")
		return Decision{
			ID:      id,
			Action:  ActionRetryLater,
			Value:   value,
			Status:  current,
			Outcome: res.Outcome,
			Wait:    res.Wait,
			Reason:  res.Message,
		}, nil
	default:
		return Decision{}, fmt.Errorf("unknown submission outcome %q", res.Outcome)
	}

	next := store.AnswerRecord{ID: id, Value: value, Status: status}
	if found && rec.Value == value {
		next.Fingerprint = rec.Fingerprint
	}
	if err := r.put(ctx, next); err != nil {
		return Decision{}, err
	}

	r.Logger.Info().
		Str("puzzle", id.String()).
		Str("answer", value).
		Str("outcome", string(res.Outcome)).
		Msg("submission recorded")
	return Decision{
		ID:      id,
		Action:  ActionApplied,
		Value:   value,
		Status:  status,
		Outcome: res.Outcome,
		Reason:  res.Message,
	}, nil
}

// Submit sends value for id and applies the verdict. A transport failure
// is returned as is and leaves the record untouched.
func (r *Reconciler) Submit(ctx context.Context, s Submitter, id puzzle.ID, value string) (Decision, error) {
	r.Logger.Info().Str("puzzle", id.String()).Str("answer", value).Msg("submitting answer")

	res, err := s.SubmitAnswer(ctx, id.Year, id.Day, id.Part, value)
	if err != nil {
		return Decision{}, fmt.Errorf("submit %s: %w", id, err)
	}
	return r.ApplyRemoteOutcome(ctx, id, value, res)
}

// MarkSolved records value as the accepted answer of id without contacting
// the service, for parts solved outside this tool. No submission attempt is
// appended. A part already solved with another value is left unchanged and
// reported with ActionWarn.
func (r *Reconciler) MarkSolved(ctx context.Context, id puzzle.ID, value string) (Decision, error) {
	if value == "" {
		return Decision{}, fmt.Errorf("mark %s solved: empty answer", id)
	}

	rec, found, err := r.Store.GetAnswer(ctx, id)
	if err != nil {
		return Decision{}, err
	}
	if found && rec.Status.Solved() {
		if rec.Value == value {
			return Decision{ID: id, Action: ActionNoOp, Value: value, Status: rec.Status, Reason: "already solved"}, nil
		}
		return Decision{
			ID:       id,
			Action:   ActionWarn,
			Value:    value,
			Status:   rec.Status,
			Accepted: rec.Value,
			Reason:   "answer differs from the accepted answer",
		}, nil
	}

	next := store.AnswerRecord{ID: id, Value: value, Status: store.StatusAlreadySolved}
	if found && rec.Value == value {
		next.Fingerprint = rec.Fingerprint
	}
	if err := r.put(ctx, next); err != nil {
		return Decision{}, err
	}
	r.Logger.Info().Str("puzzle", id.String()).Str("answer", value).Msg("marked solved")
	return Decision{ID: id, Action: ActionApplied, Value: value, Status: next.Status, Reason: "marked solved"}, nil
}

// Record returns the stored answer record of id.
func (r *Reconciler) Record(ctx context.Context, id puzzle.ID) (store.AnswerRecord, bool, error) {
	return r.Store.GetAnswer(ctx, id)
}

// History returns every submission attempt for id, oldest first.
func (r *Reconciler) History(ctx context.Context, id puzzle.ID) ([]store.Submission, error) {
	return r.Store.ListSubmissions(ctx, id)
}

func (r *Reconciler) put(ctx context.Context, rec store.AnswerRecord) error {
	rec.Seq = r.Clock.Next()
	return r.Store.PutAnswer(ctx, rec)
}
