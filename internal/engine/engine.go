package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roach88/aoc/internal/aoc"
	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/solution"
)

// InputSource returns the input of a day. Implemented by *input.Cache.
type InputSource interface {
	Get(ctx context.Context, key puzzle.Key, force bool) (string, error)
}

// ReasonPartOneUnsolved is the reason given when a part 2 answer is held
// back because part 1 has no solved record.
const ReasonPartOneUnsolved = "part 1 is not solved yet"

// Request describes one run.
type Request struct {
	Key    puzzle.Key
	Mode   Mode
	Submit bool
}

// PartResult is the outcome of one part.
type PartResult struct {
	ID     puzzle.ID
	Answer solution.Answer
	Timing Timing

	// Cached is set when the answer was reused instead of computed.
	Cached bool

	// Err is the execution error of the part, if any.
	Err error

	// SubmitErr is set when the answer could not be delivered.
	SubmitErr error

	// Decisions lists every reconcile step taken for the part, in order.
	Decisions []reconcile.Decision
}

// Action returns the action of the last decision, or "" when the part was
// never reconciled.
func (p PartResult) Action() reconcile.Action {
	if len(p.Decisions) == 0 {
		return ""
	}
	return p.Decisions[len(p.Decisions)-1].Action
}

// Outcome returns the verdict of the service when the part was submitted.
func (p PartResult) Outcome() aoc.Outcome {
	for i := len(p.Decisions) - 1; i >= 0; i-- {
		if p.Decisions[i].Outcome != "" {
			return p.Decisions[i].Outcome
		}
	}
	return ""
}

// Report is the result of Engine.Run.
type Report struct {
	Key         puzzle.Key
	Mode        Mode
	Fingerprint string

	// Prepare is the measurement of the prepare step. Nil when the unit
	// has none or it did not run.
	Prepare    *Timing
	PrepareErr error

	Parts []PartResult
}

// Failed reports whether any part failed to execute.
func (r *Report) Failed() bool {
	for _, p := range r.Parts {
		if p.Err != nil {
			return true
		}
	}
	return false
}

// Err joins every execution and submission error of the run.
func (r *Report) Err() error {
	var errs []error
	for _, p := range r.Parts {
		if p.Err != nil {
			errs = append(errs, p.Err)
		}
		if p.SubmitErr != nil {
			errs = append(errs, p.SubmitErr)
		}
	}
	return errors.Join(errs...)
}

// Engine runs solutions and reconciles their answers.
type Engine struct {
	loader     *solution.Loader
	inputs     InputSource
	reconciler *reconcile.Reconciler
	submitter  reconcile.Submitter
	executor   *Executor
	logger     zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSubmitter sets the service answers are submitted to.
func WithSubmitter(s reconcile.Submitter) Option {
	return func(e *Engine) {
		e.submitter = s
	}
}

// WithExecutor replaces the default executor, typically to inject a time
// source.
func WithExecutor(x *Executor) Option {
	return func(e *Engine) {
		e.executor = x
	}
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine.
func New(loader *solution.Loader, inputs InputSource, reconciler *reconcile.Reconciler, opts ...Option) *Engine {
	e := &Engine{
		loader:     loader,
		inputs:     inputs,
		reconciler: reconciler,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.executor == nil {
		e.executor = NewExecutor(e.logger)
	}
	return e
}

// Run executes req. Loading, input and store errors abort the run and are
// returned. Execution and submission errors are recorded per part in the
// Report; both parts are always attempted.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	key := req.Key
	log := e.logger.With().Str("puzzle", key.String()).Str("mode", req.Mode.String()).Logger()

	unit, err := e.loader.Load(key)
	if err != nil {
		return nil, err
	}

	text, err := e.inputs.Get(ctx, key, req.Mode == ModeForced)
	if err != nil {
		return nil, err
	}

	source, err := e.loader.Source(key)
	if err != nil {
		return nil, err
	}

	report := &Report{Key: key, Mode: req.Mode}
	if source != nil {
		report.Fingerprint = puzzle.Fingerprint([]byte(text), source)
	}

	cached, err := e.cachedAnswers(ctx, req, report.Fingerprint)
	if err != nil {
		return nil, err
	}

	timed := req.Mode == ModeTimed
	in := solution.NewInput(text)

	if len(cached) < len(key.Parts()) {
		if p := solution.PrepareStep(unit); p != nil {
			t, err := e.executor.Prepare(key, p, in, timed)
			if err != nil {
				report.PrepareErr = err
			} else {
				report.Prepare = &t
			}
		}
	}

	for _, id := range key.Parts() {
		res := PartResult{ID: id}

		switch answer, ok := cached[id.Part]; {
		case ok:
			res.Answer = answer
			res.Cached = true
			log.Debug().Int("part", id.Part).Msg("using cached answer")
		case report.PrepareErr != nil:
			res.Err = report.PrepareErr
		default:
			res.Answer, res.Timing, res.Err = e.executor.RunPart(id, unit, in, timed)
		}

		if res.Err == nil {
			if err := e.reconcile(ctx, req, report.Fingerprint, &res); err != nil {
				return nil, err
			}
		}
		report.Parts = append(report.Parts, res)
	}

	return report, nil
}

// cachedAnswers returns the stored answers that can be reused for a plain
// run: same fingerprint, non-empty value.
func (e *Engine) cachedAnswers(ctx context.Context, req Request, fingerprint string) (map[int]solution.Answer, error) {
	cached := map[int]solution.Answer{}
	if req.Mode != ModePlain || fingerprint == "" {
		return cached, nil
	}
	for _, id := range req.Key.Parts() {
		rec, found, err := e.reconciler.Record(ctx, id)
		if err != nil {
			return nil, err
		}
		if found && rec.Fingerprint == fingerprint && rec.Value != "" {
			cached[id.Part] = solution.Answer(rec.Value)
		}
	}
	return cached, nil
}

// reconcile records the answer of res and submits it when requested.
func (e *Engine) reconcile(ctx context.Context, req Request, fingerprint string, res *PartResult) error {
	d, err := e.reconciler.RecordAndReconcile(ctx, res.ID, res.Answer, fingerprint)
	if err != nil {
		return fmt.Errorf("reconcile %s: %w", res.ID, err)
	}
	res.Decisions = append(res.Decisions, d)

	if d.Action != reconcile.ActionSubmitIfRequested || !req.Submit {
		return nil
	}
	if e.submitter == nil {
		return errors.New("submission requested but no puzzle service is configured")
	}

	if res.ID.Part == puzzle.PartTwo {
		first, found, err := e.reconciler.Record(ctx, res.ID.Key().Part(puzzle.PartOne))
		if err != nil {
			return err
		}
		if !found || !first.Status.Solved() {
			res.Decisions = append(res.Decisions, reconcile.Decision{
				ID:     res.ID,
				Action: reconcile.ActionNoOp,
				Value:  d.Value,
				Status: d.Status,
				Reason: ReasonPartOneUnsolved,
			})
			return nil
		}
	}

	sd, err := e.reconciler.Submit(ctx, e.submitter, res.ID, d.Value)
	if err != nil {
		e.logger.Error().Err(err).Str("puzzle", res.ID.String()).Msg("submission failed")
		res.SubmitErr = err
		return nil
	}
	res.Decisions = append(res.Decisions, sd)
	return nil
}
