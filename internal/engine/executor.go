package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/solution"
)

// Mode selects how a run treats caches and timing.
type Mode int

const (
	ModePlain Mode = iota
	ModeTimed
	ModeForced
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeTimed:
		return "timed"
	case ModeForced:
		return "forced"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DefaultMinTotal is how long a timed step must run in total before its
// measurement is accepted.
const DefaultMinTotal = 200 * time.Millisecond

// DefaultMaxRuns bounds the batch size of a timed step.
const DefaultMaxRuns = 10_000_000

// zeroTimeRuns is the batch size at which a batch measuring no time at all
// is accepted, for clocks too coarse to see a single call.
const zeroTimeRuns = 1000

// Timing is the measurement of one step.
type Timing struct {
	Runs  int           `json:"runs" yaml:"runs"`
	Total time.Duration `json:"total" yaml:"total"`
}

// PerRun returns the average duration of a single run.
func (t Timing) PerRun() time.Duration {
	if t.Runs == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Runs)
}

// Executor calls solution code, converting returned errors and panics into
// *ExecError.
type Executor struct {
	// Now is the time source used for measurements.
	Now func() time.Time

	// MinTotal is the total duration a timed step must reach.
	MinTotal time.Duration

	// MaxRuns is the largest batch a timed step runs, whatever it measures.
	MaxRuns int

	Logger zerolog.Logger
}

// NewExecutor creates an Executor measuring wall-clock time.
func NewExecutor(logger zerolog.Logger) *Executor {
	return &Executor{
		Now:      time.Now,
		MinTotal: DefaultMinTotal,
		MaxRuns:  DefaultMaxRuns,
		Logger:   logger,
	}
}

// Prepare runs the prepare step of key. With timed it is measured like a
// part.
func (x *Executor) Prepare(key puzzle.Key, p solution.Preparer, in *solution.Input, timed bool) (Timing, error) {
	t, err := x.measure(timed, func() error {
		return x.call(key, 0, func() error { return p.Prepare(in) })
	})
	if err != nil {
		x.Logger.Error().Err(err).Str("puzzle", key.String()).Str("step", "prepare").Msg("solution failed")
		return Timing{}, err
	}
	return t, nil
}

// RunPart computes the answer of id. With timed the part is run
// repeatedly; the answer is the one returned by the first call.
func (x *Executor) RunPart(id puzzle.ID, unit solution.Unit, in *solution.Input, timed bool) (solution.Answer, Timing, error) {
	var (
		answer solution.Answer
		first  = true
	)
	t, err := x.measure(timed, func() error {
		return x.call(id.Key(), id.Part, func() error {
			a, err := unit.RunPart(id.Part, in)
			if err != nil {
				return err
			}
			if first {
				answer = a
				first = false
			}
			return nil
		})
	})
	if err != nil {
		x.Logger.Error().Err(err).Str("puzzle", id.Key().String()).Int("part", id.Part).Msg("solution failed")
		return "", Timing{}, err
	}

	x.Logger.Debug().
		Str("puzzle", id.String()).
		Int("runs", t.Runs).
		Dur("per_run", t.PerRun()).
		Msg("part finished")
	return answer, t, nil
}

// call runs fn once and turns a panic into an ExecError.
func (x *Executor) call(key puzzle.Key, part int, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newExecError(key, part, nil, r)
		}
	}()
	if err := fn(); err != nil {
		return newExecError(key, part, err, nil)
	}
	return nil
}

// measure runs fn once, or with timed, in batches of 1, 2, 5, 10, 20, 50...
// calls until a batch takes at least MinTotal. A batch of MaxRuns calls, or
// one of zeroTimeRuns or more that measured nothing, ends the search.
func (x *Executor) measure(timed bool, fn func() error) (Timing, error) {
	if !timed {
		start := x.Now()
		if err := fn(); err != nil {
			return Timing{}, err
		}
		return Timing{Runs: 1, Total: x.Now().Sub(start)}, nil
	}

	maxRuns := x.MaxRuns
	if maxRuns <= 0 {
		maxRuns = DefaultMaxRuns
	}
	for scale := 1; ; scale *= 10 {
		for _, step := range []int{1, 2, 5} {
			n := min(scale*step, maxRuns)
			start := x.Now()
			for i := 0; i < n; i++ {
				if err := fn(); err != nil {
					return Timing{}, err
				}
			}
			total := x.Now().Sub(start)
			if total >= x.MinTotal || n == maxRuns || (total <= 0 && n >= zeroTimeRuns) {
				if total < 0 {
					total = 0
				}
				return Timing{Runs: n, Total: total}, nil
			}
		}
	}
}
