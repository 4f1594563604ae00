package solution

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/aoc/internal/puzzle"
)

// Loader locates solution units by (year, day).
type Loader struct {
	Registry   *Registry
	Scaffolder *Scaffolder
}

// NewLoader creates a Loader. A nil registry means Default.
func NewLoader(registry *Registry, scaffolder *Scaffolder) *Loader {
	if registry == nil {
		registry = Default
	}
	return &Loader{Registry: registry, Scaffolder: scaffolder}
}

// Load returns the unit for key or a NOT_FOUND error.
func (l *Loader) Load(key puzzle.Key) (Unit, error) {
	if u, ok := l.Registry.Lookup(key); ok {
		return u, nil
	}

	if l.Scaffolder != nil {
		if _, err := os.Stat(l.Scaffolder.SourcePath(key)); err == nil {
			return nil, newError(ErrCodeNotFound,
				"%s exists but is not compiled into this binary; rebuild to register it", l.Scaffolder.SourcePath(key))
		}
	}
	return nil, newError(ErrCodeNotFound, "no solution registered for %s; create one with --init", key)
}

// Init creates the stub for key. It never overwrites an existing unit.
func (l *Loader) Init(key puzzle.Key) (*Stub, error) {
	if l.Scaffolder == nil {
		return nil, errors.New("no solutions directory configured")
	}
	return l.Scaffolder.CreateStub(key)
}

// Source returns the source of the unit for key, or nil when the source
// is not available on disk (for example an installed binary).
func (l *Loader) Source(key puzzle.Key) ([]byte, error) {
	if l.Scaffolder == nil {
		return nil, nil
	}
	b, err := os.ReadFile(l.Scaffolder.SourcePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read solution source: %w", err)
	}
	return b, nil
}
