package solution

import (
	"fmt"
	"sync"

	"github.com/roach88/aoc/internal/puzzle"
)

// Registry maps (year, day) to a solution unit.
//
// Thread-safety: Registry is safe for concurrent use. Registration happens
// from package init functions; lookups happen once per invocation.
type Registry struct {
	mu    sync.RWMutex
	units map[puzzle.Key]Unit
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[puzzle.Key]Unit)}
}

// Default is the registry populated by the packages under solutions/.
var Default = NewRegistry()

// Register adds a unit to the Default registry. It panics if the day is
// registered twice or unit is nil.
func Register(year, day int, unit Unit) {
	Default.Register(puzzle.Key{Year: year, Day: day}, unit)
}

// Register adds a unit for key. It panics if key is already registered or
// unit is nil.
func (r *Registry) Register(key puzzle.Key, unit Unit) {
	if unit == nil {
		panic(fmt.Sprintf("solution: Register unit for %s is nil", key))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.units[key]; dup {
		panic(fmt.Sprintf("solution: Register called twice for %s", key))
	}
	r.units[key] = unit
}

// Lookup returns the unit registered for key.
func (r *Registry) Lookup(key puzzle.Key) (Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[key]
	return u, ok
}
