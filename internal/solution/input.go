package solution

import (
	"fmt"
	"strconv"
	"strings"
)

// Input is the puzzle input handed to a unit. The raw text is never
// modified. Derived views are computed lazily, and the scratch space lets
// Prepare or part one leave data behind for part two.
type Input struct {
	raw     string
	lines   []string
	scratch map[string]any
}

// NewInput wraps raw puzzle text.
func NewInput(raw string) *Input {
	return &Input{raw: raw, scratch: make(map[string]any)}
}

// Raw returns the input exactly as downloaded.
func (in *Input) Raw() string { return in.raw }

// Lines returns the input split on newlines, without a trailing empty line.
func (in *Input) Lines() []string {
	if in.lines == nil && in.raw != "" {
		s := strings.ReplaceAll(in.raw, "\r\n", "\n")
		s = strings.TrimSuffix(s, "\n")
		in.lines = strings.Split(s, "\n")
	}
	return in.lines
}

// Ints parses every line as a base 10 integer.
func (in *Input) Ints() ([]int, error) {
	lines := in.Lines()
	out := make([]int, 0, len(lines))
	for i, line := range lines {
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Set stores a value in the scratch space.
func (in *Input) Set(key string, v any) { in.scratch[key] = v }

// Get returns a value from the scratch space.
func (in *Input) Get(key string) (any, bool) {
	v, ok := in.scratch[key]
	return v, ok
}
