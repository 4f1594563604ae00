package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/store"
)

const minimalScenario = `
name: minimal
description: one record step
puzzle: { year: 2020, day: 1 }
flow:
  - op: record
    part: 1
    answer: "1"
assertions:
  - type: trace_count
    action: submit-if-requested
    count: 1
`

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "already_solved.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "already_solved", s.Name)
	assert.Equal(t, puzzle.Key{Year: 2021, Day: 7}, s.Puzzle)
	assert.Equal(t, "try", s.AttemptPrefix)
	require.Len(t, s.Setup, 1)
	assert.Equal(t, store.StatusAlreadySolved, s.Setup[0].Status)
	require.Len(t, s.Flow, 3)
	assert.Equal(t, OpSubmit, s.Flow[2].Op)
	require.NotNil(t, s.Flow[2].Expect)
	assert.Equal(t, reconcile.ActionApplied, s.Flow[2].Expect.Action)
	assert.Len(t, s.Assertions, 4)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)
	assert.Empty(t, s.Setup)
	assert.Nil(t, s.Flow[0].Expect)
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing name",
			doc: `
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: record, part: 1, answer: "1" }]
assertions: [{ type: trace_count, action: no-op }]
`,
			want: "name is required",
		},
		{
			name: "missing description",
			doc: `
name: n
puzzle: { year: 2020, day: 1 }
flow: [{ op: record, part: 1, answer: "1" }]
assertions: [{ type: trace_count, action: no-op }]
`,
			want: "description is required",
		},
		{
			name: "bad day",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 26 }
flow: [{ op: record, part: 1, answer: "1" }]
assertions: [{ type: trace_count, action: no-op }]
`,
			want: "not a valid day",
		},
		{
			name: "empty flow",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: []
assertions: [{ type: trace_count, action: no-op }]
`,
			want: "flow list is required",
		},
		{
			name: "no assertions",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: record, part: 1, answer: "1" }]
`,
			want: "assertions list is required",
		},
		{
			name: "bad part",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: record, part: 3, answer: "1" }]
assertions: [{ type: trace_count, action: no-op }]
`,
			want: "flow[0]: part must be 1 or 2",
		},
		{
			name: "unknown op",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: replay, part: 1, answer: "1" }]
assertions: [{ type: trace_count, action: no-op }]
`,
			want: `unknown op "replay"`,
		},
		{
			name: "submit without outcome",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: submit, part: 1, answer: "1" }]
assertions: [{ type: trace_count, action: no-op }]
`,
			want: "outcome is required for submit",
		},
		{
			name: "bad wait",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: submit, part: 1, answer: "1", outcome: rate-limited, wait: soon }]
assertions: [{ type: trace_count, action: no-op }]
`,
			want: "invalid wait",
		},
		{
			name: "bad seed status",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
setup: [{ part: 1, value: "1", status: solved }]
flow: [{ op: record, part: 1, answer: "1" }]
assertions: [{ type: trace_count, action: no-op }]
`,
			want: `setup[0]: unknown status "solved"`,
		},
		{
			name: "unknown assertion",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: record, part: 1, answer: "1" }]
assertions: [{ type: eventually }]
`,
			want: `unknown assertion type "eventually"`,
		},
		{
			name: "final_state without expect",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: record, part: 1, answer: "1" }]
assertions: [{ type: final_state, part: 1 }]
`,
			want: "expect is required for final_state",
		},
		{
			name: "trace_order without actions",
			doc: `
name: n
description: d
puzzle: { year: 2020, day: 1 }
flow: [{ op: record, part: 1, answer: "1" }]
assertions: [{ type: trace_order }]
`,
			want: "actions list is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScenarioFiles_AllValid(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		_, err := os.Stat(filepath.Join("testdata", "golden", trimExt(filepath.Base(p))+".golden"))
		assert.NoError(t, err, "every scenario needs a golden file: %s", p)

		_, err = LoadScenario(p)
		assert.NoError(t, err, p)
	}
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
