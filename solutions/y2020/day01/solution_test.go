package day01

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aoc/internal/solution"
)

const example = "1721\n979\n366\n299\n675\n1456\n"

func prepared(t *testing.T, text string) *solution.Input {
	t.Helper()
	in := solution.NewInput(text)
	require.NoError(t, Prepare(in))
	return in
}

func TestPartOne(t *testing.T) {
	got, err := PartOne(prepared(t, example))
	require.NoError(t, err)
	assert.Equal(t, 514579, got)
}

func TestPartTwo(t *testing.T) {
	got, err := PartTwo(prepared(t, example))
	require.NoError(t, err)
	assert.Equal(t, 241861950, got)
}

func TestNoPair(t *testing.T) {
	_, err := PartOne(prepared(t, "1\n2\n"))
	assert.Error(t, err)
}

func TestPrepare_BadInput(t *testing.T) {
	assert.Error(t, Prepare(solution.NewInput("12\nabc\n")))
}
