package day03

import (
	"strings"

	"github.com/roach88/aoc/internal/solution"
)

func init() {
	solution.Register(2020, 3, solution.FuncUnit{PartOne: PartOne, PartTwo: PartTwo})
}

type slope struct{ right, down int }

// PartOne counts the trees hit going right 3, down 1.
func PartOne(in *solution.Input) (any, error) {
	return trees(grid(in), slope{3, 1}), nil
}

// PartTwo multiplies the trees hit on the five slopes.
func PartTwo(in *solution.Input) (any, error) {
	g := grid(in)
	product := 1
	for _, s := range []slope{{1, 1}, {3, 1}, {5, 1}, {7, 1}, {1, 2}} {
		product *= trees(g, s)
	}
	return product, nil
}

func grid(in *solution.Input) []string {
	var rows []string
	for _, line := range in.Lines() {
		if line = strings.TrimSpace(line); line != "" {
			rows = append(rows, line)
		}
	}
	return rows
}

// trees walks the grid, which repeats to the right.
func trees(g []string, s slope) int {
	n, x := 0, 0
	for y := 0; y < len(g); y += s.down {
		if g[y][x%len(g[y])] == '#' {
			n++
		}
		x += s.right
	}
	return n
}
