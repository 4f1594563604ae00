package day02

import (
	"fmt"
	"strings"

	"github.com/roach88/aoc/internal/solution"
)

func init() {
	solution.Register(2020, 2, solution.FuncUnit{PrepareFunc: Prepare, PartOne: PartOne, PartTwo: PartTwo})
}

type entry struct {
	lo, hi   int
	letter   rune
	password string
}

// Prepare parses lines of the form "1-3 a: abcde".
func Prepare(in *solution.Input) error {
	var entries []entry
	for i, line := range in.Lines() {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e entry
		if _, err := fmt.Sscanf(line, "%d-%d %c: %s", &e.lo, &e.hi, &e.letter, &e.password); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	in.Set("entries", entries)
	return nil
}

func entries(in *solution.Input) []entry {
	v, _ := in.Get("entries")
	es, _ := v.([]entry)
	return es
}

// PartOne counts passwords whose letter occurs between lo and hi times.
func PartOne(in *solution.Input) (any, error) {
	valid := 0
	for _, e := range entries(in) {
		n := strings.Count(e.password, string(e.letter))
		if n >= e.lo && n <= e.hi {
			valid++
		}
	}
	return valid, nil
}

// PartTwo counts passwords with the letter at exactly one of the two
// 1-based positions.
func PartTwo(in *solution.Input) (any, error) {
	valid := 0
	for _, e := range entries(in) {
		if at(e.password, e.lo, e.letter) != at(e.password, e.hi, e.letter) {
			valid++
		}
	}
	return valid, nil
}

func at(s string, pos int, c rune) bool {
	return pos >= 1 && pos <= len(s) && rune(s[pos-1]) == c
}
