package puzzle

import "fmt"

// Event day range. Every event runs for 25 puzzles with two parts each.
const (
	FirstDay = 1
	LastDay  = 25
	PartOne  = 1
	PartTwo  = 2
)

// ID identifies one part of one puzzle. It is a value type and never mutated
// after resolution.
type ID struct {
	Year int `json:"year" yaml:"year"`
	Day  int `json:"day" yaml:"day"`
	Part int `json:"part" yaml:"part"`
}

// Key is the (year, day) pair shared by both parts of a puzzle.
type Key struct {
	Year int `json:"year" yaml:"year"`
	Day  int `json:"day" yaml:"day"`
}

// NewID returns the identifier for year/day/part.
func NewID(year, day, part int) ID {
	return ID{Year: year, Day: day, Part: part}
}

// Key returns the (year, day) pair of the identifier.
func (id ID) Key() Key {
	return Key{Year: id.Year, Day: id.Day}
}

// String renders the identifier as "2020/day01/part1".
func (id ID) String() string {
	return fmt.Sprintf("%s/part%d", id.Key(), id.Part)
}

// Valid reports whether day and part are in range.
func (id ID) Valid() bool {
	return id.Year > 0 &&
		id.Day >= FirstDay && id.Day <= LastDay &&
		(id.Part == PartOne || id.Part == PartTwo)
}

// String renders the key as "2020/day01".
func (k Key) String() string {
	return fmt.Sprintf("%d/day%02d", k.Year, k.Day)
}

// Parts returns the identifiers of both parts, part one first.
func (k Key) Parts() []ID {
	return []ID{
		NewID(k.Year, k.Day, PartOne),
		NewID(k.Year, k.Day, PartTwo),
	}
}

// Part returns the identifier of a single part of the day.
func (k Key) Part(part int) ID {
	return NewID(k.Year, k.Day, part)
}
