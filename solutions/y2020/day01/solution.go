package day01

import (
	"errors"
	"sort"

	"github.com/roach88/aoc/internal/solution"
)

func init() {
	solution.Register(2020, 1, solution.FuncUnit{PrepareFunc: Prepare, PartOne: PartOne, PartTwo: PartTwo})
}

const target = 2020

// Prepare parses the expense report once and sorts it.
func Prepare(in *solution.Input) error {
	nums, err := in.Ints()
	if err != nil {
		return err
	}
	sort.Ints(nums)
	in.Set("entries", nums)
	return nil
}

func entries(in *solution.Input) []int {
	v, _ := in.Get("entries")
	nums, _ := v.([]int)
	return nums
}

// PartOne returns the product of the two entries that sum to 2020.
func PartOne(in *solution.Input) (any, error) {
	a, b, ok := pair(entries(in), target)
	if !ok {
		return nil, errors.New("no two entries sum to 2020")
	}
	return a * b, nil
}

// PartTwo returns the product of the three entries that sum to 2020.
func PartTwo(in *solution.Input) (any, error) {
	nums := entries(in)
	for i, a := range nums {
		if b, c, ok := pair(nums[i+1:], target-a); ok {
			return a * b * c, nil
		}
	}
	return nil, errors.New("no three entries sum to 2020")
}

// pair finds two entries of the sorted slice nums summing to sum.
func pair(nums []int, sum int) (int, int, bool) {
	lo, hi := 0, len(nums)-1
	for lo < hi {
		switch s := nums[lo] + nums[hi]; {
		case s == sum:
			return nums[lo], nums[hi], true
		case s < sum:
			lo++
		default:
			hi--
		}
	}
	return 0, 0, false
}
