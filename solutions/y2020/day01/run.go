//go:build ignore

// Runs day 1 on its own:
//
//	go run ./solutions/y2020/day01/run.go [--time] [--submit]
package main

import (
	"os"

	"github.com/roach88/aoc/internal/cli"
	_ "github.com/roach88/aoc/solutions/y2020/day01"
)

func main() {
	args := append([]string{"--year", "2020", "--day", "1"}, os.Args[1:]...)
	os.Exit(cli.Main(args))
}
