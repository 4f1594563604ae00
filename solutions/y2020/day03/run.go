//go:build ignore

// Runs day 3 on its own:
//
//	go run ./solutions/y2020/day03/run.go [--time] [--submit]
package main

import (
	"os"

	"github.com/roach88/aoc/internal/cli"
	_ "github.com/roach88/aoc/solutions/y2020/day03"
)

func main() {
	args := append([]string{"--year", "2020", "--day", "3"}, os.Args[1:]...)
	os.Exit(cli.Main(args))
}
