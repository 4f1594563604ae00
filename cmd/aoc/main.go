// Command aoc runs, times and submits puzzle solutions.
package main

import (
	"os"

	"github.com/roach88/aoc/internal/cli"
	_ "github.com/roach88/aoc/solutions"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
