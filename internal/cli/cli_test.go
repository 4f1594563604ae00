package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/aoc/internal/aoc"
	"github.com/roach88/aoc/internal/config"
	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/solution"
	"github.com/roach88/aoc/internal/testutil"
)

const exampleInput = "1721\n979\n366\n299\n675\n1456\n"

var day1 = puzzle.Key{Year: 2020, Day: 1}

func partOne(in *solution.Input) (any, error) {
	nums, err := in.Ints()
	if err != nil {
		return nil, err
	}
	for i, a := range nums {
		for _, b := range nums[i+1:] {
			if a+b == 2020 {
				return a * b, nil
			}
		}
	}
	return nil, errors.New("no pair")
}

func partTwo(in *solution.Input) (any, error) {
	nums, err := in.Ints()
	if err != nil {
		return nil, err
	}
	for i, a := range nums {
		for j := i + 1; j < len(nums); j++ {
			for k := j + 1; k < len(nums); k++ {
				if a+nums[j]+nums[k] == 2020 {
					return a * nums[j] * nums[k], nil
				}
			}
		}
	}
	return nil, errors.New("no triple")
}

type testEnv struct {
	dir     string
	config  string
	opts    *RootOptions
	service *testutil.FakeService
}

// newTestEnv creates a workspace with a config file pointing into a temp
// dir, a registry holding 2020 day 1 and a fake puzzle service.
func newTestEnv(t *testing.T, unit solution.Unit) *testEnv {
	t.Helper()
	t.Setenv(config.SessionEnv, "")
	dir := t.TempDir()

	cfg := config.Default()
	cfg.InputsDir = filepath.Join(dir, "inputs")
	cfg.SolutionsDir = filepath.Join(dir, "solutions")
	cfg.Database = filepath.Join(dir, "aoc.db")
	cfg.Session = "test-session"
	path := filepath.Join(dir, "aoc.json")
	require.NoError(t, config.Save(path, cfg))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module "+cfg.Module+"\n"), 0o644))

	reg := solution.NewRegistry()
	if unit != nil {
		reg.Register(day1, unit)
	}

	svc := testutil.NewFakeService()
	svc.SetInput(2020, 1, exampleInput)

	return &testEnv{
		dir:     dir,
		config:  path,
		service: svc,
		opts: &RootOptions{
			Registry:   reg,
			Service:    svc,
			Clock:      testutil.NewFixedTime(time.Date(2020, time.December, 3, 12, 0, 0, 0, puzzle.EventZone)),
			AttemptIDs: testutil.NewSequentialIDs(""),
		},
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--config", e.config}, args...)
	code = Execute(context.Background(), args, &out, &errOut, e.opts)
	return code, out.String(), errOut.String()
}

// writeSource puts a solution file on disk so answers carry a fingerprint.
func (e *testEnv) writeSource(t *testing.T) {
	t.Helper()
	dir := filepath.Join(e.dir, "solutions", "y2020", "day01")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solution.go"), []byte("package day01\n"), 0o644))
}

var exampleUnit = solution.FuncUnit{PartOne: partOne, PartTwo: partTwo}

func decodeReport(t *testing.T, out string) reportView {
	t.Helper()
	var v reportView
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(nil)
	require.NotNil(t, cmd)
	assert.Equal(t, "aoc", cmd.Use)

	for _, name := range []string{"day", "path", "date", "init", "create", "time", "submit", "ignore-cache"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	for _, name := range []string{"year", "debug", "format", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)

	for _, sub := range []string{"history", "config", "solved"} {
		found, _, err := cmd.Find([]string{sub})
		require.NoError(t, err)
		assert.Equal(t, sub, found.Name())
	}
}

func TestSolve_Text(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	code, out, stderr := env.run(t, "--day", "1")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "Puzzle 2020/day01 (plain)")
	assert.Contains(t, out, "514579")
	assert.Contains(t, out, "241861950")
	assert.Contains(t, out, "not submitted")
	assert.Equal(t, 1, env.service.Fetches())
	assert.Empty(t, env.service.Submissions())

	b, err := os.ReadFile(filepath.Join(env.dir, "inputs", "y2020", "day01.txt"))
	require.NoError(t, err)
	assert.Equal(t, exampleInput, string(b))
}

func TestSolve_JSON(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	code, out, stderr := env.run(t, "--day", "1", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	v := decodeReport(t, out)
	assert.Equal(t, "2020/day01", v.Puzzle)
	assert.Equal(t, "plain", v.Mode)
	require.Len(t, v.Parts, 2)
	assert.Equal(t, "514579", v.Parts[0].Answer)
	assert.Equal(t, "241861950", v.Parts[1].Answer)
	assert.Equal(t, "not-submitted", string(v.Parts[0].Status))
	assert.Equal(t, "submit-if-requested", string(v.Parts[0].Action))
}

func TestSolve_YAML(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	code, out, stderr := env.run(t, "--day", "1", "--format", "yaml")
	require.Equal(t, ExitSuccess, code, stderr)

	var v struct {
		Puzzle string `yaml:"puzzle"`
		Parts  []struct {
			Answer string `yaml:"answer"`
		} `yaml:"parts"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &v), out)
	assert.Equal(t, "2020/day01", v.Puzzle)
	require.Len(t, v.Parts, 2)
	assert.Equal(t, "514579", v.Parts[0].Answer)
}

func TestSolve_CachedSolution(t *testing.T) {
	env := newTestEnv(t, exampleUnit)
	env.writeSource(t)

	code, _, stderr := env.run(t, "--day", "1")
	require.Equal(t, ExitSuccess, code, stderr)

	code, out, stderr := env.run(t, "--day", "1")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "cached solution")
	assert.Contains(t, out, "514579")
}

func TestSolve_Timed(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	code, out, stderr := env.run(t, "--day", "1", "--time")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "(timed)")
	assert.Contains(t, out, "COMBINED")
	assert.Contains(t, out, "Part 1")
	assert.Contains(t, out, "avg")
}

func TestSolve_TimeAndIgnoreCacheExclusive(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	code, _, stderr := env.run(t, "--day", "1", "--time", "--ignore-cache")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "none of the others can be")
}

func TestSolve_IgnoreCacheRefetches(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	for i := 0; i < 2; i++ {
		code, _, stderr := env.run(t, "--day", "1", "--ignore-cache")
		require.Equal(t, ExitSuccess, code, stderr)
	}
	assert.Equal(t, 2, env.service.Fetches())
}

func TestSolve_Submit(t *testing.T) {
	env := newTestEnv(t, exampleUnit)
	env.service.Outcomes = []aoc.Result{
		{Outcome: aoc.OutcomeCorrect, Message: "That's the right answer!"},
		{Outcome: aoc.OutcomeCorrect, Message: "That's the right answer!"},
	}

	code, out, stderr := env.run(t, "--day", "1", "--submit", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	v := decodeReport(t, out)
	for _, p := range v.Parts {
		assert.Equal(t, "submitted-correct", string(p.Status))
		assert.Equal(t, "correct", p.Outcome)
	}
	assert.Len(t, env.service.Submissions(), 2)

	// Solved parts are never resubmitted.
	code, out, stderr = env.run(t, "--day", "1", "--submit", "--ignore-cache", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	for _, p := range decodeReport(t, out).Parts {
		assert.Equal(t, "no-op", string(p.Action))
	}
	assert.Len(t, env.service.Submissions(), 2)
}

func TestSolved_UnblocksPartTwo(t *testing.T) {
	env := newTestEnv(t, solution.FuncUnit{PartTwo: partTwo})
	env.service.Outcomes = []aoc.Result{{Outcome: aoc.OutcomeCorrect, Message: "That's the right answer!"}}

	// Part 1 was solved on the website and its code is still empty.
	code, out, stderr := env.run(t, "--day", "1", "--submit")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Empty(t, env.service.Submissions())
	assert.Contains(t, out, "aoc solved --day N --part 1 ANSWER")

	code, out, stderr = env.run(t, "solved", "--day", "1", "--part", "1", "514579")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "2020/day01/part1: marked solved (514579)")

	code, out, stderr = env.run(t, "--day", "1", "--submit", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, []testutil.Submission{{Year: 2020, Day: 1, Part: 2, Answer: "241861950"}}, env.service.Submissions())
	assert.Equal(t, "submitted-correct", string(decodeReport(t, out).Parts[1].Status))
}

func TestSolved_Errors(t *testing.T) {
	env := newTestEnv(t, nil)

	code, _, stderr := env.run(t, "solved", "--day", "1", "--part", "3", "1")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "invalid --part")

	code, _, _ = env.run(t, "solved", "--day", "1")
	assert.Equal(t, ExitCommandError, code)

	code, _, stderr = env.run(t, "solved", "--day", "1", "514579")
	require.Equal(t, ExitSuccess, code, stderr)
	code, _, stderr = env.run(t, "solved", "--day", "1", "42")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "already solved with 514579")
}

func TestSolve_RateLimited(t *testing.T) {
	env := newTestEnv(t, solution.FuncUnit{PartOne: partOne})
	env.service.Outcomes = []aoc.Result{{
		Outcome: aoc.OutcomeRateLimited,
		Message: "You gave an answer too recently; You have 1m 30s left to wait.",
		Wait:    91 * time.Second,
	}}

	code, out, stderr := env.run(t, "--day", "1", "--submit")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "try again in 1m31s")
}

func TestSolve_SubmissionFailureExitsOne(t *testing.T) {
	env := newTestEnv(t, solution.FuncUnit{PartOne: partOne})
	env.service.SubmitErr = &aoc.SubmissionError{Year: 2020, Day: 1, Part: 1, Err: errors.New("connection reset")}

	code, out, _ := env.run(t, "--day", "1", "--submit")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "part 1 not submitted")
}

func TestSolve_FailingPart(t *testing.T) {
	env := newTestEnv(t, solution.FuncUnit{
		PartOne: func(*solution.Input) (any, error) { return nil, errors.New("off by one") },
		PartTwo: partTwo,
	})

	code, out, stderr := env.run(t, "--day", "1")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "241861950")
	assert.Contains(t, out, "part 1 failed")
	assert.Contains(t, stderr, "SOLUTION_EXECUTION")
}

func TestSolve_SelectorErrors(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no selector", nil, "at least one of the flags"},
		{"two selectors", []string{"--day", "1", "--date"}, "none of the others can be"},
		{"day zero", []string{"--day", "0"}, "INVALID_SELECTOR"},
		{"day 26", []string{"--day", "26"}, "INVALID_SELECTOR"},
		{"bad path", []string{"--path", "somewhere/else"}, "UNRESOLVABLE_IDENTIFIER"},
		{"empty path", []string{"--path", ""}, "UNRESOLVABLE_IDENTIFIER"},
		{"date false", []string{"--date=false"}, "INVALID_SELECTOR"},
		{"positional arg", []string{"--day", "1", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := env.run(t, tt.args...)
			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
	assert.Equal(t, 0, env.service.Fetches())
}

func TestSolve_Path(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	code, out, stderr := env.run(t, "--path", "solutions/y2020/day01/solution.go", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "2020/day01", decodeReport(t, out).Puzzle)
}

func TestSolve_Date(t *testing.T) {
	env := newTestEnv(t, nil)
	env.opts.Registry.Register(puzzle.Key{Year: 2020, Day: 3}, exampleUnit)
	env.service.SetInput(2020, 3, exampleInput)

	code, out, stderr := env.run(t, "--date", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "2020/day03", decodeReport(t, out).Puzzle)

	env.opts.Clock = testutil.NewFixedTime(time.Date(2020, time.December, 26, 0, 0, 0, 0, puzzle.EventZone))
	code, _, stderr = env.run(t, "--date")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "OUT_OF_WINDOW")
}

func TestSolve_NotYetAvailable(t *testing.T) {
	env := newTestEnv(t, nil)
	env.opts.Registry.Register(puzzle.Key{Year: 2020, Day: 10}, exampleUnit)

	code, _, stderr := env.run(t, "--day", "10")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "NOT_YET_AVAILABLE")
	assert.Equal(t, 0, env.service.Fetches())
}

func TestSolve_NotRegistered(t *testing.T) {
	env := newTestEnv(t, nil)

	code, _, stderr := env.run(t, "--day", "1")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "NOT_FOUND")
	assert.Equal(t, 0, env.service.Fetches())
}

func TestSolve_AuthError(t *testing.T) {
	env := newTestEnv(t, exampleUnit)
	env.service.FetchErr = &aoc.AuthenticationError{StatusCode: 400, Err: errors.New("expired")}

	code, _, stderr := env.run(t, "--day", "1")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "authentication failed")
}

func TestSolve_Init(t *testing.T) {
	env := newTestEnv(t, nil)

	code, out, stderr := env.run(t, "--day", "5", "--init")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "Created 2020/day05")

	_, err := os.Stat(filepath.Join(env.dir, "solutions", "y2020", "day05", "solution.go"))
	require.NoError(t, err)

	days, err := os.ReadFile(filepath.Join(env.dir, "solutions", "y2020", "days.go"))
	require.NoError(t, err)
	assert.Contains(t, string(days), `"github.com/roach88/aoc/solutions/y2020/day05"`)

	code, _, stderr = env.run(t, "--day", "5", "--create")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "ALREADY_EXISTS")
	assert.Equal(t, 0, env.service.Fetches())
}

func TestSolve_InitOutsideModule(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, os.Remove(filepath.Join(env.dir, "go.mod")))

	code, _, stderr := env.run(t, "--day", "5", "--init")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "not inside a Go module")
}

func TestSolve_InitRejectsRunFlags(t *testing.T) {
	env := newTestEnv(t, nil)

	code, _, stderr := env.run(t, "--day", "5", "--init", "--submit")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "--init cannot be combined")
}

func TestSolve_InvalidFormat(t *testing.T) {
	env := newTestEnv(t, exampleUnit)

	code, _, stderr := env.run(t, "--day", "1", "--format", "xml")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "invalid format")
}

func TestSolve_YearFlag(t *testing.T) {
	env := newTestEnv(t, nil)
	env.opts.Registry.Register(puzzle.Key{Year: 2019, Day: 1}, exampleUnit)
	env.service.SetInput(2019, 1, exampleInput)

	code, out, stderr := env.run(t, "--day", "1", "--year", "2019", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "2019/day01", decodeReport(t, out).Puzzle)

	code, _, _ = env.run(t, "--day", "1", "--year", "1999")
	assert.Equal(t, ExitCommandError, code)
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t, solution.FuncUnit{PartOne: partOne})
	env.service.Outcomes = []aoc.Result{{Outcome: aoc.OutcomeIncorrect, Message: "That's not the right answer."}}

	code, _, stderr := env.run(t, "--day", "1", "--submit")
	require.Equal(t, ExitSuccess, code, stderr)

	code, out, stderr := env.run(t, "history", "--day", "1", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	var v historyView
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	require.Len(t, v.Parts, 2)
	require.NotNil(t, v.Parts[0].Record)
	assert.Equal(t, "submitted-incorrect", string(v.Parts[0].Record.Status))
	require.Len(t, v.Parts[0].Submissions, 1)
	assert.Equal(t, "attempt-0001", v.Parts[0].Submissions[0].AttemptID)
	assert.Nil(t, v.Parts[1].Record)
	assert.Empty(t, v.Parts[1].Submissions)

	code, out, stderr = env.run(t, "history", "--day", "1")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "attempt-0001")
}

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t, nil)

	code, out, stderr := env.run(t, "config", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	var shown config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "********", shown.Session)
	assert.Equal(t, 2020, shown.Year)

	code, _, stderr = env.run(t, "config", "--year", "2021", "--write")
	require.Equal(t, ExitSuccess, code, stderr)

	saved, err := config.Load(env.config)
	require.NoError(t, err)
	assert.Equal(t, 2021, saved.Year)
	assert.Equal(t, "test-session", saved.Session)
}

func TestConfigCommand_WriteLeavesEnvSessionOut(t *testing.T) {
	env := newTestEnv(t, nil)
	cfg, err := config.Load(env.config)
	require.NoError(t, err)
	cfg.Session = ""
	require.NoError(t, config.Save(env.config, cfg))
	t.Setenv(config.SessionEnv, "env-cookie")

	code, out, stderr := env.run(t, "config", "--write", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "********")
	assert.Contains(t, stderr, "config saved")

	raw, err := os.ReadFile(env.config)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "env-cookie")
}

func TestExitError(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open answer store", inner)
	assert.Equal(t, "failed to open answer store: disk full", err.Error())
	assert.ErrorIs(t, err, inner)

	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("unknown flag: --dya")))
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, "bare", NewExitError(ExitFailure, "bare").Error())
}
