package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aoc/internal/aoc"
	"github.com/roach88/aoc/internal/puzzle"
	"github.com/roach88/aoc/internal/reconcile"
	"github.com/roach88/aoc/internal/store"
)

// Scenario defines a reconciliation scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Puzzle is the day every step refers to.
	Puzzle puzzle.Key `yaml:"puzzle"`

	// Setup seeds answer records before the flow runs.
	Setup []RecordSeed `yaml:"setup,omitempty"`

	// Flow contains the steps to execute, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`

	// AttemptPrefix prefixes the generated attempt ids. Defaults to "attempt".
	AttemptPrefix string `yaml:"attempt_prefix,omitempty"`
}

// RecordSeed is an answer record written directly to the store.
type RecordSeed struct {
	Part        int          `yaml:"part"`
	Value       string       `yaml:"value"`
	Status      store.Status `yaml:"status"`
	Fingerprint string       `yaml:"fingerprint,omitempty"`
}

// Flow step operations.
const (
	OpRecord = "record"
	OpSubmit = "submit"
)

// OutcomeTransportError makes the scripted service fail a submit step.
const OutcomeTransportError = "transport-error"

// FlowStep is one reconciler call.
type FlowStep struct {
	// Op is "record" or "submit".
	Op string `yaml:"op"`

	Part int `yaml:"part"`

	// Answer is the recorded or submitted value.
	Answer string `yaml:"answer"`

	// Fingerprint is passed to record steps.
	Fingerprint string `yaml:"fingerprint,omitempty"`

	// Outcome, Message and Wait script the service reply of a submit step.
	Outcome string `yaml:"outcome,omitempty"`
	Message string `yaml:"message,omitempty"`
	Wait    string `yaml:"wait,omitempty"`

	// Expect specifies the expected decision. If nil, nothing is checked.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected decision of a step.
// Only the fields that are set are compared.
type ExpectClause struct {
	Action  reconcile.Action `yaml:"action,omitempty"`
	Status  store.Status     `yaml:"status,omitempty"`
	Outcome aoc.Outcome      `yaml:"outcome,omitempty"`

	// Error expects the step to fail.
	Error bool `yaml:"error,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action is used by trace_contains and trace_count.
	Action reconcile.Action `yaml:"action,omitempty"`

	// Part narrows trace_contains and selects the record for final_state
	// and submission_count.
	Part int `yaml:"part,omitempty"`

	// Actions is the expected order for trace_order.
	Actions []reconcile.Action `yaml:"actions,omitempty"`

	// Count is used by trace_count and submission_count.
	Count int `yaml:"count,omitempty"`

	// Expect holds the expected record fields for final_state: value,
	// status and fingerprint. Subset match.
	Expect map[string]string `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains   = "trace_contains"
	AssertTraceOrder      = "trace_order"
	AssertTraceCount      = "trace_count"
	AssertFinalState      = "final_state"
	AssertSubmissionCount = "submission_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos do not silently disable a check.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !s.Puzzle.Part(puzzle.PartOne).Valid() {
		return fmt.Errorf("puzzle %s is not a valid day", s.Puzzle)
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, seed := range s.Setup {
		if !validPart(seed.Part) {
			return fmt.Errorf("setup[%d]: part must be 1 or 2", i)
		}
		switch seed.Status {
		case store.StatusNotSubmitted, store.StatusCorrect, store.StatusIncorrect, store.StatusAlreadySolved:
		default:
			return fmt.Errorf("setup[%d]: unknown status %q", i, seed.Status)
		}
	}

	for i, step := range s.Flow {
		if !validPart(step.Part) {
			return fmt.Errorf("flow[%d]: part must be 1 or 2", i)
		}
		switch step.Op {
		case OpRecord:
		case OpSubmit:
			if step.Outcome == "" {
				return fmt.Errorf("flow[%d]: outcome is required for submit", i)
			}
			if step.Wait != "" {
				if _, err := time.ParseDuration(step.Wait); err != nil {
					return fmt.Errorf("flow[%d]: invalid wait: %w", i, err)
				}
			}
		default:
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if !validPart(a.Part) {
			return fmt.Errorf("assertions[%d]: part is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertSubmissionCount:
		if !validPart(a.Part) {
			return fmt.Errorf("assertions[%d]: part is required for submission_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for submission_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func validPart(part int) bool {
	return part == puzzle.PartOne || part == puzzle.PartTwo
}
