// Package harness runs answer reconciliation scenarios.
//
// A scenario drives the reconciler through a sequence of record and submit
// steps against a fresh in-memory store and a scripted puzzle service, then
// checks the resulting trace and the final answer records.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	puzzle: { year: 2020, day: 1 }
//	setup:
//	  - part: 1
//	    value: "100"
//	    status: submitted-incorrect
//	flow:
//	  - op: record
//	    part: 1
//	    answer: "514579"
//	    fingerprint: fp-1
//	    expect: { action: submit-if-requested, status: not-submitted }
//	  - op: submit
//	    part: 1
//	    answer: "514579"
//	    outcome: correct
//	    message: "That's the right answer!"
//	    expect: { action: applied, status: submitted-correct }
//	assertions:
//	  - type: trace_order
//	    actions: [submit-if-requested, applied]
//	  - type: final_state
//	    part: 1
//	    expect: { value: "514579", status: submitted-correct }
//
// A submit step scripts the service reply from outcome, message and wait.
// The outcome "transport-error" makes the service call fail with message.
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace (optionally for a part)
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: the answer record of a part has the expected fields
//   - submission_count: a part has exactly N submission attempts
//
// # Deterministic Testing
//
// Every run uses testutil.DeterministicClock for sequence numbers and
// testutil.SequentialIDs for attempt ids, so traces are identical across
// runs and can be compared against golden files.
package harness
