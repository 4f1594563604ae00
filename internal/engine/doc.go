// Package engine runs one day's solution end to end.
//
// A run loads the registered unit, gets the input from the input cache,
// runs the optional prepare step, then part 1 and part 2 in that order.
// Each computed answer is reconciled against the answer store and, when
// requested, submitted to the puzzle service.
//
// Modes:
//
//	ModePlain   run each part once; reuse a cached answer when the
//	            fingerprint of input and source is unchanged
//	ModeTimed   measure each step with repeated runs
//	ModeForced  re-fetch the input and recompute every answer
//
// A failing part never prevents its sibling from running. Loading and
// input errors abort the run before any part executes.
//
// Everything happens on the calling goroutine. Submission attempts are
// ordered by a logical Clock, never by wall-clock time.
package engine
