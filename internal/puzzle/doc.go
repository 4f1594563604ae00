// Package puzzle resolves user selectors to puzzle identifiers.
//
// A puzzle is addressed by (year, day, part). The input text and the solution
// unit are shared by both parts of a day and are keyed by (year, day) only;
// answers are keyed by the full identifier.
//
// # Selectors
//
// Exactly one selector is accepted per invocation:
//
//   - a day number (1..25) in the configured event year
//   - a solution path following the yYYYY/dayDD directory convention
//   - the current date, valid only while the event is running
//
// The date selector is the only place wall-clock time enters the system. The
// Resolver reads it through a Clock so tests can pin the date.
package puzzle
