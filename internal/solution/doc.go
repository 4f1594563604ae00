// Package solution holds the solution units and the machinery to find and
// scaffold them.
//
// Units are compiled into the binary and registered by (year, day) from the
// init function of their package under solutions/yYYYY/dayDD. Registration
// only defines the entry points; no puzzle code runs until the engine calls
// RunPart.
package solution
