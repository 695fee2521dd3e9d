// Package testutil provides test-only infrastructure for vecscan model and
// fuzz testing.
//
// It includes a deterministic byte stream, an operation generator that turns
// fuzz input into scan operations, and a harness that runs the same
// operations against a real scan and the reference model.
package testutil
