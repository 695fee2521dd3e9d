package cli

import (
	"fmt"
	"io"
)

// IO is the output side of a vscan invocation.
//
// Results go to stdout. Warnings are collected and written to stderr twice:
// before the first result line and again from Finish, so they survive
// `vscan apply ... | head`. Any warning turns the exit code into 1.
type IO struct {
	out    io.Writer
	errOut io.Writer

	warnings []string
	flushed  bool

	// sections counts Section calls, so headers after the first are
	// separated by a blank line.
	sections int
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records that something needs attention and what to do about it.
func (o *IO) Warn(issue string, action string) {
	o.warnings = append(o.warnings, issue+": "+action)
}

// Println writes a result line to stdout.
func (o *IO) Println(a ...any) {
	o.flushWarnings()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted results to stdout.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarnings()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// Section starts a per-file block of output with a "==> name <==" header,
// the way head and tail label multiple files.
func (o *IO) Section(name string) {
	if o.sections > 0 {
		o.Println()
	}

	o.sections++
	o.Printf("==> %s <==\n", name)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish writes the trailing copy of the warnings and returns the exit code.
func (o *IO) Finish() int {
	o.flushWarnings()

	o.printWarnings()

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarnings() {
	if o.flushed || len(o.warnings) == 0 {
		return
	}

	o.flushed = true
	o.printWarnings()
}

func (o *IO) printWarnings() {
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}
}
