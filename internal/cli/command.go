package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Exit codes returned by Run.
const (
	exitOK    = 0
	exitError = 1 // command failed or warnings were reported
	exitUsage = 2 // bad flags or arguments
)

// Command is one vscan subcommand.
type Command struct {
	// Flags are parsed from the arguments after the command name.
	Flags *flag.FlagSet

	// Usage starts with the command name, e.g. "apply [flags] <file>...".
	Usage string

	// Short is shown in the command list, Long in "vscan <cmd> --help".
	Short string
	Long  string

	// Examples are printed verbatim under "Examples:" in command help.
	Examples []string

	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the command's entry in the global usage listing.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-26s %s", c.Usage, c.Short)
}

// PrintHelp prints "vscan <cmd> --help" output.
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: vscan", c.Usage)
	o.Println()

	if c.Long != "" {
		o.Println(c.Long)
	} else {
		o.Println(c.Short)
	}

	if c.Flags.HasFlags() {
		var buf strings.Builder

		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()

		o.Println()
		o.Println("Flags:")
		o.Printf("%s", buf.String())
	}

	if len(c.Examples) > 0 {
		o.Println()
		o.Println("Examples:")

		for _, example := range c.Examples {
			o.Println("  " + example)
		}
	}
}

// Run parses args and executes the command, returning the exit code.
// Flag errors print the command help to stderr and exit with exitUsage.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		c.PrintHelp(o)

		return exitOK
	}

	if err != nil {
		o.ErrPrintln("error:", err)
		o.ErrPrintln("run 'vscan " + c.Name() + " --help' for usage")

		return exitUsage
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.ErrPrintln("error:", err)

		return exitError
	}

	return exitOK
}
