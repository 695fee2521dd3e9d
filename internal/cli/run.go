package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/vecscan/internal/rules"
)

// globalOptions holds flags accepted before the command name.
type globalOptions struct {
	workDir    string
	configPath string
	verbose    bool
}

// Run is the main entry point. Returns exit code.
func Run(ctx context.Context, _ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	globals := flag.NewFlagSet("vscan", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	var opts globalOptions

	globals.StringVarP(&opts.workDir, "cwd", "C", "", "Run as if started in `dir`")
	globals.StringVarP(&opts.configPath, "config", "c", "", "Use specified config `file`")
	globals.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out, nil)

			return exitOK
		}

		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return exitUsage
	}

	rest := globals.Args()
	if len(rest) == 0 {
		printUsage(out, nil)

		return exitOK
	}

	if opts.workDir == "" {
		opts.workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return exitError
		}
	}

	logger := newLogger(errOut, opts.verbose)
	ctx = logger.WithContext(ctx)

	o := NewIO(out, errOut)

	commands := []*Command{
		ApplyCmd(opts, env),
		PrintConfigCmd(opts, env),
	}

	name := rest[0]
	if name == "help" {
		printUsage(out, commands)

		return exitOK
	}

	for _, cmd := range commands {
		if cmd.Name() != name {
			continue
		}

		if code := cmd.Run(ctx, o, rest[1:]); code != exitOK {
			return code
		}

		return o.Finish()
	}

	fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCmd, name))
	printUsage(errOut, commands)

	return exitUsage
}

// loadConfig resolves the layered rule configuration for a command.
func loadConfig(opts globalOptions, env map[string]string, drops []string, stopAfter int) (rules.Config, rules.ConfigSources, error) {
	cfg, sources, err := rules.LoadConfig(rules.LoadConfigInput{
		WorkDir:    opts.workDir,
		ConfigPath: opts.configPath,
		Drops:      drops,
		StopAfter:  stopAfter,
		Env:        env,
	})
	if err != nil {
		return rules.Config{}, rules.ConfigSources{}, fmt.Errorf("loading config: %w", err)
	}

	return cfg, sources, nil
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, `vscan - apply line rules to files in one pass

Usage: vscan [options] <command> [args]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  -c, --config <file>    Use specified config file
  -v, --verbose          Log debug output to stderr
  -h, --help             Show help

Commands:`)

	if commands == nil {
		commands = []*Command{ApplyCmd(globalOptions{}, nil), PrintConfigCmd(globalOptions{}, nil)}
	}

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
