package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/vecscan/internal/rules"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(opts globalOptions, env map[string]string) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Print the merged rule configuration and the files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			cfg, sources, err := loadConfig(opts, env, nil, 0)
			if err != nil {
				return err
			}

			formatted, err := rules.FormatConfig(cfg)
			if err != nil {
				return fmt.Errorf("print-config: %w", err)
			}

			o.Println(formatted)

			if sources.Global != "" {
				o.Println("# global:", sources.Global)
			}

			if sources.Project != "" {
				o.Println("# project:", sources.Project)
			}

			return nil
		},
	}
}
