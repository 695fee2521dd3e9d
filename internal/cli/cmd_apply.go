package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/vecscan/internal/rules"
	"github.com/calvinalkan/vecscan/internal/seqfile"
)

// ApplyCmd returns the apply command.
func ApplyCmd(opts globalOptions, env map[string]string) *Command {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "Print the result instead of writing files")
	drops := fs.StringArray("drop", nil, "Also drop lines matching `regex` (repeatable)")
	stopAfter := fs.Int("stop-after", 0, "Stop after `n` matched lines")
	lockTimeout := fs.Duration("lock-timeout", seqfile.LockTimeout, "How long to wait for a file lock")

	return &Command{
		Flags: fs,
		Usage: "apply [flags] <file>...",
		Short: "Apply rules to files",
		Long: `Apply the configured rules to each file in one forward pass.

Rules come from the global config, the project config (.vscan.json) or -c,
followed by --drop patterns. Files are locked while edited and replaced
atomically, and only when a rule changed something.`,
		Examples: []string{
			"vscan apply notes.txt",
			"vscan apply --dry-run --drop '^#' a.txt b.txt",
			"vscan apply --drop '^DEBUG' --stop-after 1 app.log",
		},
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if *stopAfter < 0 {
				return fmt.Errorf("--stop-after: %w, got %d", ErrNegativeValue, *stopAfter)
			}

			if *lockTimeout < 0 {
				return fmt.Errorf("--lock-timeout: %w, got %s", ErrNegativeValue, *lockTimeout)
			}

			return execApply(ctx, o, opts, env, applyOptions{
				files:       args,
				dryRun:      *dryRun,
				drops:       *drops,
				stopAfter:   *stopAfter,
				lockTimeout: *lockTimeout,
			})
		},
	}
}

type applyOptions struct {
	files       []string
	dryRun      bool
	drops       []string
	stopAfter   int
	lockTimeout time.Duration
}

func execApply(ctx context.Context, o *IO, opts globalOptions, env map[string]string, in applyOptions) error {
	if len(in.files) == 0 {
		return ErrNoFiles
	}

	log := zerolog.Ctx(ctx)

	cfg, sources, err := loadConfig(opts, env, in.drops, in.stopAfter)
	if err != nil {
		return err
	}

	log.Debug().
		Str("global", sources.Global).
		Str("project", sources.Project).
		Int("rules", len(cfg.Rules)).
		Msg("config loaded")

	set, err := rules.Compile(cfg)
	if err != nil {
		return fmt.Errorf("compiling rules: %w", err)
	}

	if set.Len() == 0 {
		o.Warn("no rules configured", "add rules to "+rules.ConfigFileName+" or pass --drop")
	}

	failed := 0

	for _, name := range in.files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("apply: %w", ctxErr)
		}

		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.workDir, path)
		}

		var report rules.Report

		editErr := seqfile.Edit(path, seqfile.Options{LockTimeout: in.lockTimeout}, func(lines *seqfile.Lines) (bool, error) {
			report = set.Apply(&lines.Lines)

			if in.dryRun {
				if len(in.files) > 1 {
					o.Section(name)
				}

				if len(lines.Lines) > 0 {
					o.Println(strings.Join(lines.Lines, "\n"))
				}

				return false, nil
			}

			return report.Changed(), nil
		})
		if editErr != nil {
			log.Error().Err(editErr).Str("file", name).Msg("apply failed")

			failed++

			continue
		}

		log.Debug().
			Str("file", name).
			Int("visited", report.Visited).
			Int("moves", report.Scan.Moves).
			Int("shifted", report.Scan.Shifted).
			Int("reconciliations", report.Scan.Reconciliations).
			Bool("stopped", report.Stopped).
			Msg("scan finished")

		if !in.dryRun {
			o.Println(summary(name, report))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, failed, len(in.files))
	}

	return nil
}

func summary(name string, report rules.Report) string {
	if !report.Changed() {
		return name + ": unchanged"
	}

	var parts []string

	if report.Dropped > 0 {
		parts = append(parts, fmt.Sprintf("dropped %d", report.Dropped))
	}

	if report.Replaced > 0 {
		parts = append(parts, fmt.Sprintf("replaced %d", report.Replaced))
	}

	if report.Inserted > 0 {
		parts = append(parts, fmt.Sprintf("inserted %d", report.Inserted))
	}

	return name + ": " + strings.Join(parts, ", ")
}
