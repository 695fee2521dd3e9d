// vscan-repl walks a text file line by line with a growable scan and lets
// you keep, edit, remove or insert lines interactively.
//
// Usage:
//
//	vscan-repl [--lock-timeout d] <file>
//
// Commands (in REPL):
//
//	next / n            Advance to the next line (starts a new pass if none is open)
//	show                Show the current line
//	set <text>          Replace the current line
//	keep                Keep the current line
//	rm                  Remove the current line
//	ins <text>          Insert a line after the current one
//	stats               Show pass statistics
//	close               Finish the current pass
//	list                Print all lines (no pass open)
//	save                Finish the pass and write the file
//	help                Show this help
//	exit / quit / q     Exit
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/vecscan/internal/seqfile"
	"github.com/calvinalkan/vecscan/pkg/vecscan"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("vscan-repl", flag.ContinueOnError)
	lockTimeout := fs.Duration("lock-timeout", seqfile.LockTimeout, "how long to wait for the file lock on load and save")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vscan-repl [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Walk a text file line by line and edit it in one pass.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("missing file path")
	}

	path := fs.Arg(0)

	lines, snapshot, err := loadFile(path, *lockTimeout)
	if err != nil {
		return err
	}

	repl := &REPL{
		path:        path,
		lines:       lines,
		snapshot:    snapshot,
		lockTimeout: *lockTimeout,
	}

	return repl.Run()
}

// REPL is the interactive command loop.
type REPL struct {
	path        string
	lines       seqfile.Lines
	snapshot    []byte // file content as last loaded or saved
	lockTimeout time.Duration
	liner       *liner.State

	scan    *vecscan.GrowScan[string]
	slot    vecscan.Slot[string]
	hasSlot bool
	dirty   bool
	pass    int
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".vscan_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("vscan-repl - %s (%d lines)\n", r.path, len(r.lines.Lines))
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("vscan> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				r.quit()

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		cmd, rest, _ := strings.Cut(line, " ")
		cmd = strings.ToLower(cmd)

		switch cmd {
		case "exit", "quit", "q":
			r.quit()
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "next", "n":
			r.cmdNext()

		case "show":
			r.cmdShow()

		case "set":
			r.cmdSet(rest)

		case "keep":
			r.cmdKeep()

		case "rm", "remove":
			r.cmdRemove()

		case "ins", "insert":
			r.cmdInsert(rest)

		case "stats":
			r.cmdStats()

		case "close":
			r.closePass()

		case "list", "ls":
			r.cmdList()

		case "save":
			r.cmdSave()

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{
		"next", "show", "set", "keep", "rm", "remove",
		"ins", "insert", "stats", "close", "list", "ls",
		"save", "help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  next / n            Advance to the next line")
	fmt.Println("  show                Show the current line")
	fmt.Println("  set <text>          Replace the current line")
	fmt.Println("  keep                Keep the current line")
	fmt.Println("  rm                  Remove the current line")
	fmt.Println("  ins <text>          Insert a line after the current one")
	fmt.Println("  stats               Show pass statistics")
	fmt.Println("  close               Finish the current pass")
	fmt.Println("  list                Print all lines (no pass open)")
	fmt.Println("  save                Finish the pass and write the file")
	fmt.Println("  help                Show this help")
	fmt.Println("  exit / quit / q     Exit")
	fmt.Println()
	fmt.Println("A pass starts with the first 'next'. Lines not visited before")
	fmt.Println("'close' or 'save' are kept unchanged.")
}

func (r *REPL) cmdNext() {
	if r.scan == nil {
		r.scan = vecscan.NewGrow(&r.lines.Lines)
		r.pass++

		fmt.Printf("pass %d started\n", r.pass)
	}

	slot, ok := r.scan.Next()
	if !ok {
		r.hasSlot = false

		fmt.Println("(end of file; 'ins' appends, 'close' finishes the pass)")

		return
	}

	r.slot = slot
	r.hasSlot = true

	r.printSlot()
}

func (r *REPL) cmdShow() {
	if !r.requireSlot() {
		return
	}

	r.printSlot()
}

func (r *REPL) cmdSet(text string) {
	if !r.requireSlot() {
		return
	}

	old := r.slot.Value()
	r.slot.Set(text)
	r.dirty = true

	fmt.Printf("%q -> %q\n", old, text)
}

func (r *REPL) cmdKeep() {
	if !r.requireSlot() {
		return
	}

	r.slot.Keep()
	r.hasSlot = false
}

func (r *REPL) cmdRemove() {
	if !r.requireSlot() {
		return
	}

	removed := r.slot.Remove()
	r.hasSlot = false
	r.dirty = true

	fmt.Printf("removed %q\n", removed)
}

func (r *REPL) cmdInsert(text string) {
	if r.scan == nil {
		fmt.Println("No pass open (use 'next' to start one)")

		return
	}

	r.scan.Insert(text)
	r.dirty = true

	fmt.Printf("inserted %q (pending: %d)\n", text, r.scan.Pending())
}

func (r *REPL) cmdStats() {
	if r.scan == nil {
		fmt.Printf("No pass open; %d lines\n", len(r.lines.Lines))

		return
	}

	stats := r.scan.Stats()

	fmt.Printf("pass:            %d\n", r.pass)
	fmt.Printf("remaining:       %d\n", r.scan.Remaining())
	fmt.Printf("pending:         %d\n", r.scan.Pending())
	fmt.Printf("kept:            %d\n", stats.Kept)
	fmt.Printf("removed:         %d\n", stats.Removed)
	fmt.Printf("inserted:        %d\n", stats.Inserted)
	fmt.Printf("moves:           %d\n", stats.Moves)
	fmt.Printf("pending peak:    %d\n", stats.PendingPeak)
}

func (r *REPL) cmdList() {
	if r.scan != nil {
		fmt.Println("A pass is open (use 'close' first)")

		return
	}

	for i, line := range r.lines.Lines {
		fmt.Printf("%5d  %s\n", i+1, line)
	}
}

func (r *REPL) cmdSave() {
	r.closePass()

	snapshot, err := saveFile(r.path, r.lockTimeout, r.snapshot, r.lines)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		if errors.Is(err, errChangedOnDisk) {
			fmt.Println("Nothing written. Restart vscan-repl to edit the current content.")
		}

		return
	}

	r.snapshot = snapshot
	r.dirty = false

	fmt.Printf("saved %s (%d lines)\n", r.path, len(r.lines.Lines))
}

// closePass finishes the open pass, if any, and reports what it did.
func (r *REPL) closePass() {
	if r.scan == nil {
		return
	}

	r.scan.Close()

	stats := r.scan.Stats()

	r.scan = nil
	r.hasSlot = false

	fmt.Printf("pass %d closed: %d lines (kept %d, removed %d, inserted %d, shifted %d)\n",
		r.pass, len(r.lines.Lines), stats.Kept, stats.Removed, stats.Inserted, stats.Shifted)
}

func (r *REPL) quit() {
	r.closePass()

	if r.dirty {
		fmt.Println("Unsaved changes discarded.")
	}

	fmt.Println("Bye!")
}

func (r *REPL) requireSlot() bool {
	if !r.hasSlot {
		fmt.Println("No current line (use 'next')")

		return false
	}

	return true
}

func (r *REPL) printSlot() {
	fmt.Printf("%5d  %s\n", r.slot.Index()+1, r.slot.Value())
}
