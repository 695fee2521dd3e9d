// Package seqfile reads a text file as a sequence of lines, hands it to a
// caller-supplied edit function under an exclusive lock and replaces the file
// atomically when the edit reports a change.
package seqfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// Lines is a file split into lines.
type Lines struct {
	Lines []string

	// TrailingNewline records whether the last line was newline-terminated,
	// so writing the lines back reproduces the original framing.
	TrailingNewline bool
}

// Parse splits content into lines. "\r\n" line endings are kept as part of
// the line text.
func Parse(content []byte) Lines {
	if len(content) == 0 {
		return Lines{}
	}

	trailing := content[len(content)-1] == '\n'
	if trailing {
		content = content[:len(content)-1]
	}

	return Lines{
		Lines:           strings.Split(string(content), "\n"),
		TrailingNewline: trailing,
	}
}

// Bytes joins the lines back into file content.
func (l Lines) Bytes() []byte {
	if len(l.Lines) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for i, line := range l.Lines {
		if i > 0 {
			buf.WriteByte('\n')
		}

		buf.WriteString(line)
	}

	if l.TrailingNewline {
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// EditFunc edits lines in place. It reports whether the file must be
// rewritten; returning an error aborts without writing.
type EditFunc func(lines *Lines) (bool, error)

// Options configures Edit.
type Options struct {
	// LockTimeout bounds how long to wait for the file lock.
	// Zero means [LockTimeout].
	LockTimeout time.Duration
}

// Edit locks path, reads it, calls edit and, if edit reports a change,
// atomically replaces the file with the edited lines. The lock is always released when Edit returns.
func Edit(path string, opts Options, edit EditFunc) error {
	timeout := opts.LockTimeout
	if timeout == 0 {
		timeout = LockTimeout
	}

	lock, lockErr := acquireLock(path, timeout)
	if lockErr != nil {
		return fmt.Errorf("acquiring lock: %w", lockErr)
	}

	defer lock.release()

	info, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("stat: %w", statErr)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	content, readErr := os.ReadFile(path) //nolint:gosec // path is from caller
	if readErr != nil {
		return fmt.Errorf("reading: %w", readErr)
	}

	lines := Parse(content)

	changed, editErr := edit(&lines)
	if editErr != nil {
		return editErr
	}

	if !changed {
		return nil
	}

	writeErr := atomic.WriteFile(path, bytes.NewReader(lines.Bytes()))
	if writeErr != nil {
		return fmt.Errorf("writing: %w", writeErr)
	}

	return nil
}
