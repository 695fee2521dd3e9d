package main

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/calvinalkan/vecscan/internal/seqfile"
)

var errChangedOnDisk = errors.New("file changed on disk since it was loaded")

// loadFile reads path under its lock. The returned snapshot is what
// saveFile compares against before writing.
func loadFile(path string, timeout time.Duration) (seqfile.Lines, []byte, error) {
	var loaded seqfile.Lines

	err := seqfile.Edit(path, seqfile.Options{LockTimeout: timeout}, func(lines *seqfile.Lines) (bool, error) {
		loaded = *lines

		return false, nil
	})
	if err != nil {
		return seqfile.Lines{}, nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return loaded, loaded.Bytes(), nil
}

// saveFile writes lines to path unless the file no longer matches snapshot.
// Returns the new snapshot.
func saveFile(path string, timeout time.Duration, snapshot []byte, lines seqfile.Lines) ([]byte, error) {
	out := lines.Bytes()

	err := seqfile.Edit(path, seqfile.Options{LockTimeout: timeout}, func(current *seqfile.Lines) (bool, error) {
		if !bytes.Equal(current.Bytes(), snapshot) {
			return false, errChangedOnDisk
		}

		*current = lines

		return !bytes.Equal(out, snapshot), nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", path, err)
	}

	return out, nil
}
