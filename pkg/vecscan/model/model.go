// Package model provides a deliberately simple, copy-based model of the
// observable behavior of vecscan scans.
//
// The model is intentionally easy to audit: it rebuilds the output slice by
// appending and makes no attempt at in-place compaction. Tests drive the
// model and a real scan with the same operations and compare the results.
package model

import "slices"

// ScanModel mirrors a vecscan.GrowScan (and, without Insert, a vecscan.Scan).
//
// The logical sequence at any time is Done ++ [Current] ++ Staged ++ Rest.
type ScanModel[T any] struct {
	// Done holds finalized elements, including inserted ones, in order.
	Done []T

	// Current is the element of the live slot. Only meaningful if Live.
	Current T

	// CurrentIndex is the position of Current in the original input.
	CurrentIndex int

	// Live reports whether a slot is live.
	Live bool

	// Staged holds elements inserted while a slot is live.
	Staged []T

	// Rest holds elements not yet visited.
	Rest []T

	// Visited counts elements handed out by Next.
	Visited int

	// IsClosed is set by Close.
	IsClosed bool
}

// New returns a model scanning a copy of input.
func New[T any](input []T) *ScanModel[T] {
	return &ScanModel[T]{Rest: slices.Clone(input)}
}

// Next keeps the live element (if any) and advances.
// Returns the new current element and whether there was one.
func (m *ScanModel[T]) Next() (T, bool) {
	var zero T

	if m.IsClosed {
		return zero, false
	}

	if m.Live {
		m.Keep()
	}

	if len(m.Rest) == 0 {
		return zero, false
	}

	m.Current = m.Rest[0]
	m.Rest = m.Rest[1:]
	m.CurrentIndex = m.Visited
	m.Visited++
	m.Live = true

	return m.Current, true
}

// Set replaces the live element.
func (m *ScanModel[T]) Set(v T) {
	m.mustBeLive()
	m.Current = v
}

// Keep finalizes the live element as kept.
func (m *ScanModel[T]) Keep() {
	m.mustBeLive()
	m.Done = append(m.Done, m.Current)
	m.finish()
}

// Remove finalizes the live element as removed and returns it.
func (m *ScanModel[T]) Remove() T {
	m.mustBeLive()
	v := m.Current
	m.finish()

	return v
}

// Insert inserts items before the next unfinalized element.
func (m *ScanModel[T]) Insert(items ...T) {
	if m.IsClosed {
		panic("model: insert on closed scan")
	}

	if m.Live {
		m.Staged = append(m.Staged, items...)
		return
	}

	m.Done = append(m.Done, items...)
}

// Remaining returns the number of elements not yet visited.
func (m *ScanModel[T]) Remaining() int {
	return len(m.Rest)
}

// Close keeps the live element and returns the final sequence.
// Calling Close again returns the same result.
func (m *ScanModel[T]) Close() []T {
	if !m.IsClosed {
		if m.Live {
			m.Keep()
		}

		m.Done = append(m.Done, m.Rest...)
		m.Rest = nil
		m.IsClosed = true
	}

	return m.Done
}

// Snapshot returns the logical sequence as it would look if the scan were
// closed now, without changing the model.
func (m *ScanModel[T]) Snapshot() []T {
	out := slices.Clone(m.Done)
	if m.Live {
		out = append(out, m.Current)
	}

	out = append(out, m.Staged...)

	return append(out, m.Rest...)
}

func (m *ScanModel[T]) finish() {
	var zero T

	m.Done = append(m.Done, m.Staged...)
	m.Staged = nil
	m.Current = zero
	m.Live = false
}

func (m *ScanModel[T]) mustBeLive() {
	if !m.Live {
		panic("model: no live slot")
	}
}
