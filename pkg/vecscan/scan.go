package vecscan

import "iter"

// Scan is a forward scan over a slice with in-place mutation and removal.
//
// Create one with [New]. A Scan must be closed with [Scan.Close].
type Scan[T any] struct {
	c cursor[T]
}

// New begins a scan over *seq.
//
// The scan takes ownership of the slice's contents until [Scan.Close]
// returns; the final slice is stored back into *seq by Close. The backing
// array is reused, nothing is copied up front.
//
// Panics if seq is nil.
func New[T any](seq *[]T) *Scan[T] {
	return &Scan[T]{c: newCursor(seq)}
}

// Next finalizes the previous slot (keeping it unless it was removed) and
// advances to the next element.
//
// Returns false once every element was visited or after Close.
func (s *Scan[T]) Next() (Slot[T], bool) {
	return s.c.next()
}

// All returns an iterator over the remaining elements.
//
// Breaking out of the loop leaves the last yielded slot live; it is kept
// unless removed before Close. All does not close the scan.
func (s *Scan[T]) All() iter.Seq[Slot[T]] {
	return func(yield func(Slot[T]) bool) {
		for {
			slot, ok := s.c.next()
			if !ok || !yield(slot) {
				return
			}
		}
	}
}

// Remaining returns the number of elements not yet handed out by Next.
func (s *Scan[T]) Remaining() int {
	return s.c.end - s.c.read
}

// Stats returns the work counters collected so far.
func (s *Scan[T]) Stats() Stats {
	return s.c.stats
}

// Close finalizes the live slot, closes the gap left by removed elements and
// stores the resulting slice back into the pointer given to [New].
//
// Elements not visited yet are kept unchanged. Close may be called at any
// point; calling it more than once is a no-op.
func (s *Scan[T]) Close() {
	s.c.close()
}
