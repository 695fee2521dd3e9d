package vecscan

import "iter"

// GrowScan is a [Scan] that additionally supports inserting elements.
//
// Inserted elements fill the gap left by removed elements when possible.
// Once the gap is exhausted they are queued, and every later element that is
// kept passes through the same queue so order is preserved. The queue is
// merged back on Close with one growth of the slice and one shift of the
// unvisited tail, keeping the whole scan linear in the input length plus the
// number of inserted elements.
//
// The queue is not a second copy of the input: it holds the elements
// inserted but not yet absorbed by removals, plus at most the one element
// being kept (see [Stats.PendingPeak]). Kept elements rotate through it
// and leave their old position behind as gap, so memory beyond the slice
// stays bounded by the insert surplus rather than the input length.
type GrowScan[T any] struct {
	c cursor[T]
}

// NewGrow begins a growable scan over *seq.
//
// Panics if seq is nil.
func NewGrow[T any](seq *[]T) *GrowScan[T] {
	return &GrowScan[T]{c: newCursor(seq)}
}

// Next finalizes the previous slot (keeping it unless it was removed) and
// advances to the next element. Returns false at the end or after Close.
func (s *GrowScan[T]) Next() (Slot[T], bool) {
	return s.c.next()
}

// All returns an iterator over the remaining elements. See [Scan.All].
func (s *GrowScan[T]) All() iter.Seq[Slot[T]] {
	return func(yield func(Slot[T]) bool) {
		for {
			slot, ok := s.c.next()
			if !ok || !yield(slot) {
				return
			}
		}
	}
}

// Insert inserts items, in order, right before the next element that has not
// been finalized.
//
// With a live slot, items land after that slot (whether it ends up kept or
// removed). Before the first Next they land at the front; after Next
// returned false they land at the end.
//
// Panics if the scan is closed.
func (s *GrowScan[T]) Insert(items ...T) {
	s.c.insert(items)
}

// Pending returns the number of elements waiting in the pending queue.
func (s *GrowScan[T]) Pending() int {
	if s.c.pending == nil {
		return 0
	}

	return s.c.pending.Length()
}

// Remaining returns the number of elements not yet handed out by Next.
func (s *GrowScan[T]) Remaining() int {
	return s.c.end - s.c.read
}

// Stats returns the work counters collected so far.
func (s *GrowScan[T]) Stats() Stats {
	return s.c.stats
}

// Close finalizes the live slot, merges pending insertions, closes any
// remaining gap and stores the resulting slice back into the pointer given to
// [NewGrow]. Calling it more than once is a no-op.
func (s *GrowScan[T]) Close() {
	s.c.close()
}
