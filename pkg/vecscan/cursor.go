package vecscan

import (
	"slices"

	"github.com/eapache/queue"
)

const (
	msgNilSequence   = "vecscan: sequence is nil"
	msgSlotFinalized = "vecscan: slot used after finalization"
	msgInsertClosed  = "vecscan: insert on closed scan"
)

// cursor is the state shared by [Scan] and [GrowScan].
//
// Layout of data while the scan is open:
//
//	[0, write)    compacted, final
//	[write, read) gap (contains the live slot at cur, if any)
//	[read, end)   not yet visited, original order
//
// Invariants: write <= read <= end, and a non-empty pending queue implies
// write == read whenever no slot is live. The logical sequence is
// data[:write] ++ pending ++ (live slot) ++ staged ++ data[read:end].
type cursor[T any] struct {
	seq  *[]T
	data []T

	write int
	read  int
	end   int

	live   bool
	cur    int
	gen    uint64
	closed bool

	// pending holds inserted or kept elements that did not fit into the gap.
	// Created on first use; always nil for a plain Scan.
	pending *queue.Queue

	// staged holds elements inserted while a slot is live. They are placed
	// right after that slot when it is finalized.
	staged []T

	stats Stats
}

func newCursor[T any](seq *[]T) cursor[T] {
	if seq == nil {
		panic(msgNilSequence)
	}

	data := *seq

	return cursor[T]{
		seq:  seq,
		data: data,
		end:  len(data),
	}
}

func (c *cursor[T]) next() (Slot[T], bool) {
	if c.closed {
		return Slot[T]{}, false
	}

	if c.live {
		c.finishKeep()
	}

	if c.read == c.end {
		return Slot[T]{}, false
	}

	c.cur = c.read
	c.read++
	c.live = true
	c.gen++

	return Slot[T]{c: c, gen: c.gen}, true
}

func (c *cursor[T]) hasPending() bool {
	return c.pending != nil && c.pending.Length() > 0
}

// finishKeep writes the live slot back to the write position.
func (c *cursor[T]) finishKeep() {
	c.live = false
	c.stats.Kept++

	if c.hasPending() {
		// write == cur here: the slot's own position is the only gap, and
		// it belongs to the front of the queue.
		v := c.data[c.cur]
		clear(c.data[c.cur : c.cur+1])
		c.enqueue(v)
		c.drain()
	} else {
		if c.write != c.cur {
			c.data[c.write] = c.data[c.cur]
			clear(c.data[c.cur : c.cur+1])
			c.stats.Moves++
		}

		c.write++
	}

	c.flushStaged()
}

// finishRemove discards the live slot and returns its element.
func (c *cursor[T]) finishRemove() T {
	v := c.data[c.cur]
	clear(c.data[c.cur : c.cur+1])

	c.live = false
	c.stats.Removed++

	c.drain()
	c.flushStaged()

	return v
}

func (c *cursor[T]) finishReplace(v T) T {
	old := c.data[c.cur]
	c.data[c.cur] = v
	c.finishKeep()

	return old
}

func (c *cursor[T]) insert(items []T) {
	if c.closed {
		panic(msgInsertClosed)
	}

	c.stats.Inserted += len(items)

	if c.live {
		c.staged = append(c.staged, items...)
		return
	}

	for _, v := range items {
		c.place(v)
	}
}

// place puts v at the write position if the gap allows it and nothing is
// queued ahead of it. Otherwise v joins the pending queue.
func (c *cursor[T]) place(v T) {
	if !c.hasPending() && c.write < c.read {
		c.data[c.write] = v
		c.write++
		c.stats.Moves++

		return
	}

	c.enqueue(v)
}

func (c *cursor[T]) enqueue(v T) {
	if c.pending == nil {
		c.pending = queue.New()
	}

	c.pending.Add(v)
	c.stats.Moves++

	if n := c.pending.Length(); n > c.stats.PendingPeak {
		c.stats.PendingPeak = n
	}
}

// drain moves queued elements into the gap, front first.
func (c *cursor[T]) drain() {
	for c.hasPending() && c.write < c.read {
		// A nil interface comes back untyped when T is an interface type;
		// the zero T is the element that was queued.
		v, _ := c.pending.Remove().(T)
		c.data[c.write] = v
		c.write++
		c.stats.Moves++
	}
}

func (c *cursor[T]) flushStaged() {
	if len(c.staged) == 0 {
		return
	}

	for _, v := range c.staged {
		c.place(v)
	}

	clear(c.staged)
	c.staged = c.staged[:0]
}

// reconcile makes room for every pending element at once: grow the slice a
// single time, shift the unvisited tail right by the pending count, then
// drain the queue into the freed space.
func (c *cursor[T]) reconcile() {
	n := c.pending.Length()
	tail := c.end - c.read

	grown := slices.Grow(c.data[:c.end], n)[:c.end+n]
	copy(grown[c.read+n:], grown[c.read:c.end])

	c.data = grown
	c.read += n
	c.end += n

	c.stats.Shifted += tail
	c.stats.Reconciliations++

	c.drain()
}

// close finalizes the live slot, merges pending elements, closes the gap and
// publishes the result through seq.
func (c *cursor[T]) close() {
	if c.closed {
		return
	}

	if c.live {
		c.finishKeep()
	}

	if c.hasPending() {
		c.reconcile()
	}

	tail := c.end - c.read
	if c.write != c.read {
		copy(c.data[c.write:], c.data[c.read:c.end])
		clear(c.data[c.write+tail : c.end])
		c.stats.Shifted += tail
	}

	n := c.write + tail
	*c.seq = c.data[:n]

	c.write, c.read, c.end = n, n, n
	c.closed = true
	c.gen++
	c.data = nil
}

// slot returns the cursor behind s, panicking if s is no longer live.
func (c *cursor[T]) slot(gen uint64) *cursor[T] {
	if !c.live || c.gen != gen {
		panic(msgSlotFinalized)
	}

	return c
}
