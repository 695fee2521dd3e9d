// Package vecscan provides a forward scan over a slice that allows in-place
// mutation, removal and insertion of elements while iterating.
//
// vecscan generalizes filter-in-place and drain into one step-by-step
// operation. The caller advances a cursor, looks at each element through a
// [Slot] and decides lazily whether to keep, change or remove it. Retained
// elements keep their relative order and every element is moved a small,
// constant number of times, so a full scan is linear in the length of the
// slice (plus the number of inserted elements).
//
// # Basic Usage
//
//	scan := vecscan.New(&items)
//	defer scan.Close()
//
//	for {
//	    slot, ok := scan.Next()
//	    if !ok {
//	        break
//	    }
//
//	    if slot.Value().Expired {
//	        slot.Remove()
//	        continue
//	    }
//
//	    slot.Ptr().Hits++
//	}
//
// Or with range-over-func:
//
//	for slot := range scan.All() {
//	    ...
//	}
//
// # Finalization
//
// A [Slot] is finalized when the next element is requested, when the scan is
// closed, or explicitly via [Slot.Keep], [Slot.Remove] or [Slot.Replace].
// A slot that is not removed is kept. Using a slot after it was finalized
// panics.
//
// [Scan.Close] must be called exactly once the caller is done (calling it
// again is a no-op). It closes the gap left by removed elements with a single
// block move and stores the result back through the slice pointer given to
// [New]. Until then the slice is in an intermediate state and must not be
// read or written by anyone else. Elements that were never reached by Next
// are left untouched apart from that final shift.
//
// # Insertion
//
// [GrowScan] adds [GrowScan.Insert]. Inserted elements go into the gap left
// by earlier removals when it is large enough; what does not fit is held in
// a pending queue and merged back with one capacity growth and one tail
// shift when the scan is closed.
//
// Elements inserted while a slot is live land after that slot, i.e. right
// before the next element that has not been looked at yet. To insert before
// the current element, remove it and insert it again behind the new ones.
//
// # Concurrency
//
// Scans are not safe for concurrent use. The scanned slice is owned by the
// scan until [Scan.Close] (or [GrowScan.Close]) returns.
package vecscan
