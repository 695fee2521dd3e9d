package vecscan

// Stats counts the work done by a scan.
//
// Moves and Shifted together bound the total number of element relocations:
// a [Scan] never exceeds the input length, a [GrowScan] never exceeds twice
// the input length plus twice the number of inserted elements. Copies made by
// the runtime when the backing array has to grow are not counted.
type Stats struct {
	// Kept is the number of finalized slots that were written back.
	Kept int

	// Removed is the number of finalized slots that were discarded.
	Removed int

	// Inserted is the number of elements passed to Insert.
	Inserted int

	// Moves counts single element relocations: write-backs over the gap,
	// placements of inserted elements, and transfers into and out of the
	// pending queue.
	Moves int

	// Shifted counts elements moved by block shifts (the closing compaction
	// and the tail shift of a reconciliation).
	Shifted int

	// Reconciliations is the number of times pending elements had to be
	// merged back by growing the slice. At most 1 per scan.
	Reconciliations int

	// PendingPeak is the largest size the pending queue reached.
	PendingPeak int
}
