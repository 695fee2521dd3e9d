package vecscan

// Slot is a handle to the element currently under inspection.
//
// A Slot is valid from the [Scan.Next] call that returned it until it is
// finalized: by [Slot.Keep], [Slot.Remove], [Slot.Replace], the next call to
// Next, or Close. Every method panics once the slot is no longer valid.
//
// Slots are small values and may be copied; all copies share one lifetime.
type Slot[T any] struct {
	c   *cursor[T]
	gen uint64
}

func (s Slot[T]) cursor() *cursor[T] {
	if s.c == nil {
		panic(msgSlotFinalized)
	}

	return s.c.slot(s.gen)
}

// Value returns a copy of the element.
func (s Slot[T]) Value() T {
	c := s.cursor()

	return c.data[c.cur]
}

// Ptr returns a pointer to the element in place.
//
// The pointer must not be used after the slot is finalized: the element may
// have been moved by then.
func (s Slot[T]) Ptr() *T {
	c := s.cursor()

	return &c.data[c.cur]
}

// Set overwrites the element in place. The slot stays live.
func (s Slot[T]) Set(v T) {
	c := s.cursor()
	c.data[c.cur] = v
}

// Index returns the position the element had in the scanned slice when the
// scan started. Inserted elements are never handed out as slots, so this is
// always an index into the original input.
func (s Slot[T]) Index() int {
	return s.cursor().cur
}

// Keep finalizes the slot, retaining the element.
//
// This is what happens implicitly on the next call to Next or on Close, so it
// only needs to be called to place later insertions after this element
// without advancing.
func (s Slot[T]) Keep() {
	s.cursor().finishKeep()
}

// Remove finalizes the slot, dropping the element from the slice, and
// returns it.
func (s Slot[T]) Remove() T {
	return s.cursor().finishRemove()
}

// Replace finalizes the slot, retaining v in place of the element, and
// returns the previous element.
func (s Slot[T]) Replace(v T) T {
	return s.cursor().finishReplace(v)
}
