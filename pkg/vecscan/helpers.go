package vecscan

// Retain keeps only the elements for which keep returns true.
//
// keep receives a pointer to the element in place and may modify it.
func Retain[T any](seq *[]T, keep func(*T) bool) {
	scan := New(seq)
	defer scan.Close()

	for slot := range scan.All() {
		if !keep(slot.Ptr()) {
			slot.Remove()
		}
	}
}

// Extract removes the elements for which take returns true and returns them
// in their original order. The remaining elements keep their order.
func Extract[T any](seq *[]T, take func(*T) bool) []T {
	scan := New(seq)
	defer scan.Close()

	var taken []T

	for slot := range scan.All() {
		if take(slot.Ptr()) {
			taken = append(taken, slot.Remove())
		}
	}

	return taken
}

// Expand replaces every element with the elements fn returns for it (zero,
// one or many), in order.
func Expand[T any](seq *[]T, fn func(T) []T) {
	scan := NewGrow(seq)
	defer scan.Close()

	for slot := range scan.All() {
		scan.Insert(fn(slot.Remove())...)
	}
}
