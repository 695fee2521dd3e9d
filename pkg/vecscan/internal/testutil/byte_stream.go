package testutil

// ByteStream reads bytes sequentially from a byte slice.
//
// Used by fuzz tests to deterministically derive values from fuzz input.
// When the stream is exhausted, all reads return zero values. This ensures
// determinism: the same input always produces the same sequence of values,
// which is required for Go's fuzzer to minimize failing inputs.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over the given bytes.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextIntn returns a value in [0, n) derived from the next byte.
// Returns 0 if n <= 0.
func (s *ByteStream) NextIntn(n int) int {
	if n <= 0 {
		return 0
	}

	return int(s.NextByte()) % n
}

// NextUint16 reads 2 bytes as a little-endian uint16.
func (s *ByteStream) NextUint16() uint16 {
	lo := uint16(s.NextByte())
	hi := uint16(s.NextByte())

	return lo | hi<<8
}
