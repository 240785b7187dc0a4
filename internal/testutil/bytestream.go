// Package testutil provides deterministic input generation for slotfactory's
// randomized and fuzz tests.
package testutil

// ByteStream reads bytes sequentially from a byte slice.
//
// Used by fuzz tests to deterministically derive factory operations from
// fuzz input. When the stream is exhausted, all reads return zero values,
// so the same input always produces the same operation sequence.
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

// NextInt returns a non-negative int below maxVal derived from the next byte.
func (s *ByteStream) NextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}

	return int(s.NextByte()) % maxVal
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// fieldPool is the universe of field names fuzz operations draw from. Small
// on purpose: collisions between operations are what exercise the caches.
var fieldPool = []string{"a", "b", "c", "x", "y", "z", "id", "name"}

// namePool is the universe of record names fuzz operations draw from. The
// empty name exercises the default-name path.
var namePool = []string{"", "Point", "Row", "Config", "Point"}

// NextRecordName picks a record name from the pool.
func (s *ByteStream) NextRecordName() string {
	return namePool[s.NextInt(len(namePool))]
}

// NextFieldSet picks between 1 and maxFields distinct field names.
func (s *ByteStream) NextFieldSet(maxFields int) []string {
	if maxFields <= 0 || maxFields > len(fieldPool) {
		maxFields = len(fieldPool)
	}

	n := 1 + s.NextInt(maxFields)
	fields := make([]string, 0, n)
	used := make(map[string]bool, n)

	for len(fields) < n {
		f := fieldPool[s.NextInt(len(fieldPool))]
		if used[f] {
			// Deterministic fallback: walk the pool for an unused name.
			for _, alt := range fieldPool {
				if !used[alt] {
					f = alt
					break
				}
			}
		}

		used[f] = true
		fields = append(fields, f)
	}

	return fields
}
