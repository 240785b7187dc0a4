package slotfactory

import "slices"

// Identity keys for the content-keyed layout cache.
//
// A key is the djb2 hash of the record name XOR-folded with the djb2 hash of
// every field name, taken in sorted order. Sorting makes the key independent
// of the order fields were supplied in; XOR-folding keeps the combination
// cheap and allocation-free beyond the sort scratch buffer.
//
// Keys are deterministic within a single process run only. They are never
// persisted, never compared across processes, and are not collision-resistant
// against adversarial field names. The content-keyed cache is an ephemeral,
// non-security-sensitive identity mechanism.

// djb2 is the classic Bernstein string hash (h = h*33 + c, seed 5381).
func djb2(s string) uint64 {
	h := uint64(5381)
	for i := 0; i < len(s); i++ {
		h = (h << 5) + h + uint64(s[i])
	}

	return h
}

// buildKey computes the content identity of (name, field set).
//
// fields is not mutated; the sort happens on a scratch copy. Runs in
// O(k log k) for k fields.
func buildKey(name string, fields []string) uint64 {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	slices.Sort(sorted)

	h := djb2(name)
	for _, f := range sorted {
		h ^= djb2(f)
	}

	return h
}
