package slotfactory

// Test-only hooks into package internals.

// BuildKeyForTesting exposes the canonical key builder.
func BuildKeyForTesting(name string, fields []string) uint64 {
	return buildKey(name, fields)
}

// ResetDefaultCacheForTesting empties the process-wide cache so tests that
// assert on cache occupancy start from a known state.
func ResetDefaultCacheForTesting() {
	defaultCache.Reset()
}

// DefaultCacheStatsForTesting returns the process-wide cache occupancy.
func DefaultCacheStatsForTesting() Stats {
	return defaultCache.Stats()
}
