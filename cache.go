package slotfactory

import "sync"

// Cache holds synthesized layouts for reuse. It carries two independent
// stores that never cross-contaminate:
//
//   - content-keyed: identity is the structural hash of (name, sorted field
//     set), used by [Cache.Build]
//   - name-keyed: identity is the record name alone, used by
//     [Cache.BuildNamed]
//
// A layout created under one strategy is never visible through the other's
// key space.
//
// All methods are safe for concurrent use. Lookups take a read lock only.
// Two goroutines racing on the same absent key may both synthesize; the
// first store wins and both callers converge on the stored layout.
// Synthesizing twice wastes work but is harmless: layouts for the same key
// are interchangeable.
type Cache struct {
	mu     sync.RWMutex
	byKey  map[uint64]*Layout
	byName map[string]*Layout
}

// NewCache returns an empty, isolated layout cache. Most callers use the
// package-level factories, which share a process-wide cache; an isolated
// cache is for embedding applications that want their own layout universe.
func NewCache() *Cache {
	return &Cache{
		byKey:  make(map[uint64]*Layout),
		byName: make(map[string]*Layout),
	}
}

// defaultCache backs the package-level factory functions. Process-wide,
// reset only by process restart.
var defaultCache = NewCache()

// getOrCreateByKey returns the layout stored under the content key,
// synthesizing it via factory on a miss.
func (c *Cache) getOrCreateByKey(key uint64, factory func() (*Layout, error)) (*Layout, error) {
	c.mu.RLock()
	l, ok := c.byKey[key]
	c.mu.RUnlock()

	if ok {
		return l, nil
	}

	// Synthesize outside the lock; unrelated keys proceed in parallel.
	l, err := factory()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byKey[key]; ok {
		return existing, nil
	}

	c.byKey[key] = l

	return l, nil
}

// getOrCreateByName returns the layout stored under the record name,
// synthesizing it via factory on a miss.
func (c *Cache) getOrCreateByName(name string, factory func() (*Layout, error)) (*Layout, error) {
	c.mu.RLock()
	l, ok := c.byName[name]
	c.mu.RUnlock()

	if ok {
		return l, nil
	}

	l, err := factory()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byName[name]; ok {
		return existing, nil
	}

	c.byName[name] = l

	return l, nil
}

// evictName drops a stale name-keyed layout so the self-healing path can
// resynthesize. Evicting an absent name is a no-op.
func (c *Cache) evictName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byName, name)
}

// insertName stores a layout under a name unconditionally, replacing any
// previous entry. Used by the self-healing retry in [Cache.BuildNamed].
func (c *Cache) insertName(name string, l *Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byName[name] = l
}

// Stats describes cache occupancy, for diagnostics and tooling.
type Stats struct {
	// HashKeyed is the number of layouts in the content-keyed store.
	HashKeyed int

	// NameKeyed is the number of layouts in the name-keyed store.
	NameKeyed int
}

// Stats returns a snapshot of the cache's occupancy.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		HashKeyed: len(c.byKey),
		NameKeyed: len(c.byName),
	}
}

// Reset discards every cached layout. Instances built from evicted layouts
// stay valid; they hold their own layout reference.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byKey = make(map[uint64]*Layout)
	c.byName = make(map[string]*Layout)
}
