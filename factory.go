package slotfactory

import "errors"

// Build synthesizes or reuses a layout identified by the structural hash of
// (name, sorted field set) and returns an instance populated with the given
// values. An empty name means [DefaultName].
//
// Two calls with the same name and the same field set, in any order, share
// one cached layout; distinct field sets never share. Values are written as
// plain overrides with no defaults or initializer phases and no field-count
// validation.
func Build(name string, fields ...Field) (*Instance, error) {
	return defaultCache.Build(name, fields...)
}

// BuildNamed synthesizes or reuses a layout identified by the record name
// alone, skipping hashing entirely. It assumes every record sharing a name
// shares a shape; when a call's field set disagrees with the cached layout,
// the stale layout is evicted and a fresh one synthesized for the new shape
// (a single bounded retry, never recursion).
func BuildNamed(name string, fields ...Field) (*Instance, error) {
	return defaultCache.BuildNamed(name, fields...)
}

// Instantiate populates an instance of an explicitly supplied layout,
// bypassing both caches. All four construction phases run, so defaults and
// initializers declared on the layout apply beneath the caller's values.
func Instantiate(layout *Layout, fields ...Field) (*Instance, error) {
	if layout == nil {
		return nil, ErrNilLayout
	}

	return layout.construct(fields, false)
}

// Build is the content-keyed factory against this cache. See [Build].
func (c *Cache) Build(name string, fields ...Field) (*Instance, error) {
	if name == "" {
		name = DefaultName
	}

	names, err := fieldNames(fields)
	if err != nil {
		return nil, err
	}

	key := buildKey(name, names)

	layout, err := c.getOrCreateByKey(key, func() (*Layout, error) {
		return newLayout(LayoutSpec{Name: name, Fields: names})
	})
	if err != nil {
		return nil, err
	}

	return layout.construct(fields, false)
}

// BuildNamed is the name-keyed factory against this cache. See [BuildNamed].
func (c *Cache) BuildNamed(name string, fields ...Field) (*Instance, error) {
	if name == "" {
		name = DefaultName
	}

	names, err := fieldNames(fields)
	if err != nil {
		return nil, err
	}

	layout, err := c.getOrCreateByName(name, func() (*Layout, error) {
		return newLayout(LayoutSpec{Name: name, Fields: names})
	})
	if err != nil {
		return nil, err
	}

	inst, err := layout.construct(fields, true)
	if err == nil {
		return inst, nil
	}

	// Self-healing: the cached shape disagrees with this call's field set.
	// Evict, synthesize a layout matching the new shape, and retry once.
	// The fresh layout matches by construction, so assignment cannot
	// mismatch again.
	if !errors.Is(err, ErrFieldCountMismatch) && !errors.Is(err, ErrUnknownField) {
		return nil, err
	}

	c.evictName(name)

	fresh, err := newLayout(LayoutSpec{Name: name, Fields: names})
	if err != nil {
		return nil, err
	}

	c.insertName(name, fresh)

	return fresh.construct(fields, true)
}

// Instantiate populates an instance of an explicit layout. Identical to the
// package-level [Instantiate]; present on Cache so embedding applications
// can treat a cache as the complete factory surface.
func (c *Cache) Instantiate(layout *Layout, fields ...Field) (*Instance, error) {
	return Instantiate(layout, fields...)
}
