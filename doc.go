// Package slotfactory synthesizes fixed-field record types at runtime and
// instantiates them with minimal per-instance overhead.
//
// slotfactory is for programs that need many short-lived, attribute-only
// value objects (rows, tuples, configuration records) without predeclaring a
// struct for every distinct field set. A synthesized [Layout] describes the
// record shape once; every [Instance] of it is a dense slot array, not a
// general-purpose map.
//
// # Basic Usage
//
//	// Hash-keyed: same name + field set always reuses the same layout.
//	p, err := slotfactory.Build("Point", slotfactory.F("x", 1), slotfactory.F("y", 2))
//	if err != nil {
//	    // handle [ErrUnknownField] / [ErrDuplicateField]
//	}
//	fmt.Println(p) // Point(x=1, y=2)
//
//	// Explicit layout: maximum control, no cache involved.
//	layout, err := slotfactory.DefineLayout(slotfactory.LayoutSpec{
//	    Name:   "Config",
//	    Fields: []string{"host", "port"},
//	    Defaults: map[string]any{"port": 8080},
//	})
//	cfg, err := slotfactory.Instantiate(layout, slotfactory.F("host", "localhost"))
//
// # Identity Strategies
//
// Two cached factories exist, differing only in how a layout is identified:
//
//   - [Build] keys the cache on a structural hash of (name, sorted field
//     set). Two calls with the same name and the same fields in any order
//     share one layout. Distinct field sets never collide.
//   - [BuildNamed] keys the cache on the record name alone. It is faster
//     (no hashing) but assumes all records sharing a name share a shape.
//     If a later call supplies a different field set, the stale layout is
//     evicted and resynthesized transparently.
//
// [Instantiate] bypasses both caches and uses a caller-supplied layout.
//
// # Construction Phases
//
// Field values are written in four phases; later phases win for the same
// field:
//
//  1. zero-argument initializers (fresh value per instance)
//  2. static defaults
//  3. caller-supplied field values
//  4. derived initializers (observe the instance state from phases 1-3)
//
// # Concurrency
//
// The layout caches are safe for concurrent use. Instances are not
// synchronized; do not share an instance across goroutines during
// construction or mutation.
//
// # Error Handling
//
// All failures are sentinel errors checked with [errors.Is]. The only error
// recovered internally is a shape mismatch inside [BuildNamed], which
// triggers eviction and a single resynthesis.
package slotfactory
