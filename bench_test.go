package slotfactory_test

import (
	"testing"

	"github.com/calvinalkan/slotfactory"
)

// Benchmarks for the three instantiation paths. The cached factories are
// dominated by key building plus one map lookup after the first call; the
// explicit-layout path measures raw construction.

func Benchmark_Build_CacheHit(b *testing.B) {
	cache := slotfactory.NewCache()

	// Warm the cache so every iteration is a hit.
	_, err := cache.Build("Point", slotfactory.F("x", 0), slotfactory.F("y", 0))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := cache.Build("Point", slotfactory.F("x", i), slotfactory.F("y", i))
		if err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_BuildNamed_CacheHit(b *testing.B) {
	cache := slotfactory.NewCache()

	_, err := cache.BuildNamed("Point", slotfactory.F("x", 0), slotfactory.F("y", 0))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := cache.BuildNamed("Point", slotfactory.F("x", i), slotfactory.F("y", i))
		if err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Instantiate(b *testing.B) {
	layout, err := slotfactory.DefineLayout(slotfactory.LayoutSpec{
		Name:   "Point",
		Fields: []string{"x", "y"},
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := slotfactory.Instantiate(layout, slotfactory.F("x", i), slotfactory.F("y", i))
		if err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Instantiate_WithDefaultsAndInitializers(b *testing.B) {
	layout, err := slotfactory.DefineLayout(slotfactory.LayoutSpec{
		Name:     "Span",
		Fields:   []string{"start", "end", "label"},
		Defaults: map[string]any{"label": "span"},
		Initializers: map[string]slotfactory.Initializer{
			"start": func() any { return 0 },
		},
		DerivedInits: map[string]slotfactory.DerivedInitializer{
			"end": func(in *slotfactory.Instance) any {
				return in.MustGet("start").(int) + 1
			},
		},
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := slotfactory.Instantiate(layout)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_BuildKey(b *testing.B) {
	fields := []string{"delta", "alpha", "charlie", "bravo"}

	for i := 0; i < b.N; i++ {
		_ = slotfactory.BuildKeyForTesting("Record", fields)
	}
}
