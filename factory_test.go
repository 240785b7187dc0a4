package slotfactory_test

import (
	"errors"
	"testing"

	"github.com/calvinalkan/slotfactory"
)

// Test_Build_Reuses_Layout_For_Same_Shape verifies cache reuse: identical
// (name, field set) constructions share a layout even when values differ.
func Test_Build_Reuses_Layout_For_Same_Shape(t *testing.T) {
	cache := slotfactory.NewCache()

	a, err := cache.Build("Point", slotfactory.F("x", 1), slotfactory.F("y", 2))
	if err != nil {
		t.Fatalf("Build a: %v", err)
	}

	b, err := cache.Build("Point", slotfactory.F("x", 3), slotfactory.F("y", 4))
	if err != nil {
		t.Fatalf("Build b: %v", err)
	}

	if a.Layout() != b.Layout() {
		t.Fatal("same (name, field set) must share one layout")
	}

	if got := a.String(); got != "Point(x=1, y=2)" {
		t.Fatalf("render a = %q", got)
	}

	if got := b.String(); got != "Point(x=3, y=4)" {
		t.Fatalf("render b = %q", got)
	}
}

// Test_Build_Reuses_Layout_Across_Field_Order verifies that field order at
// the call site does not affect identity, only the first call's order sticks
// for rendering.
func Test_Build_Reuses_Layout_Across_Field_Order(t *testing.T) {
	cache := slotfactory.NewCache()

	a, err := cache.Build("Point", slotfactory.F("x", 1), slotfactory.F("y", 2))
	if err != nil {
		t.Fatalf("Build a: %v", err)
	}

	b, err := cache.Build("Point", slotfactory.F("y", 9), slotfactory.F("x", 8))
	if err != nil {
		t.Fatalf("Build b: %v", err)
	}

	if a.Layout() != b.Layout() {
		t.Fatal("field order must not change content identity")
	}

	// Rendering follows the layout's field order (from the first call).
	if got := b.String(); got != "Point(x=8, y=9)" {
		t.Fatalf("render b = %q", got)
	}

	if stats := cache.Stats(); stats.HashKeyed != 1 {
		t.Fatalf("HashKeyed = %d, want 1", stats.HashKeyed)
	}
}

// Test_Build_Never_Shares_Across_Distinct_Shapes verifies cache
// non-collision: different field sets (same or different name) never share.
func Test_Build_Never_Shares_Across_Distinct_Shapes(t *testing.T) {
	cache := slotfactory.NewCache()

	xy, err := cache.Build("Point", slotfactory.F("x", 1), slotfactory.F("y", 2))
	if err != nil {
		t.Fatalf("Build xy: %v", err)
	}

	xyz, err := cache.Build("Point", slotfactory.F("x", 1), slotfactory.F("y", 2), slotfactory.F("z", 3))
	if err != nil {
		t.Fatalf("Build xyz: %v", err)
	}

	ab, err := cache.Build("Other", slotfactory.F("x", 1), slotfactory.F("y", 2))
	if err != nil {
		t.Fatalf("Build ab: %v", err)
	}

	if xy.Layout() == xyz.Layout() || xy.Layout() == ab.Layout() || xyz.Layout() == ab.Layout() {
		t.Fatal("distinct shapes must not share layouts")
	}

	if stats := cache.Stats(); stats.HashKeyed != 3 {
		t.Fatalf("HashKeyed = %d, want 3", stats.HashKeyed)
	}
}

func Test_Build_Defaults_Record_Name(t *testing.T) {
	cache := slotfactory.NewCache()

	inst, err := cache.Build("", slotfactory.F("x", 1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if inst.Layout().Name() != slotfactory.DefaultName {
		t.Fatalf("name = %q, want %q", inst.Layout().Name(), slotfactory.DefaultName)
	}

	if got := inst.String(); got != "SlotsObject(x=1)" {
		t.Fatalf("render = %q", got)
	}
}

func Test_Build_Rejects_Duplicate_Fields(t *testing.T) {
	cache := slotfactory.NewCache()

	_, err := cache.Build("Rec", slotfactory.F("x", 1), slotfactory.F("x", 2))
	if !errors.Is(err, slotfactory.ErrDuplicateField) {
		t.Fatalf("err = %v, want ErrDuplicateField", err)
	}
}

// Test_Default_Cache_Is_Shared verifies the package-level factories share
// one process-wide cache.
func Test_Default_Cache_Is_Shared(t *testing.T) {
	slotfactory.ResetDefaultCacheForTesting()

	a, err := slotfactory.Build("Shared", slotfactory.F("v", 1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	b, err := slotfactory.Build("Shared", slotfactory.F("v", 2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if a.Layout() != b.Layout() {
		t.Fatal("package-level Build must share the default cache")
	}

	if stats := slotfactory.DefaultCacheStatsForTesting(); stats.HashKeyed != 1 {
		t.Fatalf("HashKeyed = %d, want 1", stats.HashKeyed)
	}
}

func Test_Instantiate_Rejects_Nil_Layout(t *testing.T) {
	t.Parallel()

	_, err := slotfactory.Instantiate(nil, slotfactory.F("x", 1))
	if !errors.Is(err, slotfactory.ErrNilLayout) {
		t.Fatalf("err = %v, want ErrNilLayout", err)
	}
}

// Test_Instantiate_Bypasses_Caches verifies the explicit-layout path never
// touches either cache store.
func Test_Instantiate_Bypasses_Caches(t *testing.T) {
	cache := slotfactory.NewCache()

	layout, err := slotfactory.DefineLayout(slotfactory.LayoutSpec{
		Name:   "Manual",
		Fields: []string{"x"},
	})
	if err != nil {
		t.Fatalf("DefineLayout: %v", err)
	}

	if _, err := cache.Instantiate(layout, slotfactory.F("x", 1)); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	stats := cache.Stats()
	if stats.HashKeyed != 0 || stats.NameKeyed != 0 {
		t.Fatalf("stats = %+v, want empty caches", stats)
	}
}
