package slotfactory_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/calvinalkan/slotfactory"
)

// Test_Concurrent_Build_Converges_To_One_Layout verifies the cache contract
// under same-key races: many goroutines building the same shape may
// synthesize redundantly, but every caller must end up holding the single
// stored layout and a fully constructed instance.
func Test_Concurrent_Build_Converges_To_One_Layout(t *testing.T) {
	t.Parallel()

	const goroutines = 32

	cache := slotfactory.NewCache()

	var wg sync.WaitGroup

	instances := make([]*slotfactory.Instance, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		i := i

		wg.Add(1)

		go func() {
			defer wg.Done()

			instances[i], errs[i] = cache.Build("Point",
				slotfactory.F("x", i), slotfactory.F("y", i*2))
		}()
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("goroutine %d: %v", i, err)
		}
	}

	layout := instances[0].Layout()
	for i, inst := range instances {
		if inst.Layout() != layout {
			t.Fatalf("goroutine %d got a different layout", i)
		}

		if got := inst.MustGet("x"); got != i {
			t.Fatalf("goroutine %d: x = %v, want %d", i, got, i)
		}
	}

	if stats := cache.Stats(); stats.HashKeyed != 1 {
		t.Fatalf("HashKeyed = %d, want 1", stats.HashKeyed)
	}
}

// Test_Concurrent_Builds_On_Distinct_Shapes_Are_Independent verifies
// unrelated keys do not interfere: every distinct shape gets its own layout.
func Test_Concurrent_Builds_On_Distinct_Shapes_Are_Independent(t *testing.T) {
	t.Parallel()

	const shapes = 16

	cache := slotfactory.NewCache()

	var wg sync.WaitGroup

	for i := 0; i < shapes; i++ {
		i := i

		wg.Add(1)

		go func() {
			defer wg.Done()

			field := fmt.Sprintf("f%d", i)

			for r := 0; r < 8; r++ {
				inst, err := cache.Build("Rec", slotfactory.F(field, i))
				if err != nil {
					t.Errorf("Build %s: %v", field, err)
					return
				}

				if got := inst.MustGet(field); got != i {
					t.Errorf("%s = %v, want %d", field, got, i)
					return
				}
			}
		}()
	}

	wg.Wait()

	if stats := cache.Stats(); stats.HashKeyed != shapes {
		t.Fatalf("HashKeyed = %d, want %d", stats.HashKeyed, shapes)
	}
}

// Test_Concurrent_BuildNamed_With_Healing_Stays_Consistent hammers the
// self-healing path from racing goroutines with two competing shapes. Any
// individual call must either succeed with a layout matching its own field
// set or not at all; the cache must never serve a torn layout.
func Test_Concurrent_BuildNamed_With_Healing_Stays_Consistent(t *testing.T) {
	t.Parallel()

	const goroutines = 16

	cache := slotfactory.NewCache()

	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		i := i

		wg.Add(1)

		go func() {
			defer wg.Done()

			for r := 0; r < 16; r++ {
				var (
					inst *slotfactory.Instance
					err  error
				)

				if i%2 == 0 {
					inst, err = cache.BuildNamed("Row",
						slotfactory.F("x", 1), slotfactory.F("y", 2))
				} else {
					inst, err = cache.BuildNamed("Row",
						slotfactory.F("x", 1), slotfactory.F("y", 2), slotfactory.F("z", 3))
				}

				if err != nil {
					t.Errorf("goroutine %d: %v", i, err)
					return
				}

				// The instance's layout must match the call's shape exactly,
				// whatever the cache held at the time.
				wantFields := 2
				if i%2 == 1 {
					wantFields = 3
				}

				if inst.Len() != wantFields {
					t.Errorf("goroutine %d: len = %d, want %d", i, inst.Len(), wantFields)
					return
				}
			}
		}()
	}

	wg.Wait()
}
