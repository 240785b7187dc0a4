package spec

import "testing"

// The model is meant to be obviously correct by inspection; these tests only
// pin the two behaviors a reader might second-guess.

func Test_Model_BuildNamed_Heals_On_Shape_Change(t *testing.T) {
	t.Parallel()

	m := NewModel()

	first, err := m.BuildNamed("Row", []string{"x", "y"}, []string{"1", "2"})
	if err != nil {
		t.Fatalf("BuildNamed: %v", err)
	}

	second, err := m.BuildNamed("Row", []string{"x", "y", "z"}, []string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("BuildNamed: %v", err)
	}

	if !second.Healed {
		t.Fatal("shape change must report healing")
	}

	if first.Layout == second.Layout {
		t.Fatal("healing must mint a new layout identity")
	}

	third, err := m.BuildNamed("Row", []string{"z", "y", "x"}, []string{"3", "2", "1"})
	if err != nil {
		t.Fatalf("BuildNamed: %v", err)
	}

	if third.Healed || third.Layout != second.Layout {
		t.Fatal("set-equal reordered call must reuse the healed layout")
	}
}

func Test_Model_Build_Identity_Ignores_Field_Order(t *testing.T) {
	t.Parallel()

	m := NewModel()

	a, err := m.Build("Point", []string{"x", "y"}, []string{"1", "2"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	b, err := m.Build("Point", []string{"y", "x"}, []string{"20", "10"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if a.Layout != b.Layout {
		t.Fatal("reordered field set must share identity")
	}

	// Rendering keeps the first call's field order.
	if b.Rendered != "Point(x=10, y=20)" {
		t.Fatalf("Rendered = %q", b.Rendered)
	}
}
