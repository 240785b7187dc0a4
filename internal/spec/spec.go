// Package spec defines an in-memory oracle for slotfactory's observable
// factory semantics.
//
// This is the source of truth for what correct behavior looks like. If the
// real implementation disagrees with this model, the implementation is
// wrong. The model is consumed by randomized and fuzz tests that drive the
// same operation sequence through both and compare results.
//
// The model captures only what a caller can observe: which calls share a
// layout (identity), each layout's field set and order, and the rendered
// form of an instance. It deliberately knows nothing about hash values,
// lock layout, or slot offsets.
//
// Design principles:
//
//   - Simple over performant. The code should be obviously correct by
//     inspection; loops and copies are fine.
//
//   - Explicit over clever. No shared helpers that obscure what a factory
//     strategy does.
//
//   - No dependencies beyond the standard library.
//
//   - Panics indicate bugs in the model itself. Errors indicate invalid
//     input that the real implementation must also reject.
package spec

import (
	"fmt"
	"slices"
	"strings"
)

// LayoutID identifies a distinct synthesized layout within the model. Two
// factory calls that must share a real layout report the same LayoutID; two
// calls that must not share report different ones.
type LayoutID int

// Result is the model's prediction for one factory call.
type Result struct {
	// Layout identifies which synthesized layout serves this call.
	Layout LayoutID

	// Fields is the layout's field order (the order of the call that
	// synthesized it, not necessarily this call's order).
	Fields []string

	// Rendered is the expected String() output of the instance.
	Rendered string

	// Healed reports that a name-keyed call evicted a stale layout.
	Healed bool
}

// Model predicts factory behavior for the two cached strategies.
type Model struct {
	nextID LayoutID

	// hashed maps canonical (name, sorted fields) identity to the layout
	// that first claimed it.
	hashed map[string]*modelLayout

	// named maps a record name to its current layout; replaced wholesale
	// when self-healing fires.
	named map[string]*modelLayout
}

type modelLayout struct {
	id     LayoutID
	name   string
	fields []string
}

// NewModel returns an empty model (the equivalent of a fresh cache).
func NewModel() *Model {
	return &Model{
		hashed: make(map[string]*modelLayout),
		named:  make(map[string]*modelLayout),
	}
}

// DefaultName mirrors the library's default record name.
const DefaultName = "SlotsObject"

// canonical is the order-independent content identity of (name, fields).
// The model uses the joined sorted names directly; the real implementation
// hashes them, which must induce the same partition.
func canonical(name string, fields []string) string {
	sorted := slices.Clone(fields)
	slices.Sort(sorted)

	return name + "\x00" + strings.Join(sorted, "\x00")
}

// sameFieldSet reports set equality regardless of order.
func sameFieldSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)

	return slices.Equal(as, bs)
}

// validate rejects inputs both model and implementation must refuse.
func validate(fields []string) error {
	seen := make(map[string]bool, len(fields))

	for _, f := range fields {
		if seen[f] {
			return fmt.Errorf("duplicate field %q", f)
		}

		seen[f] = true
	}

	return nil
}

// Build predicts the content-keyed factory: same (name, field set) in any
// order reuses a layout, anything else synthesizes a new one.
func (m *Model) Build(name string, fields []string, values []string) (Result, error) {
	if name == "" {
		name = DefaultName
	}

	if err := validate(fields); err != nil {
		return Result{}, err
	}

	key := canonical(name, fields)

	layout, ok := m.hashed[key]
	if !ok {
		layout = &modelLayout{id: m.nextID, name: name, fields: slices.Clone(fields)}
		m.nextID++
		m.hashed[key] = layout
	}

	return Result{
		Layout:   layout.id,
		Fields:   slices.Clone(layout.fields),
		Rendered: render(layout, fields, values),
	}, nil
}

// BuildNamed predicts the name-keyed factory: the name alone selects the
// layout, and a shape mismatch evicts and resynthesizes exactly once.
func (m *Model) BuildNamed(name string, fields []string, values []string) (Result, error) {
	if name == "" {
		name = DefaultName
	}

	if err := validate(fields); err != nil {
		return Result{}, err
	}

	layout, ok := m.named[name]
	healed := false

	if ok && !sameFieldSet(layout.fields, fields) {
		// Stale shape: the real factory fails assignment, evicts, and
		// retries against a fresh layout.
		ok = false
		healed = true
	}

	if !ok {
		layout = &modelLayout{id: m.nextID, name: name, fields: slices.Clone(fields)}
		m.nextID++
		m.named[name] = layout
	}

	return Result{
		Layout:   layout.id,
		Fields:   slices.Clone(layout.fields),
		Rendered: render(layout, fields, values),
		Healed:   healed,
	}, nil
}

// render predicts the default renderer: layout name, then field=value pairs
// in the layout's field order (values looked up from this call's pairs).
func render(layout *modelLayout, fields []string, values []string) string {
	byField := make(map[string]string, len(fields))
	for i, f := range fields {
		byField[f] = values[i]
	}

	var b strings.Builder

	b.WriteString(layout.name)
	b.WriteString("(")

	for i, f := range layout.fields {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f)
		b.WriteString("=")
		b.WriteString(byField[f])
	}

	b.WriteString(")")

	return b.String()
}
