package slotfactory

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultName is the display name used when a factory call does not supply
// a record name.
const DefaultName = "SlotsObject"

// Order selects how instances of a layout iterate and compare.
type Order int

const (
	// OrderNone leaves instances unordered; Items iterates in field order
	// and comparisons return [ErrNoOrder].
	OrderNone Order = iota

	// OrderSorted orders iteration and comparison by the natural
	// (lexicographic) order of the field names.
	OrderSorted

	// OrderExplicit orders iteration and comparison by the field list
	// given in [LayoutSpec.OrderFields].
	OrderExplicit
)

// Method is user-supplied behavior carried on a layout. The synthesizer
// registers methods verbatim and never interprets their bodies; every
// instance of the layout can invoke them via [Instance.Call].
type Method func(*Instance) any

// Initializer produces a field value at construction time with no inputs.
// Each instance gets a fresh call, so mutable defaults are never shared.
type Initializer func() any

// DerivedInitializer produces a field value from the instance itself. It
// runs after all other construction phases and may read any field already
// written, letting one field's default depend on another's resolved value.
type DerivedInitializer func(*Instance) any

// Layout is a synthesized record type: an ordered field set, a slot offset
// per field, and optional defaults, initializers, ordering, methods, and
// immutability. Layouts are immutable once created and safe for concurrent
// use; the cached factories share one layout across all matching instances.
//
// A Layout must be obtained via [DefineLayout] or one of the factories; the
// zero value is not usable.
type Layout struct {
	_ [0]func() // prevent external construction

	name    string
	fields  []string
	offsets map[string]int

	defaults map[string]any
	inits    map[string]Initializer
	derived  map[string]DerivedInitializer
	methods  map[string]Method

	// order is the iteration/comparison order. nil means unordered, in
	// which case Items falls back to field order.
	order []string

	// renderer, when non-nil, replaces the default rendering.
	renderer func(*Instance) string

	frozen bool
}

// newLayout validates a spec and synthesizes a layout from it.
func newLayout(spec LayoutSpec) (*Layout, error) {
	name := spec.Name
	if name == "" {
		name = DefaultName
	}

	offsets := make(map[string]int, len(spec.Fields))

	for i, f := range spec.Fields {
		if _, dup := offsets[f]; dup {
			return nil, fmt.Errorf("%w: %q in layout %q", ErrDuplicateField, f, name)
		}

		offsets[f] = i
	}

	// Every auxiliary table may only reference declared fields.
	for f := range spec.Defaults {
		if _, ok := offsets[f]; !ok {
			return nil, fmt.Errorf("%w: default for %q in layout %q", ErrUnknownField, f, name)
		}
	}

	for f := range spec.Initializers {
		if _, ok := offsets[f]; !ok {
			return nil, fmt.Errorf("%w: initializer for %q in layout %q", ErrUnknownField, f, name)
		}
	}

	for f := range spec.DerivedInits {
		if _, ok := offsets[f]; !ok {
			return nil, fmt.Errorf("%w: derived initializer for %q in layout %q", ErrUnknownField, f, name)
		}
	}

	var order []string

	switch spec.Order {
	case OrderNone:
	case OrderSorted:
		order = slices.Clone(spec.Fields)
		slices.Sort(order)
	case OrderExplicit:
		for _, f := range spec.OrderFields {
			if _, ok := offsets[f]; !ok {
				return nil, fmt.Errorf("%w: order field %q in layout %q", ErrUnknownField, f, name)
			}
		}

		order = slices.Clone(spec.OrderFields)
	default:
		return nil, fmt.Errorf("slotfactory: invalid order spec %d in layout %q", spec.Order, name)
	}

	return &Layout{
		name:     name,
		fields:   slices.Clone(spec.Fields),
		offsets:  offsets,
		defaults: cloneMap(spec.Defaults),
		inits:    cloneMap(spec.Initializers),
		derived:  cloneMap(spec.DerivedInits),
		methods:  cloneMap(spec.Methods),
		order:    order,
		renderer: spec.Renderer,
		frozen:   spec.Frozen,
	}, nil
}

func cloneMap[V any](m map[string]V) map[string]V {
	if len(m) == 0 {
		return nil
	}

	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// Name returns the layout's display name.
func (l *Layout) Name() string { return l.name }

// Fields returns the layout's field names in declaration order. The returned
// slice is a copy; mutating it does not affect the layout.
func (l *Layout) Fields() []string { return slices.Clone(l.fields) }

// NumFields returns the number of slots per instance.
func (l *Layout) NumFields() int { return len(l.fields) }

// Frozen reports whether instances reject writes after construction.
func (l *Layout) Frozen() bool { return l.frozen }

// Ordered reports whether the layout carries an order spec.
func (l *Layout) Ordered() bool { return l.order != nil }

// HasField reports whether name is part of the layout's field set.
func (l *Layout) HasField(name string) bool {
	_, ok := l.offsets[name]
	return ok
}

// iterOrder is the order Items and comparisons walk fields in.
func (l *Layout) iterOrder() []string {
	if l.order != nil {
		return l.order
	}

	return l.fields
}

// render produces the human-readable form of an instance: the blueprint's
// own renderer if it supplied one, otherwise
// Name(field1=value1, field2=value2) in iteration order.
func (l *Layout) render(inst *Instance) string {
	if l.renderer != nil {
		return l.renderer(inst)
	}

	var b strings.Builder

	b.WriteString(l.name)
	b.WriteString("(")

	for i, f := range l.iterOrder() {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f)
		b.WriteString("=")
		fmt.Fprintf(&b, "%v", inst.slots[l.offsets[f]])
	}

	b.WriteString(")")

	return b.String()
}
