package slotfactory

import (
	"fmt"
	"reflect"
)

// unsetSlot marks a slot that no construction phase wrote. It renders as
// <unset> and reads of it return [ErrUnsetField].
type unsetSlot struct{}

func (unsetSlot) String() string { return "<unset>" }

// Item is one (field, value) pair produced by [Instance.Items].
type Item struct {
	Field string
	Value any
}

// Instance is one record: a dense slot array plus a reference to the layout
// that shaped it. Exactly len(layout.Fields()) slots exist; no value can be
// attached outside them.
//
// Instances are not synchronized. An instance belongs to whoever holds the
// reference and must not be shared across goroutines while being mutated.
type Instance struct {
	_ [0]func() // prevent external construction

	layout *Layout
	slots  []any

	// constructed flips once the construction phases finish. Frozen
	// enforcement only applies after that point; the construction path
	// writes through setSlot directly and is exempt.
	constructed bool
}

// Layout returns the layout this instance was built from.
func (in *Instance) Layout() *Layout { return in.layout }

// Len returns the number of fields the instance holds.
func (in *Instance) Len() int { return len(in.slots) }

// Get reads a field value. Returns [ErrUnknownField] for fields outside the
// layout and [ErrUnsetField] for slots no construction phase wrote.
func (in *Instance) Get(field string) (any, error) {
	off, ok := in.layout.offsets[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q on layout %q", ErrUnknownField, field, in.layout.name)
	}

	v := in.slots[off]
	if _, unset := v.(unsetSlot); unset {
		return nil, fmt.Errorf("%w: %q on layout %q", ErrUnsetField, field, in.layout.name)
	}

	return v, nil
}

// MustGet is Get for fields known to exist and be set; it panics otherwise.
// Intended for tests and tooling, not library code.
func (in *Instance) MustGet(field string) any {
	v, err := in.Get(field)
	if err != nil {
		panic(err)
	}

	return v
}

// Set writes a field value. Returns [ErrUnknownField] for fields outside the
// layout and [ErrImmutable] if the layout is frozen (construction finished).
func (in *Instance) Set(field string, value any) error {
	if in.layout.frozen && in.constructed {
		return fmt.Errorf("%w: layout %q", ErrImmutable, in.layout.name)
	}

	return in.setSlot(field, value)
}

// setSlot is the privileged write path used by the construction phases. It
// checks field membership but never frozen state.
func (in *Instance) setSlot(field string, value any) error {
	off, ok := in.layout.offsets[field]
	if !ok {
		return fmt.Errorf("%w: %q on layout %q", ErrUnknownField, field, in.layout.name)
	}

	in.slots[off] = value

	return nil
}

// Items returns the instance's (field, value) pairs in the layout's
// iteration order (the order spec if present, declaration order otherwise).
// Unset slots appear with an <unset> placeholder value.
func (in *Instance) Items() []Item {
	order := in.layout.iterOrder()
	items := make([]Item, 0, len(order))

	for _, f := range order {
		items = append(items, Item{Field: f, Value: in.slots[in.layout.offsets[f]]})
	}

	return items
}

// ToMap returns the instance as a field-to-value map. Unset slots are
// omitted. The map is freshly allocated; mutating it does not touch the
// instance.
func (in *Instance) ToMap() map[string]any {
	out := make(map[string]any, len(in.slots))

	for f, off := range in.layout.offsets {
		v := in.slots[off]
		if _, unset := v.(unsetSlot); unset {
			continue
		}

		out[f] = v
	}

	return out
}

// Equal reports whether both instances carry the same field set with equal
// values. Layout names and iteration order do not participate; two records
// with matching fields and values are equal regardless of which layout
// minted them.
func (in *Instance) Equal(other *Instance) bool {
	if other == nil || len(in.slots) != len(other.slots) {
		return false
	}

	for f, off := range in.layout.offsets {
		otherOff, ok := other.layout.offsets[f]
		if !ok {
			return false
		}

		if !reflect.DeepEqual(in.slots[off], other.slots[otherOff]) {
			return false
		}
	}

	return true
}

// HashKey returns the identity hash of the instance's field-name set. Two
// instances with the same field set share a hash key regardless of values,
// mirroring identity-by-shape for the content-keyed cache.
func (in *Instance) HashKey() uint64 {
	return buildKey("", in.layout.fields)
}

// Less orders two instances lexicographically over the layout's order spec:
// the first unequal field decides. Returns [ErrNoOrder] if the layout was
// defined without an order and [ErrNotComparable] if a field pair cannot be
// ordered.
func (in *Instance) Less(other *Instance) (bool, error) {
	if in.layout.order == nil {
		return false, fmt.Errorf("%w: layout %q", ErrNoOrder, in.layout.name)
	}

	for _, f := range in.layout.order {
		left, err := in.Get(f)
		if err != nil {
			return false, err
		}

		right, err := other.Get(f)
		if err != nil {
			return false, err
		}

		cmp, err := compareValues(left, right)
		if err != nil {
			return false, fmt.Errorf("field %q: %w", f, err)
		}

		if cmp != 0 {
			return cmp < 0, nil
		}
	}

	return false, nil
}

// Call invokes a method attached to the layout, passing the instance.
func (in *Instance) Call(method string) (any, error) {
	m, ok := in.layout.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q on layout %q", ErrUnknownMethod, method, in.layout.name)
	}

	return m(in), nil
}

// String renders the instance as Name(field1=value1, ...) in iteration
// order.
func (in *Instance) String() string {
	return in.layout.render(in)
}

// compareValues orders two field values. Integers, floats, and strings are
// supported; integer/float pairs compare numerically.
func compareValues(a, b any) (int, error) {
	switch left := a.(type) {
	case string:
		right, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("%w: %T vs %T", ErrNotComparable, a, b)
		}

		switch {
		case left < right:
			return -1, nil
		case left > right:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		leftF, okA := toFloat(a)
		rightF, okB := toFloat(b)

		if !okA || !okB {
			return 0, fmt.Errorf("%w: %T vs %T", ErrNotComparable, a, b)
		}

		switch {
		case leftF < rightF:
			return -1, nil
		case leftF > rightF:
			return 1, nil
		default:
			return 0, nil
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
