package slotfactory

import "fmt"

// Field is one (name, value) pair supplied to a factory call. Pairs keep
// their call-site order, which becomes the layout's field order when the
// call synthesizes a new layout.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for constructing a [Field].
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// fieldNames extracts the names of a pair list in call order, rejecting
// duplicates.
func fieldNames(fields []Field) ([]string, error) {
	names := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))

	for _, f := range fields {
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}

		seen[f.Name] = true
		names = append(names, f.Name)
	}

	return names, nil
}

// construct allocates an instance of the layout and runs the four write
// phases, later phases winning for the same field:
//
//  1. zero-argument initializers
//  2. static defaults
//  3. caller-supplied overrides
//  4. derived initializers (observe phases 1-3 through the instance)
//
// Slots start in an explicit unset state; an instance is never visible to
// callers before all phases ran. If validateCount is set, the override
// count must equal the layout's field count or nothing is written and
// [ErrFieldCountMismatch] is returned.
//
// An unknown override field fails mid-phase with [ErrUnknownField]; earlier
// writes stay in place (callers needing atomicity pre-validate).
func (l *Layout) construct(overrides []Field, validateCount bool) (*Instance, error) {
	if validateCount && len(overrides) != len(l.fields) {
		return nil, fmt.Errorf("%w: layout %q has %d fields, got %d values",
			ErrFieldCountMismatch, l.name, len(l.fields), len(overrides))
	}

	inst := &Instance{
		layout: l,
		slots:  make([]any, len(l.fields)),
	}

	for i := range inst.slots {
		inst.slots[i] = unsetSlot{}
	}

	// Phase 1: fresh value per instance, so mutable defaults are never
	// shared between records.
	for f, init := range l.inits {
		inst.slots[l.offsets[f]] = init()
	}

	// Phase 2: static defaults.
	for f, v := range l.defaults {
		inst.slots[l.offsets[f]] = v
	}

	// Phase 3: caller values override defaults.
	for _, f := range overrides {
		if err := inst.setSlot(f.Name, f.Value); err != nil {
			return nil, err
		}
	}

	// Phase 4: derived values may read anything set in phases 1-3.
	for f, derive := range l.derived {
		inst.slots[l.offsets[f]] = derive(inst)
	}

	inst.constructed = true

	return inst, nil
}
