package slotfactory

// LayoutSpec declares a record shape for [DefineLayout]. It is the
// programmatic form of a blueprint: the declarative layer (config files,
// code generation, embedding applications) produces one of these and hands
// it to the synthesizer.
type LayoutSpec struct {
	// Name is the display name. Empty means [DefaultName].
	Name string

	// Fields are the record's field names in declaration order. The field
	// set is fixed at synthesis time; no field outside it can ever be
	// attached to an instance. A zero-field layout is degenerate but legal.
	Fields []string

	// Defaults maps fields to static default values (construction phase 2).
	Defaults map[string]any

	// Initializers maps fields to zero-argument initializers (phase 1).
	Initializers map[string]Initializer

	// DerivedInits maps fields to self-referential initializers (phase 4).
	DerivedInits map[string]DerivedInitializer

	// Order selects iteration/comparison order for instances.
	Order Order

	// OrderFields is the explicit order; only read when Order is
	// [OrderExplicit]. Every entry must name a declared field.
	OrderFields []string

	// Frozen rejects all writes after construction.
	Frozen bool

	// Methods attaches user-supplied behavior, invocable via
	// [Instance.Call]. Bodies are carried verbatim, never interpreted.
	Methods map[string]Method

	// Renderer replaces the default Name(field=value, ...) rendering for
	// instances of this layout.
	Renderer func(*Instance) string
}

// DefineLayout synthesizes a layout from a spec, bypassing both caches.
// This is the entry point for the blueprint layer: declare the shape once,
// then mint instances with [Instantiate].
func DefineLayout(spec LayoutSpec) (*Layout, error) {
	return newLayout(spec)
}

// MergeLayouts combines base layouts into a single spec, left to right with
// the first-listed base winning on conflicting field names. Fields keep the
// order of first appearance; defaults, initializers, and methods follow
// their field's winning base.
//
// This is a deliberate single-level, first-wins merge, not method-resolution
// order: a field contributed by a later base never overrides an earlier one.
// The returned spec carries no name, order, or frozen flag; callers set
// those before passing it to [DefineLayout].
func MergeLayouts(bases ...*Layout) LayoutSpec {
	var spec LayoutSpec

	seen := make(map[string]bool)

	for _, base := range bases {
		if base == nil {
			continue
		}

		for _, f := range base.fields {
			if seen[f] {
				continue
			}

			seen[f] = true
			spec.Fields = append(spec.Fields, f)

			if v, ok := base.defaults[f]; ok {
				if spec.Defaults == nil {
					spec.Defaults = make(map[string]any)
				}

				spec.Defaults[f] = v
			}

			if init, ok := base.inits[f]; ok {
				if spec.Initializers == nil {
					spec.Initializers = make(map[string]Initializer)
				}

				spec.Initializers[f] = init
			}

			if derived, ok := base.derived[f]; ok {
				if spec.DerivedInits == nil {
					spec.DerivedInits = make(map[string]DerivedInitializer)
				}

				spec.DerivedInits[f] = derived
			}
		}

		// The first base with a custom renderer wins.
		if spec.Renderer == nil && base.renderer != nil {
			spec.Renderer = base.renderer
		}

		// Methods are not field-scoped; first definition of a name wins.
		for name, m := range base.methods {
			if spec.Methods == nil {
				spec.Methods = make(map[string]Method)
			}

			if _, ok := spec.Methods[name]; !ok {
				spec.Methods[name] = m
			}
		}
	}

	return spec
}
