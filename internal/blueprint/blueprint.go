// Package blueprint loads declarative record definitions from JSONC files
// and resolves them into slotfactory layouts.
//
// A blueprint file is a JSON (with comments and trailing commas, via hujson)
// array of definitions:
//
//	[
//	    // a 2D point, immutable once built
//	    {
//	        "name": "Point",
//	        "fields": ["x", "y"],
//	        "defaults": {"x": 0, "y": 0},
//	        "order": "sorted",
//	        "frozen": true,
//	    },
//	    {
//	        "name": "Point3D",
//	        "fields": ["z"],
//	        "bases": ["Point"],
//	    },
//	]
//
// Bases must be defined earlier in the same file; resolution is a single
// top-to-bottom pass. A definition's own fields take precedence over its
// bases, and earlier-listed bases over later ones (first wins).
package blueprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/slotfactory"
)

// Sentinel errors for blueprint validation, checked with [errors.Is].
var (
	// ErrNoName indicates a definition without a name; names are required
	// because bases reference them.
	ErrNoName = errors.New("blueprint: definition has no name")

	// ErrDuplicateName indicates two definitions share a name.
	ErrDuplicateName = errors.New("blueprint: duplicate definition name")

	// ErrUnknownBase indicates a bases entry that no earlier definition
	// declares.
	ErrUnknownBase = errors.New("blueprint: unknown base")

	// ErrBadOrder indicates an order value that is neither "sorted", true,
	// nor a list of field names.
	ErrBadOrder = errors.New("blueprint: invalid order")
)

// Definition is one record declaration from a blueprint file.
type Definition struct {
	// Name is the layout's display name and the handle bases use. Required.
	Name string `json:"name"`

	// Doc is a free-form description, carried for tooling only.
	Doc string `json:"doc,omitempty"`

	// Fields are this definition's own field names, in declaration order.
	// May be empty when the definition only composes bases.
	Fields []string `json:"fields,omitempty"`

	// Defaults maps own fields to static default values.
	Defaults map[string]any `json:"defaults,omitempty"`

	// Order is "sorted", true, or an explicit field list. Absent means
	// unordered.
	Order json.RawMessage `json:"order,omitempty"`

	// Frozen rejects writes after construction.
	Frozen bool `json:"frozen,omitempty"`

	// Bases lists earlier definitions whose fields and defaults this one
	// inherits, first listed winning on conflicts.
	Bases []string `json:"bases,omitempty"`
}

// Parse decodes a blueprint file's contents. The input may contain comments
// and trailing commas.
func Parse(data []byte) ([]Definition, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("blueprint: standardizing JSONC: %w", err)
	}

	var defs []Definition
	if err := json.Unmarshal(std, &defs); err != nil {
		return nil, fmt.Errorf("blueprint: decoding definitions: %w", err)
	}

	seen := make(map[string]bool, len(defs))

	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: definition %d", ErrNoName, i)
		}

		if seen[def.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, def.Name)
		}

		seen[def.Name] = true
	}

	return defs, nil
}

// Load reads and parses a blueprint file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("blueprint: reading %s: %w", path, err)
	}

	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return defs, nil
}

// Resolve synthesizes a layout per definition, top to bottom. Bases must
// already be resolved, so forward references are errors.
func Resolve(defs []Definition) (map[string]*slotfactory.Layout, error) {
	layouts := make(map[string]*slotfactory.Layout, len(defs))

	for _, def := range defs {
		layout, err := resolveOne(def, layouts)
		if err != nil {
			return nil, err
		}

		layouts[def.Name] = layout
	}

	return layouts, nil
}

// resolveOne builds a single definition against already-resolved bases.
func resolveOne(def Definition, resolved map[string]*slotfactory.Layout) (*slotfactory.Layout, error) {
	order, orderFields, err := decodeOrder(def)
	if err != nil {
		return nil, err
	}

	ownSpec := slotfactory.LayoutSpec{
		Name:     def.Name,
		Fields:   def.Fields,
		Defaults: def.Defaults,
	}

	spec := ownSpec

	if len(def.Bases) > 0 {
		// Own definition merges first so it wins over every base; bases
		// keep their listed order among themselves.
		own, err := slotfactory.DefineLayout(ownSpec)
		if err != nil {
			return nil, fmt.Errorf("blueprint %q: %w", def.Name, err)
		}

		merge := make([]*slotfactory.Layout, 0, len(def.Bases)+1)
		merge = append(merge, own)

		for _, base := range def.Bases {
			baseLayout, ok := resolved[base]
			if !ok {
				return nil, fmt.Errorf("%w: %q in blueprint %q (bases must be defined earlier in the file)",
					ErrUnknownBase, base, def.Name)
			}

			merge = append(merge, baseLayout)
		}

		spec = slotfactory.MergeLayouts(merge...)
		spec.Name = def.Name
	}

	spec.Order = order
	spec.OrderFields = orderFields
	spec.Frozen = def.Frozen

	layout, err := slotfactory.DefineLayout(spec)
	if err != nil {
		return nil, fmt.Errorf("blueprint %q: %w", def.Name, err)
	}

	return layout, nil
}

// decodeOrder interprets the raw order value: absent, "sorted"/true, or an
// explicit field list.
func decodeOrder(def Definition) (slotfactory.Order, []string, error) {
	if len(def.Order) == 0 {
		return slotfactory.OrderNone, nil, nil
	}

	var asBool bool
	if err := json.Unmarshal(def.Order, &asBool); err == nil {
		if asBool {
			return slotfactory.OrderSorted, nil, nil
		}

		return slotfactory.OrderNone, nil, nil
	}

	var asString string
	if err := json.Unmarshal(def.Order, &asString); err == nil {
		if asString == "sorted" {
			return slotfactory.OrderSorted, nil, nil
		}

		return slotfactory.OrderNone, nil, fmt.Errorf("%w: %q in blueprint %q", ErrBadOrder, asString, def.Name)
	}

	var asList []string
	if err := json.Unmarshal(def.Order, &asList); err == nil {
		return slotfactory.OrderExplicit, asList, nil
	}

	return slotfactory.OrderNone, nil, fmt.Errorf("%w: %s in blueprint %q", ErrBadOrder, def.Order, def.Name)
}
