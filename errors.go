package slotfactory

import "errors"

// Sentinel errors returned by slotfactory operations.
//
// Callers should use [errors.Is] to check error types. Errors that concern a
// specific field are wrapped with the field name:
//
//	if errors.Is(err, slotfactory.ErrUnknownField) {
//	    // err.Error() names the offending field and layout
//	}
var (
	// ErrUnknownField indicates a write targeted a field that is not part
	// of the layout's field set.
	//
	// Fields already written before the failing write remain written; there
	// is no rollback. Callers that need atomicity must validate up front.
	ErrUnknownField = errors.New("slotfactory: unknown field")

	// ErrFieldCountMismatch indicates the supplied field values do not
	// cover the layout's field set exactly.
	//
	// Only returned by paths that request count validation. Inside
	// [BuildNamed] this error is recovered by evicting the stale layout
	// and resynthesizing; everywhere else it is surfaced.
	ErrFieldCountMismatch = errors.New("slotfactory: field count mismatch")

	// ErrImmutable indicates a write was attempted on an instance of a
	// frozen layout after construction finished.
	//
	// Construction-time writes use a privileged path and are exempt.
	ErrImmutable = errors.New("slotfactory: instance is immutable")

	// ErrDuplicateField indicates the same field name was supplied twice,
	// either in a layout definition or in a single factory call.
	//
	// This is a programming error.
	ErrDuplicateField = errors.New("slotfactory: duplicate field")

	// ErrUnsetField indicates a read of a slot that was never written.
	//
	// Only possible on instances of layouts whose defaults and caller
	// values together do not cover every field.
	ErrUnsetField = errors.New("slotfactory: field not set")

	// ErrNoOrder indicates an ordered operation (comparison) was attempted
	// on instances of a layout defined without an order spec.
	//
	// Recovery: define the layout with [OrderSorted] or an explicit order.
	ErrNoOrder = errors.New("slotfactory: layout has no order")

	// ErrNotComparable indicates two field values could not be ordered
	// relative to each other (unsupported or mismatched types).
	ErrNotComparable = errors.New("slotfactory: values not comparable")

	// ErrUnknownMethod indicates [Instance.Call] named a method the layout
	// does not carry.
	ErrUnknownMethod = errors.New("slotfactory: unknown method")

	// ErrNilLayout indicates a nil layout was passed to [Instantiate].
	//
	// This is a programming error.
	ErrNilLayout = errors.New("slotfactory: nil layout")
)
