// Package record defines the immutable case records the engine
// emits: one record per executed candidate, carrying the inputs and
// the observed outcome that becomes the expected result.
package record

// ConstructorName is the reserved member key under which constructor
// cases are filed in a class's case map.
const ConstructorName = "<init>"

// TestCase is one generated case for a free function. When ErrKind
// is non-empty the callable is expected to fail and Outputs is
// unobservable; downstream comparisons must ignore it.
type TestCase struct {
	// Inputs is the ordered argument list.
	Inputs []any

	// Outputs is the observed return values, trailing nil error
	// stripped. Meaningful only when ErrKind is empty.
	Outputs []any

	// Desc is a human-readable description of the case.
	Desc string

	// ErrKind is the expected error kind, empty for passing cases.
	ErrKind string
}

// Fails reports whether the case expects an error.
func (c TestCase) Fails() bool { return c.ErrKind != "" }

// ClassCase is one generated case for a class member. Constructor
// cases use Member == ConstructorName with empty Inputs.
type ClassCase struct {
	// Class is the registered class name.
	Class string

	// CtorInputs is the ordered constructor argument list used to
	// build the instance (or attempted, for constructor-failure
	// cases).
	CtorInputs []any

	// Member is the member name the case targets.
	Member string

	// Inputs is the ordered member argument list.
	Inputs []any

	// Outputs is the observed result, trailing nil error stripped.
	// Meaningful only when ErrKind is empty.
	Outputs []any

	// Desc is a human-readable description of the case.
	Desc string

	// ErrKind is the expected error kind, empty for passing cases.
	ErrKind string

	// PropertyGet marks cases that target a property getter rather
	// than a regular method.
	PropertyGet bool
}

// Fails reports whether the case expects an error.
func (c ClassCase) Fails() bool { return c.ErrKind != "" }

// IsConstructor reports whether the case targets the constructor.
func (c ClassCase) IsConstructor() bool { return c.Member == ConstructorName }
