// Package descriptor maps declared Go types onto a closed variant
// the rest of the engine switches over. Building descriptors once
// during analysis keeps live reflect.Type queries out of value
// synthesis and structure analysis.
package descriptor

import (
	"reflect"

	"github.com/unbound-force/forge/internal/target"
)

// Kind enumerates the closed set of type shapes the engine
// understands.
type Kind string

// Descriptor kinds.
const (
	Int     Kind = "Int"
	Float   Kind = "Float"
	String  Kind = "String"
	Bool    Kind = "Bool"
	Slice   Kind = "Slice"
	Map     Kind = "Map"
	Class   Kind = "Class"
	Unknown Kind = "Unknown"
)

// Descriptor describes one declared type. Exactly the fields implied
// by Kind are set: Elem for Slice, Key and Elem for Map, Ref for
// Class.
type Descriptor struct {
	Kind Kind

	// Elem is the element descriptor for Slice and the value
	// descriptor for Map.
	Elem *Descriptor

	// Key is the key descriptor for Map.
	Key *Descriptor

	// Ref is the registered class for Class descriptors.
	Ref *target.Class

	// Type is the original declared type, kept for invocation-time
	// conversions.
	Type reflect.Type
}

// unknown is reused for every unsupported type.
func unknownOf(t reflect.Type) Descriptor {
	return Descriptor{Kind: Unknown, Type: t}
}

// FromType classifies a declared type against the module's
// registered classes. Pointers unwrap before classification; a nil
// type yields Unknown. Unsupported types classify as Unknown rather
// than failing, so a single odd parameter never aborts analysis.
func FromType(t reflect.Type, mod *target.Module) Descriptor {
	if t == nil {
		return unknownOf(nil)
	}
	orig := t
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if cls := mod.ClassFor(t); cls != nil {
		return Descriptor{Kind: Class, Ref: cls, Type: orig}
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Descriptor{Kind: Int, Type: orig}
	case reflect.Float32, reflect.Float64:
		return Descriptor{Kind: Float, Type: orig}
	case reflect.String:
		return Descriptor{Kind: String, Type: orig}
	case reflect.Bool:
		return Descriptor{Kind: Bool, Type: orig}
	case reflect.Slice, reflect.Array:
		elem := FromType(t.Elem(), mod)
		return Descriptor{Kind: Slice, Elem: &elem, Type: orig}
	case reflect.Map:
		key := FromType(t.Key(), mod)
		val := FromType(t.Elem(), mod)
		return Descriptor{Kind: Map, Key: &key, Elem: &val, Type: orig}
	default:
		return unknownOf(orig)
	}
}

// Params builds descriptors for every input parameter of a function
// type, skipping the first skip parameters (used to drop receivers).
func Params(fn reflect.Type, skip int, mod *target.Module) []Descriptor {
	if fn == nil || fn.Kind() != reflect.Func {
		return nil
	}
	n := fn.NumIn()
	if skip > n {
		skip = n
	}
	out := make([]Descriptor, 0, n-skip)
	for i := skip; i < n; i++ {
		out = append(out, FromType(fn.In(i), mod))
	}
	return out
}
