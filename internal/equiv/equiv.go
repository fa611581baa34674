// Package equiv decides whether two candidate input tuples are
// value-equivalent, so the orchestrator never records two cases that
// exercise a callable with the same effective inputs.
package equiv

import (
	"fmt"
	"reflect"
)

// Equivalent reports whether two input tuples are structurally
// value-equivalent position by position. Scalars compare by value
// (integer widths collapse), slices and arrays by length then
// pairwise recursion, maps by key set then recursive values.
// Everything else falls back to a canonical printable
// representation; if that cannot be produced the tuples are treated
// as distinct.
func Equivalent(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valueEquivalent(a[i], b[i]) {
			return false
		}
	}
	return true
}

func valueEquivalent(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	ak, bk := normalKind(av.Kind()), normalKind(bv.Kind())
	if ak != bk {
		return false
	}

	switch ak {
	case reflect.Int64:
		return av.Int() == bv.Int()
	case reflect.Uint64:
		return av.Uint() == bv.Uint()
	case reflect.Float64:
		return av.Float() == bv.Float()
	case reflect.String:
		return av.String() == bv.String()
	case reflect.Bool:
		return av.Bool() == bv.Bool()
	case reflect.Slice, reflect.Array:
		if av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !valueEquivalent(av.Index(i).Interface(), bv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Map:
		if av.Len() != bv.Len() {
			return false
		}
		// Interface-keyed and typed-keyed maps cannot index into
		// each other; compare representations instead. Checked both
		// ways so the result does not depend on argument order.
		akt, bkt := av.Type().Key(), bv.Type().Key()
		if !akt.AssignableTo(bkt) || !bkt.AssignableTo(akt) {
			return reprEquivalent(a, b)
		}
		iter := av.MapRange()
		for iter.Next() {
			bval := bv.MapIndex(iter.Key())
			if !bval.IsValid() {
				return false
			}
			if !valueEquivalent(iter.Value().Interface(), bval.Interface()) {
				return false
			}
		}
		return true
	default:
		return reprEquivalent(a, b)
	}
}

func reprEquivalent(a, b any) bool {
	ar, ok := safeRepr(a)
	if !ok {
		return false
	}
	br, ok := safeRepr(b)
	if !ok {
		return false
	}
	return ar == br
}

// normalKind collapses scalar kinds so int/int8/... compare against
// each other, mirroring how the values package hands out typed
// scalars.
func normalKind(k reflect.Kind) reflect.Kind {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.Int64
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.Uint64
	case reflect.Float32, reflect.Float64:
		return reflect.Float64
	default:
		return k
	}
}

// safeRepr produces the canonical representation of a value,
// recovering from panicking String/GoString implementations.
func safeRepr(v any) (s string, ok bool) {
	defer func() {
		if recover() != nil {
			s, ok = "", false
		}
	}()
	return fmt.Sprintf("%#v", v), true
}

// Tuples tracks the input tuples already used for one callable.
// The zero value is ready to use. Not safe for concurrent use; the
// orchestrator is single-threaded by design.
type Tuples struct {
	used [][]any
}

// Seen reports whether a candidate is equivalent to any previously
// added tuple.
func (t *Tuples) Seen(candidate []any) bool {
	for _, u := range t.used {
		if Equivalent(candidate, u) {
			return true
		}
	}
	return false
}

// Add records a tuple as used. The caller should only add tuples
// that passed Seen; Add does not re-check.
func (t *Tuples) Add(tuple []any) {
	cp := make([]any, len(tuple))
	copy(cp, tuple)
	t.used = append(t.used, cp)
}

// Len returns the number of tuples recorded.
func (t *Tuples) Len() int { return len(t.used) }
