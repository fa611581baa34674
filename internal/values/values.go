// Package values synthesizes candidate input values for declared
// types: a bounded set of boundary values probing edge conditions,
// and random values drawn from wide uniform ranges. Unsupported
// types degrade to nil instead of failing.
package values

import (
	"math/rand"
	"reflect"
	"strings"

	"github.com/unbound-force/forge/internal/descriptor"
	"github.com/unbound-force/forge/internal/target"
)

// Random-value ranges. Scalars use the wide range; collection
// elements use the small one.
const (
	scalarMin = -1000
	scalarMax = 1000
	elemMin   = -100
	elemMax   = 100

	maxRandomString = 20
	maxCollection   = 5
)

const (
	alnum     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Synthesizer produces candidate values for one module's declared
// types. It is pure apart from the seeded random source, so a fixed
// seed gives a deterministic sweep.
type Synthesizer struct {
	mod *target.Module
	rnd *rand.Rand
}

// New returns a synthesizer for a module over a seeded source.
func New(mod *target.Module, seed int64) *Synthesizer {
	return &Synthesizer{mod: mod, rnd: rand.New(rand.NewSource(seed))}
}

// Boundary returns the finite ordered boundary set for a descriptor.
// Class and Unknown descriptors yield a single nil, so a sweep still
// proposes one candidate for them.
func (s *Synthesizer) Boundary(d descriptor.Descriptor) []any {
	switch d.Kind {
	case descriptor.Int:
		return []any{0, 1, -1, 100, -100}
	case descriptor.Float:
		return []any{0.0, 1.0, -1.0, 100.0, -100.0}
	case descriptor.String:
		return []any{"", "a", " ", "abc", strings.Repeat("A", 100)}
	case descriptor.Bool:
		return []any{true, false}
	case descriptor.Slice:
		return []any{
			literalSlice(d),
			literalSlice(d, canonical(*d.Elem, 0)),
			literalSlice(d, canonical(*d.Elem, 0), canonical(*d.Elem, 1), canonical(*d.Elem, 2)),
		}
	case descriptor.Map:
		return []any{
			literalMap(d, 0),
			literalMap(d, 1),
			literalMap(d, 2),
		}
	default:
		return []any{nil}
	}
}

// Random returns one random value of the descriptor's type. Class
// descriptors recurse into the referenced class's constructor;
// nested class parameters inside that recursion degrade to nil so
// self-referential constructors terminate.
func (s *Synthesizer) Random(d descriptor.Descriptor) any {
	return s.random(d, true, false)
}

func (s *Synthesizer) random(d descriptor.Descriptor, allowClass, small bool) any {
	switch d.Kind {
	case descriptor.Int:
		lo, hi := scalarMin, scalarMax
		if small {
			lo, hi = elemMin, elemMax
		}
		return lo + s.rnd.Intn(hi-lo+1)
	case descriptor.Float:
		lo, hi := float64(scalarMin), float64(scalarMax)
		if small {
			lo, hi = float64(elemMin), float64(elemMax)
		}
		return lo + s.rnd.Float64()*(hi-lo)
	case descriptor.String:
		if small {
			return s.randomString(1, maxCollection, lowercase)
		}
		return s.randomString(0, maxRandomString, alnum)
	case descriptor.Bool:
		return s.rnd.Intn(2) == 0
	case descriptor.Slice:
		n := s.rnd.Intn(maxCollection + 1)
		elems := make([]any, n)
		for i := range elems {
			elems[i] = s.random(*d.Elem, false, true)
		}
		return literalSlice(d, elems...)
	case descriptor.Map:
		n := s.rnd.Intn(maxCollection + 1)
		pairs := make([][2]any, n)
		for i := range pairs {
			pairs[i] = [2]any{
				s.randomKey(*d.Key),
				s.random(*d.Elem, false, true),
			}
		}
		return literalMapPairs(d, pairs)
	case descriptor.Class:
		if !allowClass {
			return nil
		}
		return s.construct(d.Ref)
	default:
		return nil
	}
}

// randomKey produces short lowercase strings for string keys and
// small values for everything else, so random maps stay readable in
// case descriptions.
func (s *Synthesizer) randomKey(d descriptor.Descriptor) any {
	if d.Kind == descriptor.String {
		return s.randomString(1, maxCollection, lowercase)
	}
	return s.random(d, false, true)
}

func (s *Synthesizer) randomString(minLen, maxLen int, chars string) string {
	n := minLen + s.rnd.Intn(maxLen-minLen+1)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(chars[s.rnd.Intn(len(chars))])
	}
	return b.String()
}

// construct builds an instance of a registered class by calling its
// constructor with randomly synthesized arguments. Any fault — a
// missing type, argument coercion, a panicking or erroring
// constructor — yields nil rather than propagating, per the
// value-synthesis failure policy.
func (s *Synthesizer) construct(cls *target.Class) (out any) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	if cls == nil || cls.Type == nil {
		return nil
	}
	if !cls.HasConstructor() {
		return reflect.New(cls.Type).Interface()
	}

	ctor := cls.ConstructorValue()
	ft := ctor.Type()
	if ft.Kind() != reflect.Func || ft.IsVariadic() {
		return nil
	}

	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		pd := descriptor.FromType(ft.In(i), s.mod)
		v, err := Coerce(s.random(pd, false, false), ft.In(i))
		if err != nil {
			return nil
		}
		args[i] = v
	}

	results := ctor.Call(args)
	if len(results) == 0 {
		return nil
	}
	last := results[len(results)-1]
	if last.Type() == errType && !last.IsNil() {
		return nil
	}
	return results[0].Interface()
}

// canonical returns the i-th canonical element value for collection
// literals: 1, 2, 3 for numbers, "a", "b", "c" for strings. These
// are fixed so boundary collections are identical across runs.
func canonical(d descriptor.Descriptor, i int) any {
	switch d.Kind {
	case descriptor.Int:
		return i + 1
	case descriptor.Float:
		return float64(i + 1)
	case descriptor.String:
		return string(rune('a' + i))
	case descriptor.Bool:
		return i%2 == 0
	default:
		return nil
	}
}

// literalSlice builds a slice of the descriptor's declared type from
// the given element values. Falls back to []any when the declared
// type is unavailable or an element cannot be coerced.
func literalSlice(d descriptor.Descriptor, elems ...any) any {
	t := d.Type
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Slice {
		out := make([]any, len(elems))
		copy(out, elems)
		return out
	}
	sl := reflect.MakeSlice(t, 0, len(elems))
	for _, e := range elems {
		ev, err := Coerce(e, t.Elem())
		if err != nil {
			out := make([]any, len(elems))
			copy(out, elems)
			return out
		}
		sl = reflect.Append(sl, ev)
	}
	return sl.Interface()
}

// literalMap builds a map literal with n canonical pairs.
func literalMap(d descriptor.Descriptor, n int) any {
	pairs := make([][2]any, n)
	for i := range pairs {
		pairs[i] = [2]any{canonical(*d.Key, i), canonical(*d.Elem, i)}
	}
	return literalMapPairs(d, pairs)
}

func literalMapPairs(d descriptor.Descriptor, pairs [][2]any) any {
	t := d.Type
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Map {
		out := make(map[any]any, len(pairs))
		for _, p := range pairs {
			out[p[0]] = p[1]
		}
		return out
	}
	m := reflect.MakeMapWithSize(t, len(pairs))
	for _, p := range pairs {
		kv, kerr := Coerce(p[0], t.Key())
		vv, verr := Coerce(p[1], t.Elem())
		if kerr != nil || verr != nil {
			continue
		}
		m.SetMapIndex(kv, vv)
	}
	return m.Interface()
}
