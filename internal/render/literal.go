package render

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/unbound-force/forge/internal/record"
	"github.com/unbound-force/forge/internal/target"
)

// literalTuple renders a case's inputs as argument expressions for
// a call to ft. skip is the receiver count already bound. Inputs
// shorter than the signature pad with typed zero values, matching
// how the engine invoked the call.
func (f *fileRenderer) literalTuple(inputs []any, ft reflect.Type, skip int) ([]string, bool) {
	n := ft.NumIn() - skip
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pt := ft.In(i + skip)
		if i >= len(inputs) || inputs[i] == nil {
			lit, ok := zeroLiteral(pt)
			if !ok {
				return nil, false
			}
			out = append(out, lit)
			continue
		}
		lit, ok := literal(inputs[i], false)
		if !ok {
			return nil, false
		}
		out = append(out, lit)
	}
	return out, true
}

// literals renders expected outputs. These sit in DeepEqual
// comparisons, so each carries its concrete type.
func (f *fileRenderer) literals(vs []any) ([]string, bool) {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		lit, ok := literal(v, true)
		if !ok {
			return nil, false
		}
		out = append(out, lit)
	}
	return out, true
}

// literal renders one value as Go source. typed forces an explicit
// conversion so the expression's type matches the recorded value
// exactly. Values with no source form (live instances, channels,
// structs with unexported fields) report false.
func literal(v any, typed bool) (string, bool) {
	if v == nil {
		return "nil", true
	}
	rv := reflect.ValueOf(v)
	t := rv.Type()

	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.String:
		return strconv.Quote(rv.String()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s := strconv.FormatInt(rv.Int(), 10)
		if typed && t.Kind() != reflect.Int {
			return fmt.Sprintf("%s(%s)", t.String(), s), true
		}
		return s, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s := strconv.FormatUint(rv.Uint(), 10)
		if typed {
			return fmt.Sprintf("%s(%s)", t.String(), s), true
		}
		return s, true
	case reflect.Float32, reflect.Float64:
		s := strconv.FormatFloat(rv.Float(), 'g', -1, 64)
		if typed {
			return fmt.Sprintf("%s(%s)", t.String(), s), true
		}
		return s, true
	case reflect.Slice, reflect.Array:
		elems := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, ok := literal(rv.Index(i).Interface(), false)
			if !ok {
				return "", false
			}
			elems = append(elems, e)
		}
		name, ok := typeName(t)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s{%s}", name, strings.Join(elems, ", ")), true
	case reflect.Map:
		type pair struct{ k, v string }
		pairs := make([]pair, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, ok := literal(iter.Key().Interface(), false)
			if !ok {
				return "", false
			}
			val, ok := literal(iter.Value().Interface(), false)
			if !ok {
				return "", false
			}
			pairs = append(pairs, pair{k, val})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })
		name, ok := typeName(t)
		if !ok {
			return "", false
		}
		body := make([]string, len(pairs))
		for i, p := range pairs {
			body[i] = p.k + ": " + p.v
		}
		return fmt.Sprintf("%s{%s}", name, strings.Join(body, ", ")), true
	case reflect.Struct:
		return structLiteral(rv)
	default:
		return "", false
	}
}

// structLiteral renders a struct value field by field. A struct
// with unexported fields has no out-of-package source form.
func structLiteral(rv reflect.Value) (string, bool) {
	t := rv.Type()
	name, ok := typeName(t)
	if !ok {
		return "", false
	}
	fields := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			return "", false
		}
		fv, ok := literal(rv.Field(i).Interface(), false)
		if !ok {
			return "", false
		}
		fields = append(fields, sf.Name+": "+fv)
	}
	return fmt.Sprintf("%s{%s}", name, strings.Join(fields, ", ")), true
}

// typeName renders a type reference the generated file can compile
// against: builtins, and named types from the target package (their
// reflect string is already pkg.Name).
func typeName(t reflect.Type) (string, bool) {
	s := t.String()
	if strings.ContainsAny(s, "*<") {
		return "", false
	}
	return s, true
}

func zeroLiteral(t reflect.Type) (string, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return "false", true
	case reflect.String:
		return `""`, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "0", true
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return "nil", true
	default:
		return "", false
	}
}

// funcName resolves a registered function value to its source
// identifier via the runtime.
func funcName(fn any) string {
	if fn == nil {
		return ""
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return ""
	}
	pc := runtime.FuncForPC(rv.Pointer())
	if pc == nil {
		return ""
	}
	full := pc.Name()
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(full, "."); i >= 0 {
		full = full[i+1:]
	}
	// Closures have no addressable name; the runtime calls them
	// funcN.
	if full == "" || isClosureName(full) {
		return ""
	}
	return full
}

func isClosureName(name string) bool {
	if !strings.HasPrefix(name, "func") {
		return false
	}
	rest := name[len("func"):]
	if rest == "" {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}

// isPanicKind reports whether an error kind was recorded from a
// panic rather than a returned error.
func isPanicKind(kind string) bool {
	return strings.HasPrefix(kind, "runtime error") || strings.HasPrefix(kind, "panic:")
}

// wouldError reports whether the function's last result is error.
func wouldError(ft reflect.Type) bool {
	n := ft.NumOut()
	return n > 0 && ft.Out(n-1) == reflect.TypeOf((*error)(nil)).Elem()
}

func resultCount(ft reflect.Type) int { return ft.NumOut() }

// discards builds "_, _, ..." for ignored results.
func discards(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "_"
	}
	return strings.Join(parts, ", ")
}

func gotName(i, n int) string {
	if n == 1 {
		return "got"
	}
	return fmt.Sprintf("got%d", i+1)
}

// setterReadBack reports whether member is a property setter whose
// paired getter exists on the class, returning the getter name.
func setterReadBack(cls *target.Class, member string, m reflect.Method) (string, bool) {
	if !strings.HasPrefix(member, "Set") || len(member) <= 3 {
		return "", false
	}
	getter := member[3:]
	if _, ok := reflect.PointerTo(cls.Type).MethodByName(getter); !ok {
		return "", false
	}
	outs := m.Type.NumOut()
	if outs > 1 || (outs == 1 && !wouldError(m.Type)) {
		return "", false
	}
	return getter, true
}

// memberOrder returns member keys with the constructor first and
// the rest alphabetical.
func memberOrder(members map[string][]record.ClassCase) []string {
	names := make([]string, 0, len(members))
	for name := range members {
		if name != record.ConstructorName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := members[record.ConstructorName]; ok {
		names = append([]string{record.ConstructorName}, names...)
	}
	return names
}
