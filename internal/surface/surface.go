// Package surface analyzes a registered class into a normalized
// description of its constructible members: constructor, instance
// methods, factories, statics, properties, and special interface
// methods, each attributed to the ancestor that contributes it.
package surface

import (
	"fmt"
	"io"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/unbound-force/forge/internal/descriptor"
	"github.com/unbound-force/forge/internal/target"
)

// Param is one declared parameter of a member.
type Param struct {
	Name string
	Desc descriptor.Descriptor
}

// Constructor describes the registered constructor.
type Constructor struct {
	Params    []Param
	DefinedIn string
}

// Method describes one instance method, resolved on a fresh
// instance at invocation time.
type Method struct {
	Name      string
	Params    []Param
	DefinedIn string
}

// Assoc describes a factory or static function invoked without an
// instance.
type Assoc struct {
	Name      string
	Fn        reflect.Value
	Params    []Param
	DefinedIn string
}

// Property describes a getter/setter pair detected by the Go
// accessor convention: X() T paired with SetX(T). A setter without
// a getter is recorded setter-only; a lone no-argument method stays
// an ordinary method, which the synthesizer exercises identically
// to a getter.
type Property struct {
	Name      string
	HasGetter bool
	HasSetter bool
	Desc      descriptor.Descriptor
	DefinedIn string
}

// Description is the normalized analysis output for one class. A
// member name appears in exactly one bucket, attributed to the
// most-derived class that exposes it. Buckets are ordered slices so
// downstream output is deterministic.
type Description struct {
	Name        string
	Bases       []string
	Constructor *Constructor
	Methods     []Method
	Factories   []Assoc
	Statics     []Assoc
	Properties  []Property

	// Special lists well-known interface methods (String, Error,
	// MarshalJSON, ...) recorded but never exercised.
	Special []Method

	// Err marks a class that could not be analyzed at all; the rest
	// of the description is minimal.
	Err string
}

// specialMethods are recorded but not exercised: they implement
// well-known interface contracts rather than class behavior.
var specialMethods = map[string]bool{
	"String":          true,
	"GoString":        true,
	"Error":           true,
	"Format":          true,
	"MarshalJSON":     true,
	"UnmarshalJSON":   true,
	"MarshalText":     true,
	"UnmarshalText":   true,
	"MarshalBinary":   true,
	"UnmarshalBinary": true,
}

// Analyzer walks class structures against one module.
type Analyzer struct {
	mod *target.Module
	log *log.Logger
}

// NewAnalyzer returns an analyzer. A nil logger discards analysis
// warnings.
func NewAnalyzer(mod *target.Module, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Analyzer{mod: mod, log: logger}
}

// Analyze produces the class description. A fault analyzing one
// member or one ancestor is logged and that member omitted; only a
// class that cannot be analyzed at all yields a minimal description
// with Err set. Analyze never panics.
func (a *Analyzer) Analyze(cls *target.Class) *Description {
	if cls == nil {
		return &Description{Name: "Unknown", Err: "nil class"}
	}
	d := &Description{Name: cls.Name}
	if cls.Type == nil || cls.Type.Kind() != reflect.Struct {
		d.Err = "class type is not a struct"
		return d
	}

	chain := linearize(cls.Type)
	d.Bases = a.baseNames(cls.Type)

	if cls.HasConstructor() {
		a.analyzeConstructor(cls, d)
	}

	processed := map[string]bool{}

	// First pass: associated functions declared on each class in
	// the chain. These never promote through embedding, so they
	// must be read off each class's own registration rather than
	// the derived method set.
	for _, t := range chain {
		rc := a.mod.ClassFor(t)
		if rc == nil {
			continue
		}
		for _, as := range rc.Assoc {
			if processed[as.Name] {
				continue
			}
			processed[as.Name] = true
			a.analyzeAssoc(t, rc, as, d)
		}
	}

	// Second pass: the method set of each class in the chain,
	// most-derived first. Promoted methods appear on the derived
	// type and are attributed there; an ancestor pass only picks up
	// members the derived set does not expose (for example methods
	// dropped from the derived set by ambiguous promotion).
	for _, t := range chain {
		a.analyzeMethodSet(t, processed, d)
	}

	return d
}

// analyzeConstructor records the constructor descriptor. A
// malformed registration is logged and the constructor omitted.
func (a *Analyzer) analyzeConstructor(cls *target.Class, d *Description) {
	defer a.recoverMember(cls.Name, "constructor")

	ft := cls.ConstructorValue().Type()
	if ft.Kind() != reflect.Func {
		a.log.Warn("constructor is not a function", "class", cls.Name)
		return
	}
	params := make([]Param, 0, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		params = append(params, Param{
			Name: cls.ParamName(i),
			Desc: descriptor.FromType(ft.In(i), a.mod),
		})
	}
	d.Constructor = &Constructor{Params: params, DefinedIn: cls.Name}
}

// analyzeAssoc classifies one associated function as a factory
// (its results include the defining class's type) or a static.
func (a *Analyzer) analyzeAssoc(t reflect.Type, rc *target.Class, as target.Assoc, d *Description) {
	defer a.recoverMember(rc.Name, as.Name)

	fn := reflect.ValueOf(as.Fn)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		a.log.Warn("associated function is not a function", "class", rc.Name, "member", as.Name)
		return
	}
	entry := Assoc{
		Name:      as.Name,
		Fn:        fn,
		Params:    a.params(fn.Type(), 0),
		DefinedIn: rc.Name,
	}
	if producesType(fn.Type(), t) {
		d.Factories = append(d.Factories, entry)
	} else {
		d.Statics = append(d.Statics, entry)
	}
}

// analyzeMethodSet records every not-yet-processed member of one
// chain type's pointer method set.
func (a *Analyzer) analyzeMethodSet(t reflect.Type, processed map[string]bool, d *Description) {
	definedIn := a.className(t)
	pt := reflect.PointerTo(t)

	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if processed[m.Name] {
			continue
		}

		func() {
			defer a.recoverMember(definedIn, m.Name)

			if specialMethods[m.Name] {
				processed[m.Name] = true
				d.Special = append(d.Special, Method{Name: m.Name, DefinedIn: definedIn})
				return
			}

			if prop, ok := a.pairProperty(pt, m, definedIn); ok {
				if prop.HasGetter {
					processed[prop.getter] = true
				}
				processed[prop.setter] = true
				d.Properties = append(d.Properties, prop.Property)
				return
			}

			processed[m.Name] = true
			d.Methods = append(d.Methods, Method{
				Name:      m.Name,
				Params:    a.params(m.Func.Type(), 1),
				DefinedIn: definedIn,
			})
		}()
	}
}

type pairedProperty struct {
	Property
	getter, setter string
}

// pairProperty detects the accessor convention around method m:
// either m is a getter X with a matching SetX, or m is a setter
// SetX (with or without a getter).
func (a *Analyzer) pairProperty(pt reflect.Type, m reflect.Method, definedIn string) (pairedProperty, bool) {
	if name, ok := setterTarget(m.Name); ok && isSetterShape(m.Func.Type()) {
		p := pairedProperty{
			Property: Property{
				Name:      name,
				HasSetter: true,
				Desc:      descriptor.FromType(m.Func.Type().In(1), a.mod),
				DefinedIn: definedIn,
			},
			getter: name,
			setter: m.Name,
		}
		if g, ok := pt.MethodByName(name); ok && isGetterShape(g.Func.Type()) {
			p.HasGetter = true
			p.Desc = descriptor.FromType(g.Func.Type().Out(0), a.mod)
		}
		return p, true
	}

	if isGetterShape(m.Func.Type()) {
		setName := "Set" + m.Name
		if s, ok := pt.MethodByName(setName); ok && isSetterShape(s.Func.Type()) {
			return pairedProperty{
				Property: Property{
					Name:      m.Name,
					HasGetter: true,
					HasSetter: true,
					Desc:      descriptor.FromType(m.Func.Type().Out(0), a.mod),
					DefinedIn: definedIn,
				},
				getter: m.Name,
				setter: setName,
			}, true
		}
	}

	return pairedProperty{}, false
}

func (a *Analyzer) params(ft reflect.Type, skip int) []Param {
	return FuncParams(a.mod, ft, skip)
}

// FuncParams builds positional parameters for a function type,
// skipping the first skip inputs (used to drop bound receivers).
func FuncParams(mod *target.Module, ft reflect.Type, skip int) []Param {
	descs := descriptor.Params(ft, skip, mod)
	params := make([]Param, len(descs))
	for i := range descs {
		params[i] = Param{Name: argName(i), Desc: descs[i]}
	}
	return params
}

// className prefers the registered class name over the reflect
// type name for attribution.
func (a *Analyzer) className(t reflect.Type) string {
	if rc := a.mod.ClassFor(t); rc != nil {
		return rc.Name
	}
	return t.Name()
}

// baseNames lists the direct embedded struct types.
func (a *Analyzer) baseNames(t reflect.Type) []string {
	var bases []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			bases = append(bases, a.className(ft))
		}
	}
	return bases
}

// recoverMember absorbs a fault analyzing one member: the member is
// omitted and a warning logged, never an abort.
func (a *Analyzer) recoverMember(class, member string) {
	if p := recover(); p != nil {
		a.log.Warn("skipping member after analysis fault",
			"class", class, "member", member, "fault", p)
	}
}

// linearize returns the embedding chain depth-first, most-derived
// first, visiting each struct type once.
func linearize(t reflect.Type) []reflect.Type {
	var chain []reflect.Type
	seen := map[reflect.Type]bool{}

	var walk func(reflect.Type)
	walk = func(t reflect.Type) {
		if seen[t] {
			return
		}
		seen[t] = true
		chain = append(chain, t)
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				walk(ft)
			}
		}
	}
	walk(t)
	return chain
}

// producesType reports whether a function's results include the
// given struct type, by value or pointer.
func producesType(ft reflect.Type, t reflect.Type) bool {
	for i := 0; i < ft.NumOut(); i++ {
		out := ft.Out(i)
		if out == t {
			return true
		}
		if out.Kind() == reflect.Pointer && out.Elem() == t {
			return true
		}
	}
	return false
}

// setterTarget extracts the property name from a setter method
// name: "SetBalance" yields "Balance".
func setterTarget(name string) (string, bool) {
	if len(name) > 3 && name[:3] == "Set" && name[3] >= 'A' && name[3] <= 'Z' {
		return name[3:], true
	}
	return "", false
}

// isGetterShape matches X() T: receiver only in, one non-error out.
func isGetterShape(ft reflect.Type) bool {
	return ft.NumIn() == 1 && ft.NumOut() == 1 && ft.Out(0) != errTyp
}

// isSetterShape matches SetX(T): receiver plus one in, no outs or a
// single error.
func isSetterShape(ft reflect.Type) bool {
	if ft.NumIn() != 2 {
		return false
	}
	switch ft.NumOut() {
	case 0:
		return true
	case 1:
		return ft.Out(0) == errTyp
	}
	return false
}

var errTyp = reflect.TypeOf((*error)(nil)).Elem()

func argName(i int) string {
	return fmt.Sprintf("arg%d", i)
}
