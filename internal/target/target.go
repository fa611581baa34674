// Package target defines the registration model for the synthesis
// engine: the callables and struct types a caller hands over for
// test-case generation. It is the engine's input boundary; the
// engine performs no file I/O and never loads code itself.
package target

import (
	"fmt"
	"reflect"
)

// Func is a registered free function.
type Func struct {
	// Name is the callable name used to key generated cases.
	Name string

	// Fn is the function value. Must have reflect.Kind Func.
	Fn any
}

// Value returns the reflect value of the registered function.
func (f Func) Value() reflect.Value {
	return reflect.ValueOf(f.Fn)
}

// Assoc is a function associated with a class but invoked without an
// instance: a factory (its results include the class type) or a
// plain static helper.
type Assoc struct {
	Name string
	Fn   any
}

// Class registers a struct type for synthesis.
type Class struct {
	// Name is the class name used to key generated cases.
	Name string

	// Type is the struct type. Methods are discovered on *Type.
	Type reflect.Type

	// New is the constructor function, or nil when the zero value
	// is the only way to build an instance. Supported shapes:
	// func(...) T, func(...) *T, and either with a trailing error.
	New any

	// ParamNames optionally names the constructor parameters for
	// case descriptions. Positions without a name fall back to
	// "argN". Go reflection carries no parameter names, so this is
	// the only way descriptions get real ones.
	ParamNames []string

	// Assoc lists functions invoked through the class without an
	// instance, in registration order.
	Assoc []Assoc
}

// HasConstructor reports whether a constructor function was
// registered.
func (c *Class) HasConstructor() bool {
	return c != nil && c.New != nil
}

// ConstructorValue returns the reflect value of the constructor.
// Callers must check HasConstructor first.
func (c *Class) ConstructorValue() reflect.Value {
	return reflect.ValueOf(c.New)
}

// ParamName returns the registered name for constructor parameter i,
// or "argN" when none was supplied.
func (c *Class) ParamName(i int) string {
	if c != nil && i < len(c.ParamNames) && c.ParamNames[i] != "" {
		return c.ParamNames[i]
	}
	return fmt.Sprintf("arg%d", i)
}

// Module is an ordered namespace of registered callables, the unit
// the orchestrator consumes. Order is preserved so generated output
// is stable across runs.
type Module struct {
	Name    string
	Funcs   []Func
	Classes []*Class

	byType map[reflect.Type]*Class
}

// NewModule builds a module and indexes its classes by struct type
// so embedded registered classes resolve during structure analysis.
func NewModule(name string, funcs []Func, classes []*Class) *Module {
	m := &Module{
		Name:    name,
		Funcs:   funcs,
		Classes: classes,
		byType:  make(map[reflect.Type]*Class, len(classes)),
	}
	for _, c := range classes {
		if c != nil && c.Type != nil {
			m.byType[c.Type] = c
		}
	}
	return m
}

// ClassFor returns the registered class for a struct type, or nil.
// Pointer types resolve to their element.
func (m *Module) ClassFor(t reflect.Type) *Class {
	if m == nil || t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return m.byType[t]
}

// ClassNamed returns the registered class with the given name, or nil.
func (m *Module) ClassNamed(name string) *Class {
	if m == nil {
		return nil
	}
	for _, c := range m.Classes {
		if c != nil && c.Name == name {
			return c
		}
	}
	return nil
}
