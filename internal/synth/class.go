package synth

import (
	"fmt"
	"reflect"

	"github.com/unbound-force/forge/internal/equiv"
	"github.com/unbound-force/forge/internal/record"
	"github.com/unbound-force/forge/internal/runner"
	"github.com/unbound-force/forge/internal/surface"
	"github.com/unbound-force/forge/internal/target"
	"github.com/unbound-force/forge/internal/values"
)

// Class generates cases for every constructible member of a class.
// Constructor cases come first under record.ConstructorName. When
// no working instance can be built, each instance method and
// property gets one constructor-failure case and is otherwise
// skipped; factories and statics still run, since they need no
// instance.
func (s *Synthesizer) Class(cls *target.Class) map[string][]record.ClassCase {
	desc := s.an.Analyze(cls)
	out := make(map[string][]record.ClassCase)
	if desc.Err != "" {
		s.log.Warn("class analysis failed; no cases generated",
			"class", desc.Name, "err", desc.Err)
		return out
	}

	out[record.ConstructorName] = s.constructorCases(cls, desc)

	ctorInputs, failKind := s.workingInstance(cls, desc)

	for _, m := range desc.Methods {
		if failKind != "" {
			out[m.Name] = []record.ClassCase{{
				Class:      cls.Name,
				CtorInputs: ctorInputs,
				Member:     m.Name,
				Desc:       fmt.Sprintf("method %s - constructor fails with %s", m.Name, failKind),
				ErrKind:    failKind,
			}}
			continue
		}
		out[m.Name] = s.methodCases(cls, m, ctorInputs)
	}

	for _, f := range desc.Factories {
		out[f.Name] = s.assocCases(cls, f, "factory")
	}
	for _, st := range desc.Statics {
		out[st.Name] = s.assocCases(cls, st, "static")
	}

	for _, p := range desc.Properties {
		// Properties need an instance just like instance methods, so
		// they get the same constructor-failure case.
		if failKind != "" {
			fail := func(member string) record.ClassCase {
				return record.ClassCase{
					Class:      cls.Name,
					CtorInputs: ctorInputs,
					Member:     member,
					Desc:       fmt.Sprintf("property %s - constructor fails with %s", p.Name, failKind),
					ErrKind:    failKind,
				}
			}
			if p.HasGetter {
				out[p.Name] = []record.ClassCase{fail(p.Name)}
				if p.HasSetter {
					out["Set"+p.Name] = []record.ClassCase{fail("Set" + p.Name)}
				}
			}
			continue
		}
		if p.HasGetter {
			out[p.Name] = s.getterCases(cls, p, ctorInputs)
		}
		if p.HasSetter {
			if !p.HasGetter {
				s.log.Warn("setter without getter; no read-back possible, skipping",
					"class", cls.Name, "property", p.Name)
				continue
			}
			out["Set"+p.Name] = s.setterCases(cls, p, ctorInputs)
		}
	}

	return out
}

// constructorCases exercises the constructor itself. Success cases
// carry no outputs: the observable result is that construction
// completes. The zero-value fallback used when no constructor is
// registered always succeeds, so it yields a single case.
func (s *Synthesizer) constructorCases(cls *target.Class, desc *surface.Description) []record.ClassCase {
	ctorCase := func(inputs []any, d string, kind string) record.ClassCase {
		c := record.ClassCase{
			Class:      cls.Name,
			CtorInputs: inputs,
			Member:     record.ConstructorName,
			Desc:       d,
			ErrKind:    kind,
		}
		if kind != "" {
			c.Desc = fmt.Sprintf("%s (raises %s)", d, kind)
		}
		return c
	}

	if desc.Constructor == nil || len(desc.Constructor.Params) == 0 {
		out := s.construct(cls, nil)
		switch out.Disposition {
		case runner.Returned:
			return []record.ClassCase{ctorCase(nil, "constructor with no arguments", "")}
		case runner.Raised:
			return []record.ClassCase{ctorCase(nil, "constructor with no arguments", out.ErrKind)}
		default:
			s.log.Warn("constructor timed out; candidate discarded", "class", cls.Name)
			return nil
		}
	}

	var cases []record.ClassCase
	used := &equiv.Tuples{}
	s.sweep(desc.Constructor.Params, used, func(tuple []any, d string) {
		out := s.construct(cls, tuple)
		switch out.Disposition {
		case runner.Returned:
			cases = append(cases, ctorCase(tuple, "constructor with "+d, ""))
		case runner.Raised:
			cases = append(cases, ctorCase(tuple, "constructor with "+d, out.ErrKind))
		default:
			s.log.Warn("constructor timed out; candidate discarded", "class", cls.Name)
		}
	})
	return cases
}

// workingInstance finds constructor inputs that produce a usable
// instance: the no-argument path first, then synthesized arguments.
// On failure it returns the attempted inputs and the failure kind.
func (s *Synthesizer) workingInstance(cls *target.Class, desc *surface.Description) ([]any, string) {
	if out := s.construct(cls, nil); out.Disposition == runner.Returned {
		return nil, ""
	}

	if desc.Constructor == nil {
		// Zero-value construction cannot fail; reaching here means
		// the registered constructor shape is unusable.
		return nil, "invalid constructor"
	}

	inputs := make([]any, len(desc.Constructor.Params))
	for i, p := range desc.Constructor.Params {
		inputs[i] = s.vals.Random(p.Desc)
	}
	out := s.construct(cls, inputs)
	switch out.Disposition {
	case runner.Returned:
		return inputs, ""
	case runner.Raised:
		s.log.Warn("could not build working instance",
			"class", cls.Name, "kind", out.ErrKind)
		return inputs, out.ErrKind
	default:
		s.log.Warn("constructor timed out building working instance", "class", cls.Name)
		return inputs, "constructor timeout"
	}
}

// construct invokes the constructor (or the zero-value fallback)
// under the oracle runner. inputs nil means the no-argument path.
func (s *Synthesizer) construct(cls *target.Class, inputs []any) runner.Outcome {
	if !cls.HasConstructor() {
		if len(inputs) > 0 {
			return runner.Outcome{Disposition: runner.Raised, ErrKind: "no constructor"}
		}
		return runner.Outcome{
			Disposition: runner.Returned,
			Values:      []any{reflect.New(cls.Type).Interface()},
		}
	}
	ctor := cls.ConstructorValue()
	if inputs == nil && ctor.Type().NumIn() > 0 {
		return runner.Outcome{Disposition: runner.Raised, ErrKind: "missing constructor arguments"}
	}
	return s.call(ctor, inputs)
}

// instance builds a fresh addressable instance from recorded
// constructor inputs. Every method and property case calls this so
// no state leaks between cases.
func (s *Synthesizer) instance(cls *target.Class, ctorInputs []any) (reflect.Value, runner.Outcome) {
	out := s.construct(cls, ctorInputs)
	if out.Disposition != runner.Returned || len(out.Values) == 0 {
		return reflect.Value{}, out
	}

	v := reflect.ValueOf(out.Values[0])
	if v.Kind() != reflect.Pointer {
		p := reflect.New(cls.Type)
		coerced, err := values.Coerce(out.Values[0], cls.Type)
		if err != nil {
			return reflect.Value{}, runner.Outcome{Disposition: runner.Raised, ErrKind: "uncoercible instance"}
		}
		p.Elem().Set(coerced)
		v = p
	}
	return v, out
}

// methodCases runs the boundary-sweep-then-random algorithm for one
// instance method, constructing a fresh instance per candidate.
func (s *Synthesizer) methodCases(cls *target.Class, m surface.Method, ctorInputs []any) []record.ClassCase {
	var cases []record.ClassCase
	invoke := func(tuple []any, d string) {
		inst, ctorOut := s.instance(cls, ctorInputs)
		if ctorOut.Disposition != runner.Returned {
			s.log.Warn("per-case instance construction failed",
				"class", cls.Name, "method", m.Name, "kind", ctorOut.ErrKind)
			return
		}
		fn := inst.MethodByName(m.Name)
		if !fn.IsValid() {
			s.log.Warn("method not found on instance", "class", cls.Name, "method", m.Name)
			return
		}
		if c, ok := s.classCase(cls, m.Name, ctorInputs, tuple, d, s.call(fn, tuple)); ok {
			cases = append(cases, c)
		}
	}

	if len(m.Params) == 0 {
		invoke(nil, fmt.Sprintf("method %s with no arguments", m.Name))
		return cases
	}

	used := &equiv.Tuples{}
	s.sweep(m.Params, used, func(tuple []any, d string) {
		invoke(tuple, fmt.Sprintf("method %s with %s", m.Name, d))
	})
	return cases
}

// assocCases exercises a factory or static function through the
// class, no instance involved.
func (s *Synthesizer) assocCases(cls *target.Class, a surface.Assoc, kind string) []record.ClassCase {
	var cases []record.ClassCase
	invoke := func(tuple []any, d string) {
		if c, ok := s.classCase(cls, a.Name, nil, tuple, d, s.call(a.Fn, tuple)); ok {
			cases = append(cases, c)
		}
	}

	if len(a.Params) == 0 {
		invoke(nil, fmt.Sprintf("%s %s with no arguments", kind, a.Name))
		return cases
	}

	used := &equiv.Tuples{}
	s.sweep(a.Params, used, func(tuple []any, d string) {
		invoke(tuple, fmt.Sprintf("%s %s with %s", kind, a.Name, d))
	})
	return cases
}

// getterCases produces exactly one case per getter: there is
// nothing to sweep.
func (s *Synthesizer) getterCases(cls *target.Class, p surface.Property, ctorInputs []any) []record.ClassCase {
	inst, ctorOut := s.instance(cls, ctorInputs)
	if ctorOut.Disposition != runner.Returned {
		return nil
	}
	fn := inst.MethodByName(p.Name)
	if !fn.IsValid() {
		return nil
	}
	c, ok := s.classCase(cls, p.Name, ctorInputs, nil,
		fmt.Sprintf("property getter for %s", p.Name), s.call(fn, nil))
	if !ok {
		return nil
	}
	c.PropertyGet = true
	return []record.ClassCase{c}
}

// setterCases sweeps boundary then random values of the property's
// declared type. Each candidate writes through the setter on a
// fresh instance and reads back through the getter; the read-back
// value is the expected output, modeling the write/read round trip
// rather than the setter's own (empty) return.
func (s *Synthesizer) setterCases(cls *target.Class, p surface.Property, ctorInputs []any) []record.ClassCase {
	var cases []record.ClassCase
	used := &equiv.Tuples{}

	tryValue := func(v any) {
		tuple := []any{v}
		if used.Seen(tuple) {
			return
		}
		used.Add(tuple)

		inst, ctorOut := s.instance(cls, ctorInputs)
		if ctorOut.Disposition != runner.Returned {
			return
		}
		setter := inst.MethodByName("Set" + p.Name)
		getter := inst.MethodByName(p.Name)
		if !setter.IsValid() || !getter.IsValid() {
			return
		}

		desc := fmt.Sprintf("property setter for %s with value=%s", p.Name, formatValue(v))
		wrote := s.call(setter, tuple)
		if wrote.Disposition != runner.Returned {
			if c, ok := s.classCase(cls, "Set"+p.Name, ctorInputs, tuple, desc, wrote); ok {
				cases = append(cases, c)
			}
			return
		}

		read := s.call(getter, nil)
		if c, ok := s.classCase(cls, "Set"+p.Name, ctorInputs, tuple, desc, read); ok {
			cases = append(cases, c)
		}
	}

	for _, bv := range s.vals.Boundary(p.Desc) {
		tryValue(bv)
	}
	for i := 0; i < s.randomCases; i++ {
		tryValue(s.vals.Random(p.Desc))
	}
	return cases
}

// classCase converts one outcome into a ClassCase; timed-out
// candidates produce nothing.
func (s *Synthesizer) classCase(cls *target.Class, member string, ctorInputs, tuple []any, desc string, out runner.Outcome) (record.ClassCase, bool) {
	c := record.ClassCase{
		Class:      cls.Name,
		CtorInputs: ctorInputs,
		Member:     member,
		Inputs:     tuple,
		Desc:       desc,
	}
	switch out.Disposition {
	case runner.Returned:
		c.Outputs = out.Values
		return c, true
	case runner.Raised:
		c.ErrKind = out.ErrKind
		c.Desc = fmt.Sprintf("%s (raises %s)", desc, out.ErrKind)
		return c, true
	default:
		s.log.Warn("call timed out; candidate discarded",
			"class", cls.Name, "member", member)
		return record.ClassCase{}, false
	}
}
