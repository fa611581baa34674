package synth

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/unbound-force/forge/internal/record"
	"github.com/unbound-force/forge/internal/target"
)

type divError string

func (e divError) Error() string { return string(e) }

func double(x int) int { return 2 * x }

func halve(a, b float64) (float64, error) {
	if b == 0 {
		return 0, divError("division by zero")
	}
	return a / b, nil
}

func remainder(a, b int) int { return a % b }

func not(b bool) bool { return !b }

func newSynth(mod *target.Module) *Synthesizer {
	return New(mod, Options{Seed: 42})
}

func funcModule(name string, fn any) *target.Module {
	return target.NewModule("m", []target.Func{{Name: name, Fn: fn}}, nil)
}

func TestFunction_BoundarySweepOrder(t *testing.T) {
	s := newSynth(funcModule("Double", double))
	cases := s.Function(target.Func{Name: "Double", Fn: double})

	wantEdges := []string{
		"edge case arg0=0",
		"edge case arg0=1",
		"edge case arg0=-1",
		"edge case arg0=100",
		"edge case arg0=-100",
	}
	if len(cases) < len(wantEdges) {
		t.Fatalf("got %d cases, want at least %d", len(cases), len(wantEdges))
	}
	for i, want := range wantEdges {
		if cases[i].Desc != want {
			t.Errorf("case %d desc = %q, want %q", i, cases[i].Desc, want)
		}
	}
	for _, c := range cases[len(wantEdges):] {
		if !strings.HasPrefix(c.Desc, "inputs ") {
			t.Errorf("random case desc = %q, want inputs prefix", c.Desc)
		}
	}
}

func TestFunction_OracleRecordsOutputs(t *testing.T) {
	s := newSynth(funcModule("Double", double))
	cases := s.Function(target.Func{Name: "Double", Fn: double})

	for _, c := range cases {
		if c.ErrKind != "" {
			t.Fatalf("Double raised unexpectedly: %q", c.Desc)
		}
		in := c.Inputs[0].(int)
		if got := c.Outputs[0].(int); got != 2*in {
			t.Errorf("%s: output = %d, want %d", c.Desc, got, 2*in)
		}
	}
}

func TestFunction_ReturnedErrorBecomesKind(t *testing.T) {
	s := newSynth(funcModule("Halve", halve))
	cases := s.Function(target.Func{Name: "Halve", Fn: halve})

	var zeroDiv *record.TestCase
	for i := range cases {
		if cases[i].Inputs[1] == 0.0 {
			zeroDiv = &cases[i]
			break
		}
	}
	if zeroDiv == nil {
		t.Fatal("no case with divisor 0 generated")
	}
	if zeroDiv.ErrKind != "synth.divError" {
		t.Errorf("ErrKind = %q, want synth.divError", zeroDiv.ErrKind)
	}
	if len(zeroDiv.Outputs) != 0 {
		t.Errorf("error case carries outputs: %v", zeroDiv.Outputs)
	}
	if !strings.Contains(zeroDiv.Desc, "(raises synth.divError)") {
		t.Errorf("Desc = %q, want raises suffix", zeroDiv.Desc)
	}
}

func TestFunction_PanicBecomesRuntimeKind(t *testing.T) {
	s := newSynth(funcModule("Remainder", remainder))
	cases := s.Function(target.Func{Name: "Remainder", Fn: remainder})

	found := false
	for _, c := range cases {
		if c.Inputs[1] == 0 {
			found = true
			if c.ErrKind != "runtime error: integer divide by zero" {
				t.Errorf("ErrKind = %q, want divide-by-zero runtime error", c.ErrKind)
			}
		}
	}
	if !found {
		t.Fatal("no case with divisor 0 generated")
	}
}

func TestFunction_DeduplicatesEquivalentTuples(t *testing.T) {
	s := newSynth(funcModule("Not", not))
	cases := s.Function(target.Func{Name: "Not", Fn: not})

	// Every random bool repeats a boundary value, so exactly the
	// two boundary cases survive.
	if len(cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(cases))
	}
	if cases[0].Inputs[0] != true || cases[1].Inputs[0] != false {
		t.Errorf("inputs = %v, %v; want true then false", cases[0].Inputs[0], cases[1].Inputs[0])
	}
}

func TestFunction_NoArguments(t *testing.T) {
	answer := func() int { return 41 }
	s := newSynth(funcModule("Answer", answer))
	cases := s.Function(target.Func{Name: "Answer", Fn: answer})

	if len(cases) != 1 {
		t.Fatalf("got %d cases, want 1", len(cases))
	}
	if cases[0].Desc != "no arguments" || cases[0].Outputs[0] != 41 {
		t.Errorf("case = %+v", cases[0])
	}
}

type tank struct {
	level int
	label string
}

func newTank(level int) *tank { return &tank{level: level} }

func emptyTank() *tank { return &tank{} }

func maxLevel() int { return 1000 }

func (tk *tank) Fill(n int) int {
	tk.level += n
	return tk.level
}

func (tk *tank) Level() int        { return tk.level }
func (tk *tank) SetLevel(n int)    { tk.level = n }
func (tk *tank) Label() string     { return tk.label }
func (tk *tank) SetLabel(s string) { tk.label = s }

func tankClass() *target.Class {
	return &target.Class{
		Name:       "Tank",
		Type:       reflect.TypeOf(tank{}),
		New:        newTank,
		ParamNames: []string{"level"},
		Assoc: []target.Assoc{
			{Name: "Empty", Fn: emptyTank},
			{Name: "MaxLevel", Fn: maxLevel},
		},
	}
}

func tankCases(t *testing.T) map[string][]record.ClassCase {
	t.Helper()
	cls := tankClass()
	mod := target.NewModule("m", nil, []*target.Class{cls})
	return newSynth(mod).Class(cls)
}

func TestClass_ConstructorSweep(t *testing.T) {
	out := tankCases(t)
	ctor := out[record.ConstructorName]
	if len(ctor) < 5 {
		t.Fatalf("got %d constructor cases, want at least 5", len(ctor))
	}
	if !strings.HasPrefix(ctor[0].Desc, "constructor with edge case level=0") {
		t.Errorf("first desc = %q", ctor[0].Desc)
	}
	for _, c := range ctor {
		if c.Member != record.ConstructorName || !c.IsConstructor() {
			t.Errorf("constructor case keyed as %q", c.Member)
		}
		if c.ErrKind != "" {
			t.Errorf("constructor raised unexpectedly: %q", c.Desc)
		}
	}
}

func TestClass_MethodUsesFreshInstance(t *testing.T) {
	out := tankCases(t)
	cases := out["Fill"]
	if len(cases) == 0 {
		t.Fatal("no Fill cases generated")
	}
	// Fill mutates the instance. With a fresh instance per case the
	// result is always ctor level plus the argument; accumulation
	// across cases would break this.
	for _, c := range cases {
		start := c.CtorInputs[0].(int)
		arg := c.Inputs[0].(int)
		if got := c.Outputs[0].(int); got != start+arg {
			t.Errorf("%s: output = %d, want %d", c.Desc, got, start+arg)
		}
	}
}

func TestClass_FactoryAndStatic(t *testing.T) {
	out := tankCases(t)

	fac := out["Empty"]
	if len(fac) != 1 {
		t.Fatalf("got %d Empty cases, want 1", len(fac))
	}
	if fac[0].Desc != "factory Empty with no arguments" {
		t.Errorf("factory desc = %q", fac[0].Desc)
	}
	if len(fac[0].CtorInputs) != 0 {
		t.Errorf("factory case carries ctor inputs: %v", fac[0].CtorInputs)
	}

	st := out["MaxLevel"]
	if len(st) != 1 || st[0].Desc != "static MaxLevel with no arguments" {
		t.Fatalf("static cases = %+v", st)
	}
	if st[0].Outputs[0] != 1000 {
		t.Errorf("static output = %v, want 1000", st[0].Outputs[0])
	}
}

func TestClass_PropertyRoundTrip(t *testing.T) {
	out := tankCases(t)

	get := out["Level"]
	if len(get) != 1 || !get[0].PropertyGet {
		t.Fatalf("getter cases = %+v", get)
	}
	if got := get[0].Outputs[0].(int); got != get[0].CtorInputs[0].(int) {
		t.Errorf("getter output = %d, want ctor level %d", got, get[0].CtorInputs[0])
	}

	set := out["SetLevel"]
	if len(set) < 5 {
		t.Fatalf("got %d setter cases, want at least 5", len(set))
	}
	for _, c := range set {
		if c.ErrKind != "" {
			t.Fatalf("setter raised unexpectedly: %q", c.Desc)
		}
		// Expected output is the value read back through the getter.
		if !reflect.DeepEqual(c.Outputs, []any{c.Inputs[0]}) {
			t.Errorf("%s: read-back = %v, want %v", c.Desc, c.Outputs, c.Inputs)
		}
	}
	if want := fmt.Sprintf("property setter for Level with value=%d", 0); set[0].Desc != want {
		t.Errorf("first setter desc = %q, want %q", set[0].Desc, want)
	}
}

type brittleError string

func (e brittleError) Error() string { return string(e) }

type brittle struct{ n int }

func newBrittle(n int) (*brittle, error) {
	return nil, brittleError("always fails")
}

func brittleLimit() int { return 7 }

func (b *brittle) Ping() string  { return "pong" }
func (b *brittle) Size() int     { return b.n }
func (b *brittle) SetSize(n int) { b.n = n }

func TestClass_ConstructorFailure(t *testing.T) {
	cls := &target.Class{
		Name:       "Brittle",
		Type:       reflect.TypeOf(brittle{}),
		New:        newBrittle,
		ParamNames: []string{"n"},
		Assoc:      []target.Assoc{{Name: "Limit", Fn: brittleLimit}},
	}
	mod := target.NewModule("m", nil, []*target.Class{cls})
	out := newSynth(mod).Class(cls)

	for _, c := range out[record.ConstructorName] {
		if c.ErrKind != "synth.brittleError" {
			t.Errorf("constructor ErrKind = %q, want synth.brittleError", c.ErrKind)
		}
	}

	ping := out["Ping"]
	if len(ping) != 1 {
		t.Fatalf("got %d Ping cases, want 1", len(ping))
	}
	if ping[0].ErrKind != "synth.brittleError" {
		t.Errorf("Ping ErrKind = %q, want synth.brittleError", ping[0].ErrKind)
	}
	if !strings.Contains(ping[0].Desc, "constructor fails with") {
		t.Errorf("Ping desc = %q", ping[0].Desc)
	}

	// Statics need no instance and still run.
	if st := out["Limit"]; len(st) != 1 || st[0].Outputs[0] != 7 {
		t.Errorf("Limit cases = %+v", st)
	}

	// Properties need an instance too, so each half records the
	// constructor failure instead of vanishing from the output.
	for _, member := range []string{"Size", "SetSize"} {
		cs := out[member]
		if len(cs) != 1 {
			t.Fatalf("got %d %s cases, want 1", len(cs), member)
		}
		if cs[0].ErrKind != "synth.brittleError" {
			t.Errorf("%s ErrKind = %q, want synth.brittleError", member, cs[0].ErrKind)
		}
		if !strings.Contains(cs[0].Desc, "constructor fails with") {
			t.Errorf("%s desc = %q", member, cs[0].Desc)
		}
		if len(cs[0].Outputs) != 0 {
			t.Errorf("%s outputs = %v, want none", member, cs[0].Outputs)
		}
	}
}

type plain struct{ hits int }

func (p *plain) Touch() int {
	p.hits++
	return p.hits
}

func TestClass_ZeroValueFallback(t *testing.T) {
	cls := &target.Class{Name: "Plain", Type: reflect.TypeOf(plain{})}
	mod := target.NewModule("m", nil, []*target.Class{cls})
	out := newSynth(mod).Class(cls)

	ctor := out[record.ConstructorName]
	if len(ctor) != 1 || ctor[0].ErrKind != "" {
		t.Fatalf("constructor cases = %+v", ctor)
	}
	if ctor[0].Desc != "constructor with no arguments" {
		t.Errorf("desc = %q", ctor[0].Desc)
	}
	touch := out["Touch"]
	if len(touch) != 1 || touch[0].Outputs[0] != 1 {
		t.Fatalf("Touch cases = %+v", touch)
	}
}

func TestRun_PreservesRegistrationOrder(t *testing.T) {
	cls := tankClass()
	mod := target.NewModule("plant", []target.Func{
		{Name: "Double", Fn: double},
		{Name: "Not", Fn: not},
	}, []*target.Class{cls})

	var visited []string
	res := newSynth(mod).Run(func(name string) { visited = append(visited, name) })

	if res.Module != "plant" {
		t.Errorf("Module = %q, want plant", res.Module)
	}
	if !reflect.DeepEqual(res.FuncOrder, []string{"Double", "Not"}) {
		t.Errorf("FuncOrder = %v", res.FuncOrder)
	}
	if !reflect.DeepEqual(res.ClassOrder, []string{"Tank"}) {
		t.Errorf("ClassOrder = %v", res.ClassOrder)
	}
	if !reflect.DeepEqual(visited, []string{"Double", "Not", "Tank"}) {
		t.Errorf("progress calls = %v", visited)
	}
	if len(res.FuncCases["Double"]) == 0 || len(res.ClassCases["Tank"]) == 0 {
		t.Error("expected cases for every registered callable")
	}
}
