package surface

import (
	"reflect"
	"testing"

	"github.com/unbound-force/forge/internal/descriptor"
	"github.com/unbound-force/forge/internal/target"
)

type engine struct {
	power int
}

func newEngine(power int) *engine { return &engine{power: power} }

func (e *engine) Power() int        { return e.power }
func (e *engine) SetPower(p int)    { e.power = p }
func (e *engine) Ignite() bool      { return e.power > 0 }
func (e *engine) String() string    { return "engine" }
func (e *engine) MarshalText() ([]byte, error) {
	return []byte("engine"), nil
}

type car struct {
	engine
	wheels int
	label  string
}

func newCar(power, wheels int) *car {
	return &car{engine: engine{power: power}, wheels: wheels}
}

func openCar() (*car, error) { return newCar(1, 4), nil }

func maxWheels() int { return 8 }

func (c *car) Wheels() int            { return c.wheels }
func (c *car) Honk(times int) string  { return "honk" }
func (c *car) SetLabel(l string) error {
	c.label = l
	return nil
}

func testModule() *target.Module {
	return target.NewModule("garage", nil, []*target.Class{
		{
			Name:       "Engine",
			Type:       reflect.TypeOf(engine{}),
			New:        newEngine,
			ParamNames: []string{"power"},
		},
		{
			Name:       "Car",
			Type:       reflect.TypeOf(car{}),
			New:        newCar,
			ParamNames: []string{"power", "wheels"},
			Assoc: []target.Assoc{
				{Name: "Open", Fn: openCar},
				{Name: "MaxWheels", Fn: maxWheels},
			},
		},
	})
}

func analyzeNamed(t *testing.T, name string) *Description {
	t.Helper()
	mod := testModule()
	d := NewAnalyzer(mod, nil).Analyze(mod.ClassNamed(name))
	if d.Err != "" {
		t.Fatalf("Analyze(%s) failed: %s", name, d.Err)
	}
	return d
}

func methodNamed(d *Description, name string) *Method {
	for i := range d.Methods {
		if d.Methods[i].Name == name {
			return &d.Methods[i]
		}
	}
	return nil
}

func propertyNamed(d *Description, name string) *Property {
	for i := range d.Properties {
		if d.Properties[i].Name == name {
			return &d.Properties[i]
		}
	}
	return nil
}

func TestAnalyze_Constructor(t *testing.T) {
	d := analyzeNamed(t, "Car")
	if d.Constructor == nil {
		t.Fatal("expected a constructor")
	}
	if got := len(d.Constructor.Params); got != 2 {
		t.Fatalf("constructor params = %d, want 2", got)
	}
	for i, want := range []string{"power", "wheels"} {
		p := d.Constructor.Params[i]
		if p.Name != want {
			t.Errorf("param %d name = %q, want %q", i, p.Name, want)
		}
		if p.Desc.Kind != descriptor.Int {
			t.Errorf("param %d kind = %s, want Int", i, p.Desc.Kind)
		}
	}
}

func TestAnalyze_Bases(t *testing.T) {
	d := analyzeNamed(t, "Car")
	if !reflect.DeepEqual(d.Bases, []string{"Engine"}) {
		t.Fatalf("Bases = %v, want [Engine]", d.Bases)
	}
	if bases := analyzeNamed(t, "Engine").Bases; len(bases) != 0 {
		t.Fatalf("Engine bases = %v, want none", bases)
	}
}

func TestAnalyze_FactoryVersusStatic(t *testing.T) {
	d := analyzeNamed(t, "Car")
	if len(d.Factories) != 1 || d.Factories[0].Name != "Open" {
		t.Fatalf("Factories = %+v, want single Open", d.Factories)
	}
	if len(d.Statics) != 1 || d.Statics[0].Name != "MaxWheels" {
		t.Fatalf("Statics = %+v, want single MaxWheels", d.Statics)
	}
	if got := len(d.Statics[0].Params); got != 0 {
		t.Errorf("MaxWheels params = %d, want 0", got)
	}
}

func TestAnalyze_PropertyPairing(t *testing.T) {
	d := analyzeNamed(t, "Car")

	power := propertyNamed(d, "Power")
	if power == nil {
		t.Fatal("expected a Power property")
	}
	if !power.HasGetter || !power.HasSetter {
		t.Errorf("Power getter/setter = %v/%v, want true/true", power.HasGetter, power.HasSetter)
	}
	if power.Desc.Kind != descriptor.Int {
		t.Errorf("Power kind = %s, want Int", power.Desc.Kind)
	}

	// Error-returning setter with no getter: recorded setter-only.
	label := propertyNamed(d, "Label")
	if label == nil {
		t.Fatal("expected a Label property")
	}
	if label.HasGetter || !label.HasSetter {
		t.Errorf("Label getter/setter = %v/%v, want false/true", label.HasGetter, label.HasSetter)
	}
	if label.Desc.Kind != descriptor.String {
		t.Errorf("Label kind = %s, want String", label.Desc.Kind)
	}
}

func TestAnalyze_LoneGetterStaysMethod(t *testing.T) {
	d := analyzeNamed(t, "Car")
	if propertyNamed(d, "Wheels") != nil {
		t.Fatal("Wheels has no setter and must not become a property")
	}
	m := methodNamed(d, "Wheels")
	if m == nil {
		t.Fatal("expected Wheels as an ordinary method")
	}
	if len(m.Params) != 0 {
		t.Errorf("Wheels params = %d, want 0", len(m.Params))
	}
}

func TestAnalyze_MethodAttribution(t *testing.T) {
	d := analyzeNamed(t, "Car")

	honk := methodNamed(d, "Honk")
	if honk == nil {
		t.Fatal("expected a Honk method")
	}
	if honk.DefinedIn != "Car" {
		t.Errorf("Honk DefinedIn = %q, want Car", honk.DefinedIn)
	}
	if len(honk.Params) != 1 || honk.Params[0].Name != "arg0" {
		t.Errorf("Honk params = %+v, want single arg0", honk.Params)
	}

	// Promoted members surface through the derived method set.
	if methodNamed(d, "Ignite") == nil {
		t.Error("expected promoted Ignite method")
	}
	if propertyNamed(d, "Power") == nil {
		t.Error("expected promoted Power property")
	}
}

func TestAnalyze_SpecialMethods(t *testing.T) {
	d := analyzeNamed(t, "Engine")
	got := map[string]bool{}
	for _, m := range d.Special {
		got[m.Name] = true
	}
	if !got["String"] || !got["MarshalText"] {
		t.Fatalf("Special = %v, want String and MarshalText", got)
	}
	if methodNamed(d, "String") != nil {
		t.Error("String must not appear as an ordinary method")
	}
}

func TestAnalyze_BadClass(t *testing.T) {
	mod := testModule()
	a := NewAnalyzer(mod, nil)

	if d := a.Analyze(nil); d.Err == "" {
		t.Error("nil class: expected Err set")
	}
	bad := &target.Class{Name: "Count", Type: reflect.TypeOf(0)}
	if d := a.Analyze(bad); d.Err == "" {
		t.Error("non-struct class: expected Err set")
	}
}

func TestFuncParams_SkipsReceiver(t *testing.T) {
	mod := testModule()
	m, ok := reflect.PointerTo(reflect.TypeOf(car{})).MethodByName("Honk")
	if !ok {
		t.Fatal("Honk not found")
	}
	params := FuncParams(mod, m.Func.Type(), 1)
	if len(params) != 1 {
		t.Fatalf("params = %d, want 1", len(params))
	}
	if params[0].Name != "arg0" || params[0].Desc.Kind != descriptor.Int {
		t.Errorf("param = %+v, want arg0 Int", params[0])
	}
}
