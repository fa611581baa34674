// Package render serializes generated cases into one compilable Go
// test file for the target package. Passing cases assert recorded
// outputs with reflect.DeepEqual; failing cases assert that the
// call errors or panics as recorded.
package render

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/unbound-force/forge/internal/record"
	"github.com/unbound-force/forge/internal/synth"
	"github.com/unbound-force/forge/internal/target"
)

// Stats reports what the serializer produced. Skipped counts cases
// whose values have no Go literal form (live instances, channels).
type Stats struct {
	Rendered int
	Skipped  int
}

// header builds the file preamble once the body is known, so the
// import block only names what the cases use.
func (f *fileRenderer) header() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by forge. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s_test\n\n", f.pkg)
	fmt.Fprintf(&b, "import (\n")
	if f.usesReflect {
		fmt.Fprintf(&b, "\t%q\n", "reflect")
	}
	fmt.Fprintf(&b, "\t%q\n\n", "testing")
	fmt.Fprintf(&b, "\t%q\n", f.importPath)
	fmt.Fprintf(&b, ")\n\n")
	return b.Bytes()
}

// File writes a complete _test.go file for the module's package.
// pkgName is the target package identifier, importPath its import
// path. The generated file belongs to package pkgName_test.
func File(w io.Writer, pkgName, importPath string, mod *target.Module, res synth.Result) (Stats, error) {
	f := &fileRenderer{
		pkg:        pkgName,
		importPath: importPath,
		mod:        mod,
		title:      cases.Title(language.English, cases.NoLower),
	}

	for _, name := range res.FuncOrder {
		f.renderFunction(name, res.FuncCases[name])
	}
	for _, clsName := range res.ClassOrder {
		f.renderClass(clsName, res.ClassCases[clsName])
	}

	if _, err := w.Write(f.header()); err != nil {
		return f.stats, err
	}
	_, err := w.Write(f.body.Bytes())
	return f.stats, err
}

type fileRenderer struct {
	pkg         string
	importPath  string
	mod         *target.Module
	title       cases.Caser
	body        bytes.Buffer
	stats       Stats
	usesReflect bool
}

func (f *fileRenderer) renderFunction(name string, cs []record.TestCase) {
	var fn target.Func
	for _, candidate := range f.mod.Funcs {
		if candidate.Name == name {
			fn = candidate
			break
		}
	}
	fv := fn.Value()
	if !fv.IsValid() || fv.Kind() != reflect.Func || len(cs) == 0 {
		return
	}

	fmt.Fprintf(&f.body, "func Test%s(t *testing.T) {\n", f.testName(name))
	for _, tc := range cs {
		call := fmt.Sprintf("%s.%s", f.pkg, name)
		f.renderCase(tc.Desc, call, fv.Type(), 0, tc.Inputs, tc.Outputs, tc.ErrKind, nil)
	}
	fmt.Fprintf(&f.body, "}\n\n")
}

func (f *fileRenderer) renderClass(clsName string, members map[string][]record.ClassCase) {
	cls := f.mod.ClassNamed(clsName)
	if cls == nil {
		return
	}

	if cs := members[record.ConstructorName]; len(cs) > 0 && cls.HasConstructor() {
		f.renderConstructor(cls, cs)
	}
	for _, member := range memberOrder(members) {
		if member == record.ConstructorName {
			continue
		}
		f.renderMember(cls, member, members[member])
	}
}

func (f *fileRenderer) renderConstructor(cls *target.Class, cs []record.ClassCase) {
	ctorName := funcName(cls.New)
	if ctorName == "" {
		f.stats.Skipped += len(cs)
		return
	}
	ctorType := cls.ConstructorValue().Type()

	fmt.Fprintf(&f.body, "func Test%s_Constructor(t *testing.T) {\n", f.testName(cls.Name))
	for _, c := range cs {
		call := fmt.Sprintf("%s.%s", f.pkg, ctorName)
		// Constructors record no outputs: success is the assertion.
		f.renderCase(c.Desc, call, ctorType, 0, c.CtorInputs, nil, c.ErrKind, nil)
	}
	fmt.Fprintf(&f.body, "}\n\n")
}

func (f *fileRenderer) renderMember(cls *target.Class, member string, cs []record.ClassCase) {
	if len(cs) == 0 {
		return
	}

	// Factories and statics call through the package, not an
	// instance.
	for _, a := range cls.Assoc {
		if a.Name != member {
			continue
		}
		name := funcName(a.Fn)
		av := reflect.ValueOf(a.Fn)
		if name == "" || av.Kind() != reflect.Func {
			f.stats.Skipped += len(cs)
			return
		}
		fmt.Fprintf(&f.body, "func Test%s_%s(t *testing.T) {\n", f.testName(cls.Name), f.testName(member))
		for _, c := range cs {
			call := fmt.Sprintf("%s.%s", f.pkg, name)
			f.renderCase(c.Desc, call, av.Type(), 0, c.Inputs, c.Outputs, c.ErrKind, nil)
		}
		fmt.Fprintf(&f.body, "}\n\n")
		return
	}

	m, ok := reflect.PointerTo(cls.Type).MethodByName(member)
	if !ok {
		f.stats.Skipped += len(cs)
		return
	}

	fmt.Fprintf(&f.body, "func Test%s_%s(t *testing.T) {\n", f.testName(cls.Name), f.testName(member))
	for _, c := range cs {
		f.renderInstanceCase(cls, m, member, c)
	}
	fmt.Fprintf(&f.body, "}\n\n")
}

// renderInstanceCase builds a fresh instance inside the subtest and
// then applies the usual call/assert shape to the bound method.
func (f *fileRenderer) renderInstanceCase(cls *target.Class, m reflect.Method, member string, c record.ClassCase) {
	ctorName := funcName(cls.New)
	if !cls.HasConstructor() || ctorName == "" {
		f.stats.Skipped++
		return
	}
	ctorArgs, ok := f.literalTuple(c.CtorInputs, cls.ConstructorValue().Type(), 0)
	if !ok {
		f.stats.Skipped++
		return
	}

	// Constructor-failure cases assert the constructor error and
	// never reach the member.
	if c.ErrKind != "" && c.Outputs == nil && c.Inputs == nil && !isPanicKind(c.ErrKind) {
		if wouldError(cls.ConstructorValue().Type()) {
			f.stats.Rendered++
			fmt.Fprintf(&f.body, "\tt.Run(%q, func(t *testing.T) {\n", c.Desc)
			fmt.Fprintf(&f.body, "\t\tif _, err := %s.%s(%s); err == nil {\n", f.pkg, ctorName, strings.Join(ctorArgs, ", "))
			fmt.Fprintf(&f.body, "\t\t\tt.Fatal(\"expected constructor error\")\n")
			fmt.Fprintf(&f.body, "\t\t}\n\t})\n")
			return
		}
	}

	setup := func() string {
		if wouldError(cls.ConstructorValue().Type()) {
			return fmt.Sprintf("\t\tinst, err := %s.%s(%s)\n\t\tif err != nil {\n\t\t\tt.Fatalf(\"constructor: %%v\", err)\n\t\t}\n",
				f.pkg, ctorName, strings.Join(ctorArgs, ", "))
		}
		return fmt.Sprintf("\t\tinst := %s.%s(%s)\n", f.pkg, ctorName, strings.Join(ctorArgs, ", "))
	}

	outputs := c.Outputs
	callName := member

	// Setter cases record the getter read-back as the expected
	// output, so the assertion reads the property after writing.
	if getter, isSetter := setterReadBack(cls, member, m); isSetter && c.ErrKind == "" {
		args, ok := f.literalTuple(c.Inputs, m.Type, 1)
		if !ok {
			f.stats.Skipped++
			return
		}
		wants, ok := f.literals(outputs)
		if !ok {
			f.stats.Skipped++
			return
		}
		f.stats.Rendered++
		fmt.Fprintf(&f.body, "\tt.Run(%q, func(t *testing.T) {\n", c.Desc)
		f.body.WriteString(setup())
		if wouldError(m.Type) {
			fmt.Fprintf(&f.body, "\t\tif err := inst.%s(%s); err != nil {\n\t\t\tt.Fatalf(\"%s: %%v\", err)\n\t\t}\n",
				member, strings.Join(args, ", "), member)
		} else {
			fmt.Fprintf(&f.body, "\t\tinst.%s(%s)\n", member, strings.Join(args, ", "))
		}
		if len(wants) == 1 {
			f.usesReflect = true
			fmt.Fprintf(&f.body, "\t\tif got := inst.%s(); !reflect.DeepEqual(got, %s) {\n", getter, wants[0])
			fmt.Fprintf(&f.body, "\t\t\tt.Errorf(\"%s() = %%v, want %%v\", got, %s)\n", getter, wants[0])
			fmt.Fprintf(&f.body, "\t\t}\n")
		}
		fmt.Fprintf(&f.body, "\t})\n")
		return
	}

	f.renderCase(c.Desc, "inst."+callName, m.Type, 1, c.Inputs, outputs, c.ErrKind, setup)
}

// renderCase emits one t.Run subtest: optional setup, the call, and
// assertions driven by the recorded outcome. skip is the number of
// leading signature inputs not present in the tuple (the receiver).
func (f *fileRenderer) renderCase(desc, call string, ft reflect.Type, skip int, inputs, outputs []any, errKind string, setup func() string) {
	args, ok := f.literalTuple(inputs, ft, skip)
	if !ok {
		f.stats.Skipped++
		return
	}
	wants, ok := f.literals(outputs)
	if !ok {
		f.stats.Skipped++
		return
	}

	f.stats.Rendered++
	fmt.Fprintf(&f.body, "\tt.Run(%q, func(t *testing.T) {\n", desc)
	if setup != nil {
		f.body.WriteString(setup())
	}

	expr := fmt.Sprintf("%s(%s)", call, strings.Join(args, ", "))

	switch {
	case isPanicKind(errKind):
		fmt.Fprintf(&f.body, "\t\tdefer func() {\n")
		fmt.Fprintf(&f.body, "\t\t\tif recover() == nil {\n")
		fmt.Fprintf(&f.body, "\t\t\t\tt.Error(\"expected panic\")\n")
		fmt.Fprintf(&f.body, "\t\t\t}\n")
		fmt.Fprintf(&f.body, "\t\t}()\n")
		fmt.Fprintf(&f.body, "\t\t%s\n", expr)

	case errKind != "":
		lhs := discards(resultCount(ft) - 1)
		if lhs != "" {
			lhs += ", "
		}
		fmt.Fprintf(&f.body, "\t\tif %serr := %s; err == nil {\n", lhs, expr)
		fmt.Fprintf(&f.body, "\t\t\tt.Error(\"expected error\")\n")
		fmt.Fprintf(&f.body, "\t\t}\n")

	default:
		n := len(wants)
		if n == 0 {
			fmt.Fprintf(&f.body, "\t\t%s\n", expr)
			break
		}
		gots := make([]string, 0, n+1)
		for i := 0; i < n; i++ {
			gots = append(gots, gotName(i, n))
		}
		if wouldError(ft) {
			gots = append(gots, "err")
		}
		fmt.Fprintf(&f.body, "\t\t%s := %s\n", strings.Join(gots, ", "), expr)
		if wouldError(ft) {
			fmt.Fprintf(&f.body, "\t\tif err != nil {\n\t\t\tt.Fatalf(\"unexpected error: %%v\", err)\n\t\t}\n")
		}
		f.usesReflect = true
		for i := 0; i < n; i++ {
			got := gotName(i, n)
			fmt.Fprintf(&f.body, "\t\tif !reflect.DeepEqual(%s, %s) {\n", got, wants[i])
			fmt.Fprintf(&f.body, "\t\t\tt.Errorf(\"got %%v, want %%v\", %s, %s)\n", got, wants[i])
			fmt.Fprintf(&f.body, "\t\t}\n")
		}
	}

	fmt.Fprintf(&f.body, "\t})\n")
}

func (f *fileRenderer) testName(name string) string {
	if name == "" {
		return "Unnamed"
	}
	if name[0] >= 'a' && name[0] <= 'z' {
		return f.title.String(name)
	}
	return name
}
