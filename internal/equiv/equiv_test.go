package equiv

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a    []any
		b    []any
		want bool
	}{
		{"empty tuples", nil, nil, true},
		{"length mismatch", []any{1}, []any{1, 2}, false},
		{"equal ints", []any{1, 2}, []any{1, 2}, true},
		{"unequal ints", []any{1, 2}, []any{1, 3}, false},
		{"int widths collapse", []any{int32(5)}, []any{int64(5)}, true},
		{"float widths collapse", []any{float32(1)}, []any{float64(1)}, true},
		{"int is not float", []any{1}, []any{1.0}, false},
		{"strings", []any{"a"}, []any{"a"}, true},
		{"string case sensitive", []any{"a"}, []any{"A"}, false},
		{"bools", []any{true}, []any{true}, true},
		{"nil matches nil", []any{nil}, []any{nil}, true},
		{"nil does not match zero", []any{nil}, []any{0}, false},
		{"equal slices", []any{[]int{1, 2}}, []any{[]int{1, 2}}, true},
		{"slice length differs", []any{[]int{1}}, []any{[]int{1, 2}}, false},
		{"slice element differs", []any{[]int{1, 2}}, []any{[]int{1, 3}}, false},
		{"cross-typed slices", []any{[]any{1, "a"}}, []any{[]any{1, "a"}}, true},
		{
			"equal maps",
			[]any{map[string]int{"a": 1, "b": 2}},
			[]any{map[string]int{"b": 2, "a": 1}},
			true,
		},
		{
			"map key set differs",
			[]any{map[string]int{"a": 1}},
			[]any{map[string]int{"b": 1}},
			false,
		},
		{
			"map value differs",
			[]any{map[string]int{"a": 1}},
			[]any{map[string]int{"a": 2}},
			false,
		},
		{
			"equal interface-keyed maps",
			[]any{map[any]any{"a": 1}},
			[]any{map[any]any{"a": 1}},
			true,
		},
		{
			"interface-keyed vs typed map",
			[]any{map[any]any{"a": 1}},
			[]any{map[string]int{"a": 1}},
			false,
		},
		{
			"typed vs interface-keyed map",
			[]any{map[string]int{"a": 1}},
			[]any{map[any]any{"a": 1}},
			false,
		},
		{"struct repr fallback", []any{struct{ X int }{1}}, []any{struct{ X int }{1}}, true},
		{"struct repr differs", []any{struct{ X int }{1}}, []any{struct{ X int }{2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equivalent(tt.a, tt.b); got != tt.want {
				t.Errorf("Equivalent(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTuples_SeenAfterAdd(t *testing.T) {
	var used Tuples

	tuple := []any{1, "a", true}
	if used.Seen(tuple) {
		t.Fatal("fresh set reports tuple as seen")
	}
	used.Add(tuple)
	if !used.Seen(tuple) {
		t.Error("added tuple not seen")
	}
	if !used.Seen([]any{int64(1), "a", true}) {
		t.Error("width-collapsed equivalent tuple not seen")
	}
	if used.Seen([]any{2, "a", true}) {
		t.Error("distinct tuple reported seen")
	}
	if used.Len() != 1 {
		t.Errorf("Len() = %d, want 1", used.Len())
	}
}

// Add copies the tuple, so later caller mutation must not change
// what was recorded.
func TestTuples_AddCopies(t *testing.T) {
	var used Tuples

	tuple := []any{1, 2}
	used.Add(tuple)
	tuple[0] = 99

	if !used.Seen([]any{1, 2}) {
		t.Error("recorded tuple changed after caller mutation")
	}
}

func TestEquivalent_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("reflexive for int tuples", prop.ForAll(
		func(xs []int) bool {
			tuple := make([]any, len(xs))
			for i, x := range xs {
				tuple[i] = x
			}
			return Equivalent(tuple, tuple)
		},
		gen.SliceOf(gen.Int()),
	))

	properties.Property("symmetric for int pairs", prop.ForAll(
		func(a, b int) bool {
			x, y := []any{a}, []any{b}
			return Equivalent(x, y) == Equivalent(y, x)
		},
		gen.Int(), gen.Int(),
	))

	properties.Property("Seen holds for every added tuple", prop.ForAll(
		func(xs []int) bool {
			var used Tuples
			for _, x := range xs {
				tuple := []any{x}
				if !used.Seen(tuple) {
					used.Add(tuple)
				}
			}
			for _, x := range xs {
				if !used.Seen([]any{x}) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-100, 100)),
	))

	properties.TestingRun(t)
}
