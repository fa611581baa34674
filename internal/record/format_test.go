package record

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "nil"},
		{"int", -100, "-100"},
		{"float", 2.5, "2.5"},
		{"bool", true, "true"},
		{"string quoted", "abc", `"abc"`},
		{"empty string visible", "", `""`},
		{"whitespace visible", " ", `" "`},
		{"slice", []int{1, 2}, "[1 2]"},
		{"map", map[string]int{"a": 1}, "map[a:1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTuple(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want string
	}{
		{"empty", nil, "[]"},
		{"mixed", []any{1, "a", nil}, `[1, "a", nil]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTuple(tt.in); got != tt.want {
				t.Errorf("FormatTuple(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCaseFails(t *testing.T) {
	if (TestCase{}).Fails() {
		t.Error("empty ErrKind must not fail")
	}
	if !(TestCase{ErrKind: "runtime error: index out of range"}).Fails() {
		t.Error("non-empty ErrKind must fail")
	}
	if !(ClassCase{Member: ConstructorName}).IsConstructor() {
		t.Error("constructor member not detected")
	}
}
