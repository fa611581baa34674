package record

import "fmt"

// Format renders one case value as display text. Strings are
// quoted so empty and whitespace values stay visible.
func Format(v any) string {
	if v == nil {
		return "nil"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// FormatTuple renders a value list as display text.
func FormatTuple(vs []any) string {
	out := "["
	for i, v := range vs {
		if i > 0 {
			out += ", "
		}
		out += Format(v)
	}
	return out + "]"
}
