package sample

import "strings"

func Concat(a, b string) string { return a + b }

// Substring extracts length bytes starting at start, clamped to the
// end of the string.
func Substring(text string, start, length int) (string, error) {
	if start < 0 || start >= len(text) {
		return "", RangeError("start index out of range")
	}
	if length < 0 {
		return "", ValidationError("length cannot be negative")
	}
	end := start + length
	if end > len(text) {
		end = len(text)
	}
	return text[start:end], nil
}

func CharAt(text string, index int) (string, error) {
	if index < 0 || index >= len(text) {
		return "", RangeError("index out of range")
	}
	return string(text[index]), nil
}

func ToUpper(text string) string { return strings.ToUpper(text) }
func ToLower(text string) string { return strings.ToLower(text) }

func Replace(text, old, new string) string {
	return strings.ReplaceAll(text, old, new)
}

func StartsWith(text, prefix string) bool { return strings.HasPrefix(text, prefix) }
func EndsWith(text, suffix string) bool   { return strings.HasSuffix(text, suffix) }
func Contains(text, sub string) bool      { return strings.Contains(text, sub) }
func Length(text string) int              { return len(text) }
func Trim(text string) string             { return strings.TrimSpace(text) }
