// Package sample holds a small arithmetic, string, and account
// domain used as the default registered module. It exists to give
// the synthesis engine something real to exercise out of the box.
package sample

import "math"

// ValidationError reports a rejected argument value.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// RangeError reports an index outside its container.
type RangeError string

func (e RangeError) Error() string { return string(e) }

func Add(a, b int) int      { return a + b }
func Subtract(a, b int) int { return a - b }
func Multiply(a, b int) int { return a * b }

// Divide returns a/b as a float. Division by zero is an error, not
// a panic, so callers see it in the result.
func Divide(a, b int) (float64, error) {
	if b == 0 {
		return 0, ValidationError("division by zero")
	}
	return float64(a) / float64(b), nil
}

// Modulus returns a%b. A zero divisor panics the way any integer
// division in Go does.
func Modulus(a, b int) int { return a % b }

func Power(a, b int) float64 {
	return math.Pow(float64(a), float64(b))
}

// SquareRoot rejects negative input instead of returning NaN.
func SquareRoot(a int) (float64, error) {
	if a < 0 {
		return 0, ValidationError("cannot take square root of a negative number")
	}
	return math.Sqrt(float64(a)), nil
}

func Absolute(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
