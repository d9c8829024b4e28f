// Package vecmath provides small vector helpers for policy-space arithmetic.
package vecmath

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the norm below which a vector is treated as zero.
const Epsilon = 2.220446049250313e-16

// ErrDimensionMismatch is returned when two vectors have different lengths.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Dot returns the dot product of a and b. Both must have equal length.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// If either vector has a norm below Epsilon the result is 0.
func CosineSimilarity(a, b []float64) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}

	normA := Norm(a)
	normB := Norm(b)
	if normA < Epsilon || normB < Epsilon {
		return 0, nil
	}

	sim := dot / (normA * normB)
	// Rounding can push parallel vectors a hair past the bounds.
	return math.Max(-1, math.Min(1, sim)), nil
}

// Sign returns -1, 0 or +1 according to the sign of x. NaN maps to 0.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
