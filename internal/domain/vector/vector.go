// Package vector implements the embedding similarity component.
package vector

import (
	"errors"
	"math"
)

// ErrLengthMismatch reports vectors of differing dimensionality.
var ErrLengthMismatch = errors.New("vector length mismatch")

// Cosine computes cosine similarity between two vectors of equal length.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0, nil
	}
	return dot / den, nil
}

// Similarity maps cosine similarity from [-1,1] to [0,1]. The component is
// absent (second return false) when either vector is missing or the
// dimensions disagree; it is then omitted from the composite, never zeroed.
func Similarity(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	cos, err := Cosine(a, b)
	if err != nil {
		return 0, false
	}
	return (cos + 1) / 2, true
}
