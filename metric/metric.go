package metric

import (
	"fmt"
	"math"
)

// ErrDimensionMismatch indicates descriptors of different lengths were compared.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Scorer computes a symmetric similarity score. Higher is more similar.
type Scorer interface {
	Score(a, b []float32) (float32, error)
	Name() string
}

// CosineScorer scores by cosine similarity.
type CosineScorer struct{}

// Score implements Scorer.
func (CosineScorer) Score(a, b []float32) (float32, error) { return Cosine(a, b) }

// Name returns "cosine".
func (CosineScorer) Name() string { return "cosine" }

// Dot calculates the dot product of two equal-length vectors.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Magnitude calculates the L2 norm of v.
func Magnitude(v []float32) float64 {
	return math.Sqrt(Dot(v, v))
}

// Cosine calculates dot(a,b) / (|a|*|b|).
//
// It returns an *ErrDimensionMismatch if the lengths differ and 0 if either
// vector has zero magnitude.
func Cosine(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}

	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}

	// Avoid division by zero
	if magA == 0 || magB == 0 {
		return 0, nil
	}

	s := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	// Rounding can push identical vectors just past 1.
	return float32(max(-1, min(1, s))), nil
}
