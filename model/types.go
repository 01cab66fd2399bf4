package model

import (
	"cmp"
	"fmt"
	"slices"
)

// ImageID identifies a stored image. It is unique within one store.
type ImageID string

// Descriptor is a fixed-length visual feature vector.
//
// Descriptors produced by the colour histogram extractor are non-negative and
// sum to 1. An image without pixels yields the all-zero descriptor.
type Descriptor []float32

// Dimension returns the descriptor length.
func (d Descriptor) Dimension() int { return len(d) }

// Clone returns a copy of d that shares no memory with it.
func (d Descriptor) Clone() Descriptor {
	if d == nil {
		return nil
	}
	return slices.Clone(d)
}

// Sum returns the sum of all components.
func (d Descriptor) Sum() float64 {
	var s float64
	for _, v := range d {
		s += float64(v)
	}
	return s
}

// IsZero reports whether every component is zero.
func (d Descriptor) IsZero() bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// Entry is a single feature store record.
type Entry struct {
	ID         ImageID
	Descriptor Descriptor
}

// SearchResult is a ranked match. Results are immutable once returned.
type SearchResult struct {
	ID    ImageID `json:"id"`
	Score float32 `json:"score"`
}

// String returns a string representation of the result.
func (r SearchResult) String() string {
	return fmt.Sprintf("%s (%.6f)", r.ID, r.Score)
}

// CompareResults orders a before b when a has the higher score, or the same
// score and the smaller ID.
func CompareResults(a, b SearchResult) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortResults sorts results in ranking order.
func SortResults(results []SearchResult) {
	slices.SortFunc(results, CompareResults)
}

// IsRanked reports whether results are in ranking order.
func IsRanked(results []SearchResult) bool {
	return slices.IsSortedFunc(results, CompareResults)
}
