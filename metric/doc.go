// Package metric scores descriptor similarity.
//
// Cosine is the default scorer. It is symmetric, returns 1 for identical
// non-zero descriptors and returns exactly 0 when either descriptor has zero
// magnitude, so rankings never contain NaN.
package metric
