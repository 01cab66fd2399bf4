// Package feature extracts visual descriptors from decoded images.
//
// The default extractor is a joint RGB colour histogram. Each channel is split
// into Bins equal-width buckets over 0-255 and every pixel increments the
// bucket r*Bins*Bins + g*Bins + b. Counts are normalized by the pixel count,
// so with the default 4 bins an image yields a 64-dimensional descriptor that
// sums to 1:
//
//	ext := feature.NewColorHistogram(feature.DefaultBins)
//	d := ext.Extract(img) // len(d) == 64
package feature
