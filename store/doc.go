// Package store implements the feature store: an in-memory mapping from image
// identifier to descriptor.
//
// A FeatureStore is filled by Build, which fans out decoding and extraction
// over a bounded set of workers and funnels every insert through a single
// mutex. It is persisted with Save, which writes the whole mapping as one blob
// so readers never observe a partial file, and restored with Load, which
// validates the document before replacing any state.
//
// Persisted layout is a JSON object from identifier to float array:
//
//	{
//	  "images/a.jpg": [0.25, 0, ...],
//	  "images/b.jpg": [0, 0.5, ...]
//	}
package store
