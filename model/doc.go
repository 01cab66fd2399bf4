// Package model defines the core types shared by imgsearch packages.
//
// # Data Types
//
//   - ImageID: stable identifier of a stored image (usually its path)
//   - Descriptor: fixed-length, normalized colour histogram
//   - Entry: an (ImageID, Descriptor) pair held by the feature store
//   - SearchResult: an (ImageID, Score) pair produced by a query
//
// # Ordering
//
// Rankings are ordered by descending score; equal scores are ordered by
// ascending ImageID so that repeated queries return identical slices:
//
//	model.SortResults(results)
package model
