// Package testutil provides testing utilities for imgsearch.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating synthetic images and descriptors,
// computing exact rankings, and comparing result sets.
//
// # Synthetic Images
//
//	img := testutil.Solid(8, 8, color.NRGBA{R: 255, A: 255})
//	rng := testutil.NewRNG(seed)
//	img = rng.PatchImage(32, 32, 4) // 4x4 grid of random colours
//	testutil.WritePNG(t, path, img)
//
// # Exact Ranking (Ground Truth)
//
//	want := testutil.ExactRanking(query, store.All())
//
// # Overlap
//
//	recall := testutil.ComputeRecall(want[:k], got)
package testutil
