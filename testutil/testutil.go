package testutil

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/hupe1980/imgsearch/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Color returns an opaque colour with uniformly random channels.
func (r *RNG) Color() color.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.colorLocked()
}

func (r *RNG) colorLocked() color.NRGBA {
	return color.NRGBA{
		R: uint8(r.rand.Intn(256)),
		G: uint8(r.rand.Intn(256)),
		B: uint8(r.rand.Intn(256)),
		A: 255,
	}
}

// NoiseImage returns a w x h image with every pixel drawn independently.
func (r *RNG) NoiseImage(w, h int) *image.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, r.colorLocked())
		}
	}
	return img
}

// PatchImage returns a w x h image split into a grid x grid layout of solid
// random colours. Such images have sparse, distinct histograms.
func (r *RNG) PatchImage(w, h, grid int) *image.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	grid = max(grid, 1)
	colors := make([]color.NRGBA, grid*grid)
	for i := range colors {
		colors[i] = r.colorLocked()
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			cell := (y*grid/h)*grid + x*grid/w
			img.SetNRGBA(x, y, colors[cell])
		}
	}
	return img
}

// Histograms generates num non-negative descriptors of length dim that sum to one.
func (r *RNG) Histograms(num, dim int) []model.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Descriptor, num)
	for i := range out {
		d := make(model.Descriptor, dim)
		var sum float32
		for j := range d {
			// Sparse like real colour histograms: most buckets empty.
			if r.rand.Intn(4) == 0 {
				d[j] = r.rand.Float32()
				sum += d[j]
			}
		}
		if sum == 0 {
			d[r.rand.Intn(dim)] = 1
			sum = 1
		}
		for j := range d {
			d[j] /= sum
		}
		out[i] = d
	}
	return out
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Split returns a w x h image with the left half a and the right half b.
func Split(w, h int, a, b color.NRGBA) *image.NRGBA {
	img := Solid(w, h, a)
	for y := range h {
		for x := w / 2; x < w; x++ {
			img.SetNRGBA(x, y, b)
		}
	}
	return img
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(tb testing.TB, path string, img image.Image) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		tb.Fatal(err)
	}
}

// ExactRanking scores query against every entry with a float64 reference
// cosine and returns all of them in ranking order.
func ExactRanking(query model.Descriptor, entries []model.Entry) []model.SearchResult {
	results := make([]model.SearchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, model.SearchResult{ID: e.ID, Score: float32(cosine(query, e.Descriptor))})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return model.CompareResults(results[i], results[j]) < 0
	})

	return results
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ComputeRecall returns the fraction of the first len(approximate) groundTruth
// identifiers that also appear in approximate.
func ComputeRecall(groundTruth, approximate []model.SearchResult) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))

	truthSet := make(map[model.ImageID]struct{}, k)
	for i := range k {
		truthSet[groundTruth[i].ID] = struct{}{}
	}

	hits := 0
	for _, r := range approximate[:k] {
		if _, ok := truthSet[r.ID]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}
