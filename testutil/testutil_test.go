package testutil

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imgsearch/imageio"
	"github.com/hupe1980/imgsearch/model"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	assert.Equal(t, a.PatchImage(16, 16, 4).Pix, b.PatchImage(16, 16, 4).Pix)
	assert.Equal(t, a.Color(), b.Color())

	a.Reset()
	b.Reset()
	assert.Equal(t, a.NoiseImage(4, 4).Pix, b.NoiseImage(4, 4).Pix)
	assert.Equal(t, int64(4711), a.Seed())
}

func TestHistograms(t *testing.T) {
	hs := NewRNG(1).Histograms(50, 64)
	require.Len(t, hs, 50)

	for _, h := range hs {
		require.Len(t, h, 64)
		assert.InDelta(t, 1.0, h.Sum(), 1e-4)
		for _, v := range h {
			assert.GreaterOrEqual(t, v, float32(0))
		}
	}
}

func TestSplit(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	img := Split(4, 2, red, blue)

	assert.Equal(t, red, img.NRGBAAt(1, 1))
	assert.Equal(t, blue, img.NRGBAAt(2, 0))
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "x.png")
	WritePNG(t, path, Solid(3, 3, color.NRGBA{G: 9, A: 255}))

	img, err := imageio.NewFileLoader().Load(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestExactRanking(t *testing.T) {
	entries := []model.Entry{
		{ID: "b", Descriptor: model.Descriptor{1, 0}},
		{ID: "a", Descriptor: model.Descriptor{1, 0}},
		{ID: "c", Descriptor: model.Descriptor{0, 1}},
		{ID: "z", Descriptor: model.Descriptor{0, 0}},
	}

	got := ExactRanking(model.Descriptor{1, 0}, entries)
	require.Len(t, got, 4)
	assert.Equal(t, []model.ImageID{"a", "b", "c", "z"}, []model.ImageID{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	assert.Zero(t, got[3].Score)
}

func TestComputeRecall(t *testing.T) {
	truth := []model.SearchResult{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Equal(t, 1.0, ComputeRecall(truth, []model.SearchResult{{ID: "b"}, {ID: "a"}}))
	assert.InDelta(t, 0.5, ComputeRecall(truth, []model.SearchResult{{ID: "a"}, {ID: "x"}}), 1e-9)
	assert.Equal(t, 1.0, ComputeRecall(nil, nil))
	assert.Equal(t, 0.0, ComputeRecall(truth, nil))
}
