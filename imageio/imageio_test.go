package imageio

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "red.png")
	writePNG(t, path, 8, 4, color.RGBA{R: 255, A: 255})

	img, err := NewFileLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestFileLoader_Failures(t *testing.T) {
	dir := t.TempDir()
	loader := NewFileLoader()

	t.Run("Missing", func(t *testing.T) {
		_, err := loader.Load(context.Background(), filepath.Join(dir, "nope.png"))
		require.ErrorIs(t, err, ErrDecodeFailure)
		assert.ErrorIs(t, err, os.ErrNotExist)

		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, filepath.Join(dir, "nope.png"), de.Path)
	})

	t.Run("Corrupt", func(t *testing.T) {
		path := filepath.Join(dir, "broken.jpg")
		require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

		_, err := loader.Load(context.Background(), path)
		assert.ErrorIs(t, err, ErrDecodeFailure)
	})

	t.Run("Directory", func(t *testing.T) {
		_, err := loader.Load(context.Background(), dir)
		assert.ErrorIs(t, err, ErrDecodeFailure)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.Load(ctx, filepath.Join(dir, "nope.png"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileLoader_MaxPixels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.png")
	writePNG(t, path, 20, 20, color.White)

	_, err := NewFileLoader(WithMaxPixels(100)).Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.ErrorIs(t, err, ErrDecodeFailure)

	_, err = NewFileLoader(WithMaxPixels(400), WithIOLimit(1<<20)).Load(context.Background(), path)
	assert.NoError(t, err)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 1, 1, color.Black)
	writePNG(t, filepath.Join(dir, "A.PNG"), 1, 1, color.Black)
	writePNG(t, filepath.Join(dir, "nested", "deep", "c.png"), 1, 1, color.Black)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	paths, err := NewDirSource(dir).Images(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "A.PNG"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "nested", "deep", "c.png"),
	}, paths)

	paths, err = NewDirSource(dir, "*.png").Images(context.Background())
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestDirSource_Errors(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "missing")).Images(context.Background())
	assert.Error(t, err)

	_, err = NewDirSource(t.TempDir(), "[").Images(context.Background())
	assert.Error(t, err)
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{"a", "b"}
	paths, err := src.Images(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, paths)

	paths[0] = "z"
	assert.Equal(t, "a", src[0])
}
