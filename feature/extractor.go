package feature

import (
	"errors"
	"image"
	"image/color"

	"github.com/hupe1980/imgsearch/model"
)

// DefaultBins is the number of buckets per colour channel (4x4x4 = 64).
const DefaultBins = 4

// ErrInvalidBins is returned when the bucket count is outside [1, 256].
var ErrInvalidBins = errors.New("feature: bins must be between 1 and 256")

// Extractor computes a descriptor from decoded pixels.
// Implementations must be pure and safe for concurrent use.
type Extractor interface {
	Extract(img image.Image) model.Descriptor
	Dimension() int
}

// ColorHistogram is a joint RGB histogram extractor.
type ColorHistogram struct {
	bins int
}

// NewColorHistogram creates a histogram extractor with bins buckets per channel.
func NewColorHistogram(bins int) (*ColorHistogram, error) {
	if bins < 1 || bins > 256 {
		return nil, ErrInvalidBins
	}
	return &ColorHistogram{bins: bins}, nil
}

// Default returns the 64-bucket extractor.
func Default() *ColorHistogram {
	return &ColorHistogram{bins: DefaultBins}
}

// Bins returns the number of buckets per channel.
func (h *ColorHistogram) Bins() int { return h.bins }

// Dimension returns bins^3.
func (h *ColorHistogram) Dimension() int { return h.bins * h.bins * h.bins }

// Index returns the histogram bucket of an 8-bit colour.
func (h *ColorHistogram) Index(r, g, b uint8) int {
	n := h.bins
	return bucket(r, n)*n*n + bucket(g, n)*n + bucket(b, n)
}

// Extract returns the normalized histogram of img. Alpha is ignored.
// An image with no pixels yields the all-zero descriptor.
func (h *ColorHistogram) Extract(img image.Image) model.Descriptor {
	hist := make([]float32, h.Dimension())
	if img == nil {
		return hist
	}

	bounds := img.Bounds()
	switch src := img.(type) {
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				p := src.Pix[off : off+4 : off+4]
				hist[h.Index(p[0], p[1], p[2])]++
				off += 4
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				hist[h.Index(c.R, c.G, c.B)]++
			}
		}
	}

	Normalize(hist)
	return hist
}

// Normalize divides every component by the sum of all components.
// It returns false and leaves v untouched when the sum is zero.
func Normalize(v []float32) bool {
	var sum float64
	for _, x := range v {
		sum += float64(x)
	}
	if sum == 0 {
		return false
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / sum)
	}
	return true
}

func bucket(c uint8, bins int) int {
	return int(c) * bins / 256
}
