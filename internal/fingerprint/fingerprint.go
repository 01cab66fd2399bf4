// Package fingerprint derives cache keys from decoded image content.
//
// Two images get the same fingerprint only if they have the same dimensions
// and identical 8-bit non-premultiplied RGBA pixels, independent of the
// concrete image type or bounds origin.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"image"
	"image/color"
)

// Of returns the hex SHA-256 digest of img's pixels.
func Of(img image.Image) string {
	h := sha256.New()

	if img == nil {
		return hex.EncodeToString(h.Sum(nil))
	}

	b := img.Bounds()
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(b.Dx()))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(b.Dy()))
	_, _ = h.Write(hdr[:])

	row := make([]byte, 0, b.Dx()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row = row[:0]
		if src, ok := img.(*image.NRGBA); ok {
			off := src.PixOffset(b.Min.X, y)
			row = append(row, src.Pix[off:off+b.Dx()*4]...)
		} else {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				row = append(row, c.R, c.G, c.B, c.A)
			}
		}
		_, _ = h.Write(row)
	}

	return hex.EncodeToString(h.Sum(nil))
}
