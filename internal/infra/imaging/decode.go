package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"aperture/internal/domain"
)

// Decode reads a PNG or JPEG stream into the canonical RGBA pixel buffer.
// Every input is normalized to the same layout regardless of source color
// model, so the tile bytes (and therefore the root) do not depend on how the
// capture was encoded in transit.
func Decode(r io.Reader) (domain.Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return domain.Image{}, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(src), nil
}

// FromImage converts any image.Image into the canonical layout.
func FromImage(src image.Image) domain.Image {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := domain.Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := out.PixelAt(x, y)
			out.Pix[off] = byte(r >> 8)
			out.Pix[off+1] = byte(g >> 8)
			out.Pix[off+2] = byte(b >> 8)
			out.Pix[off+3] = byte(a >> 8)
		}
	}
	return out
}
