package imaging

import (
	"sort"

	"aperture/internal/domain"
)

// GridSize returns the tile grid dimensions for an image. Edge tiles are
// clipped, so the grid is the ceiling division of each dimension.
func GridSize(width, height, tileSize int) (cols, rows int, err error) {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return 0, 0, domain.ErrInvalidImageDimensions
	}
	return (width + tileSize - 1) / tileSize, (height + tileSize - 1) / tileSize, nil
}

// Tile partitions an image into a row-major grid of tileSize×tileSize cells.
// A cell at the right or bottom edge is clipped to the remaining pixels but is
// never empty. The scan order fixes leaf order for the whole commitment:
// identical image and tileSize always yield the same tiles with the same
// byte boundaries.
func Tile(img domain.Image, tileSize int) ([]domain.Tile, error) {
	cols, rows, err := GridSize(img.Width, img.Height, tileSize)
	if err != nil {
		return nil, err
	}
	if len(img.Pix) != img.Width*img.Height*4 {
		return nil, domain.ErrInvalidImageDimensions
	}

	tiles := make([]domain.Tile, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := col * tileSize
			y := row * tileSize
			w := min(tileSize, img.Width-x)
			h := min(tileSize, img.Height-y)
			tiles = append(tiles, domain.Tile{
				Index:  row*cols + col,
				X:      x,
				Y:      y,
				Width:  w,
				Height: h,
				Bytes:  extract(img, x, y, w, h),
			})
		}
	}
	return tiles, nil
}

func extract(img domain.Image, x, y, w, h int) []byte {
	out := make([]byte, 0, w*h*4)
	for row := y; row < y+h; row++ {
		start := img.PixelAt(x, row)
		out = append(out, img.Pix[start:start+w*4]...)
	}
	return out
}

// TileIndicesForCrop computes the exact, deterministic set of tile indices a
// crop rectangle touches, from the claim's grid parameters alone. A crop that
// straddles tile boundaries selects every whole tile it intersects; the
// verified region is the union of those tiles, and any cosmetic re-crop to
// the requested pixel rectangle happens after verification.
func TileIndicesForCrop(width, height, tileSize int, crop domain.CropRequest) ([]int, error) {
	cols, _, err := GridSize(width, height, tileSize)
	if err != nil {
		return nil, err
	}
	if crop.Width <= 0 || crop.Height <= 0 || crop.X < 0 || crop.Y < 0 {
		return nil, domain.ErrInvalidCrop
	}
	if crop.X+crop.Width > width || crop.Y+crop.Height > height {
		return nil, domain.ErrInvalidCrop
	}

	firstCol := crop.X / tileSize
	lastCol := (crop.X + crop.Width - 1) / tileSize
	firstRow := crop.Y / tileSize
	lastRow := (crop.Y + crop.Height - 1) / tileSize

	indices := make([]int, 0, (lastCol-firstCol+1)*(lastRow-firstRow+1))
	for row := firstRow; row <= lastRow; row++ {
		for col := firstCol; col <= lastCol; col++ {
			indices = append(indices, row*cols+col)
		}
	}
	sort.Ints(indices)
	return indices, nil
}
