package domain

// Image is a decoded capture: row-major RGBA pixels, 4 bytes per pixel,
// stride Width*4. All hashing is defined over this layout, so decoding must
// normalize every input to it.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// PixelAt returns the byte offset of pixel (x, y).
func (img Image) PixelAt(x, y int) int {
	return (y*img.Width + x) * 4
}

// Tile is one grid cell of an image. Bytes hold the cell's raw RGBA rows,
// top to bottom, and are the exact input to the leaf hash.
type Tile struct {
	Index  int
	X      int
	Y      int
	Width  int
	Height int
	Bytes  []byte
}

// CropRequest is a declared crop in pixel coordinates of the original image.
type CropRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}
