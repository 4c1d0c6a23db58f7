package imaging

import (
	"bytes"
	"errors"
	"testing"

	"aperture/internal/domain"
)

func testImage(width, height int) domain.Image {
	img := domain.Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
	for i := range img.Pix {
		img.Pix[i] = byte(i % 251)
	}
	return img
}

func TestTileGrid100x100At32(t *testing.T) {
	img := testImage(100, 100)
	tiles, err := Tile(img, 32)
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	if len(tiles) != 16 {
		t.Fatalf("expected 16 tiles, got %d", len(tiles))
	}

	for _, tile := range tiles {
		wantW, wantH := 32, 32
		if tile.X == 96 {
			wantW = 4
		}
		if tile.Y == 96 {
			wantH = 4
		}
		if tile.Width != wantW || tile.Height != wantH {
			t.Fatalf("tile %d at (%d,%d): got %dx%d, want %dx%d",
				tile.Index, tile.X, tile.Y, tile.Width, tile.Height, wantW, wantH)
		}
		if len(tile.Bytes) != tile.Width*tile.Height*4 {
			t.Fatalf("tile %d: byte length %d does not match %dx%d",
				tile.Index, len(tile.Bytes), tile.Width, tile.Height)
		}
	}
}

func TestTileRowMajorOrder(t *testing.T) {
	img := testImage(70, 40)
	tiles, err := Tile(img, 32)
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	// 3 cols x 2 rows
	if len(tiles) != 6 {
		t.Fatalf("expected 6 tiles, got %d", len(tiles))
	}
	wantOrigins := [][2]int{{0, 0}, {32, 0}, {64, 0}, {0, 32}, {32, 32}, {64, 32}}
	for i, tile := range tiles {
		if tile.Index != i {
			t.Fatalf("tile %d has index %d", i, tile.Index)
		}
		if tile.X != wantOrigins[i][0] || tile.Y != wantOrigins[i][1] {
			t.Fatalf("tile %d origin (%d,%d), want (%d,%d)",
				i, tile.X, tile.Y, wantOrigins[i][0], wantOrigins[i][1])
		}
	}
}

func TestTileDeterministic(t *testing.T) {
	img := testImage(50, 33)
	first, err := Tile(img, 16)
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	second, err := Tile(img, 16)
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	for i := range first {
		if !bytes.Equal(first[i].Bytes, second[i].Bytes) {
			t.Fatalf("tile %d bytes differ between identical runs", i)
		}
	}
}

func TestTileRejectsInvalidDimensions(t *testing.T) {
	cases := []struct {
		name     string
		img      domain.Image
		tileSize int
	}{
		{"zero width", domain.Image{Width: 0, Height: 10}, 8},
		{"zero height", domain.Image{Width: 10, Height: 0}, 8},
		{"zero tile size", testImage(10, 10), 0},
		{"short pix buffer", domain.Image{Width: 10, Height: 10, Pix: make([]byte, 7)}, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Tile(tc.img, tc.tileSize); !errors.Is(err, domain.ErrInvalidImageDimensions) {
				t.Fatalf("expected ErrInvalidImageDimensions, got %v", err)
			}
		})
	}
}

func TestTileSmallerThanTileSize(t *testing.T) {
	img := testImage(5, 3)
	tiles, err := Tile(img, 32)
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	if len(tiles) != 1 {
		t.Fatalf("expected a single clipped tile, got %d", len(tiles))
	}
	if tiles[0].Width != 5 || tiles[0].Height != 3 {
		t.Fatalf("clipped tile is %dx%d", tiles[0].Width, tiles[0].Height)
	}
}

func TestTileIndicesForCrop(t *testing.T) {
	// 100x100 at 32 => 4x4 grid.
	cases := []struct {
		name string
		crop domain.CropRequest
		want []int
	}{
		{"aligned top-left quad", domain.CropRequest{X: 0, Y: 0, Width: 64, Height: 64}, []int{0, 1, 4, 5}},
		{"single interior tile", domain.CropRequest{X: 32, Y: 32, Width: 32, Height: 32}, []int{5}},
		{"straddles boundary", domain.CropRequest{X: 16, Y: 16, Width: 32, Height: 32}, []int{0, 1, 4, 5}},
		{"bottom-right corner", domain.CropRequest{X: 96, Y: 96, Width: 4, Height: 4}, []int{15}},
		{"full image", domain.CropRequest{X: 0, Y: 0, Width: 100, Height: 100}, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TileIndicesForCrop(100, 100, 32, tc.crop)
			if err != nil {
				t.Fatalf("indices: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestTileIndicesForCropRejectsOutOfBounds(t *testing.T) {
	cases := []domain.CropRequest{
		{X: -1, Y: 0, Width: 10, Height: 10},
		{X: 0, Y: 0, Width: 0, Height: 10},
		{X: 0, Y: 0, Width: 10, Height: 0},
		{X: 95, Y: 0, Width: 10, Height: 10},
		{X: 0, Y: 99, Width: 1, Height: 2},
	}
	for _, crop := range cases {
		if _, err := TileIndicesForCrop(100, 100, 32, crop); !errors.Is(err, domain.ErrInvalidCrop) {
			t.Fatalf("crop %+v: expected ErrInvalidCrop, got %v", crop, err)
		}
	}
}
