package flipbook

import (
	"fmt"
	"image"
	"math"
)

// Region is a rectangle in texture coordinates normalized to [0, 1].
type Region struct {
	U, V, W, H float64
}

// FrameRegion returns the region of frame index in a horizontal strip of
// frameCount frames.
func FrameRegion(frameCount, index int) (Region, error) {
	return GridRegion(frameCount, 1, index)
}

// GridRegion returns the region of frame index in a sheet of cols×rows
// frames, counted left-to-right, top-to-bottom.
func GridRegion(cols, rows, index int) (Region, error) {
	if cols <= 0 || rows <= 0 {
		return Region{}, fmt.Errorf("grid %dx%d: %w", cols, rows, ErrInvalidArgument)
	}
	if index < 0 || index >= cols*rows {
		return Region{}, fmt.Errorf("frame index %d out of range [0, %d): %w",
			index, cols*rows, ErrInvalidArgument)
	}
	col, row := index%cols, index/cols
	return Region{
		U: float64(col) / float64(cols),
		V: float64(row) / float64(rows),
		W: 1 / float64(cols),
		H: 1 / float64(rows),
	}, nil
}

// Rect maps r into the pixel rectangle bounds.
func (r Region) Rect(bounds image.Rectangle) image.Rectangle {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	x0 := bounds.Min.X + int(math.Round(r.U*w))
	y0 := bounds.Min.Y + int(math.Round(r.V*h))
	x1 := bounds.Min.X + int(math.Round((r.U+r.W)*w))
	y1 := bounds.Min.Y + int(math.Round((r.V+r.H)*h))
	return image.Rect(x0, y0, x1, y1)
}
