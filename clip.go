package tftbmp

import "image"

// Viewport is the visible area of a display, [0, Width) by [0, Height).
type Viewport struct {
	Width, Height int
}

func (v Viewport) bounds() image.Rectangle {
	return image.Rect(0, 0, v.Width, v.Height)
}

// Overlaps reports whether a w by h image anchored at (x, y) has any
// pixels inside the viewport.
func (v Viewport) Overlaps(x, y, w, h int) bool {
	return image.Rect(x, y, x+w, y+h).Overlaps(v.bounds())
}

// Row reports whether row y is inside the viewport.
func (v Viewport) Row(y int) bool {
	return y >= 0 && y < v.Height
}

// Span clips a run of n pixels starting at column x. It returns the first
// visible column, the offset of the matching pixel within the run and the
// number of visible pixels, which is zero when none are.
func (v Viewport) Span(x, n int) (dx, start, count int) {
	r := image.Rect(x, 0, x+n, 1).Intersect(image.Rect(0, 0, v.Width, 1))
	if r.Empty() {
		return 0, 0, 0
	}
	return r.Min.X, r.Min.X - x, r.Dx()
}
