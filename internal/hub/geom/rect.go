// Package geom holds the small rectangle type shared by the Hub's
// layout, viewport and placement-projection code.
package geom

// Rect is an axis-aligned rectangle in whatever coordinate space the
// caller is working in (global, monitor-relative, or workspace-relative).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Right returns the rectangle's right edge (exclusive).
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the rectangle's bottom edge (exclusive).
func (r Rect) Bottom() int { return r.Y + r.Height }

// Intersect returns the overlapping region of r and other. If the two
// rectangles do not overlap, the returned rectangle has zero width or
// height (callers should check before using it as a visible frame).
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.Right(), other.Right())
	y1 := min(r.Bottom(), other.Bottom())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Contains reports whether r fully contains the point (x, y).
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}
