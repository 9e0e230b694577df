// Package core holds the engine-free primitives shared by the game and the
// terminal platform: geometry, the cell buffer, input frames and step results.
// Nothing in here imports Bubble Tea.
package core

// Rect is an axis-aligned box in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle at (x, y) with size w×h.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects reports whether two rectangles share at least one cell.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF is Clamp for float64.
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
