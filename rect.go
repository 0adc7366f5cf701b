package flow

import "math"

// Rect represents an axis-aligned rectangle.
// Min is the top-left corner, Max the bottom-right corner.
// The zero Rect is empty.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewRect creates a rectangle from position and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{
		MinX: x,
		MinY: y,
		MaxX: x + width,
		MaxY: y + height,
	}
}

// RectFromLTRB creates a rectangle from its four edges.
func RectFromLTRB(left, top, right, bottom float64) Rect {
	return Rect{MinX: left, MinY: top, MaxX: right, MaxY: bottom}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// TopLeft returns the minimum corner.
func (r Rect) TopLeft() Point {
	return Point{X: r.MinX, Y: r.MinY}
}

// IsEmpty returns true if the rectangle has zero or negative area.
// A rectangle with a NaN edge is empty.
func (r Rect) IsEmpty() bool {
	return !(r.MaxX > r.MinX) || !(r.MaxY > r.MinY)
}

// IsFinite reports whether all four edges are finite.
func (r Rect) IsFinite() bool {
	for _, v := range [...]float64{r.MinX, r.MinY, r.MaxX, r.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.MinX >= r.MinX && o.MinY >= r.MinY && o.MaxX <= r.MaxX && o.MaxY <= r.MaxY
}

// Overlaps reports whether r and o share a region of positive area.
func (r Rect) Overlaps(o Rect) bool {
	return !r.Intersect(o).IsEmpty()
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Intersect returns the intersection of r and other.
// Returns the zero rectangle if they don't intersect.
func (r Rect) Intersect(other Rect) Rect {
	result := Rect{
		MinX: math.Max(r.MinX, other.MinX),
		MinY: math.Max(r.MinY, other.MinY),
		MaxX: math.Min(r.MaxX, other.MaxX),
		MaxY: math.Min(r.MaxY, other.MaxY),
	}
	if result.IsEmpty() {
		return Rect{}
	}
	return result
}

// Inflate returns r grown by delta on every side.
func (r Rect) Inflate(delta float64) Rect {
	return Rect{
		MinX: r.MinX - delta,
		MinY: r.MinY - delta,
		MaxX: r.MaxX + delta,
		MaxY: r.MaxY + delta,
	}
}

// Shift returns r translated by offset.
func (r Rect) Shift(offset Point) Rect {
	return Rect{
		MinX: r.MinX + offset.X,
		MinY: r.MinY + offset.Y,
		MaxX: r.MaxX + offset.X,
		MaxY: r.MaxY + offset.Y,
	}
}

// Scale returns r with every edge multiplied by s.
func (r Rect) Scale(s float64) Rect {
	return Rect{MinX: r.MinX * s, MinY: r.MinY * s, MaxX: r.MaxX * s, MaxY: r.MaxY * s}
}

// RRect is a rectangle with elliptical corners.
// Only its outer bounds matter for clipping and paint bounds.
type RRect struct {
	Rect Rect

	// Corner radii, clockwise from the top-left.
	TL, TR, BR, BL Point
}

// NewRRect creates a rounded rectangle with uniform circular corners.
func NewRRect(r Rect, radius float64) RRect {
	c := Point{X: radius, Y: radius}
	return RRect{Rect: r, TL: c, TR: c, BR: c, BL: c}
}

// OuterRect returns the bounding rectangle.
func (rr RRect) OuterRect() Rect {
	return rr.Rect
}
