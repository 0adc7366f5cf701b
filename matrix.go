package flow

import "math"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
//
// Matrix is a value type. Every Pre* method returns a new matrix, so a
// matrix held by one save scope can never be mutated through another.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// invertEpsilon is the smallest determinant magnitude treated as invertible.
const invertEpsilon = 1e-12

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Skew creates a skew matrix. sx skews along the X axis proportionally to
// y, sy skews along the Y axis proportionally to x.
func Skew(sx, sy float64) Matrix {
	return Matrix{
		A: 1, B: sx, C: 0,
		D: sy, E: 1, F: 0,
	}
}

// Multiply multiplies two matrices (m * other).
// The result applies other first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// PreTranslate returns m * Translate(dx, dy).
func (m Matrix) PreTranslate(dx, dy float64) Matrix {
	return m.Multiply(Translate(dx, dy))
}

// PreScale returns m * Scale(sx, sy).
func (m Matrix) PreScale(sx, sy float64) Matrix {
	return m.Multiply(Scale(sx, sy))
}

// PreRotate returns m * Rotate(radians).
func (m Matrix) PreRotate(radians float64) Matrix {
	return m.Multiply(Rotate(radians))
}

// PreRotateAbout returns m rotated by radians around the pivot (px, py).
func (m Matrix) PreRotateAbout(radians, px, py float64) Matrix {
	return m.PreTranslate(px, py).PreRotate(radians).PreTranslate(-px, -py)
}

// PreSkew returns m * Skew(sx, sy).
func (m Matrix) PreSkew(sx, sy float64) Matrix {
	return m.Multiply(Skew(sx, sy))
}

// PreConcat returns m * other.
func (m Matrix) PreConcat(other Matrix) Matrix {
	return m.Multiply(other)
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Determinant returns the determinant of the 2x2 linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse matrix and true, or the identity and false
// when m is singular or not finite.
func (m Matrix) Invert() (Matrix, bool) {
	if !m.IsFinite() {
		return Identity(), false
	}
	det := m.Determinant()
	if math.Abs(det) < invertEpsilon {
		return Identity(), false
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}, true
}

// IsInvertible reports whether m has an inverse.
func (m Matrix) IsInvertible() bool {
	_, ok := m.Invert()
	return ok
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// IsFinite reports whether every component is neither NaN nor infinite.
func (m Matrix) IsFinite() bool {
	for _, v := range [...]float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// UniformScale returns the geometric-mean scale factor of the linear part,
// sqrt(|det|). Flattening tolerance and blur radii are scaled by it.
func (m Matrix) UniformScale() float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

// Translation returns the translation components of the matrix.
func (m Matrix) Translation() (x, y float64) {
	return m.C, m.F
}

// WithTranslation returns m with its translation replaced by (x, y).
func (m Matrix) WithTranslation(x, y float64) Matrix {
	m.C, m.F = x, y
	return m
}

// MapRect returns the axis-aligned bounds of r transformed by m.
func (m Matrix) MapRect(r Rect) Rect {
	if m.IsTranslation() {
		return r.Shift(Point{X: m.C, Y: m.F})
	}
	p0 := m.TransformPoint(Point{X: r.MinX, Y: r.MinY})
	p1 := m.TransformPoint(Point{X: r.MaxX, Y: r.MinY})
	p2 := m.TransformPoint(Point{X: r.MaxX, Y: r.MaxY})
	p3 := m.TransformPoint(Point{X: r.MinX, Y: r.MaxY})
	return Rect{
		MinX: min(p0.X, p1.X, p2.X, p3.X),
		MinY: min(p0.Y, p1.Y, p2.Y, p3.Y),
		MaxX: max(p0.X, p1.X, p2.X, p3.X),
		MaxY: max(p0.Y, p1.Y, p2.Y, p3.Y),
	}
}
