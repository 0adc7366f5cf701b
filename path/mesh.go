package path

import (
	"math"

	"github.com/gogpu/flow"
)

// LineCap specifies the shape of open stroke ends.
type LineCap uint8

const (
	// LineCapButt ends the stroke exactly at the endpoint.
	LineCapButt LineCap = iota
	// LineCapRound adds a semicircle of radius width/2.
	LineCapRound
	// LineCapSquare extends the stroke by width/2 beyond the endpoint.
	LineCapSquare
)

// LineJoin specifies the shape of stroke corners.
type LineJoin uint8

const (
	// LineJoinMiter extends the outer edges until they meet, up to the miter limit.
	LineJoinMiter LineJoin = iota
	// LineJoinRound rounds corners with radius width/2.
	LineJoinRound
	// LineJoinBevel cuts corners off.
	LineJoinBevel
)

// StrokeStyle parameterizes ComputeStrokeMesh.
type StrokeStyle struct {
	// HalfWidth is half the stroke width in path units.
	HalfWidth  float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

// Mesh is a triangle list.
type Mesh struct {
	Vertices []flow.Point
	Indices  []uint32
}

// Bounds returns the bounds of all vertices, or the zero Rect for an empty mesh.
func (m *Mesh) Bounds() flow.Rect {
	if m == nil || len(m.Vertices) == 0 {
		return flow.Rect{}
	}
	v0 := m.Vertices[0]
	r := flow.Rect{MinX: v0.X, MinY: v0.Y, MaxX: v0.X, MaxY: v0.Y}
	for _, v := range m.Vertices[1:] {
		r.MinX = math.Min(r.MinX, v.X)
		r.MinY = math.Min(r.MinY, v.Y)
		r.MaxX = math.Max(r.MaxX, v.X)
		r.MaxY = math.Max(r.MaxY, v.Y)
	}
	return r
}

// Transform returns a copy of m with every vertex mapped through xform.
// The index buffer is shared.
func (m *Mesh) Transform(xform flow.Matrix) *Mesh {
	if m == nil {
		return &Mesh{}
	}
	out := &Mesh{
		Vertices: make([]flow.Point, len(m.Vertices)),
		Indices:  m.Indices,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = xform.TransformPoint(v)
	}
	return out
}

// ComputeFillMesh returns a triangle-fan mesh covering every subpath.
// The result is computed once per Flattened.
func (f *Flattened) ComputeFillMesh() *Mesh {
	f.fillOnce.Do(func() {
		m := &Mesh{}
		for _, sp := range f.subpaths {
			if len(sp.Points) < 3 {
				continue
			}
			base := uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, sp.Points...)
			for i := 1; i+1 < len(sp.Points); i++ {
				m.Indices = append(m.Indices, base, base+uint32(i), base+uint32(i+1))
			}
		}
		f.fill = m
	})
	return f.fill
}

// ComputeStrokeMesh returns a mesh covering the stroke outline of every
// subpath. The last computed style is memoized.
func (f *Flattened) ComputeStrokeMesh(style StrokeStyle) *Mesh {
	f.strokeMu.Lock()
	defer f.strokeMu.Unlock()

	if f.stroke != nil && f.strokeKey == style {
		return f.stroke
	}
	b := &strokeBuilder{style: style, mesh: &Mesh{}}
	for _, sp := range f.subpaths {
		b.subpath(dedupe(sp.Points), sp.Closed)
	}
	f.stroke, f.strokeKey = b.mesh, style
	return f.stroke
}

// roundSegments is the polygon resolution used for round caps and joins.
const roundSegments = 8

type strokeBuilder struct {
	style StrokeStyle
	mesh  *Mesh
}

func (b *strokeBuilder) subpath(pts []flow.Point, closed bool) {
	hw := b.style.HalfWidth
	if len(pts) == 0 || !(hw > 0) {
		return
	}
	if len(pts) == 1 {
		// A zero-length stroke is only visible with round or square caps.
		switch b.style.Cap {
		case LineCapRound:
			b.disc(pts[0], hw)
		case LineCapSquare:
			b.quad(pts[0].Add(flow.Pt(-hw, -hw)), pts[0].Add(flow.Pt(hw, -hw)),
				pts[0].Add(flow.Pt(-hw, hw)), pts[0].Add(flow.Pt(hw, hw)))
		}
		return
	}
	if closed && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}

	n := len(pts) - 1
	for i := 0; i < n; i++ {
		a, c := pts[i], pts[i+1]
		d := unit(c.Sub(a))
		if !closed {
			if i == 0 && b.style.Cap == LineCapSquare {
				a = a.Sub(d.Mul(hw))
			}
			if i == n-1 && b.style.Cap == LineCapSquare {
				c = c.Add(d.Mul(hw))
			}
		}
		nrm := perp(d).Mul(hw)
		b.quad(a.Add(nrm), a.Sub(nrm), c.Add(nrm), c.Sub(nrm))
	}

	for i := 1; i < n; i++ {
		b.join(pts[i-1], pts[i], pts[i+1])
	}
	if closed && n >= 2 {
		b.join(pts[n-1], pts[0], pts[1])
	}
	if !closed && b.style.Cap == LineCapRound {
		b.disc(pts[0], hw)
		b.disc(pts[n], hw)
	}
}

func (b *strokeBuilder) join(prev, at, next flow.Point) {
	hw := b.style.HalfWidth
	d0 := unit(at.Sub(prev))
	d1 := unit(next.Sub(at))
	cross := d0.X*d1.Y - d0.Y*d1.X
	if math.Abs(cross) < 1e-12 && d0.X*d1.X+d0.Y*d1.Y > 0 {
		return // collinear, the segment quads already meet
	}

	switch b.style.Join {
	case LineJoinRound:
		b.disc(at, hw)
		return
	case LineJoinMiter:
		n0, n1 := perp(d0), perp(d1)
		mid := unit(n0.Add(n1))
		cos := mid.X*n0.X + mid.Y*n0.Y
		if cos > 1e-9 && 1/cos <= b.style.MiterLimit {
			side := 1.0
			if cross > 0 {
				side = -1
			}
			tip := at.Add(mid.Mul(side * hw / cos))
			b.tri(at, at.Add(n0.Mul(side*hw)), tip)
			b.tri(at, tip, at.Add(n1.Mul(side*hw)))
			return
		}
	}
	// Bevel, or a miter beyond its limit.
	side := 1.0
	if cross > 0 {
		side = -1
	}
	b.tri(at, at.Add(perp(d0).Mul(side*hw)), at.Add(perp(d1).Mul(side*hw)))
}

// disc adds a polygon circumscribing the circle of radius r around c.
func (b *strokeBuilder) disc(c flow.Point, r float64) {
	outer := r / math.Cos(math.Pi/roundSegments)
	base := uint32(len(b.mesh.Vertices))
	b.mesh.Vertices = append(b.mesh.Vertices, c)
	for i := 0; i < roundSegments; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / roundSegments)
		b.mesh.Vertices = append(b.mesh.Vertices, c.Add(flow.Pt(cos*outer, sin*outer)))
	}
	for i := uint32(0); i < roundSegments; i++ {
		b.mesh.Indices = append(b.mesh.Indices, base, base+1+i, base+1+(i+1)%roundSegments)
	}
}

// quad adds two triangles a0 b0 a1 / b0 b1 a1, where a0/b0 are the two
// sides at the start and a1/b1 at the end.
func (b *strokeBuilder) quad(a0, b0, a1, b1 flow.Point) {
	base := uint32(len(b.mesh.Vertices))
	b.mesh.Vertices = append(b.mesh.Vertices, a0, b0, a1, b1)
	b.mesh.Indices = append(b.mesh.Indices, base, base+1, base+2, base+1, base+3, base+2)
}

func (b *strokeBuilder) tri(p0, p1, p2 flow.Point) {
	base := uint32(len(b.mesh.Vertices))
	b.mesh.Vertices = append(b.mesh.Vertices, p0, p1, p2)
	b.mesh.Indices = append(b.mesh.Indices, base, base+1, base+2)
}

func dedupe(pts []flow.Point) []flow.Point {
	out := make([]flow.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

func unit(v flow.Point) flow.Point {
	l := v.Length()
	if l == 0 {
		return flow.Point{}
	}
	return v.Mul(1 / l)
}

func perp(v flow.Point) flow.Point {
	return flow.Point{X: -v.Y, Y: v.X}
}
