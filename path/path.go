package path

import (
	"math"
	"sync/atomic"

	"github.com/gogpu/flow"
)

// Element represents an element in a path.
type Element interface {
	isElement()
}

// MoveTo starts a new subpath at Point.
type MoveTo struct{ Point flow.Point }

func (MoveTo) isElement() {}

// LineTo draws a straight line to Point.
type LineTo struct{ Point flow.Point }

func (LineTo) isElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct{ Control, Point flow.Point }

func (QuadTo) isElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct{ Control1, Control2, Point flow.Point }

func (CubicTo) isElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isElement() {}

// kappa is the cubic control-point distance for a quarter circle.
const kappa = 0.5522847498307936

var nextPathID atomic.Uint64

// Path is a mutable vector path.
// Its identity (not its contents) keys the flatten cache, so two paths with
// equal elements are flattened independently.
type Path struct {
	id       uint64
	version  uint64
	elements []Element
	current  flow.Point
	start    flow.Point
}

// New creates an empty path.
func New() *Path {
	return &Path{id: nextPathID.Add(1)}
}

// Elements returns the path elements. The slice must not be modified.
func (p *Path) Elements() []Element {
	return p.elements
}

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) {
	pt := flow.Pt(x, y)
	p.push(MoveTo{Point: pt})
	p.current, p.start = pt, pt
}

// LineTo adds a line segment, starting a subpath at (x, y) if none is open.
func (p *Path) LineTo(x, y float64) {
	if len(p.elements) == 0 {
		p.MoveTo(x, y)
		return
	}
	pt := flow.Pt(x, y)
	p.push(LineTo{Point: pt})
	p.current = pt
}

// QuadTo adds a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if len(p.elements) == 0 {
		p.MoveTo(cx, cy)
	}
	pt := flow.Pt(x, y)
	p.push(QuadTo{Control: flow.Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo adds a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(p.elements) == 0 {
		p.MoveTo(c1x, c1y)
	}
	pt := flow.Pt(x, y)
	p.push(CubicTo{Control1: flow.Pt(c1x, c1y), Control2: flow.Pt(c2x, c2y), Point: pt})
	p.current = pt
}

// Close closes the current subpath.
func (p *Path) Close() {
	if len(p.elements) == 0 {
		return
	}
	p.push(Close{})
	p.current = p.start
}

// AddRect adds a closed rectangle subpath.
func (p *Path) AddRect(r flow.Rect) {
	p.MoveTo(r.MinX, r.MinY)
	p.LineTo(r.MaxX, r.MinY)
	p.LineTo(r.MaxX, r.MaxY)
	p.LineTo(r.MinX, r.MaxY)
	p.Close()
}

// AddRRect adds a closed rounded rectangle subpath.
func (p *Path) AddRRect(rr flow.RRect) {
	r := rr.Rect
	tl, tr, br, bl := rr.TL, rr.TR, rr.BR, rr.BL
	p.MoveTo(r.MinX+tl.X, r.MinY)
	p.LineTo(r.MaxX-tr.X, r.MinY)
	p.CubicTo(r.MaxX-tr.X*(1-kappa), r.MinY, r.MaxX, r.MinY+tr.Y*(1-kappa), r.MaxX, r.MinY+tr.Y)
	p.LineTo(r.MaxX, r.MaxY-br.Y)
	p.CubicTo(r.MaxX, r.MaxY-br.Y*(1-kappa), r.MaxX-br.X*(1-kappa), r.MaxY, r.MaxX-br.X, r.MaxY)
	p.LineTo(r.MinX+bl.X, r.MaxY)
	p.CubicTo(r.MinX+bl.X*(1-kappa), r.MaxY, r.MinX, r.MaxY-bl.Y*(1-kappa), r.MinX, r.MaxY-bl.Y)
	p.LineTo(r.MinX, r.MinY+tl.Y)
	p.CubicTo(r.MinX, r.MinY+tl.Y*(1-kappa), r.MinX+tl.X*(1-kappa), r.MinY, r.MinX+tl.X, r.MinY)
	p.Close()
}

// AddOval adds a closed ellipse inscribed in r.
func (p *Path) AddOval(r flow.Rect) {
	cx, cy := (r.MinX+r.MaxX)/2, (r.MinY+r.MaxY)/2
	rx, ry := r.Width()/2, r.Height()/2
	ox, oy := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
}

// AddCircle adds a closed circle.
func (p *Path) AddCircle(cx, cy, radius float64) {
	p.AddOval(flow.RectFromLTRB(cx-radius, cy-radius, cx+radius, cy+radius))
}

// Bounds returns the bounds of all points including control points.
// Control-point bounds always contain the curve.
func (p *Path) Bounds() flow.Rect {
	first := true
	var r flow.Rect
	add := func(pt flow.Point) {
		if first {
			r = flow.Rect{MinX: pt.X, MinY: pt.Y, MaxX: pt.X, MaxY: pt.Y}
			first = false
			return
		}
		r.MinX = math.Min(r.MinX, pt.X)
		r.MinY = math.Min(r.MinY, pt.Y)
		r.MaxX = math.Max(r.MaxX, pt.X)
		r.MaxY = math.Max(r.MaxY, pt.Y)
	}
	for _, e := range p.elements {
		switch e := e.(type) {
		case MoveTo:
			add(e.Point)
		case LineTo:
			add(e.Point)
		case QuadTo:
			add(e.Control)
			add(e.Point)
		case CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	return r
}

// Clone returns an independent copy with a new identity.
func (p *Path) Clone() *Path {
	c := New()
	c.elements = append([]Element(nil), p.elements...)
	c.current, c.start = p.current, p.start
	return c
}

func (p *Path) push(e Element) {
	p.elements = append(p.elements, e)
	p.version++
}
