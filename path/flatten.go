package path

import (
	"math"
	"sync"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/internal/cache"
)

// Tolerance is the maximum distance, in device pixels, between a curve and
// its flattened approximation.
const Tolerance = 0.1

// maxSubdivision bounds curve recursion for degenerate or huge curves.
const maxSubdivision = 16

// flattenCacheCapacity is the number of flattened paths kept alive.
const flattenCacheCapacity = 512

type flattenKey struct {
	id      uint64
	version uint64
	scale   float64
}

var flattenCache = cache.New[flattenKey, *Flattened](flattenCacheCapacity)

// Subpath is one flattened contour.
type Subpath struct {
	Points []flow.Point
	Closed bool
}

// Flattened holds a path's polylines at one scale and lazily derives fill
// and stroke meshes from them. It is immutable and safe for concurrent use.
type Flattened struct {
	subpaths []Subpath

	fillOnce sync.Once
	fill     *Mesh

	strokeMu  sync.Mutex
	strokeKey StrokeStyle
	stroke    *Mesh
}

// Flatten returns the path approximated by line segments so that the error
// after scaling by scale stays under Tolerance. Results are memoized.
// A non-positive or non-finite scale is treated as 1.
func (p *Path) Flatten(scale float64) *Flattened {
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	key := flattenKey{id: p.id, version: p.version, scale: scale}
	return flattenCache.GetOrCreate(key, func() *Flattened {
		f := flattenElements(p.elements, Tolerance/scale)
		flow.Logger().Debug("path: flattened",
			"path", p.id, "scale", scale, "elements", len(p.elements), "subpaths", len(f.subpaths))
		return f
	})
}

// FlattenCacheStats reports the flatten memo statistics.
func FlattenCacheStats() cache.Stats {
	return flattenCache.Stats()
}

// Subpaths returns the flattened contours. The slice must not be modified.
func (f *Flattened) Subpaths() []Subpath {
	return f.subpaths
}

func flattenElements(elements []Element, tolerance float64) *Flattened {
	f := &Flattened{}
	var cur *Subpath
	var current flow.Point

	begin := func(pt flow.Point) {
		f.subpaths = append(f.subpaths, Subpath{Points: []flow.Point{pt}})
		cur = &f.subpaths[len(f.subpaths)-1]
	}

	for _, elem := range elements {
		switch e := elem.(type) {
		case MoveTo:
			begin(e.Point)
			current = e.Point
		case LineTo:
			if cur == nil || cur.Closed {
				begin(current)
			}
			cur.Points = append(cur.Points, e.Point)
			current = e.Point
		case QuadTo:
			if cur == nil || cur.Closed {
				begin(current)
			}
			flattenQuadratic(current, e.Control, e.Point, tolerance, 0, &cur.Points)
			current = e.Point
		case CubicTo:
			if cur == nil || cur.Closed {
				begin(current)
			}
			flattenCubic(current, e.Control1, e.Control2, e.Point, tolerance, 0, &cur.Points)
			current = e.Point
		case Close:
			if cur != nil && !cur.Closed {
				cur.Closed = true
				current = cur.Points[0]
			}
		}
	}
	return f
}

// flattenQuadratic recursively subdivides a quadratic Bezier curve,
// appending every segment endpoint after p0.
func flattenQuadratic(p0, p1, p2 flow.Point, tolerance float64, depth int, points *[]flow.Point) {
	if depth >= maxSubdivision || distanceToLine(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}

	q0 := lerp(p0, p1, 0.5)
	q1 := lerp(p1, p2, 0.5)
	q2 := lerp(q0, q1, 0.5)

	flattenQuadratic(p0, q0, q2, tolerance, depth+1, points)
	flattenQuadratic(q2, q1, p2, tolerance, depth+1, points)
}

// flattenCubic recursively subdivides a cubic Bezier curve using de
// Casteljau's algorithm.
func flattenCubic(p0, p1, p2, p3 flow.Point, tolerance float64, depth int, points *[]flow.Point) {
	dist := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= maxSubdivision || dist < tolerance {
		*points = append(*points, p3)
		return
	}

	q0 := lerp(p0, p1, 0.5)
	q1 := lerp(p1, p2, 0.5)
	q2 := lerp(p2, p3, 0.5)
	r0 := lerp(q0, q1, 0.5)
	r1 := lerp(q1, q2, 0.5)
	s := lerp(r0, r1, 0.5)

	flattenCubic(p0, q0, r0, s, tolerance, depth+1, points)
	flattenCubic(s, r1, q2, p3, tolerance, depth+1, points)
}

// distanceToLine is the distance from p to segment ab.
func distanceToLine(p, a, b flow.Point) float64 {
	ab := b.Sub(a)
	abLen2 := ab.X*ab.X + ab.Y*ab.Y
	if abLen2 < 1e-20 {
		return p.Sub(a).Length()
	}

	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / abLen2
	switch {
	case t < 0:
		return ap.Length()
	case t > 1:
		return p.Sub(b).Length()
	}
	return p.Sub(a.Add(ab.Mul(t))).Length()
}

func lerp(p, q flow.Point, t float64) flow.Point {
	return flow.Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}
