// Package path builds vector paths and flattens them into triangle meshes.
//
// A Path is a sequence of MoveTo/LineTo/QuadTo/CubicTo/Close elements.
// Flatten approximates its curves with line segments at a tolerance of
// Tolerance device pixels for the given scale and returns a Flattened
// polyline set, from which fill and stroke meshes are derived:
//
//	p := path.New()
//	p.AddRect(flow.NewRect(0, 0, 20, 20))
//	f := p.Flatten(scale * devicePixelRatio)
//	bounds := f.ComputeFillMesh().Transform(xform).Bounds()
//
// Flatten results are memoized per path and scale in a bounded LRU cache, so
// recording the same path repeatedly only flattens it once. Mutating a path
// after flattening bumps its version and invalidates older results.
//
// Meshes are only as precise as bounds computation needs: fills are triangle
// fans and strokes are per-segment quads with conservative joins and caps.
// Tessellation for actual GPU drawing is a backend concern.
package path
