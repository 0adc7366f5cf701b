package picture

import "github.com/gogpu/flow"

// canvasState is the recording state of one save scope.
type canvasState struct {
	xform       flow.Matrix
	clip        flow.Rect
	hasClip     bool // false means unbounded
	saveLayer   bool
	layerOffset flow.Point
	paintBounds flow.Rect
}

// rootState returns the bottom scope: identity, unbounded, not a layer.
func rootState() canvasState {
	return canvasState{xform: flow.Identity()}
}

// copy returns the scope pushed by a plain save. Transform and clip are
// values, so later changes in the child never reach the parent. The paint
// bounds seen so far carry into the child: restore replaces the parent's
// bounds with the child's, which is then a superset.
func (s *canvasState) copy() canvasState {
	return canvasState{
		xform:       s.xform,
		clip:        s.clip,
		hasClip:     s.hasClip,
		paintBounds: s.paintBounds,
	}
}

// intersectClip narrows the clip. The clip never grows.
func (s *canvasState) intersectClip(r flow.Rect) {
	if s.hasClip {
		s.clip = s.clip.Intersect(r)
	} else {
		s.clip = r
		s.hasClip = true
	}
}
