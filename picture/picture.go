package picture

import (
	"slices"
	"sync/atomic"

	"github.com/gogpu/flow"
)

var nextPictureID atomic.Uint64

// Picture is an immutable recording of draw commands together with the
// device-space bounds of everything it paints and a spatial index over
// those commands.
//
// A Picture is safe for concurrent reads. Its identity, not its content,
// distinguishes it in raster cache keys.
type Picture struct {
	id           uint64
	cmds         []DrawCmd
	paintBounds  flow.Rect
	index        *bbh
	isDynamic    bool
	stateUpdates []int
}

// ID returns a process-unique identifier for the picture.
func (p *Picture) ID() uint64 { return p.id }

// Commands returns a copy of the recorded commands in order.
func (p *Picture) Commands() []DrawCmd { return slices.Clone(p.cmds) }

// Len returns the number of recorded commands.
func (p *Picture) Len() int { return len(p.cmds) }

// PaintBounds returns the union of all painted geometry in the picture's
// coordinate space, clipped by the clips in effect when it was drawn.
// An empty Rect means nothing visible was painted.
func (p *Picture) PaintBounds() flow.Rect { return p.paintBounds }

// IsDynamic reports whether the picture references content that may change
// between frames, such as a dynamic image or a nested dynamic picture.
func (p *Picture) IsDynamic() bool { return p.isDynamic }

// StateUpdateIndices returns the indices of commands that change the
// transform, clip or layer state, in ascending order.
func (p *Picture) StateUpdateIndices() []int { return slices.Clone(p.stateUpdates) }

// Query returns, in ascending order, the indices of drawing commands whose
// indexed bounds intersect rect. Indexed bounds are inflated by a small
// margin, so the result may include near misses but never omits a command
// that paints inside rect.
func (p *Picture) Query(rect flow.Rect) []int {
	if p.index == nil || !rect.IsFinite() {
		return nil
	}
	return p.index.search(rect)
}

// PlaybackRect replays state commands and only those drawing commands that
// may paint inside rect.
func (p *Picture) PlaybackRect(c Canvas, rect flow.Rect) {
	hits := p.Query(rect)
	states := p.stateUpdates
	for len(hits) > 0 || len(states) > 0 {
		var i int
		switch {
		case len(states) == 0:
			i, hits = hits[0], hits[1:]
		case len(hits) == 0:
			i, states = states[0], states[1:]
		case hits[0] < states[0]:
			i, hits = hits[0], hits[1:]
		default:
			i, states = states[0], states[1:]
		}
		apply(c, p.cmds[i])
	}
}
