package picture

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/path"
)

// Recording errors.
var (
	// ErrUnknownCommand is returned by AddDrawCmd for a nil command or a
	// DrawCmd implementation this package does not define. Commands are
	// matched by value, so pointers to command structs are rejected too.
	ErrUnknownCommand = errors.New("picture: unknown draw command")

	// ErrUnbalancedSaveRestore is returned by EndRecording when save scopes
	// remain open after the trailing restores have been synthesized.
	ErrUnbalancedSaveRestore = errors.New("picture: unbalanced save/restore")
)

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderOptions)

type recorderOptions struct {
	devicePixelRatio float64
}

func defaultRecorderOptions() recorderOptions {
	return recorderOptions{devicePixelRatio: 1}
}

// WithDevicePixelRatio sets the ratio of device pixels to logical units.
// It controls path flattening precision and the minimum stroke width
// used for bounds. Non-positive values are ignored.
func WithDevicePixelRatio(dpr float64) RecorderOption {
	return func(o *recorderOptions) {
		if dpr > 0 && !math.IsInf(dpr, 0) {
			o.devicePixelRatio = dpr
		}
	}
}

// Recorder turns a stream of draw commands into an immutable Picture.
//
// Every command's effect on the transform/clip stack is applied as it is
// appended, so paint bounds and the spatial index are complete by the time
// EndRecording is called.
//
// Example:
//
//	rec := picture.NewRecorder()
//	rec.Save()
//	rec.Translate(10, 10)
//	rec.DrawPath(p, nil)
//	rec.Restore()
//	pic, err := rec.EndRecording()
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	opts recorderOptions

	cmds         []DrawCmd
	states       []canvasState
	index        *bbh
	stateUpdates []int
	isDynamic    bool
}

// NewRecorder creates a Recorder with a single identity, unclipped scope.
func NewRecorder(opts ...RecorderOption) *Recorder {
	o := defaultRecorderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Recorder{opts: o}
	r.Reset()
	return r
}

// DevicePixelRatio returns the configured device pixel ratio.
func (r *Recorder) DevicePixelRatio() float64 {
	return r.opts.devicePixelRatio
}

// Reset discards all recorded commands and reinitializes the state stack.
func (r *Recorder) Reset() {
	r.cmds = make([]DrawCmd, 0, 64)
	r.states = append(r.states[:0], rootState())
	r.index = &bbh{}
	r.stateUpdates = make([]int, 0, 32)
	r.isDynamic = false
}

// SaveCount returns the number of open scopes, including the root.
func (r *Recorder) SaveCount() int {
	return len(r.states)
}

// TotalMatrix returns the current transform.
func (r *Recorder) TotalMatrix() flow.Matrix {
	return r.top().xform
}

// RestoreToCount appends restores until SaveCount() is at most count.
func (r *Recorder) RestoreToCount(count int) {
	if count < 1 {
		count = 1
	}
	for n := len(r.states) - count; n > 0; n-- {
		r.mustAdd(DrawRestore{})
	}
}

// EndRecording closes every open scope with synthesized restores and
// returns the Picture. The recorder is reset and may be reused.
//
// ErrUnbalancedSaveRestore is returned, with no Picture, if scopes remain
// open afterwards.
func (r *Recorder) EndRecording() (*Picture, error) {
	r.RestoreToCount(1)

	if len(r.states) > 1 {
		flow.Logger().Error("picture: unbalanced save/restore", "open", len(r.states)-1)
		return nil, fmt.Errorf("%w: %d scopes open", ErrUnbalancedSaveRestore, len(r.states)-1)
	}

	pic := &Picture{
		id:           nextPictureID.Add(1),
		cmds:         r.cmds,
		paintBounds:  r.top().paintBounds,
		index:        r.index,
		isDynamic:    r.isDynamic,
		stateUpdates: r.stateUpdates,
	}
	r.Reset()
	return pic, nil
}

// AddDrawCmd appends cmd and applies its effect on the recording state.
// Unknown commands are rejected with ErrUnknownCommand before anything is
// recorded.
func (r *Recorder) AddDrawCmd(cmd DrawCmd) error {
	if !isKnown(cmd) {
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	r.cmds = append(r.cmds, cmd)
	idx := len(r.cmds) - 1

	switch cmd := cmd.(type) {
	case DrawSave:
		r.states = append(r.states, r.top().copy())
	case DrawSaveLayer:
		r.states = append(r.states, canvasState{
			xform:       flow.Identity(),
			clip:        cmd.Rect.Shift(cmd.Rect.TopLeft().Neg()),
			hasClip:     true,
			saveLayer:   true,
			layerOffset: cmd.Rect.TopLeft(),
		})
	case DrawRestore:
		if len(r.states) > 1 {
			r.restore()
		}
	case DrawTranslate:
		s := r.top()
		s.xform = s.xform.PreTranslate(cmd.DX, cmd.DY)
	case DrawScale:
		s := r.top()
		s.xform = s.xform.PreScale(cmd.SX, cmd.SY)
	case DrawRotate:
		s := r.top()
		if cmd.Offset == nil {
			s.xform = s.xform.PreRotate(cmd.Radians)
		} else {
			s.xform = s.xform.PreRotateAbout(cmd.Radians, cmd.Offset.X, cmd.Offset.Y)
		}
	case DrawSkew:
		s := r.top()
		s.xform = s.xform.PreSkew(cmd.SX, cmd.SY)
	case DrawConcat:
		s := r.top()
		s.xform = s.xform.PreConcat(cmd.Matrix)
	case DrawSetMatrix:
		r.top().xform = cmd.Matrix
	case DrawResetMatrix:
		r.top().xform = flow.Identity()
	case DrawClipRect:
		s := r.top()
		s.intersectClip(s.xform.MapRect(cmd.Rect))
	case DrawClipRRect:
		s := r.top()
		s.intersectClip(s.xform.MapRect(cmd.RRect.OuterRect()))
	case DrawClipPath:
		s := r.top()
		scale := s.xform.UniformScale()
		mesh := cmd.Path.Flatten(scale * r.opts.devicePixelRatio).ComputeFillMesh()
		s.intersectClip(mesh.Transform(s.xform).Bounds())

	case DrawPath:
		r.recordPath(cmd, idx)
	case DrawImage:
		rect := flow.NewRect(cmd.Offset.X, cmd.Offset.Y, float64(cmd.Image.Width()), float64(cmd.Image.Height()))
		r.recordImage(r.top().xform.MapRect(rect), cmd.Image, idx)
	case DrawImageRect:
		r.recordImage(r.top().xform.MapRect(cmd.Dst), cmd.Image, idx)
	case DrawImageNine:
		r.recordImage(r.top().xform.MapRect(cmd.Dst), cmd.Image, idx)
	case DrawPicture:
		rect := r.top().xform.MapRect(cmd.Picture.PaintBounds())
		r.addPaintBounds(rect)
		r.index.insert(rect.Inflate(bbhMargin), idx)
		if cmd.Picture.IsDynamic() {
			r.isDynamic = true
		}
	case DrawTextBlob:
		s := r.top()
		rect := s.xform.MapRect(cmd.Blob.ShiftedBounds(cmd.Offset.X, cmd.Offset.Y))
		r.recordBlurred(rect, resolvePaint(cmd.Paint).blurSigma()*s.xform.UniformScale(), idx)
	}

	if cmd.Type().IsStateUpdate() {
		r.stateUpdates = append(r.stateUpdates, idx)
	}
	return nil
}

// recordPath computes the device-space mesh bounds of a fill or stroke.
func (r *Recorder) recordPath(cmd DrawPath, idx int) {
	s := r.top()
	scale := s.xform.UniformScale()
	paint := resolvePaint(cmd.Paint)
	dpr := r.opts.devicePixelRatio
	flat := cmd.Path.Flatten(scale * dpr)

	var mesh *path.Mesh
	if paint.Style == PaintingStyleFill {
		mesh = flat.ComputeFillMesh()
	} else {
		strokeWidth := min(max(paint.StrokeWidth*scale, 0), maxStrokeWidth)
		if fringe := 1 / dpr; strokeWidth < fringe {
			strokeWidth = fringe
		}
		var half float64
		if scale > 0 {
			half = strokeWidth / scale * 0.5
		}
		mesh = flat.ComputeStrokeMesh(path.StrokeStyle{
			HalfWidth:  half,
			Cap:        paint.StrokeCap,
			Join:       paint.StrokeJoin,
			MiterLimit: paint.StrokeMiterLimit,
		})
	}

	bounds := mesh.Transform(s.xform).Bounds()
	r.recordBlurred(bounds, paint.blurSigma()*scale, idx)
}

// recordBlurred folds bounds inflated by three blur sigmas into the paint
// bounds and indexes them.
func (r *Recorder) recordBlurred(bounds flow.Rect, sigma float64, idx int) {
	if sigma != 0 {
		sigma3 := 3 * sigma
		r.addPaintBounds(bounds.Inflate(sigma3))
		r.index.insert(bounds.Inflate(sigma3+bbhMargin), idx)
		return
	}
	r.addPaintBounds(bounds)
	r.index.insert(bounds.Inflate(bbhMargin), idx)
}

func (r *Recorder) recordImage(rect flow.Rect, img Image, idx int) {
	r.addPaintBounds(rect)
	r.index.insert(rect.Inflate(bbhMargin), idx)
	if img.IsDynamic() {
		r.isDynamic = true
	}
}

// restore pops the top scope. A layer's bounds are mapped into the parent
// and unioned; a plain save's bounds replace the parent's.
func (r *Recorder) restore() {
	popped := r.states[len(r.states)-1]
	r.states = r.states[:len(r.states)-1]
	parent := r.top()

	if !popped.saveLayer {
		parent.paintBounds = popped.paintBounds
		return
	}
	if popped.paintBounds.IsEmpty() {
		return
	}
	bounds := parent.xform.MapRect(popped.paintBounds.Shift(popped.layerOffset))
	r.addPaintBounds(bounds)
}

// addPaintBounds clips bounds and unions them into the current scope.
func (r *Recorder) addPaintBounds(bounds flow.Rect) {
	s := r.top()
	if s.hasClip {
		bounds = bounds.Intersect(s.clip)
	}
	if bounds.IsEmpty() {
		return
	}
	if s.paintBounds.IsEmpty() {
		s.paintBounds = bounds
	} else {
		s.paintBounds = s.paintBounds.Union(bounds)
	}
}

func (r *Recorder) top() *canvasState {
	return &r.states[len(r.states)-1]
}

// mustAdd appends a command built from the Canvas methods. Commands
// missing a required operand (a nil path or image) are logged and dropped.
func (r *Recorder) mustAdd(cmd DrawCmd) {
	if err := r.AddDrawCmd(cmd); err != nil {
		flow.Logger().Warn("picture: dropped draw command", "cmd", cmd.Type(), "err", err)
	}
}

// isKnown reports whether cmd is one of this package's command values with
// the operands it needs to be applied.
func isKnown(cmd DrawCmd) bool {
	switch cmd := cmd.(type) {
	case DrawSave, DrawSaveLayer, DrawRestore,
		DrawTranslate, DrawScale, DrawRotate, DrawSkew,
		DrawConcat, DrawSetMatrix, DrawResetMatrix,
		DrawClipRect, DrawClipRRect:
		return true
	case DrawClipPath:
		return cmd.Path != nil
	case DrawPath:
		return cmd.Path != nil
	case DrawImage:
		return cmd.Image != nil
	case DrawImageRect:
		return cmd.Image != nil
	case DrawImageNine:
		return cmd.Image != nil
	case DrawPicture:
		return cmd.Picture != nil
	case DrawTextBlob:
		return cmd.Blob != nil
	}
	return false
}

// --------------------------------------------------------------------------
// Canvas
// --------------------------------------------------------------------------

// Save pushes a copy of the current scope.
func (r *Recorder) Save() { r.mustAdd(DrawSave{}) }

// SaveLayer pushes a layer scope covering bounds.
func (r *Recorder) SaveLayer(bounds flow.Rect, paint *Paint) {
	r.mustAdd(DrawSaveLayer{Rect: bounds, Paint: paint})
}

// Restore pops the current scope. Restoring the root scope is a no-op.
func (r *Recorder) Restore() { r.mustAdd(DrawRestore{}) }

// Translate pre-translates the current transform.
func (r *Recorder) Translate(dx, dy float64) { r.mustAdd(DrawTranslate{DX: dx, DY: dy}) }

// Scale pre-scales the current transform.
func (r *Recorder) Scale(sx, sy float64) { r.mustAdd(DrawScale{SX: sx, SY: sy}) }

// Rotate pre-rotates the current transform, around offset if non-nil.
func (r *Recorder) Rotate(radians float64, offset *flow.Point) {
	r.mustAdd(DrawRotate{Radians: radians, Offset: offset})
}

// Skew pre-skews the current transform.
func (r *Recorder) Skew(sx, sy float64) { r.mustAdd(DrawSkew{SX: sx, SY: sy}) }

// Concat pre-concatenates m.
func (r *Recorder) Concat(m flow.Matrix) { r.mustAdd(DrawConcat{Matrix: m}) }

// SetMatrix replaces the current transform.
func (r *Recorder) SetMatrix(m flow.Matrix) { r.mustAdd(DrawSetMatrix{Matrix: m}) }

// ResetMatrix resets the current transform to identity.
func (r *Recorder) ResetMatrix() { r.mustAdd(DrawResetMatrix{}) }

// ClipRect intersects the clip with rect.
func (r *Recorder) ClipRect(rect flow.Rect) { r.mustAdd(DrawClipRect{Rect: rect}) }

// ClipRRect intersects the clip with the bounds of rr.
func (r *Recorder) ClipRRect(rr flow.RRect) { r.mustAdd(DrawClipRRect{RRect: rr}) }

// ClipPath intersects the clip with the bounds of p.
func (r *Recorder) ClipPath(p *path.Path) { r.mustAdd(DrawClipPath{Path: p}) }

// DrawPath records a fill or stroke of p.
func (r *Recorder) DrawPath(p *path.Path, paint *Paint) {
	r.mustAdd(DrawPath{Path: p, Paint: paint})
}

// DrawImage records img drawn at offset.
func (r *Recorder) DrawImage(img Image, offset flow.Point, paint *Paint) {
	r.mustAdd(DrawImage{Image: img, Offset: offset, Paint: paint})
}

// DrawImageRect records the src region of img scaled into dst.
func (r *Recorder) DrawImageRect(img Image, src *flow.Rect, dst flow.Rect, paint *Paint) {
	r.mustAdd(DrawImageRect{Image: img, Src: src, Dst: dst, Paint: paint})
}

// DrawImageNine records a nine-patch draw of img into dst.
func (r *Recorder) DrawImageNine(img Image, src *flow.Rect, center, dst flow.Rect, paint *Paint) {
	r.mustAdd(DrawImageNine{Image: img, Src: src, Center: center, Dst: dst, Paint: paint})
}

// DrawPicture records a nested picture.
func (r *Recorder) DrawPicture(pic *Picture) { r.mustAdd(DrawPicture{Picture: pic}) }

// DrawTextBlob records blob drawn with its origin at offset.
func (r *Recorder) DrawTextBlob(blob *TextBlob, offset flow.Point, paint *Paint) {
	r.mustAdd(DrawTextBlob{Blob: blob, Offset: offset, Paint: paint})
}

var _ Canvas = (*Recorder)(nil)
