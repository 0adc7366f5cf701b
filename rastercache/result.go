package rastercache

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/picture"
	"github.com/gogpu/flow/render"
)

// Result errors.
var (
	// ErrNilTexture is returned by NewResult for a nil texture.
	ErrNilTexture = errors.New("rastercache: nil texture")

	// ErrTextureSize is returned when a texture's pixel size does not match
	// its bounds at the device pixel ratio.
	ErrTextureSize = errors.New("rastercache: texture size does not match bounds")

	// ErrNotDrawable is returned by Draw when the texture cannot be used
	// as a picture.Image.
	ErrNotDrawable = errors.New("rastercache: texture is not drawable")
)

// pixelSlack absorbs float noise in mapped bounds so that a width of
// 20.0000001 still needs 20 pixels.
const pixelSlack = 1e-3

// pixelSize returns the number of device pixels needed to cover v.
func pixelSize(v float64) int {
	if !(v > 0) {
		return 0
	}
	return int(math.Ceil(v - pixelSlack))
}

// Result is a rasterized picture: a texture covering logicalRect at a
// device pixel ratio. Results are owned by the Cache that produced them.
type Result struct {
	texture     render.Texture
	logicalRect flow.Rect
	dpr         float64

	// transform is the matrix the picture was rasterized with.
	transform flow.Matrix
}

// NewResult wraps tex. The texture must be exactly
// ceil(width*dpr) x ceil(height*dpr) pixels of logicalRect.
func NewResult(tex render.Texture, logicalRect flow.Rect, devicePixelRatio float64) (*Result, error) {
	if tex == nil {
		return nil, ErrNilTexture
	}
	w := pixelSize(logicalRect.Width() * devicePixelRatio)
	h := pixelSize(logicalRect.Height() * devicePixelRatio)
	if tex.Width() != w || tex.Height() != h {
		return nil, fmt.Errorf("%w: texture %dx%d, bounds need %dx%d",
			ErrTextureSize, tex.Width(), tex.Height(), w, h)
	}
	return &Result{
		texture:     tex,
		logicalRect: logicalRect,
		dpr:         devicePixelRatio,
		transform:   flow.Identity(),
	}, nil
}

// Texture returns the rasterized texture.
func (r *Result) Texture() render.Texture { return r.texture }

// LogicalRect returns the bounds the picture was rasterized over.
func (r *Result) LogicalRect() flow.Rect { return r.logicalRect }

// DevicePixelRatio returns the ratio the picture was rasterized at.
func (r *Result) DevicePixelRatio() float64 { return r.dpr }

// Draw blits the texture onto c at the position logicalRect maps to under
// c's current transform. logicalRect already includes the transform the
// picture was rasterized with, so c must be in the space that transform
// was relative to, usually the canvas before the picture's own offset was
// applied. The blit happens with an identity transform so texels land on
// whole device pixels; c's transform is restored before Draw returns.
//
// If the mapped bounds need a different pixel size than the texture, for
// example because c is scaled, nothing is drawn and ErrTextureSize is
// returned.
func (r *Result) Draw(c picture.Canvas) error {
	bounds := c.TotalMatrix().MapRect(r.logicalRect)
	w := pixelSize(bounds.Width() * r.dpr)
	h := pixelSize(bounds.Height() * r.dpr)
	if r.texture.Width() != w || r.texture.Height() != h {
		flow.Logger().Warn("rastercache: texture size mismatch at replay",
			"texture_w", r.texture.Width(), "texture_h", r.texture.Height(), "need_w", w, "need_h", h)
		return fmt.Errorf("%w: texture %dx%d, canvas needs %dx%d",
			ErrTextureSize, r.texture.Width(), r.texture.Height(), w, h)
	}
	img, ok := r.texture.(picture.Image)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotDrawable, r.texture)
	}

	c.Save()
	defer c.Restore()

	c.ResetMatrix()
	dst := flow.NewRect(bounds.MinX, bounds.MinY, float64(w)/r.dpr, float64(h)/r.dpr)
	c.DrawImageRect(img, nil, dst, nil)
	return nil
}

// DrawAt draws the result where its picture lands under transform. A
// cache hit may come from a transform that differs from the one the
// texture was rasterized with by whole device pixels; DrawAt shifts the
// blit by that difference, rounded to device pixels, and then behaves
// like Draw.
//
// transform must share the linear part of the rasterization transform,
// which holds for any transform that produced the same Key. Results made
// with NewResult are treated as rasterized with the identity.
func (r *Result) DrawAt(c picture.Canvas, transform flow.Matrix) error {
	dx := math.Round((transform.C-r.transform.C)*r.dpr) / r.dpr
	dy := math.Round((transform.F-r.transform.F)*r.dpr) / r.dpr
	if dx == 0 && dy == 0 {
		return r.Draw(c)
	}

	c.Save()
	defer c.Restore()

	c.Translate(dx, dy)
	return r.Draw(c)
}
