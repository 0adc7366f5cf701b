// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/internal/filter"
	"github.com/gogpu/flow/path"
	"github.com/gogpu/flow/picture"
)

// SoftwareCanvas replays drawing commands into an *image.RGBA.
//
// Geometry is anti-aliased with golang.org/x/image/vector, images are
// resampled with golang.org/x/image/draw and text is drawn with
// font.Drawer. Clips are kept as device-pixel rectangles: rounded-rect and
// path clips use their bounds. A save-layer is a clipped save; layers are
// not composited offscreen. Blur mask filters are applied per draw.
//
// The canvas works in logical units. Its root transform scales by the
// device pixel ratio, which TotalMatrix does not include.
type SoftwareCanvas struct {
	dst    *image.RGBA
	dpr    float64
	states []softwareState
	raster vector.Rasterizer
}

type softwareState struct {
	xform flow.Matrix
	clip  image.Rectangle
}

// NewSoftwareCanvas creates a canvas drawing into dst. Non-positive ratios
// are treated as 1.
func NewSoftwareCanvas(dst *image.RGBA, devicePixelRatio float64) *SoftwareCanvas {
	if !(devicePixelRatio > 0) || math.IsInf(devicePixelRatio, 0) {
		devicePixelRatio = 1
	}
	return &SoftwareCanvas{
		dst:    dst,
		dpr:    devicePixelRatio,
		states: []softwareState{{xform: flow.Identity(), clip: dst.Bounds()}},
	}
}

// DevicePixelRatio returns the ratio applied by the root transform.
func (c *SoftwareCanvas) DevicePixelRatio() float64 { return c.dpr }

// SaveCount returns the number of open scopes, including the root.
func (c *SoftwareCanvas) SaveCount() int { return len(c.states) }

// ClipBounds returns the current clip in device pixels.
func (c *SoftwareCanvas) ClipBounds() image.Rectangle { return c.top().clip }

func (c *SoftwareCanvas) top() *softwareState {
	return &c.states[len(c.states)-1]
}

// device returns the logical-to-pixel transform.
func (c *SoftwareCanvas) device() flow.Matrix {
	return flow.Scale(c.dpr, c.dpr).Multiply(c.top().xform)
}

// Save pushes a copy of the current transform and clip.
func (c *SoftwareCanvas) Save() {
	c.states = append(c.states, *c.top())
}

// SaveLayer saves and clips to bounds.
func (c *SoftwareCanvas) SaveLayer(bounds flow.Rect, _ *picture.Paint) {
	c.Save()
	c.ClipRect(bounds)
}

// Restore pops the current scope. Restoring the root scope is a no-op.
func (c *SoftwareCanvas) Restore() {
	if len(c.states) > 1 {
		c.states = c.states[:len(c.states)-1]
	}
}

func (c *SoftwareCanvas) restoreToCount(n int) {
	if n >= 1 && n < len(c.states) {
		c.states = c.states[:n]
	}
}

// Translate pre-translates the current transform.
func (c *SoftwareCanvas) Translate(dx, dy float64) {
	s := c.top()
	s.xform = s.xform.PreTranslate(dx, dy)
}

// Scale pre-scales the current transform.
func (c *SoftwareCanvas) Scale(sx, sy float64) {
	s := c.top()
	s.xform = s.xform.PreScale(sx, sy)
}

// Rotate pre-rotates the current transform, around offset if non-nil.
func (c *SoftwareCanvas) Rotate(radians float64, offset *flow.Point) {
	s := c.top()
	if offset == nil {
		s.xform = s.xform.PreRotate(radians)
	} else {
		s.xform = s.xform.PreRotateAbout(radians, offset.X, offset.Y)
	}
}

// Skew pre-skews the current transform.
func (c *SoftwareCanvas) Skew(sx, sy float64) {
	s := c.top()
	s.xform = s.xform.PreSkew(sx, sy)
}

// Concat pre-concatenates m.
func (c *SoftwareCanvas) Concat(m flow.Matrix) {
	s := c.top()
	s.xform = s.xform.PreConcat(m)
}

// SetMatrix replaces the current transform.
func (c *SoftwareCanvas) SetMatrix(m flow.Matrix) { c.top().xform = m }

// ResetMatrix resets the current transform to identity.
func (c *SoftwareCanvas) ResetMatrix() { c.top().xform = flow.Identity() }

// TotalMatrix returns the current logical transform.
func (c *SoftwareCanvas) TotalMatrix() flow.Matrix { return c.top().xform }

// ClipRect intersects the clip with the pixels rect touches.
func (c *SoftwareCanvas) ClipRect(rect flow.Rect) {
	s := c.top()
	s.clip = s.clip.Intersect(pixelBounds(c.device().MapRect(rect)))
}

// ClipRRect intersects the clip with the bounds of rr.
func (c *SoftwareCanvas) ClipRRect(rr flow.RRect) { c.ClipRect(rr.OuterRect()) }

// ClipPath intersects the clip with the bounds of p.
func (c *SoftwareCanvas) ClipPath(p *path.Path) {
	if p == nil {
		return
	}
	c.ClipRect(p.Bounds())
}

// DrawPath fills or strokes p. A blur mask filter renders the shape into
// a scratch buffer that is blurred before compositing.
func (c *SoftwareCanvas) DrawPath(p *path.Path, paint *picture.Paint) {
	clip := c.top().clip
	if p == nil || clip.Empty() {
		return
	}
	pt := resolvePaint(paint)
	m := c.device()
	scale := m.UniformScale()
	if !(scale > 0) || !m.IsFinite() {
		return
	}

	if pt.MaskFilter != nil && pt.MaskFilter.Sigma > 0 {
		c.drawBlurred(p, pt, m, scale)
		return
	}
	c.drawShape(c.dst, clip, p, pt, m, scale)
}

// drawShape fills or strokes p into dst within clip.
func (c *SoftwareCanvas) drawShape(dst *image.RGBA, clip image.Rectangle, p *path.Path, pt picture.Paint, m flow.Matrix, scale float64) {
	flat := p.Flatten(scale)

	if pt.Style == picture.PaintingStyleFill {
		c.fillSubpaths(dst, clip, flat.Subpaths(), m, pt.Color)
		return
	}

	// Hairlines are one device pixel wide.
	width := max(pt.StrokeWidth*scale, 1)
	mesh := flat.ComputeStrokeMesh(path.StrokeStyle{
		HalfWidth:  width / scale * 0.5,
		Cap:        pt.StrokeCap,
		Join:       pt.StrokeJoin,
		MiterLimit: pt.StrokeMiterLimit,
	})
	c.fillMesh(dst, clip, mesh.Transform(m), pt.Color)
}

// drawBlurred draws p with its mask filter. Only the part of the blur
// that lands inside the clip is computed, but shape pixels outside the
// clip still bleed into it.
func (c *SoftwareCanvas) drawBlurred(p *path.Path, pt picture.Paint, m flow.Matrix, scale float64) {
	clip := c.top().clip
	sigma := pt.MaskFilter.Sigma * scale

	bounds := m.MapRect(p.Bounds())
	if pt.Style == picture.PaintingStyleStroke {
		// Miter joins reach miterLimit half-widths; square caps less.
		bounds = bounds.Inflate(max(pt.StrokeWidth*scale, 1) * max(pt.StrokeMiterLimit, 2) * 0.5)
	}
	area := filter.Expand(pixelBounds(bounds), sigma).Intersect(filter.Expand(clip, sigma))
	visible := area.Intersect(clip)
	if visible.Empty() {
		return
	}

	sharp := image.NewRGBA(area)
	c.drawShape(sharp, area, p, pt, m, scale)

	blurred := image.NewRGBA(visible)
	filter.Blur(blurred, sharp, visible, sigma)
	applyBlurStyle(pt.MaskFilter.Style, blurred, sharp)

	xdraw.Draw(c.dst, visible, blurred, visible.Min, xdraw.Over)
}

// applyBlurStyle combines the blurred coverage with the sharp shape in
// place. Both images are premultiplied; sharp covers blurred.
func applyBlurStyle(style picture.BlurStyle, blurred, sharp *image.RGBA) {
	if style == picture.BlurNormal {
		return
	}
	r := blurred.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b := blurred.Pix[blurred.PixOffset(x, y):][:4]
			s := sharp.Pix[sharp.PixOffset(x, y):][:4]
			sa := uint32(s[3])

			switch style {
			case picture.BlurSolid:
				// sharp over blurred
				for i := range 4 {
					b[i] = uint8(uint32(s[i]) + uint32(b[i])*(255-sa)/255)
				}
			case picture.BlurOuter:
				for i := range 4 {
					b[i] = uint8(uint32(b[i]) * (255 - sa) / 255)
				}
			case picture.BlurInner:
				for i := range 4 {
					b[i] = uint8(uint32(b[i]) * sa / 255)
				}
			}
		}
	}
}

// DrawImage draws img with its top-left corner at offset.
func (c *SoftwareCanvas) DrawImage(img picture.Image, offset flow.Point, _ *picture.Paint) {
	px, ok := pixels(img)
	if !ok {
		return
	}
	c.blit(px, px.Bounds(), c.device().PreTranslate(offset.X, offset.Y))
}

// DrawImageRect draws the src region of img (the whole image if nil)
// scaled into dst.
func (c *SoftwareCanvas) DrawImageRect(img picture.Image, src *flow.Rect, dst flow.Rect, _ *picture.Paint) {
	px, ok := pixels(img)
	if !ok {
		return
	}
	sr := imageRect(px.Bounds())
	if src != nil {
		sr = *src
	}
	c.drawRegion(px, sr, dst)
}

// DrawImageNine draws img into dst as a nine-patch: the corners outside
// center keep their size, the edges stretch along one axis and the center
// stretches along both.
func (c *SoftwareCanvas) DrawImageNine(img picture.Image, src *flow.Rect, center, dst flow.Rect, _ *picture.Paint) {
	px, ok := pixels(img)
	if !ok {
		return
	}
	sr := imageRect(px.Bounds())
	if src != nil {
		sr = *src
	}

	sx := [4]float64{sr.MinX, center.MinX, center.MaxX, sr.MaxX}
	sy := [4]float64{sr.MinY, center.MinY, center.MaxY, sr.MaxY}
	dx := [4]float64{dst.MinX, dst.MinX + (center.MinX - sr.MinX), dst.MaxX - (sr.MaxX - center.MaxX), dst.MaxX}
	dy := [4]float64{dst.MinY, dst.MinY + (center.MinY - sr.MinY), dst.MaxY - (sr.MaxY - center.MaxY), dst.MaxY}

	for j := range 3 {
		for i := range 3 {
			c.drawRegion(px,
				flow.RectFromLTRB(sx[i], sy[j], sx[i+1], sy[j+1]),
				flow.RectFromLTRB(dx[i], dy[j], dx[i+1], dy[j+1]))
		}
	}
}

// DrawPicture replays pic inside its own scope.
func (c *SoftwareCanvas) DrawPicture(pic *picture.Picture) {
	if pic == nil {
		return
	}
	n := len(c.states)
	c.Save()
	pic.Playback(c)
	c.restoreToCount(n)
}

// DrawTextBlob draws blob with its baseline origin at offset.
func (c *SoftwareCanvas) DrawTextBlob(blob *picture.TextBlob, offset flow.Point, paint *picture.Paint) {
	if blob == nil || blob.Face() == nil || c.top().clip.Empty() {
		return
	}
	src := image.NewUniform(resolvePaint(paint).Color)
	m := c.device().PreTranslate(offset.X, offset.Y)

	if tx, ty, ok := pixelTranslation(m, false); ok {
		d := font.Drawer{
			Dst:  c.dst.SubImage(c.top().clip).(*image.RGBA),
			Src:  src,
			Face: blob.Face(),
			Dot:  fixed.Point26_6{X: toFixed(tx), Y: toFixed(ty)},
		}
		d.DrawString(blob.Text())
		return
	}

	// Transformed text is drawn upright into a scratch image, then resampled.
	b := blob.Bounds()
	ox, oy := math.Floor(b.MinX), math.Floor(b.MinY)
	w, h := int(math.Ceil(b.MaxX-ox)), int(math.Ceil(b.MaxY-oy))
	if w <= 0 || h <= 0 {
		return
	}
	scratch := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  scratch,
		Src:  src,
		Face: blob.Face(),
		Dot:  fixed.Point26_6{X: toFixed(-ox), Y: toFixed(-oy)},
	}
	d.DrawString(blob.Text())
	c.blit(scratch, scratch.Bounds(), m.PreTranslate(ox, oy))
}

// drawRegion draws the sr part of px scaled into the logical rect dst.
func (c *SoftwareCanvas) drawRegion(px image.Image, sr, dst flow.Rect) {
	if sr.IsEmpty() || dst.IsEmpty() {
		return
	}
	m := c.device().
		PreTranslate(dst.MinX, dst.MinY).
		PreScale(dst.Width()/sr.Width(), dst.Height()/sr.Height()).
		PreTranslate(-sr.MinX, -sr.MinY)
	c.blit(px, pixelBounds(sr).Intersect(px.Bounds()), m)
}

// blit composites the sr part of px onto the clip, mapping source pixels
// to device pixels through s2d. Whole-pixel translations are copied
// without resampling.
func (c *SoftwareCanvas) blit(px image.Image, sr image.Rectangle, s2d flow.Matrix) {
	clip := c.top().clip
	if clip.Empty() || sr.Empty() || !s2d.IsInvertible() {
		return
	}
	dst := c.dst.SubImage(clip).(*image.RGBA)

	if tx, ty, ok := pixelTranslation(s2d, true); ok {
		dp := image.Pt(int(tx), int(ty))
		xdraw.Draw(dst, sr.Add(dp), px, sr.Min, xdraw.Over)
		return
	}
	aff := f64.Aff3{s2d.A, s2d.B, s2d.C, s2d.D, s2d.E, s2d.F}
	xdraw.BiLinear.Transform(dst, aff, px, sr, xdraw.Over, nil)
}

// fillSubpaths fills every subpath, mapped through m, as one polygon set
// into the clip rectangle of dst.
func (c *SoftwareCanvas) fillSubpaths(dst *image.RGBA, clip image.Rectangle, subpaths []path.Subpath, m flow.Matrix, col color.NRGBA) {
	z := c.rasterizer(clip)
	drawn := false
	for _, sp := range subpaths {
		if len(sp.Points) < 3 {
			continue
		}
		p0 := m.TransformPoint(sp.Points[0])
		z.MoveTo(float32(p0.X-float64(clip.Min.X)), float32(p0.Y-float64(clip.Min.Y)))
		for _, p := range sp.Points[1:] {
			q := m.TransformPoint(p)
			z.LineTo(float32(q.X-float64(clip.Min.X)), float32(q.Y-float64(clip.Min.Y)))
		}
		z.ClosePath()
		drawn = true
	}
	if drawn {
		z.Draw(dst, clip, image.NewUniform(col), image.Point{})
	}
}

// fillMesh fills the union of the mesh triangles. Each triangle is wound
// the same way so that overlaps saturate rather than cancel.
func (c *SoftwareCanvas) fillMesh(dst *image.RGBA, clip image.Rectangle, mesh *path.Mesh, col color.NRGBA) {
	if mesh == nil || len(mesh.Indices) < 3 {
		return
	}
	z := c.rasterizer(clip)
	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)
	v := mesh.Vertices
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, d := v[mesh.Indices[i]], v[mesh.Indices[i+1]], v[mesh.Indices[i+2]]
		if (b.X-a.X)*(d.Y-a.Y)-(b.Y-a.Y)*(d.X-a.X) < 0 {
			b, d = d, b
		}
		z.MoveTo(float32(a.X-ox), float32(a.Y-oy))
		z.LineTo(float32(b.X-ox), float32(b.Y-oy))
		z.LineTo(float32(d.X-ox), float32(d.Y-oy))
		z.ClosePath()
	}
	z.Draw(dst, clip, image.NewUniform(col), image.Point{})
}

func (c *SoftwareCanvas) rasterizer(clip image.Rectangle) *vector.Rasterizer {
	c.raster.Reset(clip.Dx(), clip.Dy())
	return &c.raster
}

// pixelBounds returns the pixels touched by r, or the empty rectangle for
// empty or non-finite input.
func pixelBounds(r flow.Rect) image.Rectangle {
	if r.IsEmpty() || !r.IsFinite() {
		return image.Rectangle{}
	}
	const limit = 1 << 30
	clamp := func(v float64) int { return int(min(max(v, -limit), limit)) }
	return image.Rect(
		clamp(math.Floor(r.MinX)), clamp(math.Floor(r.MinY)),
		clamp(math.Ceil(r.MaxX)), clamp(math.Ceil(r.MaxY)),
	)
}

func imageRect(r image.Rectangle) flow.Rect {
	return flow.RectFromLTRB(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
}

// pixelTranslation reports whether m only translates, returning the
// offset. With whole set the offset must also be whole pixels.
func pixelTranslation(m flow.Matrix, whole bool) (x, y float64, ok bool) {
	const eps = 1e-9
	if math.Abs(m.A-1) > eps || math.Abs(m.E-1) > eps || math.Abs(m.B) > eps || math.Abs(m.D) > eps {
		return 0, 0, false
	}
	x, y = m.C, m.F
	if whole {
		rx, ry := math.Round(x), math.Round(y)
		if math.Abs(x-rx) > eps || math.Abs(y-ry) > eps {
			return 0, 0, false
		}
		x, y = rx, ry
	}
	return x, y, true
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func pixels(img picture.Image) (image.Image, bool) {
	if img == nil {
		return nil, false
	}
	src, ok := img.(picture.PixelSource)
	if !ok {
		flow.Logger().Debug("render: image has no CPU pixels", "type", fmt.Sprintf("%T", img))
		return nil, false
	}
	return src.Pixels(), true
}

func resolvePaint(p *picture.Paint) picture.Paint {
	if p == nil {
		return picture.DefaultPaint()
	}
	return *p
}

// Ensure SoftwareCanvas implements picture.Canvas.
var _ picture.Canvas = (*SoftwareCanvas)(nil)
