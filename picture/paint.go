package picture

import (
	"image/color"

	"github.com/gogpu/flow/path"
)

// PaintingStyle selects whether geometry is filled or stroked.
type PaintingStyle uint8

const (
	// PaintingStyleFill fills the interior of shapes.
	PaintingStyleFill PaintingStyle = iota
	// PaintingStyleStroke strokes the outline of shapes.
	PaintingStyleStroke
)

// BlurStyle selects how a mask filter blurs coverage.
type BlurStyle uint8

const (
	// BlurNormal blurs inside and outside the shape.
	BlurNormal BlurStyle = iota
	// BlurSolid keeps the interior solid and blurs outside.
	BlurSolid
	// BlurOuter draws only the blur outside the shape.
	BlurOuter
	// BlurInner draws only the blur inside the shape.
	BlurInner
)

// MaskFilter is a Gaussian blur applied to coverage before painting.
type MaskFilter struct {
	Style BlurStyle
	Sigma float64
}

// Blur creates a mask filter.
func Blur(style BlurStyle, sigma float64) *MaskFilter {
	return &MaskFilter{Style: style, Sigma: sigma}
}

// Paint describes how geometry is drawn.
// A nil *Paint is equivalent to DefaultPaint().
type Paint struct {
	Color            color.NRGBA
	Style            PaintingStyle
	StrokeWidth      float64
	StrokeCap        path.LineCap
	StrokeJoin       path.LineJoin
	StrokeMiterLimit float64
	MaskFilter       *MaskFilter
}

// Default stroke parameters.
const (
	DefaultMiterLimit = 4.0

	// maxStrokeWidth caps the device-space stroke width used for bounds.
	maxStrokeWidth = 200.0
)

// DefaultPaint returns an opaque black fill.
func DefaultPaint() Paint {
	return Paint{
		Color:            color.NRGBA{A: 0xff},
		Style:            PaintingStyleFill,
		StrokeWidth:      0,
		StrokeCap:        path.LineCapButt,
		StrokeJoin:       path.LineJoinMiter,
		StrokeMiterLimit: DefaultMiterLimit,
	}
}

// NewFill returns a fill paint of color c.
func NewFill(c color.NRGBA) *Paint {
	p := DefaultPaint()
	p.Color = c
	return &p
}

// NewStroke returns a stroke paint of color c and the given width.
func NewStroke(c color.NRGBA, width float64) *Paint {
	p := DefaultPaint()
	p.Color = c
	p.Style = PaintingStyleStroke
	p.StrokeWidth = width
	return &p
}

// resolvePaint returns *p, or the default paint for nil.
func resolvePaint(p *Paint) Paint {
	if p == nil {
		return DefaultPaint()
	}
	return *p
}

// blurSigma returns the mask filter sigma, or 0 without a blur.
func (p Paint) blurSigma() float64 {
	if p.MaskFilter == nil {
		return 0
	}
	return p.MaskFilter.Sigma
}
