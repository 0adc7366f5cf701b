package rastercache

import (
	"math"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/picture"
)

// Key identifies a rasterization: a picture, drawn with a transform, at a
// device pixel ratio. Keys are comparable and usable as map keys.
//
// The transform's translation is reduced to its sub-pixel remainder, so
// two transforms that differ by a whole number of device pixels produce
// equal keys.
type Key struct {
	picture *picture.Picture
	matrix  flow.Matrix
	dpr     float64
}

// NewKey builds the key for pic drawn with m at devicePixelRatio.
func NewKey(pic *picture.Picture, m flow.Matrix, devicePixelRatio float64) Key {
	m.C = subPixel(m.C, devicePixelRatio)
	m.F = subPixel(m.F, devicePixelRatio)
	return Key{picture: pic, matrix: m, dpr: devicePixelRatio}
}

// Picture returns the keyed picture.
func (k Key) Picture() *picture.Picture { return k.picture }

// Matrix returns the quantized transform.
func (k Key) Matrix() flow.Matrix { return k.matrix }

// DevicePixelRatio returns the keyed device pixel ratio.
func (k Key) DevicePixelRatio() float64 { return k.dpr }

// subPixel returns the fractional device-pixel part of v in logical units,
// in [0, 1/dpr). Remainders within float noise of a whole pixel count as 0.
func subPixel(v, dpr float64) float64 {
	d := v * dpr
	r := d - math.Floor(d)
	if r < 1e-9 || 1-r < 1e-9 {
		r = 0
	}
	return r / dpr
}
