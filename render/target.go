// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/flow/picture"
)

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// This target supports software rendering and provides direct pixel access.
// It is the target the SoftwareDevice hands out for rasterizing pictures.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600, 1)
//	pic.Playback(target.Canvas())
//	tex, err := target.Resolve()
type PixmapTarget struct {
	img      *image.RGBA
	format   gputypes.TextureFormat
	canvas   *SoftwareCanvas
	release  func()
	resolved bool
}

// NewPixmapTarget creates a new CPU-backed render target whose canvas
// scales logical units by devicePixelRatio.
func NewPixmapTarget(width, height int, devicePixelRatio float64) *PixmapTarget {
	return NewPixmapTargetFromImage(image.NewRGBA(image.Rect(0, 0, width, height)), devicePixelRatio)
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA, devicePixelRatio float64) *PixmapTarget {
	return &PixmapTarget{
		img:    img,
		format: gputypes.TextureFormatRGBA8Unorm,
		canvas: NewSoftwareCanvas(img, devicePixelRatio),
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format.
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return t.format
}

// Canvas returns the software canvas drawing into the target.
func (t *PixmapTarget) Canvas() picture.Canvas {
	return t.canvas
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	r, g, b, a := c.RGBA()
	// Convert from 16-bit to 8-bit (mask ensures value fits in uint8)
	//nolint:gosec // G115: mask ensures no overflow
	rgba := color.RGBA{
		R: uint8((r >> 8) & 0xFF),
		G: uint8((g >> 8) & 0xFF),
		B: uint8((b >> 8) & 0xFF),
		A: uint8((a >> 8) & 0xFF),
	}

	bounds := t.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			t.img.SetRGBA(x, y, rgba)
		}
	}
}

// Resolve hands the pixels over as a PixmapTexture. The target must not
// be drawn into afterwards.
func (t *PixmapTarget) Resolve() (Texture, error) {
	if t.resolved {
		return nil, ErrTargetResolved
	}
	t.resolved = true
	return newPixmapTexture(t.img, t.format, t.release), nil
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)
