// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/flow/picture"
)

// PixmapTexture is a CPU texture backed by *image.RGBA with premultiplied
// alpha.
//
// A PixmapTexture is also a picture.Image, so a resolved rasterization can
// be drawn onto any canvas.
type PixmapTexture struct {
	img    *image.RGBA
	format gputypes.TextureFormat

	once    sync.Once
	release func()
}

func newPixmapTexture(img *image.RGBA, format gputypes.TextureFormat, release func()) *PixmapTexture {
	return &PixmapTexture{img: img, format: format, release: release}
}

// Width returns the texture width in pixels.
func (t *PixmapTexture) Width() int { return t.img.Bounds().Dx() }

// Height returns the texture height in pixels.
func (t *PixmapTexture) Height() int { return t.img.Bounds().Dy() }

// Format returns the pixel format.
func (t *PixmapTexture) Format() gputypes.TextureFormat { return t.format }

// IsDynamic reports false: a texture never changes after it is resolved.
func (t *PixmapTexture) IsDynamic() bool { return false }

// Pixels returns the texture contents.
func (t *PixmapTexture) Pixels() image.Image { return t.img }

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the texture.
func (t *PixmapTexture) Image() *image.RGBA { return t.img }

// Destroy returns the texture to its device. The pixels stay readable
// until the texture is garbage collected.
func (t *PixmapTexture) Destroy() {
	t.once.Do(func() {
		if t.release != nil {
			t.release()
		}
	})
}

// Ensure PixmapTexture implements Texture and picture.Image.
var (
	_ Texture             = (*PixmapTexture)(nil)
	_ picture.Image       = (*PixmapTexture)(nil)
	_ picture.PixelSource = (*PixmapTexture)(nil)
)
