// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/picture"
)

// TextureUploader creates GPU textures from RGBA pixel data.
// It matches the texture creation method of gogpu's renderer.
type TextureUploader interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
}

// textureDestroyer is the interface for destroying uploaded textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// GPUDevice rasterizes pictures on the CPU and uploads the result to the
// host's GPU device.
//
// The DeviceHandle must be provided by the host application (e.g., gogpu.App).
// The device does NOT create its own GPU device.
//
// Example:
//
//	dev, err := render.NewGPUDevice(app.GPUContextProvider(), renderer)
//	cache := rastercache.New(dev)
type GPUDevice struct {
	handle   DeviceHandle
	uploader TextureUploader
	software *SoftwareDevice
}

// NewGPUDevice creates a device that uploads through uploader. The options
// configure the CPU rasterizer.
func NewGPUDevice(handle DeviceHandle, uploader TextureUploader, opts ...SoftwareOption) (*GPUDevice, error) {
	if handle == nil {
		return nil, ErrNilHandle
	}
	if uploader == nil {
		return nil, ErrNilUploader
	}
	return &GPUDevice{
		handle:   handle,
		uploader: uploader,
		software: NewSoftwareDevice(opts...),
	}, nil
}

// DeviceHandle returns the underlying device handle.
func (d *GPUDevice) DeviceHandle() DeviceHandle {
	return d.handle
}

// LiveTextures returns the number of textures not yet destroyed.
func (d *GPUDevice) LiveTextures() int {
	return d.software.LiveTextures()
}

// NewRenderTarget allocates a CPU target whose Resolve uploads the pixels.
func (d *GPUDevice) NewRenderTarget(desc TextureDescriptor, devicePixelRatio float64) (RenderTarget, error) {
	format := desc.Format
	desc.Format = gputypes.TextureFormatRGBA8Unorm

	t, err := d.software.newPixmapTarget(desc, devicePixelRatio)
	if err != nil {
		return nil, err
	}
	if format == gputypes.TextureFormatUndefined {
		format = d.handle.SurfaceFormat()
	}
	return &gpuTarget{PixmapTarget: t, device: d, format: format}, nil
}

type gpuTarget struct {
	*PixmapTarget
	device *GPUDevice
	format gputypes.TextureFormat
}

// Resolve uploads the rasterized pixels. On failure the CPU pixels are
// released and the error is returned.
func (t *gpuTarget) Resolve() (Texture, error) {
	tex, err := t.PixmapTarget.Resolve()
	if err != nil {
		return nil, err
	}
	px := tex.(*PixmapTexture)

	img := px.Image()
	handle, err := t.device.uploader.NewTextureFromRGBA(img.Bounds().Dx(), img.Bounds().Dy(), img.Pix)
	if err != nil {
		px.Destroy()
		flow.Logger().Warn("render: texture upload failed", "err", err)
		return nil, fmt.Errorf("render: upload texture: %w", err)
	}
	return &GPUTexture{handle: handle, pixels: px, format: t.format}, nil
}

// GPUTexture is a texture uploaded to the host GPU. It keeps the CPU copy
// of its pixels so it can also be drawn by a SoftwareCanvas.
type GPUTexture struct {
	handle any
	pixels *PixmapTexture
	format gputypes.TextureFormat
	once   sync.Once
}

// Handle returns the host texture returned by the uploader.
func (t *GPUTexture) Handle() any { return t.handle }

// Width returns the texture width in pixels.
func (t *GPUTexture) Width() int { return t.pixels.Width() }

// Height returns the texture height in pixels.
func (t *GPUTexture) Height() int { return t.pixels.Height() }

// Format returns the texture format reported to the host.
func (t *GPUTexture) Format() gputypes.TextureFormat { return t.format }

// IsDynamic reports false.
func (t *GPUTexture) IsDynamic() bool { return false }

// Pixels returns the CPU copy of the texture.
func (t *GPUTexture) Pixels() image.Image { return t.pixels.Pixels() }

// Destroy releases the GPU texture and the CPU copy once.
func (t *GPUTexture) Destroy() {
	t.once.Do(func() {
		if d, ok := t.handle.(textureDestroyer); ok {
			d.Destroy()
		}
		t.pixels.Destroy()
	})
}

// Ensure GPUDevice implements Device and GPUTexture implements Texture.
var (
	_ Device        = (*GPUDevice)(nil)
	_ Texture       = (*GPUTexture)(nil)
	_ picture.Image = (*GPUTexture)(nil)
)
