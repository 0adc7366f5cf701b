// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"math"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/flow"
)

// DefaultMaxTextureSize is the largest texture dimension a SoftwareDevice
// allocates unless configured otherwise. It matches the common GPU limit.
const DefaultMaxTextureSize = 8192

// SoftwareOption configures a SoftwareDevice.
type SoftwareOption func(*softwareOptions)

type softwareOptions struct {
	maxTextureSize int
}

func defaultSoftwareOptions() softwareOptions {
	return softwareOptions{maxTextureSize: DefaultMaxTextureSize}
}

// WithMaxTextureSize limits the width and height of allocated textures.
// Larger requests fail with ErrTextureTooLarge.
func WithMaxTextureSize(n int) SoftwareOption {
	return func(o *softwareOptions) {
		if n > 0 {
			o.maxTextureSize = n
		}
	}
}

// SoftwareDevice allocates CPU render targets backed by *image.RGBA and
// replays pictures into them with a SoftwareCanvas.
//
// The device counts textures it has handed out and not yet seen destroyed,
// which makes leaks observable in tests and diagnostics.
//
// Example:
//
//	dev := render.NewSoftwareDevice()
//	cache := rastercache.New(dev)
type SoftwareDevice struct {
	opts softwareOptions

	live        atomic.Int64
	allocations atomic.Int64
}

// NewSoftwareDevice creates a CPU device.
func NewSoftwareDevice(opts ...SoftwareOption) *SoftwareDevice {
	o := defaultSoftwareOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SoftwareDevice{opts: o}
}

// MaxTextureSize returns the largest texture dimension the device allocates.
func (d *SoftwareDevice) MaxTextureSize() int {
	return d.opts.maxTextureSize
}

// NewRenderTarget allocates a cleared RGBA target.
func (d *SoftwareDevice) NewRenderTarget(desc TextureDescriptor, devicePixelRatio float64) (RenderTarget, error) {
	t, err := d.newPixmapTarget(desc, devicePixelRatio)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (d *SoftwareDevice) newPixmapTarget(desc TextureDescriptor, devicePixelRatio float64) (*PixmapTarget, error) {
	if err := validateDescriptor(desc, devicePixelRatio); err != nil {
		return nil, err
	}
	if int64(desc.Width) > int64(d.opts.maxTextureSize) || int64(desc.Height) > int64(d.opts.maxTextureSize) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrTextureTooLarge, desc.Width, desc.Height, d.opts.maxTextureSize)
	}

	switch desc.Format {
	case gputypes.TextureFormatUndefined, gputypes.TextureFormatRGBA8Unorm:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, desc.Format)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(desc.Width), int(desc.Height)))
	t := NewPixmapTargetFromImage(img, devicePixelRatio)
	t.release = func() { d.live.Add(-1) }

	d.live.Add(1)
	d.allocations.Add(1)
	flow.Logger().Debug("render: allocated software texture",
		"label", desc.Label, "width", desc.Width, "height", desc.Height)
	return t, nil
}

// LiveTextures returns the number of allocated textures not yet destroyed.
// Targets that were never resolved count as live.
func (d *SoftwareDevice) LiveTextures() int {
	return int(d.live.Load())
}

// Allocations returns the total number of render targets allocated.
func (d *SoftwareDevice) Allocations() int {
	return int(d.allocations.Load())
}

func validateDescriptor(desc TextureDescriptor, devicePixelRatio float64) error {
	if desc.Width == 0 || desc.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDescriptor, desc.Width, desc.Height)
	}
	if !(devicePixelRatio > 0) || math.IsInf(devicePixelRatio, 0) {
		return fmt.Errorf("%w: device pixel ratio %v", ErrInvalidDescriptor, devicePixelRatio)
	}
	return nil
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)
