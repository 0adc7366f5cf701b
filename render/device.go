// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/flow/picture"
)

// Device errors.
var (
	// ErrInvalidDescriptor is returned when a texture descriptor has a zero
	// dimension or an invalid device pixel ratio.
	ErrInvalidDescriptor = errors.New("render: invalid texture descriptor")

	// ErrTextureTooLarge is returned when a texture exceeds the device's
	// maximum texture dimension.
	ErrTextureTooLarge = errors.New("render: texture too large")

	// ErrUnsupportedFormat is returned for texture formats the device
	// cannot rasterize into.
	ErrUnsupportedFormat = errors.New("render: unsupported texture format")

	// ErrTargetResolved is returned when a render target is resolved twice.
	ErrTargetResolved = errors.New("render: target already resolved")

	// ErrNilHandle is returned when a nil DeviceHandle is passed.
	ErrNilHandle = errors.New("render: nil device handle")

	// ErrNilUploader is returned when a nil TextureUploader is passed.
	ErrNilUploader = errors.New("render: nil texture uploader")
)

// DeviceHandle provides GPU device access from the host application.
//
// Key principle: flow RECEIVES the device from the host, it does NOT create
// one. Rasterized pictures are uploaded as textures on the host's device so
// they can be composited in the same frame as the rest of the UI.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// Device allocates render targets that a picture can be replayed into.
type Device interface {
	// NewRenderTarget allocates a target of desc.Width x desc.Height pixels.
	// The target's canvas works in logical units: its root transform scales
	// by devicePixelRatio.
	NewRenderTarget(desc TextureDescriptor, devicePixelRatio float64) (RenderTarget, error)
}

// RenderTarget is an allocated, not yet resolved, rasterization surface.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Canvas returns the canvas that draws into the target.
	Canvas() picture.Canvas

	// Resolve finishes drawing and returns the resulting texture.
	// Ownership of the texture passes to the caller.
	Resolve() (Texture, error)
}

// TextureDescriptor describes parameters for creating a texture.
// This mirrors the WebGPU GPUTextureDescriptor specification.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// MipLevelCount is the number of mipmap levels.
	// Use 1 for no mipmaps.
	MipLevelCount uint32

	// SampleCount is the number of samples for multisampling.
	// Use 1 for no multisampling.
	SampleCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be used as a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows the texture to be used in a texture binding.
	TextureUsageTextureBinding

	// TextureUsageStorageBinding allows the texture to be used in a storage binding.
	TextureUsageStorageBinding

	// TextureUsageRenderAttachment allows the texture to be used as a render attachment.
	TextureUsageRenderAttachment
)

// DefaultTextureDescriptor returns a TextureDescriptor with sensible defaults.
// Only Width, Height, and Format need to be set.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         width,
		Height:        height,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageRenderAttachment,
	}
}

// Texture is a rasterized image owned by whoever resolved it.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// Destroy releases the resources associated with this texture.
	// Calling Destroy more than once has no effect.
	Destroy()
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
