// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the texture facility the raster cache draws into.
//
// # Key Principle
//
// flow RECEIVES a GPU device from the host application, it does NOT create
// its own. Pictures are rasterized on the CPU and, when a host device is
// available, uploaded through the host's texture creation API.
//
// # Core Interfaces
//
//   - Device: allocates a RenderTarget for a TextureDescriptor
//   - RenderTarget: exposes a picture.Canvas and resolves into a Texture
//   - Texture: an owned rasterized image, released with Destroy
//   - DeviceHandle: GPU device access from the host application
//
// # Implementations
//
//   - SoftwareDevice: *image.RGBA textures with live-texture accounting
//   - GPUDevice: software rasterization plus upload via a TextureUploader
//   - SoftwareCanvas: a picture.Canvas over *image.RGBA
//
// # Usage
//
//	dev := render.NewSoftwareDevice()
//	desc := render.DefaultTextureDescriptor(200, 100, gputypes.TextureFormatRGBA8Unorm)
//	target, err := dev.NewRenderTarget(desc, 2)
//	if err != nil {
//	    return err
//	}
//	pic.Playback(target.Canvas())
//	tex, err := target.Resolve()
//	defer tex.Destroy()
package render
