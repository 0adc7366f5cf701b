// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestSoftwareDeviceNewRenderTarget(t *testing.T) {
	tests := []struct {
		name    string
		opts    []SoftwareOption
		desc    TextureDescriptor
		dpr     float64
		wantErr error
	}{
		{
			name: "rgba",
			desc: DefaultTextureDescriptor(40, 30, gputypes.TextureFormatRGBA8Unorm),
			dpr:  1,
		},
		{
			name: "undefined format defaults to rgba",
			desc: DefaultTextureDescriptor(4, 4, gputypes.TextureFormatUndefined),
			dpr:  2,
		},
		{
			name:    "zero width",
			desc:    DefaultTextureDescriptor(0, 4, gputypes.TextureFormatRGBA8Unorm),
			dpr:     1,
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:    "bad ratio",
			desc:    DefaultTextureDescriptor(4, 4, gputypes.TextureFormatRGBA8Unorm),
			dpr:     0,
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:    "too large",
			opts:    []SoftwareOption{WithMaxTextureSize(64)},
			desc:    DefaultTextureDescriptor(65, 4, gputypes.TextureFormatRGBA8Unorm),
			dpr:     1,
			wantErr: ErrTextureTooLarge,
		},
		{
			name:    "unsupported format",
			desc:    DefaultTextureDescriptor(4, 4, gputypes.TextureFormatBGRA8Unorm),
			dpr:     1,
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewSoftwareDevice(tt.opts...)
			target, err := dev.NewRenderTarget(tt.desc, tt.dpr)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewRenderTarget() error = %v, want %v", err, tt.wantErr)
				}
				if dev.Allocations() != 0 || dev.LiveTextures() != 0 {
					t.Errorf("failed allocation counted: allocations=%d live=%d",
						dev.Allocations(), dev.LiveTextures())
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRenderTarget() error = %v", err)
			}
			if target.Width() != int(tt.desc.Width) || target.Height() != int(tt.desc.Height) {
				t.Errorf("target size = %dx%d, want %dx%d",
					target.Width(), target.Height(), tt.desc.Width, tt.desc.Height)
			}
			if target.Canvas() == nil {
				t.Error("Canvas() = nil")
			}
		})
	}
}

func TestSoftwareDeviceAccounting(t *testing.T) {
	dev := NewSoftwareDevice()
	desc := DefaultTextureDescriptor(8, 8, gputypes.TextureFormatRGBA8Unorm)

	var textures []Texture
	for range 3 {
		target, err := dev.NewRenderTarget(desc, 1)
		if err != nil {
			t.Fatalf("NewRenderTarget() error = %v", err)
		}
		tex, err := target.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		textures = append(textures, tex)
	}

	if got := dev.Allocations(); got != 3 {
		t.Errorf("Allocations() = %d, want 3", got)
	}
	if got := dev.LiveTextures(); got != 3 {
		t.Errorf("LiveTextures() = %d, want 3", got)
	}

	textures[0].Destroy()
	textures[0].Destroy()
	if got := dev.LiveTextures(); got != 2 {
		t.Errorf("LiveTextures() after double destroy = %d, want 2", got)
	}

	for _, tex := range textures[1:] {
		tex.Destroy()
	}
	if got := dev.LiveTextures(); got != 0 {
		t.Errorf("LiveTextures() = %d, want 0", got)
	}
	if got := dev.Allocations(); got != 3 {
		t.Errorf("Allocations() = %d, want 3", got)
	}
}

func TestPixmapTargetResolveTwice(t *testing.T) {
	target := NewPixmapTarget(4, 4, 1)
	tex, err := target.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tex.Width() != 4 || tex.Height() != 4 {
		t.Errorf("texture size = %dx%d, want 4x4", tex.Width(), tex.Height())
	}
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", tex.Format())
	}
	if _, err := target.Resolve(); !errors.Is(err, ErrTargetResolved) {
		t.Errorf("second Resolve() error = %v, want %v", err, ErrTargetResolved)
	}
}
