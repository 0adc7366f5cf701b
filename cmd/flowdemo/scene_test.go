package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/flow/rastercache"
	"github.com/gogpu/flow/render"
)

func smallConfig(t *testing.T) config {
	t.Helper()
	conf := defaultConfig()
	conf.Width = 300
	conf.Height = 160
	conf.Scene.Columns = 2
	conf.Scene.Rows = 1
	conf.Output = filepath.Join(t.TempDir(), "out.png")
	return conf
}

func TestRenderFrameUsesCache(t *testing.T) {
	conf := smallConfig(t)
	dev := render.NewSoftwareDevice()
	cache := rastercache.New(dev, rastercache.WithThreshold(conf.threshold()))
	d := newDemo(conf)

	for frame := range 4 {
		target := d.renderFrame(cache, frame)
		if target.Width() != 300 || target.Height() != 160 {
			t.Fatalf("frame %d: target = %dx%d, want 300x160", frame, target.Width(), target.Height())
		}
		cache.SweepAfterFrame()
	}

	stats := cache.Stats()
	if stats.Rasterizations != 2 {
		t.Errorf("Stats().Rasterizations = %d, want 2", stats.Rasterizations)
	}
	if stats.Hits != 2 {
		t.Errorf("Stats().Hits = %d, want 2", stats.Hits)
	}
	if dev.LiveTextures() != 2 {
		t.Errorf("LiveTextures() = %d, want 2", dev.LiveTextures())
	}

	cache.Clear()
	if dev.LiveTextures() != 0 {
		t.Errorf("LiveTextures() after Clear() = %d, want 0", dev.LiveTextures())
	}
}

func TestRenderFrameDriftMissesCache(t *testing.T) {
	conf := smallConfig(t)
	conf.Scene.Drift = 0.5
	cache := rastercache.New(render.NewSoftwareDevice())
	d := newDemo(conf)

	for frame := range 4 {
		d.renderFrame(cache, frame)
		cache.SweepAfterFrame()
	}
	if got := cache.Stats().Rasterizations; got != 0 {
		t.Errorf("Stats().Rasterizations = %d, want 0 for drifting tiles", got)
	}
}

func TestRenderFrameWholePixelDrift(t *testing.T) {
	conf := smallConfig(t)
	conf.Scene.Drift = 1
	hot := rastercache.New(render.NewSoftwareDevice(), rastercache.WithThreshold(conf.threshold()))
	off := rastercache.New(render.NewSoftwareDevice(), rastercache.WithThreshold(0))
	d := newDemo(conf)

	for frame := range 8 {
		got := d.renderFrame(hot, frame).Image()
		want := d.renderFrame(off, frame).Image()
		hot.SweepAfterFrame()
		off.SweepAfterFrame()
		if p, ok := pixelsMatch(got, want, 2); !ok {
			t.Fatalf("frame %d pixel %v: cached %v, direct %v", frame, p, got.RGBAAt(p.X, p.Y), want.RGBAAt(p.X, p.Y))
		}
	}

	if hits := hot.Stats().Hits; hits == 0 {
		t.Error("Stats().Hits = 0, want cache hits for whole pixel drift")
	}
	if n := off.Stats().Rasterizations; n != 0 {
		t.Errorf("disabled Stats().Rasterizations = %d, want 0", n)
	}
}

// pixelsMatch reports the first pixel where a and b differ by more than
// tol in any channel.
func pixelsMatch(a, b *image.RGBA, tol int) (image.Point, bool) {
	far := func(u, v uint8) bool { return int(u)-int(v) > tol || int(v)-int(u) > tol }
	for y := a.Rect.Min.Y; y < a.Rect.Max.Y; y++ {
		for x := a.Rect.Min.X; x < a.Rect.Max.X; x++ {
			p, q := a.RGBAAt(x, y), b.RGBAAt(x, y)
			if far(p.R, q.R) || far(p.G, q.G) || far(p.B, q.B) || far(p.A, q.A) {
				return image.Pt(x, y), false
			}
		}
	}
	return image.Point{}, true
}

func TestRun(t *testing.T) {
	conf := smallConfig(t)
	conf.DevicePixelRatio = 2
	if err := run(conf); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	f, err := os.Open(conf.Output)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 320 {
		t.Errorf("image = %dx%d, want 600x320", b.Dx(), b.Dy())
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float64
		r, g, b uint8
	}{
		{0, 1, 0.5, 255, 0, 0},
		{120, 1, 0.5, 0, 255, 0},
		{240, 1, 0.5, 0, 0, 255},
		{0, 0, 1, 255, 255, 255},
	}
	for _, tt := range tests {
		c := hsl(tt.h, tt.s, tt.l)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != 255 {
			t.Errorf("hsl(%v, %v, %v) = %v, want {%d %d %d 255}", tt.h, tt.s, tt.l, c, tt.r, tt.g, tt.b)
		}
	}
}
