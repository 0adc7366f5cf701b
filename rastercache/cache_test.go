package rastercache

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/path"
	"github.com/gogpu/flow/picture"
	"github.com/gogpu/flow/render"
)

var red = color.NRGBA{R: 255, A: 255}

func rectPath(x, y, w, h float64) *path.Path {
	p := path.New()
	p.AddRect(flow.NewRect(x, y, w, h))
	return p
}

// scenePicture records save, translate(10,10), a 20x20 fill and restore,
// painting [10,10,30,30].
func scenePicture(t *testing.T) *picture.Picture {
	t.Helper()
	rec := picture.NewRecorder()
	rec.Save()
	rec.Translate(10, 10)
	rec.DrawPath(rectPath(0, 0, 20, 20), picture.NewFill(red))
	rec.Restore()
	pic, err := rec.EndRecording()
	if err != nil {
		t.Fatalf("EndRecording() error = %v", err)
	}
	return pic
}

// manyPathsPicture records n small fills.
func manyPathsPicture(t *testing.T, n int) *picture.Picture {
	t.Helper()
	rec := picture.NewRecorder()
	for i := range n {
		rec.DrawPath(rectPath(float64(i), 0, 1, 1), nil)
	}
	pic, err := rec.EndRecording()
	if err != nil {
		t.Fatalf("EndRecording() error = %v", err)
	}
	return pic
}

func lookup(t *testing.T, c *Cache, pic *picture.Picture, m flow.Matrix, dpr float64) *Result {
	t.Helper()
	res, err := c.GetPrerolledImage(pic, m, dpr, true, false)
	if err != nil {
		t.Fatalf("GetPrerolledImage() error = %v", err)
	}
	return res
}

func TestCachePromotionThreshold(t *testing.T) {
	for _, threshold := range []int{1, 2, 3, 5} {
		dev := render.NewSoftwareDevice()
		c := New(dev, WithThreshold(threshold))
		pic := scenePicture(t)

		for i := 1; i < threshold; i++ {
			if res := lookup(t, c, pic, flow.Identity(), 1); res != nil {
				t.Fatalf("threshold %d: call %d returned a result, want nil", threshold, i)
			}
			if dev.Allocations() != 0 {
				t.Fatalf("threshold %d: call %d allocated %d textures, want 0", threshold, i, dev.Allocations())
			}
		}

		res := lookup(t, c, pic, flow.Identity(), 1)
		if res == nil {
			t.Fatalf("threshold %d: call %d returned nil, want a result", threshold, threshold)
		}
		if dev.Allocations() != 1 {
			t.Errorf("threshold %d: allocations = %d, want 1", threshold, dev.Allocations())
		}

		if again := lookup(t, c, pic, flow.Identity(), 1); again != res {
			t.Errorf("threshold %d: later call returned a different result", threshold)
		}
		if dev.Allocations() != 1 {
			t.Errorf("threshold %d: allocations after hit = %d, want 1", threshold, dev.Allocations())
		}

		stats := c.Stats()
		if stats.Misses != uint64(threshold-1) || stats.Hits != 1 || stats.Rasterizations != 1 {
			t.Errorf("threshold %d: Stats() = %+v, want %d misses, 1 hit, 1 rasterization",
				threshold, stats, threshold-1)
		}
	}
}

func TestCacheDisabled(t *testing.T) {
	dev := render.NewSoftwareDevice()
	c := New(dev, WithThreshold(0))
	pic := scenePicture(t)

	for range 10 {
		if res := lookup(t, c, pic, flow.Identity(), 1); res != nil {
			t.Fatal("disabled cache returned a result")
		}
	}
	if c.Len() != 0 || dev.Allocations() != 0 {
		t.Errorf("disabled cache Len() = %d, allocations = %d, want 0, 0", c.Len(), dev.Allocations())
	}
	if c.Threshold() != 0 {
		t.Errorf("Threshold() = %d, want 0", c.Threshold())
	}
}

func TestCacheWorthiness(t *testing.T) {
	tests := []struct {
		name       string
		pic        func(t *testing.T) *picture.Picture
		isComplex  bool
		willChange bool
		want       bool
	}{
		{"complex", scenePicture, true, false, true},
		{"will change", scenePicture, true, true, false},
		{"simple and small", scenePicture, false, false, false},
		{"ten commands", func(t *testing.T) *picture.Picture { return manyPathsPicture(t, 10) }, false, false, false},
		{"eleven commands", func(t *testing.T) *picture.Picture { return manyPathsPicture(t, 11) }, false, false, true},
		{"eleven commands will change", func(t *testing.T) *picture.Picture { return manyPathsPicture(t, 11) }, false, true, false},
		{"empty bounds", emptyPicture, true, false, false},
		{"nil picture", func(*testing.T) *picture.Picture { return nil }, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(render.NewSoftwareDevice())
			pic := tt.pic(t)
			var res *Result
			for range 5 {
				var err error
				res, err = c.GetPrerolledImage(pic, flow.Identity(), 1, tt.isComplex, tt.willChange)
				if err != nil {
					t.Fatalf("GetPrerolledImage() error = %v", err)
				}
			}
			if got := res != nil; got != tt.want {
				t.Errorf("cached = %v, want %v", got, tt.want)
			}
			if !tt.want && c.Len() != 0 {
				t.Errorf("Len() = %d, want 0 for a picture not worth caching", c.Len())
			}
		})
	}
}

func TestCacheMinCommandCount(t *testing.T) {
	c := New(render.NewSoftwareDevice(), WithThreshold(1), WithMinCommandCount(3))
	res, err := c.GetPrerolledImage(scenePicture(t), flow.Identity(), 1, false, false)
	if err != nil {
		t.Fatalf("GetPrerolledImage() error = %v", err)
	}
	if res == nil {
		t.Error("4-command picture not cached with a minimum of 3")
	}
}

func TestCacheUnusableTransform(t *testing.T) {
	tests := []struct {
		name string
		m    flow.Matrix
		dpr  float64
	}{
		{"singular", flow.Scale(0, 1), 1},
		{"collapsed", flow.Matrix{A: 1, B: 2, D: 2, E: 4}, 1},
		{"nan", flow.Matrix{A: math.NaN(), E: 1}, 1},
		{"infinite translation", flow.Translate(math.Inf(1), 0), 1},
		{"zero ratio", flow.Identity(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := render.NewSoftwareDevice()
			c := New(dev)
			pic := scenePicture(t)
			for range 5 {
				if res := lookup(t, c, pic, tt.m, tt.dpr); res != nil {
					t.Fatal("GetPrerolledImage() returned a result, want nil")
				}
			}
			if c.Len() != 0 || dev.Allocations() != 0 {
				t.Errorf("Len() = %d, allocations = %d, want 0, 0", c.Len(), dev.Allocations())
			}
		})
	}
}

func TestCacheQuantizedLookupsShareEntry(t *testing.T) {
	dev := render.NewSoftwareDevice()
	c := New(dev)
	pic := scenePicture(t)

	lookup(t, c, pic, flow.Translate(0.25, 0), 1)
	lookup(t, c, pic, flow.Translate(3.25, 0), 1)
	res := lookup(t, c, pic, flow.Translate(-5.75, 2), 1)
	if res == nil {
		t.Fatal("third lookup across whole-pixel translations returned nil")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	lookup(t, c, pic, flow.Translate(0.5, 0), 1)
	if c.Len() != 2 {
		t.Errorf("Len() after sub-pixel change = %d, want 2", c.Len())
	}
}

func TestCacheSweepAfterFrame(t *testing.T) {
	dev := render.NewSoftwareDevice()
	c := New(dev)
	a := scenePicture(t)
	b := scenePicture(t)

	// Frame 1: a becomes hot, b is seen once.
	for range 3 {
		lookup(t, c, a, flow.Identity(), 1)
	}
	lookup(t, c, b, flow.Identity(), 1)
	c.SweepAfterFrame()
	if c.Len() != 2 {
		t.Fatalf("Len() after frame 1 = %d, want 2", c.Len())
	}
	if dev.LiveTextures() != 1 {
		t.Fatalf("LiveTextures() after frame 1 = %d, want 1", dev.LiveTextures())
	}

	// Frame 2: only a is used.
	if lookup(t, c, a, flow.Identity(), 1) == nil {
		t.Fatal("hot entry returned nil in frame 2")
	}
	c.SweepAfterFrame()
	if c.Len() != 1 {
		t.Errorf("Len() after frame 2 = %d, want 1", c.Len())
	}
	if dev.LiveTextures() != 1 {
		t.Errorf("LiveTextures() after frame 2 = %d, want 1", dev.LiveTextures())
	}

	// Frame 3: nothing is used.
	c.SweepAfterFrame()
	if c.Len() != 0 {
		t.Errorf("Len() after frame 3 = %d, want 0", c.Len())
	}
	if dev.LiveTextures() != 0 {
		t.Errorf("LiveTextures() after frame 3 = %d, want 0", dev.LiveTextures())
	}
	if got := c.Stats().Evictions; got != 2 {
		t.Errorf("Stats().Evictions = %d, want 2", got)
	}

	// An evicted key starts over.
	if lookup(t, c, a, flow.Identity(), 1) != nil {
		t.Error("evicted key returned a result on its first lookup")
	}
}

func TestCacheAccessCountSpansFrames(t *testing.T) {
	c := New(render.NewSoftwareDevice())
	pic := scenePicture(t)

	for frame := 1; frame <= 3; frame++ {
		res := lookup(t, c, pic, flow.Identity(), 1)
		if got := res != nil; got != (frame == 3) {
			t.Errorf("frame %d: result = %v, want %v", frame, got, frame == 3)
		}
		c.SweepAfterFrame()
	}
}

func TestCacheClear(t *testing.T) {
	dev := render.NewSoftwareDevice()
	c := New(dev)
	pic := scenePicture(t)

	for i := range 5 {
		m := flow.Translate(float64(i)*0.125, 0)
		for range 3 {
			lookup(t, c, pic, m, 1)
		}
	}
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
	if dev.LiveTextures() != 5 {
		t.Fatalf("LiveTextures() = %d, want 5", dev.LiveTextures())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", c.Len())
	}
	if dev.LiveTextures() != 0 {
		t.Errorf("LiveTextures() after Clear() = %d, want 0", dev.LiveTextures())
	}
	c.SweepAfterFrame()
	if c.Len() != 0 {
		t.Errorf("Len() after sweep = %d, want 0", c.Len())
	}
}

func TestCacheEndToEnd(t *testing.T) {
	tests := []struct {
		name     string
		m        flow.Matrix
		dpr      float64
		wantRect flow.Rect
		wantSize int
	}{
		{"identity", flow.Identity(), 1, flow.RectFromLTRB(10, 10, 30, 30), 20},
		{"scaled", flow.Scale(2, 2), 1, flow.RectFromLTRB(20, 20, 60, 60), 40},
		{"high dpi", flow.Identity(), 2, flow.RectFromLTRB(10, 10, 30, 30), 40},
		{"fractional dpi", flow.Identity(), 1.5, flow.RectFromLTRB(10, 10, 30, 30), 30},
		{"sub-pixel offset", flow.Translate(0.5, 0.25), 2, flow.RectFromLTRB(10.5, 10.25, 30.5, 30.25), 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pic := scenePicture(t)
			if got, want := pic.PaintBounds(), flow.RectFromLTRB(10, 10, 30, 30); got != want {
				t.Fatalf("PaintBounds() = %v, want %v", got, want)
			}

			c := New(render.NewSoftwareDevice(), WithThreshold(3))
			if lookup(t, c, pic, tt.m, tt.dpr) != nil || lookup(t, c, pic, tt.m, tt.dpr) != nil {
				t.Fatal("calls 1 and 2 returned a result, want nil")
			}
			res := lookup(t, c, pic, tt.m, tt.dpr)
			if res == nil {
				t.Fatal("call 3 returned nil")
			}
			if got := res.LogicalRect(); got != tt.wantRect {
				t.Errorf("LogicalRect() = %v, want %v", got, tt.wantRect)
			}
			tex := res.Texture()
			if tex.Width() != tt.wantSize || tex.Height() != tt.wantSize {
				t.Errorf("texture = %dx%d, want %dx%d", tex.Width(), tex.Height(), tt.wantSize, tt.wantSize)
			}
			if res.DevicePixelRatio() != tt.dpr {
				t.Errorf("DevicePixelRatio() = %v, want %v", res.DevicePixelRatio(), tt.dpr)
			}
		})
	}
}

// flakyDevice fails the first fail allocations.
type flakyDevice struct {
	*render.SoftwareDevice
	fail int
}

var errOutOfMemory = errors.New("out of texture memory")

func (d *flakyDevice) NewRenderTarget(desc render.TextureDescriptor, dpr float64) (render.RenderTarget, error) {
	if d.fail > 0 {
		d.fail--
		return nil, errOutOfMemory
	}
	return d.SoftwareDevice.NewRenderTarget(desc, dpr)
}

func TestCacheAllocationFailure(t *testing.T) {
	dev := &flakyDevice{SoftwareDevice: render.NewSoftwareDevice(), fail: 1}
	c := New(dev)
	pic := scenePicture(t)

	lookup(t, c, pic, flow.Identity(), 1)
	lookup(t, c, pic, flow.Identity(), 1)
	res, err := c.GetPrerolledImage(pic, flow.Identity(), 1, true, false)
	if !errors.Is(err, errOutOfMemory) {
		t.Fatalf("GetPrerolledImage() error = %v, want %v", err, errOutOfMemory)
	}
	if res != nil {
		t.Error("failed rasterization returned a result")
	}
	if got := c.Stats().Rasterized; got != 0 {
		t.Errorf("Stats().Rasterized = %d, want 0", got)
	}

	// The entry stays hot and the next request retries.
	res = lookup(t, c, pic, flow.Identity(), 1)
	if res == nil {
		t.Fatal("retry returned nil")
	}
	if dev.LiveTextures() != 1 {
		t.Errorf("LiveTextures() = %d, want 1", dev.LiveTextures())
	}
}

func TestCacheTextureTooLarge(t *testing.T) {
	dev := render.NewSoftwareDevice(render.WithMaxTextureSize(16))
	c := New(dev, WithThreshold(1))
	_, err := c.GetPrerolledImage(scenePicture(t), flow.Identity(), 1, true, false)
	if !errors.Is(err, render.ErrTextureTooLarge) {
		t.Errorf("GetPrerolledImage() error = %v, want %v", err, render.ErrTextureTooLarge)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheNilDevice(t *testing.T) {
	c := New(nil, WithThreshold(1))
	_, err := c.GetPrerolledImage(scenePicture(t), flow.Identity(), 1, true, false)
	if !errors.Is(err, ErrNilDevice) {
		t.Errorf("GetPrerolledImage() error = %v, want %v", err, ErrNilDevice)
	}
}

func BenchmarkCacheHit(b *testing.B) {
	rec := picture.NewRecorder()
	rec.DrawPath(rectPath(0, 0, 20, 20), nil)
	pic, err := rec.EndRecording()
	if err != nil {
		b.Fatal(err)
	}
	c := New(render.NewSoftwareDevice(), WithThreshold(1))
	m := flow.Translate(3.5, 7)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := c.GetPrerolledImage(pic, m, 2, true, false); err != nil {
			b.Fatal(err)
		}
	}
}
