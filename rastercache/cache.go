package rastercache

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/picture"
	"github.com/gogpu/flow/render"
)

// ErrNilDevice is returned when a cache without a device has to rasterize.
var ErrNilDevice = errors.New("rastercache: nil device")

// maxTextureDim bounds texture dimensions before they reach the device.
const maxTextureDim = 1 << 24

// entry tracks one key between sweeps.
type entry struct {
	accessCount   int
	usedThisFrame bool
	image         *Result
}

// Cache decides which pictures are worth rasterizing and keeps their
// textures alive while they are in use.
//
// Every frame, the renderer calls GetPrerolledImage for the pictures it is
// about to draw and then SweepAfterFrame exactly once. Entries not
// requested during a frame are evicted by that sweep and their textures
// destroyed.
//
// Cache is safe for concurrent use; lookups and sweeps are serialized.
type Cache struct {
	mu      sync.Mutex
	device  render.Device
	opts    options
	entries map[Key]*entry

	// Statistics (atomic for zero-allocation reads)
	hits           atomic.Uint64
	misses         atomic.Uint64
	rasterizations atomic.Uint64
	evictions      atomic.Uint64
}

// Stats contains cache statistics for monitoring.
type Stats struct {
	// Entries is the number of tracked keys.
	Entries int
	// Rasterized is the number of entries holding a texture.
	Rasterized int
	// Hits is the number of lookups served by an existing texture.
	Hits uint64
	// Misses is the number of lookups that returned no image because the
	// key was not yet hot.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), or 0 without lookups.
	HitRate float64
	// Rasterizations is the number of textures produced.
	Rasterizations uint64
	// Evictions is the number of entries removed by sweeps.
	Evictions uint64
}

// New creates a cache that allocates textures on device.
func New(device render.Device, opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache{
		device:  device,
		opts:    o,
		entries: make(map[Key]*entry),
	}
}

// Threshold returns the promotion threshold. Zero means caching is disabled.
func (c *Cache) Threshold() int {
	return c.opts.threshold
}

// Len returns the number of tracked keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetPrerolledImage returns the rasterization of pic drawn with transform
// at devicePixelRatio, producing it if the key has become hot.
//
// It returns nil without error when caching is disabled, the picture is
// not worth caching (willChange is set, its paint bounds are empty or not
// finite, or it is neither complex nor large), the transform cannot be
// inverted, or the key has been requested fewer than Threshold times.
//
// A failed rasterization is returned as an error. The entry stays without
// an image and rasterization is retried on the next request.
func (c *Cache) GetPrerolledImage(pic *picture.Picture, transform flow.Matrix, devicePixelRatio float64, isComplex, willChange bool) (*Result, error) {
	if c.opts.threshold == 0 {
		return nil, nil
	}
	if !c.worthRasterizing(pic, isComplex, willChange) {
		return nil, nil
	}
	if !transform.IsInvertible() {
		return nil, nil
	}
	if !(devicePixelRatio > 0) || math.IsInf(devicePixelRatio, 0) {
		return nil, nil
	}

	key := NewKey(pic, transform, devicePixelRatio)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.accessCount = min(e.accessCount+1, c.opts.threshold)
	e.usedThisFrame = true

	if e.accessCount < c.opts.threshold {
		c.misses.Add(1)
		return nil, nil
	}

	if e.image != nil {
		c.hits.Add(1)
		return e.image, nil
	}

	img, err := c.rasterize(pic, transform, devicePixelRatio)
	if err != nil {
		flow.Logger().Warn("rastercache: rasterization failed", "err", err)
		return nil, err
	}
	e.image = img
	c.rasterizations.Add(1)
	return img, nil
}

// worthRasterizing applies the cheap checks that do not need a key.
func (c *Cache) worthRasterizing(pic *picture.Picture, isComplex, willChange bool) bool {
	if willChange || pic == nil {
		return false
	}
	bounds := pic.PaintBounds()
	if bounds.IsEmpty() || !bounds.IsFinite() {
		return false
	}
	return isComplex || pic.Len() > c.opts.minCommandCount
}

// rasterize replays pic into a new texture covering its transformed paint
// bounds, with the bounds' top-left corner at the texture origin.
func (c *Cache) rasterize(pic *picture.Picture, transform flow.Matrix, dpr float64) (*Result, error) {
	bounds := transform.MapRect(pic.PaintBounds())
	w := pixelSize(bounds.Width() * dpr)
	h := pixelSize(bounds.Height() * dpr)
	if w <= 0 || h <= 0 || w > maxTextureDim || h > maxTextureDim {
		return nil, fmt.Errorf("rastercache: rasterize %dx%d: %w", w, h, render.ErrInvalidDescriptor)
	}

	if c.device == nil {
		return nil, ErrNilDevice
	}

	//nolint:gosec // G115: bounded by maxTextureDim
	desc := render.DefaultTextureDescriptor(uint32(w), uint32(h), c.opts.format)
	desc.Label = "rastercache"
	target, err := c.device.NewRenderTarget(desc, dpr)
	if err != nil {
		return nil, fmt.Errorf("rastercache: allocate %dx%d: %w", w, h, err)
	}

	canvas := target.Canvas()
	canvas.Translate(-bounds.MinX, -bounds.MinY)
	canvas.Concat(transform)
	canvas.DrawPicture(pic)

	tex, err := target.Resolve()
	if err != nil {
		return nil, fmt.Errorf("rastercache: resolve %dx%d: %w", w, h, err)
	}
	res, err := NewResult(tex, bounds, dpr)
	if err != nil {
		tex.Destroy()
		return nil, err
	}
	res.transform = transform

	flow.Logger().Debug("rastercache: rasterized picture",
		"picture", pic.ID(), "width", w, "height", h, "dpr", dpr)
	return res, nil
}

// SweepAfterFrame evicts every entry not requested since the previous
// sweep, destroying its texture, and resets the flag on the others.
// Call it exactly once per frame, after all lookups for the frame.
func (c *Cache) SweepAfterFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.entries {
		if e.usedThisFrame {
			e.usedThisFrame = false
			continue
		}
		delete(c.entries, key)
		if e.image != nil {
			e.image.texture.Destroy()
		}
		evicted++
	}
	if evicted > 0 {
		c.evictions.Add(uint64(evicted))
		flow.Logger().Debug("rastercache: swept", "evicted", evicted, "remaining", len(c.entries))
	}
}

// Clear destroys every texture and forgets every key.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.image != nil {
			e.image.texture.Destroy()
		}
	}
	clear(c.entries)
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := len(c.entries)
	rasterized := 0
	for _, e := range c.entries {
		if e.image != nil {
			rasterized++
		}
	}
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Entries:        entries,
		Rasterized:     rasterized,
		Hits:           hits,
		Misses:         misses,
		HitRate:        hitRate,
		Rasterizations: c.rasterizations.Load(),
		Evictions:      c.evictions.Load(),
	}
}
