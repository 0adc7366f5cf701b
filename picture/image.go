package picture

import "image"

// Image is a drawable raster image.
// Dynamic images (video frames, live textures) change between frames, so
// pictures containing them are never worth caching.
type Image interface {
	Width() int
	Height() int
	IsDynamic() bool
}

// PixelSource is implemented by images whose pixels are accessible on the CPU.
type PixelSource interface {
	Pixels() image.Image
}

// RasterImage wraps a standard library image.
type RasterImage struct {
	img     image.Image
	dynamic bool
}

// NewImage wraps img as a static Image.
func NewImage(img image.Image) *RasterImage {
	return &RasterImage{img: img}
}

// NewDynamicImage wraps img as an Image whose content changes every frame.
func NewDynamicImage(img image.Image) *RasterImage {
	return &RasterImage{img: img, dynamic: true}
}

// Width returns the image width in pixels.
func (i *RasterImage) Width() int { return i.img.Bounds().Dx() }

// Height returns the image height in pixels.
func (i *RasterImage) Height() int { return i.img.Bounds().Dy() }

// IsDynamic reports whether the image changes between frames.
func (i *RasterImage) IsDynamic() bool { return i.dynamic }

// Pixels returns the wrapped image.
func (i *RasterImage) Pixels() image.Image { return i.img }
