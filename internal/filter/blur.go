package filter

import (
	"image"
	"sync"
)

// Blur applies a separable Gaussian blur to the pixels of src inside r and
// writes them to the same rectangle of dst. Pixels outside src's bounds
// read as transparent, so content spreads into empty margins instead of
// smearing its edge color.
//
// src and dst may not be the same image. The two passes process
// horizontal and vertical runs independently, costing O(w*h*(2k+1)) for
// a kernel of radius k instead of O(w*h*(2k+1)²).
func Blur(dst, src *image.RGBA, r image.Rectangle, sigma float64) {
	if dst == nil || src == nil {
		return
	}
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}

	if !(sigma > 0) {
		copyRegion(dst, src, r)
		return
	}

	kernel := CachedGaussianKernel(sigma)
	half := len(kernel) / 2

	// The vertical pass needs half rows above and below r.
	rows := image.Rect(r.Min.X, r.Min.Y-half, r.Max.X, r.Max.Y+half)
	temp := getTempBuffer(rows.Dx(), rows.Dy())
	defer putTempBuffer(temp)

	blurHorizontal(src, temp, rows, kernel)
	blurVertical(temp, dst, r, kernel)
}

// Expand returns r grown by the reach of a blur of sigma.
func Expand(r image.Rectangle, sigma float64) image.Rectangle {
	k := KernelRadius(sigma)
	return r.Inset(-k)
}

// blurHorizontal convolves the rows of src inside r into temp, which
// holds r's pixels row-major as float32 RGBA. Rows outside src stay zero.
func blurHorizontal(src *image.RGBA, temp []float32, r image.Rectangle, kernel []float32) {
	half := len(kernel) / 2
	width := r.Dx()
	sb := src.Rect

	for y := r.Min.Y; y < r.Max.Y; y++ {
		if y < sb.Min.Y || y >= sb.Max.Y {
			continue
		}
		row := (y - r.Min.Y) * width * 4

		for x := r.Min.X; x < r.Max.X; x++ {
			var cr, cg, cb, ca float32

			for k, weight := range kernel {
				kx := x + k - half
				if kx < sb.Min.X || kx >= sb.Max.X {
					continue
				}
				i := src.PixOffset(kx, y)
				cr += float32(src.Pix[i+0]) * weight
				cg += float32(src.Pix[i+1]) * weight
				cb += float32(src.Pix[i+2]) * weight
				ca += float32(src.Pix[i+3]) * weight
			}

			t := row + (x-r.Min.X)*4
			temp[t+0] = cr
			temp[t+1] = cg
			temp[t+2] = cb
			temp[t+3] = ca
		}
	}
}

// blurVertical convolves the columns of temp into r of dst. temp holds
// len(kernel)/2 extra rows above and below r.
func blurVertical(temp []float32, dst *image.RGBA, r image.Rectangle, kernel []float32) {
	width, height := r.Dx(), r.Dy()

	for y := range height {
		for x := range width {
			var cr, cg, cb, ca float32

			for k, weight := range kernel {
				t := ((y+k)*width + x) * 4
				cr += temp[t+0] * weight
				cg += temp[t+1] * weight
				cb += temp[t+2] * weight
				ca += temp[t+3] * weight
			}

			i := dst.PixOffset(r.Min.X+x, r.Min.Y+y)
			dst.Pix[i+0] = clampUint8(cr)
			dst.Pix[i+1] = clampUint8(cg)
			dst.Pix[i+2] = clampUint8(cb)
			dst.Pix[i+3] = clampUint8(ca)
		}
	}
}

// copyRegion copies the pixels of src inside r to dst, clearing the parts
// of r that src does not cover.
func copyRegion(dst, src *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := dst.PixOffset(x, y)
			if !image.Pt(x, y).In(src.Rect) {
				clear(dst.Pix[i : i+4])
				continue
			}
			j := src.PixOffset(x, y)
			copy(dst.Pix[i:i+4], src.Pix[j:j+4])
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

// tempBufferPool holds scratch buffers between blurs.
var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{data: make([]float32, 256*256*4)}
	},
}

// getTempBuffer retrieves a zeroed buffer of exactly width*height*4
// elements.
func getTempBuffer(width, height int) []float32 {
	size := width * height * 4
	wrapper := tempBufferPool.Get().(*floatBuffer)

	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}

	buf := wrapper.data[:size]
	clear(buf)
	return buf
}

// putTempBuffer returns a temporary buffer to the pool.
func putTempBuffer(buf []float32) {
	// Only pool reasonably-sized buffers (64MB max).
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampUint8 clamps a float32 to [0, 255] and converts to uint8.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
