// Package filter provides image filters for the software canvas.
//
// Filters work on premultiplied *image.RGBA buffers:
//   - Gaussian blur (separable, O(n) per radius) used for blur mask filters
//
// Kernels are cached by sigma, so repeated blurs of the same strength do
// not recompute them.
package filter
