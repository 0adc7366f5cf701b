package filter

import (
	"math"

	"github.com/gogpu/flow/internal/cache"
)

// GaussianKernel generates a 1D Gaussian kernel for the given sigma.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is computed as 2 * ceil(sigma * 3) + 1, which covers
// 99.7% of the Gaussian distribution (3 standard deviations).
//
// For sigma <= 0, returns a single-element kernel [1.0] (identity).
func GaussianKernel(sigma float64) []float32 {
	if !(sigma > 0) {
		return []float32{1.0}
	}

	halfSize := KernelRadius(sigma)
	size := halfSize*2 + 1

	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels when normalizing.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := range size {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}

	return kernel
}

// KernelRadius returns the number of pixels a blur of sigma reaches on
// each side, ceil(3 * sigma).
func KernelRadius(sigma float64) int {
	if !(sigma > 0) {
		return 0
	}
	return int(math.Ceil(sigma * 3))
}

// kernelCacheSize bounds the number of distinct kernels kept.
const kernelCacheSize = 64

// kernels caches computed Gaussian kernels keyed by sigma * 100, so sigmas
// within 0.01 of each other share a kernel.
var kernels = cache.New[int, []float32](kernelCacheSize)

// CachedGaussianKernel returns a cached Gaussian kernel for sigma.
// The returned slice must not be modified.
func CachedGaussianKernel(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))
	return kernels.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}
