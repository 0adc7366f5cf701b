package filter

import (
	"math"
	"testing"
)

func TestGaussianKernelIdentity(t *testing.T) {
	for _, sigma := range []float64{0, -5, math.NaN()} {
		kernel := GaussianKernel(sigma)
		if len(kernel) != 1 || kernel[0] != 1.0 {
			t.Errorf("GaussianKernel(%v) = %v, want [1]", sigma, kernel)
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{1, 2, 3, 5, 10, 20} {
		var sum float32
		for _, v := range GaussianKernel(sigma) {
			sum += v
		}
		if math.Abs(float64(sum)-1.0) > 0.001 {
			t.Errorf("GaussianKernel(%v) sum = %v, want ~1.0", sigma, sum)
		}
	}
}

func TestGaussianKernelSymmetric(t *testing.T) {
	kernel := GaussianKernel(5)
	n := len(kernel)

	for i := range n / 2 {
		j := n - 1 - i
		if math.Abs(float64(kernel[i]-kernel[j])) > 0.0001 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v (asymmetric)", i, kernel[i], j, kernel[j])
		}
	}

	center := n / 2
	for i, v := range kernel {
		if i != center && v >= kernel[center] {
			t.Errorf("kernel[%d] = %v >= center %v", i, v, kernel[center])
		}
	}
}

func TestGaussianKernelSize(t *testing.T) {
	tests := []struct {
		sigma    float64
		wantSize int
	}{
		{0.5, 5},   // ceil(0.5*3)*2+1
		{1.0, 7},   // ceil(1*3)*2+1
		{2.0, 13},  // ceil(2*3)*2+1
		{5.0, 31},  // ceil(5*3)*2+1
		{10.0, 61}, // ceil(10*3)*2+1
	}

	for _, tt := range tests {
		kernel := GaussianKernel(tt.sigma)
		if len(kernel) != tt.wantSize {
			t.Errorf("GaussianKernel(%v) len = %d, want %d", tt.sigma, len(kernel), tt.wantSize)
		}
		if got := KernelRadius(tt.sigma)*2 + 1; got != tt.wantSize {
			t.Errorf("KernelRadius(%v)*2+1 = %d, want %d", tt.sigma, got, tt.wantSize)
		}
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	a := CachedGaussianKernel(4)
	b := CachedGaussianKernel(4.001)
	if &a[0] != &b[0] {
		t.Error("sigmas within 0.01 should share a cached kernel")
	}

	c := CachedGaussianKernel(2)
	if len(c) == len(a) {
		t.Errorf("CachedGaussianKernel(2) len = %d, want different from sigma 4", len(c))
	}

	want := GaussianKernel(4)
	for i := range want {
		if a[i] != want[i] {
			t.Fatalf("cached kernel[%d] = %v, want %v", i, a[i], want[i])
		}
	}
}

func BenchmarkGaussianKernel(b *testing.B) {
	for b.Loop() {
		_ = GaussianKernel(10)
	}
}

func BenchmarkCachedGaussianKernel(b *testing.B) {
	for b.Loop() {
		_ = CachedGaussianKernel(10)
	}
}
