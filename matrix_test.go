package flow

import (
	"math"
	"testing"
)

const eps = 1e-9

func matrixApprox(a, b Matrix) bool {
	return math.Abs(a.A-b.A) < eps && math.Abs(a.B-b.B) < eps && math.Abs(a.C-b.C) < eps &&
		math.Abs(a.D-b.D) < eps && math.Abs(a.E-b.E) < eps && math.Abs(a.F-b.F) < eps
}

func rectApprox(a, b Rect) bool {
	return math.Abs(a.MinX-b.MinX) < eps && math.Abs(a.MinY-b.MinY) < eps &&
		math.Abs(a.MaxX-b.MaxX) < eps && math.Abs(a.MaxY-b.MaxY) < eps
}

func TestPreTranslateAppliesFirst(t *testing.T) {
	m := Scale(2, 2).PreTranslate(10, 5)
	got := m.TransformPoint(Pt(0, 0))
	if got != Pt(20, 10) {
		t.Errorf("TransformPoint = %v, want (20, 10)", got)
	}
}

func TestPreOpsDoNotMutateReceiver(t *testing.T) {
	base := Translate(3, 4)
	_ = base.PreScale(2, 2)
	_ = base.PreRotate(math.Pi)
	_ = base.PreSkew(1, 0)
	_ = base.PreConcat(Scale(5, 5))
	if base != Translate(3, 4) {
		t.Errorf("receiver mutated: %v", base)
	}
}

func TestPreRotateAbout(t *testing.T) {
	m := Identity().PreRotateAbout(math.Pi/2, 10, 10)
	got := m.TransformPoint(Pt(20, 10))
	if math.Abs(got.X-10) > eps || math.Abs(got.Y-20) > eps {
		t.Errorf("TransformPoint = %v, want (10, 20)", got)
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		ok   bool
	}{
		{"identity", Identity(), true},
		{"translate", Translate(10, -3), true},
		{"scale rotate", Scale(2, 3).PreRotate(0.7), true},
		{"singular", Scale(0, 1), false},
		{"nan", Matrix{A: math.NaN(), E: 1}, false},
		{"inf translation", Translate(math.Inf(1), 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if ok != tt.ok {
				t.Fatalf("Invert() ok = %v, want %v", ok, tt.ok)
			}
			if ok && !matrixApprox(tt.m.Multiply(inv), Identity()) {
				t.Errorf("m * inv = %v, want identity", tt.m.Multiply(inv))
			}
		})
	}
}

func TestMapRect(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		r    Rect
		want Rect
	}{
		{"translate", Translate(10, 10), NewRect(0, 0, 20, 20), RectFromLTRB(10, 10, 30, 30)},
		{"scale", Scale(2, 3), NewRect(1, 1, 1, 1), RectFromLTRB(2, 3, 4, 6)},
		{"rotate 90", Rotate(math.Pi / 2), NewRect(0, 0, 10, 5), RectFromLTRB(-5, 0, 0, 10)},
		{"flip", Scale(-1, 1), NewRect(0, 0, 4, 4), RectFromLTRB(-4, 0, 0, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.MapRect(tt.r); !rectApprox(got, tt.want) {
				t.Errorf("MapRect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUniformScale(t *testing.T) {
	if got := Scale(3, 3).PreRotate(1.1).UniformScale(); math.Abs(got-3) > eps {
		t.Errorf("UniformScale = %v, want 3", got)
	}
	if got := Translate(5, 5).UniformScale(); got != 1 {
		t.Errorf("UniformScale = %v, want 1", got)
	}
}

func TestWithTranslation(t *testing.T) {
	m := Scale(2, 2).PreTranslate(3, 4).WithTranslation(0.5, 0.25)
	if x, y := m.Translation(); x != 0.5 || y != 0.25 {
		t.Errorf("Translation = (%v, %v), want (0.5, 0.25)", x, y)
	}
	if m.A != 2 || m.E != 2 {
		t.Errorf("linear part changed: %v", m)
	}
}
