package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestPxPtRoundTrip 验证字号在像素与 pt 之间往返不失真。
func TestPxPtRoundTrip(t *testing.T) {
	for _, px := range []float64{1, 20, 48, 72.5} {
		if got := PtToPx(PxToPt(px)); math.Abs(got-px) > 1e-9 {
			t.Fatalf("px→pt→px 往返误差过大: in=%g back=%g", px, got)
		}
	}
}

func TestNewScale(t *testing.T) {
	s := NewScale(640, 360, Resolution{Width: 1280, Height: 720})
	if s.X != 2 || s.Y != 2 {
		t.Fatalf("期望缩放 2x2，实际 %+v", s)
	}
	s = NewScale(0, 0, Resolution{Width: 1280, Height: 720})
	if s.X != 1 || s.Y != 1 {
		t.Fatalf("未声明分辨率时应为 1:1，实际 %+v", s)
	}
}
