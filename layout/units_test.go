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

// TestPxPtConversions 验证像素字号与 pt 字号互换：72pt 恰为一英寸（25.4px）。
func TestPxPtConversions(t *testing.T) {
	if got := PtToPx(72); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("72pt 转 px 期望 25.4，实际 %g", got)
	}
	for _, px := range []float64{1, 9, 32, 51.2} {
		if back := PtToPx(PxToPt(px)); math.Abs(back-px) > 1e-9 {
			t.Fatalf("px→pt→px 往返误差过大: in=%g back=%g", px, back)
		}
	}
}
