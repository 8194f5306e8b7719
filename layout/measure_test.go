package layout

import (
	"math"
	"testing"
)

func TestMeasureUsesBackend(t *testing.T) {
	face := monoFace{size: 20, advance: 10}
	got := Measure(face, "Hello")
	if got.Estimated {
		t.Fatalf("expected exact measurement, got estimate %+v", got)
	}
	if got.Width != 50 || got.Height != 20 {
		t.Fatalf("unexpected extent: %+v", got)
	}
}

// 后端失败（错误或 panic）时退化为估算，且不向调用方传播。
func TestMeasureFallsBackToEstimate(t *testing.T) {
	for _, face := range []Face{brokenFace{size: 20}, brokenFace{size: 20, panics: true}} {
		got := Measure(face, "héllo")
		if !got.Estimated {
			t.Fatalf("expected estimate, got %+v", got)
		}
		if want := 5 * 20 * FallbackWidthFactor; math.Abs(got.Width-want) > 1e-9 {
			t.Fatalf("estimate width: got=%g want=%g", got.Width, want)
		}
		if got.Height != 20 {
			t.Fatalf("estimate height: got=%g want=20", got.Height)
		}
	}
}

func TestMeasureNilFace(t *testing.T) {
	got := Measure(nil, "abc")
	if !got.Estimated || got.Width != 0 || got.Height != 0 {
		t.Fatalf("nil face must yield a zero estimate, got %+v", got)
	}
}
