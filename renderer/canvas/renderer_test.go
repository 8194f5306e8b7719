package canvasrenderer

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/ByLCY/snaptext/fonts"
	"github.com/ByLCY/snaptext/layout"
)

func newTestFace(t *testing.T, r *Renderer, size float64) layout.Face {
	t.Helper()
	face, err := r.NewFace(fonts.Default(), size)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	return face
}

func TestNewFaceRejectsBadInput(t *testing.T) {
	r := NewRenderer()
	if _, err := r.NewFace(nil, 12); err == nil {
		t.Fatalf("expected error for empty font data")
	}
	if _, err := r.NewFace(fonts.Default(), 0); err == nil {
		t.Fatalf("expected error for zero size")
	}
	if _, err := r.NewFace([]byte("definitely not a font"), 12); err == nil {
		t.Fatalf("expected error for garbage font data")
	}
}

func TestFontFamilyCachedPerBlob(t *testing.T) {
	r := NewRenderer()
	newTestFace(t, r, 12)
	newTestFace(t, r, 30)
	if got := len(r.families); got != 1 {
		t.Fatalf("expected a single cached family, got %d", got)
	}
}

func TestBoundsGrowWithText(t *testing.T) {
	face := newTestFace(t, NewRenderer(), 24)
	short, err := face.Bounds("ab")
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	long, err := face.Bounds("abcdef")
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if long.Width() <= short.Width() {
		t.Fatalf("expected wider bounds for longer text: %g <= %g", long.Width(), short.Width())
	}
	if short.Height() <= 0 || short.Height() > 24*2 {
		t.Fatalf("implausible line height %g for a 24px face", short.Height())
	}
	if _, err := face.Bounds(string([]byte{0xff, 0xfe})); err == nil {
		t.Fatalf("expected error for invalid UTF-8")
	}
}

func TestMultilineBoundsStacksLines(t *testing.T) {
	face := newTestFace(t, NewRenderer(), 20)
	one, _ := face.Bounds("line")
	block, err := face.MultilineBounds([]string{"line", "line", "line"}, 4)
	if err != nil {
		t.Fatalf("MultilineBounds: %v", err)
	}
	want := 3*one.Height() + 2*4
	if diff := block.Height() - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("block height: got=%g want=%g", block.Height(), want)
	}
}

// 使用真实字体时，折行结果的每一行都不超过限制宽度。
func TestWrapWidthLimitWithRealFont(t *testing.T) {
	face := newTestFace(t, NewRenderer(), 18)
	limit := 120.0
	content := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa the quick brown fox jumps over the lazy dog"
	lines := layout.Wrap(content, face, limit)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %q", lines)
	}
	for i, ln := range lines {
		if w := layout.Measure(face, ln).Width; w-limit > 1e-6 {
			t.Fatalf("line %d %q exceeds limit: width=%g limit=%g", i, ln, w, limit)
		}
	}
	if got := strings.ReplaceAll(strings.Join(lines, ""), " ", ""); got != strings.ReplaceAll(content, " ", "") {
		t.Fatalf("wrapping lost content: %q", got)
	}
}

// 当首行宽度与限制恰好相等且后面紧跟显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	face := newTestFace(t, NewRenderer(), 16)
	first := "SAMPLE-A"
	limit := layout.Measure(face, first).Width
	lines := layout.Wrap(first+"\n"+"SAMPLE-B", face, limit)
	if len(lines) != 2 || lines[0] != first || lines[1] != "SAMPLE-B" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestDrawLinesPaintsAroundCenter(t *testing.T) {
	r := NewRenderer()
	face := newTestFace(t, r, 24)
	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	if err := r.DrawLines(dst, face, []string{"Hi", "there"}, 100, 50, 4, color.White); err != nil {
		t.Fatalf("DrawLines: %v", err)
	}
	painted := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if dst.RGBAAt(x, y).A == 0 {
				continue
			}
			painted++
			if x < 40 || x > 160 {
				t.Fatalf("pixel (%d,%d) painted far from the horizontal center", x, y)
			}
		}
	}
	if painted == 0 {
		t.Fatalf("expected some text pixels to be painted")
	}
}

type foreignFace struct{ layout.Face }

func TestDrawLinesRejectsForeignFace(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := NewRenderer().DrawLines(dst, foreignFace{}, []string{"x"}, 5, 5, 0, color.White); err == nil {
		t.Fatalf("expected error for a face from another backend")
	}
}
