package layout

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// monoFace 是测试用的等宽字体：每个字符 advance 像素宽，行高等于字号。
type monoFace struct {
	size    float64
	advance float64
}

func (f monoFace) Size() float64 { return f.size }

func (f monoFace) Bounds(text string) (Rect, error) {
	w := float64(utf8.RuneCountInString(text)) * f.advance
	return Rect{Right: w, Bottom: f.size}, nil
}

func (f monoFace) MultilineBounds(lines []string, spacing float64) (Rect, error) {
	var w float64
	for _, ln := range lines {
		w = max(w, float64(utf8.RuneCountInString(ln))*f.advance)
	}
	n := float64(len(lines))
	return Rect{Right: w, Bottom: n*f.size + (n-1)*spacing}, nil
}

// brokenFace 的测量始终失败；panics 为真时以 panic 的方式失败。
type brokenFace struct {
	size   float64
	panics bool
}

func (f brokenFace) Size() float64 { return f.size }

func (f brokenFace) Bounds(text string) (Rect, error) {
	if f.panics {
		panic("glyph table corrupted")
	}
	return Rect{}, errors.New("unsupported glyph")
}

func (f brokenFace) MultilineBounds(lines []string, spacing float64) (Rect, error) {
	return f.Bounds(strings.Join(lines, "\n"))
}

// wideGlyphFace 让 'W' 比其他字符宽得多，用于构造单字符超宽的情形。
type wideGlyphFace struct{ monoFace }

func (f wideGlyphFace) Bounds(text string) (Rect, error) {
	var w float64
	for _, r := range text {
		if r == 'W' {
			w += 10 * f.advance
			continue
		}
		w += f.advance
	}
	return Rect{Right: w, Bottom: f.size}, nil
}
