package layout

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// FallbackWidthFactor 是测量失败时每个字符相对字号的估算宽度。
const FallbackWidthFactor = 0.6

var errNoFace = errors.New("layout: 缺少字体")

// Measure 测量单行文本的像素宽高，从不向调用方返回错误。
// 后端失败（返回错误或 panic）时退化为估算：宽 = 字符数 × 字号 × 0.6，高 = 字号。
func Measure(face Face, text string) Extent {
	rect, err := safeBounds(face, text)
	if err != nil {
		return estimate(face, text)
	}
	return Extent{Width: rect.Width(), Height: rect.Height()}
}

func estimate(face Face, text string) Extent {
	size := nominalSize(face)
	return Extent{
		Width:     float64(utf8.RuneCountInString(text)) * size * FallbackWidthFactor,
		Height:    size,
		Estimated: true,
	}
}

func safeBounds(face Face, text string) (rect Rect, err error) {
	if face == nil {
		return Rect{}, errNoFace
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("layout: 测量 %q 失败: %v", text, p)
		}
	}()
	return face.Bounds(text)
}

func safeMultilineBounds(face Face, lines []string, spacing float64) (rect Rect, err error) {
	if face == nil {
		return Rect{}, errNoFace
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("layout: 测量多行文本失败: %v", p)
		}
	}()
	return face.MultilineBounds(lines, spacing)
}

func nominalSize(face Face) (size float64) {
	if face == nil {
		return 0
	}
	defer func() {
		if recover() != nil {
			size = 0
		}
	}()
	return face.Size()
}

// fits 报告 text 的测量宽度是否不超过 maxWidth（相等视为可容纳）。
func fits(face Face, text string, maxWidth float64) bool {
	return Measure(face, text).Width <= maxWidth
}
