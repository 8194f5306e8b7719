// Package rasterrenderer implements the caption backend on golang/freetype
// faces: measurement uses ink bounds from golang.org/x/image/font and drawing
// goes through fogleman/gg.
package rasterrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/snaptext/layout"
	"github.com/ByLCY/snaptext/renderer"
)

var (
	errEmptyFont   = errors.New("raster: 字体数据为空")
	errInvalidText = errors.New("raster: 文本不是合法的 UTF-8")
)

// Renderer parses TrueType fonts once per blob and hands out per-size faces.
type Renderer struct {
	Hinting font.Hinting

	fontMu sync.Mutex
	fonts  map[uint64]*truetype.Font
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a raster renderer with full hinting.
func NewRenderer() *Renderer {
	return &Renderer{Hinting: font.HintingFull, fonts: map[uint64]*truetype.Font{}}
}

// NewFace implements renderer.Renderer. At 72 DPI one point equals one pixel.
func (r *Renderer) NewFace(data []byte, sizePx float64) (face layout.Face, err error) {
	if sizePx <= 0 || math.IsNaN(sizePx) {
		return nil, fmt.Errorf("raster: 非法字号 %g", sizePx)
	}
	defer func() {
		if p := recover(); p != nil {
			face, err = nil, fmt.Errorf("raster: 解析字体失败: %v", p)
		}
	}()
	f, err := r.parse(data)
	if err != nil {
		return nil, err
	}
	return &Face{
		font: f,
		face: truetype.NewFace(f, &truetype.Options{Size: sizePx, DPI: 72, Hinting: r.Hinting}),
		size: sizePx,
	}, nil
}

func (r *Renderer) parse(data []byte) (*truetype.Font, error) {
	if len(data) == 0 {
		return nil, errEmptyFont
	}
	key := xxhash.Sum64(data)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if f, ok := r.fonts[key]; ok {
		return f, nil
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("raster: 解析字体失败: %w", err)
	}
	r.fonts[key] = f
	return f, nil
}

// DrawLines implements renderer.Renderer. The ink box of the whole block is
// centered on (cx, cy); each line is centered on cx by its advance width.
func (r *Renderer) DrawLines(dst *image.RGBA, face layout.Face, lines []string, cx, cy, spacing float64, col color.Color) error {
	f, ok := face.(*Face)
	if !ok {
		return fmt.Errorf("raster: 不支持的字体类型 %T", face)
	}
	if dst == nil || len(lines) == 0 {
		return nil
	}
	for _, line := range lines {
		if !utf8.ValidString(line) {
			return errInvalidText
		}
	}

	block := f.blockBounds(lines, spacing)
	top := cy - (block.Top+block.Bottom)/2
	advance := f.lineAdvance() + spacing
	ascent := f.ascent()

	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(f.face)
	dc.SetColor(col)
	for i, line := range lines {
		if line == "" {
			continue
		}
		dc.DrawStringAnchored(line, cx, top+float64(i)*advance+ascent, 0.5, 0)
	}
	return nil
}

// Face is a freetype face bound to a pixel size. It keeps a glyph cache and
// must not be shared between goroutines.
type Face struct {
	font *truetype.Font
	face font.Face
	size float64
}

var _ layout.Face = (*Face)(nil)

// Size returns the nominal pixel size.
func (f *Face) Size() float64 { return f.size }

// Bounds returns the ink box of text relative to the ascender line. Text with
// glyphs the font does not cover is reported as an error so callers fall back
// to an estimate.
func (f *Face) Bounds(text string) (layout.Rect, error) {
	if err := f.check(text); err != nil {
		return layout.Rect{}, err
	}
	return f.inkBounds(text), nil
}

// MultilineBounds unions the ink boxes of lines stacked at the line advance
// (ascender to the baseline of "A") plus spacing.
func (f *Face) MultilineBounds(lines []string, spacing float64) (layout.Rect, error) {
	for _, line := range lines {
		if err := f.check(line); err != nil {
			return layout.Rect{}, err
		}
	}
	return f.blockBounds(lines, spacing), nil
}

func (f *Face) check(text string) error {
	if !utf8.ValidString(text) {
		return errInvalidText
	}
	for _, r := range text {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			continue
		}
		if f.font.Index(r) == 0 {
			return fmt.Errorf("raster: 字体缺少字形 %q", r)
		}
	}
	return nil
}

func (f *Face) inkBounds(text string) layout.Rect {
	b, _ := font.BoundString(f.face, text)
	ascent := f.face.Metrics().Ascent
	return layout.Rect{
		Left:   toFloat(b.Min.X),
		Top:    toFloat(ascent + b.Min.Y),
		Right:  toFloat(b.Max.X),
		Bottom: toFloat(ascent + b.Max.Y),
	}
}

func (f *Face) blockBounds(lines []string, spacing float64) layout.Rect {
	advance := f.lineAdvance() + spacing
	var out layout.Rect
	first := true
	for i, line := range lines {
		if line == "" {
			continue
		}
		b := f.inkBounds(line)
		off := float64(i) * advance
		b.Top += off
		b.Bottom += off
		if first {
			out, first = b, false
			continue
		}
		out.Left = math.Min(out.Left, b.Left)
		out.Top = math.Min(out.Top, b.Top)
		out.Right = math.Max(out.Right, b.Right)
		out.Bottom = math.Max(out.Bottom, b.Bottom)
	}
	return out
}

func (f *Face) lineAdvance() float64 {
	return f.inkBounds("A").Bottom
}

func (f *Face) ascent() float64 {
	return toFloat(f.face.Metrics().Ascent)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
