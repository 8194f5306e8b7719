package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/snaptext/layout"
	"github.com/ByLCY/snaptext/renderer"
)

var (
	errEmptyFont   = errors.New("canvas: 字体数据为空")
	errInvalidText = errors.New("canvas: 文本不是合法的 UTF-8")
)

// Renderer measures and draws captions via github.com/tdewolff/canvas.
// Font families are parsed once per distinct font blob and shared by all faces.
type Renderer struct {
	fontMu   sync.Mutex
	families map[uint64]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a canvas-based renderer with an empty font cache.
func NewRenderer() *Renderer {
	return &Renderer{families: map[uint64]*canvas.FontFamily{}}
}

// NewFace implements renderer.Renderer. sizePx is converted to pt at the
// 1px = 1mm canvas resolution used by DrawLines.
func (r *Renderer) NewFace(data []byte, sizePx float64) (face layout.Face, err error) {
	if sizePx <= 0 || math.IsNaN(sizePx) {
		return nil, fmt.Errorf("canvas: 非法字号 %g", sizePx)
	}
	defer func() {
		if p := recover(); p != nil {
			face, err = nil, fmt.Errorf("canvas: 解析字体失败: %v", p)
		}
	}()
	family, err := r.ensureFontFamily(data)
	if err != nil {
		return nil, err
	}
	return newFace(family, sizePx), nil
}

func (r *Renderer) ensureFontFamily(data []byte) (*canvas.FontFamily, error) {
	if len(data) == 0 {
		return nil, errEmptyFont
	}
	key := xxhash.Sum64(data)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[key]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(fmt.Sprintf("snaptext-%016x", key))
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("canvas: 加载字体失败: %w", err)
	}
	r.families[key] = family
	return family, nil
}

// DrawLines implements renderer.Renderer. Every line is anchored at cx with
// canvas.Center alignment; the block of lines is centered vertically on cy.
func (r *Renderer) DrawLines(dst *image.RGBA, face layout.Face, lines []string, cx, cy, spacing float64, col color.Color) error {
	f, ok := face.(*Face)
	if !ok {
		return fmt.Errorf("canvas: 不支持的字体类型 %T", face)
	}
	if dst == nil || len(lines) == 0 {
		return nil
	}
	for _, line := range lines {
		if !utf8.ValidString(line) {
			return errInvalidText
		}
	}

	bounds := dst.Bounds()
	c := canvas.New(layout.PxToMm(float64(bounds.Dx())), layout.PxToMm(float64(bounds.Dy())))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与图像坐标一致

	textFace := f.family.Face(layout.PxToPt(f.size), colorFromImage(col), canvas.FontRegular, canvas.FontNormal)
	ascent, lineHeight := f.lineMetrics()
	gap := layout.PxToMm(spacing)
	n := float64(len(lines))
	cursorY := layout.PxToMm(cy) - (n*lineHeight+(n-1)*gap)/2
	for _, line := range lines {
		if line != "" {
			ctx.DrawText(layout.PxToMm(cx), cursorY+ascent, canvas.NewTextLine(textFace, line, canvas.Center))
		}
		cursorY += lineHeight + gap
	}

	c.RenderTo(rasterizer.FromImage(dst, canvas.DPMM(layout.PixelsPerMM), canvas.DefaultColorSpace))
	return nil
}

// Face is a canvas font face bound to a pixel size.
type Face struct {
	family *canvas.FontFamily
	face   *canvas.FontFace
	size   float64
}

var _ layout.Face = (*Face)(nil)

func newFace(family *canvas.FontFamily, sizePx float64) *Face {
	return &Face{
		family: family,
		face:   family.Face(layout.PxToPt(sizePx), canvas.Black, canvas.FontRegular, canvas.FontNormal),
		size:   sizePx,
	}
}

// Size returns the nominal pixel size.
func (f *Face) Size() float64 { return f.size }

// Bounds measures the advance width of text and the ascent+descent of the face.
// Canvas does not expose per-string ink bounds, so the height is font-wide.
func (f *Face) Bounds(text string) (layout.Rect, error) {
	if !utf8.ValidString(text) {
		return layout.Rect{}, errInvalidText
	}
	_, lineHeight := f.lineMetrics()
	return layout.Rect{
		Right:  layout.MmToPx(f.face.TextWidth(text)),
		Bottom: layout.MmToPx(lineHeight),
	}, nil
}

// MultilineBounds measures lines stacked at the face line height plus spacing.
func (f *Face) MultilineBounds(lines []string, spacing float64) (layout.Rect, error) {
	var width float64
	for _, line := range lines {
		if !utf8.ValidString(line) {
			return layout.Rect{}, errInvalidText
		}
		width = math.Max(width, f.face.TextWidth(line))
	}
	_, lineHeight := f.lineMetrics()
	n := float64(len(lines))
	height := n*layout.MmToPx(lineHeight) + math.Max(0, n-1)*spacing
	return layout.Rect{Right: layout.MmToPx(width), Bottom: height}, nil
}

// lineMetrics returns ascent and ascent+descent in canvas millimetres.
func (f *Face) lineMetrics() (ascent, lineHeight float64) {
	m := f.face.Metrics()
	ascent = math.Abs(m.Ascent)
	return ascent, ascent + math.Abs(m.Descent)
}

func colorFromImage(c color.Color) color.RGBA {
	if c == nil {
		return canvas.Black
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return canvas.RGBA(float64(n.R)/255.0, float64(n.G)/255.0, float64(n.B)/255.0, float64(n.A)/255.0)
}
