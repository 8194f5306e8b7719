// Package overlay 把字幕背景条与文字合成到图像帧上，并按批次调度。
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ByLCY/snaptext/config"
	"github.com/ByLCY/snaptext/fonts"
	"github.com/ByLCY/snaptext/layout"
	"github.com/ByLCY/snaptext/renderer"
	canvasrenderer "github.com/ByLCY/snaptext/renderer/canvas"
	rasterrenderer "github.com/ByLCY/snaptext/renderer/raster"
)

// FontSource 解析字体名，accept 用于校验候选字体能否被后端加载。
type FontSource interface {
	Resolve(name string, accept func(fonts.Font) error) (fonts.Font, error)
}

// NewRenderer 按名称创建排版后端，空字符串表示 canvas。
func NewRenderer(backend string) (renderer.Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", config.BackendCanvas:
		return canvasrenderer.NewRenderer(), nil
	case config.BackendRaster:
		return rasterrenderer.NewRenderer(), nil
	}
	return nil, fmt.Errorf("%w %s: 未知后端 %q", config.ErrInvalidOption, config.KeyBackend, backend)
}

// Style 是一次合成使用的颜色与行距。
type Style struct {
	Text        color.Color
	Bar         config.RGB
	BarAlpha    uint8
	LineSpacing int
}

// StyleOf 从配置解析颜色。
func StyleOf(opts config.Options) (Style, error) {
	text, bar, err := opts.Colors()
	if err != nil {
		return Style{}, err
	}
	return Style{Text: text, Bar: bar, BarAlpha: opts.BarAlpha8(), LineSpacing: opts.LineSpacing}, nil
}

// Compositor 持有排版后端与字体来源。
type Compositor struct {
	Renderer renderer.Renderer
	Fonts    FontSource
	// OnPlan 在每帧排版完成后调用（已串行化），用于调试输出。
	OnPlan func(index int, plan layout.Plan)
}

// New 创建 Compositor；fonts 为 nil 时使用默认字体查找链。
func New(r renderer.Renderer, src FontSource) *Compositor {
	if src == nil {
		src = fonts.NewResolver()
	}
	return &Compositor{Renderer: r, Fonts: src}
}

// Composite 在透明图层上绘制背景条与文字，再以 Over 方式合成到 dst。
// 文字绘制失败（含后端 panic）时返回错误，dst 保持不变。
func (c *Compositor) Composite(dst *image.RGBA, face layout.Face, plan layout.Plan, style Style) error {
	if plan.Block.Empty() {
		return nil
	}
	bounds := dst.Bounds()
	layer := image.NewRGBA(bounds)

	if style.BarAlpha > 0 && plan.Placement.Height > 0 {
		bar := image.Rect(bounds.Min.X, bounds.Min.Y+plan.Placement.Top, bounds.Max.X, bounds.Min.Y+plan.Placement.Bottom())
		draw.Draw(layer, bar, image.NewUniform(style.Bar.WithAlpha(style.BarAlpha)), image.Point{}, draw.Src)
	}

	cx := float64(bounds.Min.X + plan.CenterX())
	cy := float64(bounds.Min.Y + plan.Placement.CenterY())
	if err := c.drawLines(layer, face, plan.Block, cx, cy, style.Text); err != nil {
		return err
	}

	draw.Draw(dst, bounds, layer, bounds.Min, draw.Over)
	return nil
}

func (c *Compositor) drawLines(layer *image.RGBA, face layout.Face, block layout.Block, cx, cy float64, col color.Color) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("绘制文字时发生 panic: %v", p)
		}
	}()
	if err := c.Renderer.DrawLines(layer, face, block.Lines, cx, cy, float64(block.Spacing), col); err != nil {
		return fmt.Errorf("绘制文字失败: %w", err)
	}
	return nil
}
