package renderer

import (
	"image"
	"image/color"

	"github.com/ByLCY/snaptext/layout"
)

// Renderer 是字形排版后端：从字体数据实例化 Face，并把折好的行绘制到透明图层上。
// Face 只应交回创建它的 Renderer 绘制；同一个 Face 不保证可并发使用。
type Renderer interface {
	// NewFace 以像素字号 sizePx 从 TTF/OTF 数据创建 Face。
	NewFace(data []byte, sizePx float64) (layout.Face, error)
	// DrawLines 以 (cx, cy) 为中心在 dst 上绘制水平居中的多行文本，行间距为 spacing 像素。
	DrawLines(dst *image.RGBA, face layout.Face, lines []string, cx, cy, spacing float64, col color.Color) error
}
