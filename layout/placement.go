package layout

import (
	"math"
	"strings"
)

const (
	// MinBarHeight 是背景条的最小像素高度。
	MinBarHeight = 5
	// HorizontalPaddingRatio 是左右留白相对画面宽度的比例。
	HorizontalPaddingRatio = 0.025
)

// Policy 是背景条的垂直放置策略。
type Policy string

const (
	PolicyTop    Policy = "top"
	PolicyMiddle Policy = "middle"
	PolicyBottom Policy = "bottom"
	PolicyCustom Policy = "custom"
)

// Policies 返回全部可选的放置策略。
func Policies() []Policy {
	return []Policy{PolicyTop, PolicyMiddle, PolicyBottom, PolicyCustom}
}

// ParsePolicy 解析放置策略名称（忽略大小写与首尾空白）。
// 无法识别时返回 PolicyMiddle 与 ok=false。
func ParsePolicy(name string) (Policy, bool) {
	p := Policy(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case PolicyTop, PolicyMiddle, PolicyBottom, PolicyCustom:
		return p, true
	default:
		return PolicyMiddle, false
	}
}

// BlockHeight 计算折行结果的整体像素高度。
// 单行直接测量；多行整体测量一次，失败时按 n×字号 + (n-1)×行距 估算。
func BlockHeight(lines []string, face Face, spacing int) int {
	switch len(lines) {
	case 0:
		return 0
	case 1:
		if lines[0] == "" {
			return 0
		}
		return ceil(Measure(face, lines[0]).Height)
	}
	rect, err := safeMultilineBounds(face, lines, float64(spacing))
	if err != nil {
		n := len(lines)
		return max(1, n)*int(nominalSize(face)) + max(0, n-1)*spacing
	}
	return ceil(rect.Height())
}

// BarHeight 由文本高度与相对字号的留白推导背景条高度，且不超过画面高度。
func BarHeight(blockHeight, fontSize int, paddingRatio float64, imageHeight int) int {
	h := max(MinBarHeight, blockHeight+int(float64(fontSize)*paddingRatio))
	return max(0, min(h, imageHeight))
}

// Place 按放置策略计算背景条的顶部位置，结果总被限制在画面内。
//
// custom 策略中 percent 表示“距底部的可移动距离百分比”：0 等同 bottom，100 等同 top。
// 无法识别的策略按 middle 处理。
func Place(policy Policy, percent float64, imageHeight, barHeight int) Placement {
	imageHeight = max(0, imageHeight)
	barHeight = max(0, min(barHeight, imageHeight))
	if barHeight >= imageHeight {
		return Placement{Top: 0, Height: barHeight}
	}
	travel := imageHeight - barHeight
	top := travel / 2
	switch policy {
	case PolicyTop:
		top = 0
	case PolicyBottom:
		top = travel
	case PolicyCustom:
		factor := 1.0 - percent/100.0
		top = int(math.Floor(float64(travel) * factor))
		top = max(0, min(top, travel))
	}
	return Placement{Top: top, Height: barHeight}
}

// PlanInput 汇总单帧排版所需的参数。
type PlanInput struct {
	FrameWidth   int
	FrameHeight  int
	Text         string
	Face         Face
	LineSpacing  int
	PaddingRatio float64
	Policy       Policy
	Percent      float64
}

// NewPlan 依次执行折行、块高计算与放置，得到单帧排版结果。
func NewPlan(in PlanInput) Plan {
	fontSize := int(math.Round(nominalSize(in.Face)))
	paddingX := int(float64(in.FrameWidth) * HorizontalPaddingRatio)
	maxWidth := in.FrameWidth - 2*paddingX

	lines := Wrap(in.Text, in.Face, float64(maxWidth))
	height := BlockHeight(lines, in.Face, in.LineSpacing)
	bar := BarHeight(height, fontSize, in.PaddingRatio, in.FrameHeight)

	return Plan{
		FrameWidth:  in.FrameWidth,
		FrameHeight: in.FrameHeight,
		FontSize:    fontSize,
		PaddingX:    paddingX,
		MaxWidth:    maxWidth,
		Block: Block{
			Lines:   lines,
			Height:  height,
			Spacing: in.LineSpacing,
		},
		Placement: Place(in.Policy, in.Percent, in.FrameHeight, bar),
	}
}

func ceil(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Ceil(v))
}
