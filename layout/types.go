package layout

// 该文件定义字幕排版用到的度量、行块与放置结果，供排版计算、渲染与调试 JSON 共用。

// Rect 是以像素为单位的文本包围盒。坐标以首行上升部顶端为原点（左上锚点），向下为正。
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width 返回包围盒宽度。
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height 返回包围盒高度。
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Face 表示一个已按像素字号实例化的字体，由渲染后端提供。
// 测量可能失败（例如字形缺失），调用方需要自行兜底，见 Measure。
type Face interface {
	// Size 返回名义像素字号。
	Size() float64
	// Bounds 测量单行文本。
	Bounds(text string) (Rect, error)
	// MultilineBounds 测量以 spacing 像素为行间距的多行文本块。
	MultilineBounds(lines []string, spacing float64) (Rect, error)
}

// Extent 是一次测量的结果；Estimated 表示后端测量失败、数值来自估算。
type Extent struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Estimated bool    `json:"estimated,omitempty"`
}

// Block 是折行后的文本块。
type Block struct {
	Lines   []string `json:"lines"`
	Height  int      `json:"height"`
	Spacing int      `json:"spacing"`
}

// Empty 报告文本块是否没有可绘制的行。
func (b Block) Empty() bool { return len(b.Lines) == 0 }

// Placement 描述背景条的垂直位置，满足 0 <= Top 且 Top+Height <= 画面高度。
type Placement struct {
	Top    int `json:"top"`
	Height int `json:"height"`
}

// Bottom 返回背景条下边界（不含）。
func (p Placement) Bottom() int { return p.Top + p.Height }

// CenterY 返回背景条的垂直中心。
func (p Placement) CenterY() int { return p.Top + p.Height/2 }

// Plan 是单帧的完整排版结果。
type Plan struct {
	Index       int       `json:"index"` // 帧序号，由批处理填写
	FrameWidth  int       `json:"frameWidth"`
	FrameHeight int       `json:"frameHeight"`
	FontSize    int       `json:"fontSize"`
	PaddingX    int       `json:"paddingX"`
	MaxWidth    int       `json:"maxWidth"`
	Block       Block     `json:"block"`
	Placement   Placement `json:"placement"`
}

// CenterX 返回文本的水平中心。
func (p Plan) CenterX() int { return p.FrameWidth / 2 }
