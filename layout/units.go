package layout

// 渲染后端以毫米为画布单位、以 pt 为字号单位；这里约定 1px 对应 1mm，
// 从而画布尺寸与像素尺寸一致，只需在字号上做 px↔pt 换算。

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72.0
	MmToPt = 1.0 / PtToMm
)

// PixelsPerMM 是栅格化分辨率（每毫米像素数）。
const PixelsPerMM = 1.0

// PxToMm 将像素转换为画布毫米。
func PxToMm(px float64) float64 { return px / PixelsPerMM }

// MmToPx 将画布毫米转换为像素。
func MmToPx(mm float64) float64 { return mm * PixelsPerMM }

// PxToPt 将像素字号转换为 pt 字号。
func PxToPt(px float64) float64 { return PxToMm(px) * MmToPt }

// PtToPx 将 pt 字号转换为像素字号。
func PtToPx(pt float64) float64 { return MmToPx(pt * PtToMm) }
