// Package frame 提供 [batch, height, width, channels] 形状的图像批次，
// 取值为 [0,1] 的 float32，按行优先存储。
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

var (
	// ErrInvalidShape 表示批次不是四维，或数据长度与形状不符。
	ErrInvalidShape = errors.New("frame: 非法的批次形状")
	// ErrChannels 表示帧的通道数无法与图像互转。
	ErrChannels = errors.New("frame: 不支持的通道数")
)

// Batch 是一组同尺寸的帧。
type Batch struct {
	Shape [4]int
	Data  []float32
}

// NewBatch 校验形状与数据长度。shape 必须恰好有四维且每维非负。
func NewBatch(shape []int, data []float32) (*Batch, error) {
	if len(shape) != 4 {
		return nil, fmt.Errorf("%w: 期望 4 维，实际 %d 维 %v", ErrInvalidShape, len(shape), shape)
	}
	var s [4]int
	n := 1
	for i, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: 第 %d 维为负数 %v", ErrInvalidShape, i, shape)
		}
		s[i] = d
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: 形状 %v 需要 %d 个元素，实际 %d", ErrInvalidShape, shape, n, len(data))
	}
	return &Batch{Shape: s, Data: data}, nil
}

// Zeros 创建全零批次。
func Zeros(n, height, width, channels int) *Batch {
	b, err := NewBatch([]int{n, height, width, channels}, make([]float32, n*height*width*channels))
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Batch) Len() int      { return b.Shape[0] }
func (b *Batch) Height() int   { return b.Shape[1] }
func (b *Batch) Width() int    { return b.Shape[2] }
func (b *Batch) Channels() int { return b.Shape[3] }

func (b *Batch) frameLen() int { return b.Shape[1] * b.Shape[2] * b.Shape[3] }

// Frame 返回第 i 帧数据的切片视图，修改会反映到批次中。
func (b *Batch) Frame(i int) []float32 {
	n := b.frameLen()
	return b.Data[i*n : (i+1)*n]
}

// Clone 深拷贝批次。
func (b *Batch) Clone() *Batch {
	data := make([]float32, len(b.Data))
	copy(data, b.Data)
	return &Batch{Shape: b.Shape, Data: data}
}

// Image 把第 i 帧量化为 8 位 RGBA：v*255 截断并钳制到 [0,255]。
// 单通道帧按灰度展开，三通道帧不透明，四通道帧按非预乘 alpha 解释。
func (b *Batch) Image(i int) (*image.RGBA, error) {
	w, h, c := b.Width(), b.Height(), b.Channels()
	if c != 1 && c != 3 && c != 4 {
		return nil, fmt.Errorf("%w: %d", ErrChannels, c)
	}
	src := b.Frame(i)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := src[(y*w+x)*c:]
			var px color.NRGBA
			switch c {
			case 1:
				v := To8(p[0])
				px = color.NRGBA{R: v, G: v, B: v, A: 255}
			case 3:
				px = color.NRGBA{R: To8(p[0]), G: To8(p[1]), B: To8(p[2]), A: 255}
			case 4:
				px = color.NRGBA{R: To8(p[0]), G: To8(p[1]), B: To8(p[2]), A: To8(p[3])}
			}
			img.Set(x, y, px)
		}
	}
	return img, nil
}

// SetImage 把 img 写回第 i 帧，尺寸必须与批次一致，通道数保持不变。
func (b *Batch) SetImage(i int, img image.Image) error {
	w, h, c := b.Width(), b.Height(), b.Channels()
	if c != 1 && c != 3 && c != 4 {
		return fmt.Errorf("%w: %d", ErrChannels, c)
	}
	bounds := img.Bounds()
	if bounds.Dx() != w || bounds.Dy() != h {
		return fmt.Errorf("%w: 图像尺寸 %dx%d 与批次 %dx%d 不符", ErrInvalidShape, bounds.Dx(), bounds.Dy(), w, h)
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	dst := b.Frame(i)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := nrgba.Pix[y*nrgba.Stride+x*4:]
			p := dst[(y*w+x)*c:]
			switch c {
			case 1:
				p[0] = fromLuma(s[0], s[1], s[2])
			case 3:
				p[0], p[1], p[2] = From8(s[0]), From8(s[1]), From8(s[2])
			case 4:
				p[0], p[1], p[2], p[3] = From8(s[0]), From8(s[1]), From8(s[2]), From8(s[3])
			}
		}
	}
	return nil
}

// FromImages 把同尺寸的图像组装成三通道批次。
func FromImages(imgs []image.Image) (*Batch, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("%w: 没有图像", ErrInvalidShape)
	}
	size := imgs[0].Bounds().Size()
	b := Zeros(len(imgs), size.Y, size.X, 3)
	for i, img := range imgs {
		if err := b.SetImage(i, img); err != nil {
			return nil, fmt.Errorf("第 %d 张图像: %w", i, err)
		}
	}
	return b, nil
}

// To8 把 [0,1] 取值量化为 8 位，NaN 视为 0。截断前加 quantEpsilon，
// 保证 To8(From8(x)) == x。
func To8(v float32) uint8 {
	f := float64(v)*255 + quantEpsilon
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

const quantEpsilon = 1e-3

// From8 是 To8 的逆映射。
func From8(v uint8) float32 { return float32(v) / 255 }

func fromLuma(r, g, bl uint8) float32 {
	y, _, _ := color.RGBToYCbCr(r, g, bl)
	return From8(y)
}
