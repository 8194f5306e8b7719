package frame

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Load 读取图像文件（按 EXIF 方向摆正）组成批次。尺寸与第一张不同的图像会被缩放到第一张的尺寸。
func Load(paths ...string) (*Batch, error) {
	imgs := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := imaging.Open(p, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("读取图像 %s 失败: %w", p, err)
		}
		if len(imgs) > 0 {
			want := imgs[0].Bounds().Size()
			if img.Bounds().Size() != want {
				img = imaging.Resize(img, want.X, want.Y, imaging.Lanczos)
			}
		}
		imgs = append(imgs, img)
	}
	return FromImages(imgs)
}

// Decode 从 r 解码单张图像为一帧批次。
func Decode(r io.Reader) (*Batch, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码图像失败: %w", err)
	}
	return FromImages([]image.Image{img})
}

// Encode 把第 i 帧按 format 编码写入 w。
func Encode(w io.Writer, b *Batch, i int, format imaging.Format) error {
	img, err := b.Image(i)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, format)
}

// Save 写出批次。单帧直接写到 path；多帧时写成 name_0001.ext 形式的序列，返回实际写出的路径。
func Save(b *Batch, path string) ([]string, error) {
	paths := Paths(path, b.Len())
	for i, p := range paths {
		img, err := b.Image(i)
		if err != nil {
			return nil, err
		}
		if err := imaging.Save(img, p); err != nil {
			return nil, fmt.Errorf("写入图像 %s 失败: %w", p, err)
		}
	}
	return paths, nil
}

// Paths 返回 Save 为 n 帧使用的文件名。
func Paths(path string, n int) []string {
	if n == 1 {
		return []string{path}
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s_%04d%s", base, i+1, ext)
	}
	return out
}
