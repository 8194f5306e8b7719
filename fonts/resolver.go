package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
)

// ErrNotFound 表示候选链上没有任何可用字体。
var ErrNotFound = errors.New("fonts: 未找到可用字体")

// Font 是解析得到的字体文件。
type Font struct {
	Name   string // 请求的字体名
	Source string // 实际来源：文件路径或 embed:<name>
	Data   []byte
}

// Resolver 按固定顺序查找字体：
//  1. 原样作为路径；
//  2. 依次拼接 Dirs 中的目录；
//  3. 系统字体目录（go-findfont）；
//  4. 内置字体（Fallback 非空时）。
//
// 每个候选都交给 accept 校验（例如尝试解析），校验失败则继续下一个。
type Resolver struct {
	Dirs     []string
	System   bool
	Fallback string
}

// NewResolver 返回默认配置：当前目录、可执行文件目录、系统字体，最后回落到内置 Go Regular。
func NewResolver() *Resolver {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return &Resolver{Dirs: dirs, System: true, Fallback: DefaultEmbedded}
}

// Resolve 返回第一个通过 accept 校验的字体；accept 为 nil 时接受任何可读取的文件。
func (r *Resolver) Resolve(name string, accept func(Font) error) (Font, error) {
	var errs []error
	for _, c := range r.candidates(name) {
		font, err := c.load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if accept != nil {
			if err := accept(font); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", font.Source, err))
				continue
			}
		}
		return font, nil
	}
	return Font{}, errors.Join(append([]error{fmt.Errorf("%w: %q", ErrNotFound, name)}, errs...)...)
}

type candidate struct {
	load func() (Font, error)
}

func (r *Resolver) candidates(name string) []candidate {
	var out []candidate
	fromFile := func(path string) candidate {
		return candidate{load: func() (Font, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return Font{}, err
			}
			return Font{Name: name, Source: path, Data: data}, nil
		}}
	}
	fromEmbed := func(embedName string) candidate {
		return candidate{load: func() (Font, error) {
			data, err := Load(embedName)
			if err != nil {
				return Font{}, err
			}
			return Font{Name: name, Source: EmbedPrefix + strings.TrimPrefix(embedName, EmbedPrefix), Data: data}, nil
		}}
	}

	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, EmbedPrefix) {
		out = append(out, fromEmbed(name))
	} else if name != "" {
		out = append(out, fromFile(name))
		if !filepath.IsAbs(name) {
			for _, dir := range r.Dirs {
				out = append(out, fromFile(filepath.Join(dir, name)))
			}
		}
		if r.System {
			if path, err := findfont.Find(filepath.Base(name)); err == nil {
				out = append(out, fromFile(path))
			}
		}
	}
	if r.Fallback != "" {
		out = append(out, fromEmbed(r.Fallback))
	}
	return out
}
