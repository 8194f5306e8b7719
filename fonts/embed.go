package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// EmbedPrefix 标记内置字体，例如 "embed:goregular"。
const EmbedPrefix = "embed:"

// DefaultEmbedded 是找不到任何系统字体时使用的内置字体。
const DefaultEmbedded = "goregular"

var embedded = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomono":    gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:gomono"、"gomono" 或 "gomono.ttf"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, EmbedPrefix))
	key = strings.TrimSuffix(key, ".ttf")
	data, ok := embedded[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", name, ErrNotFound)
	}
	return data, nil
}

// Default 返回默认内置字体（Go Regular）的字节数据。
func Default() []byte { return goregular.TTF }
