package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DebugDocument 是调试 JSON 的顶层结构，Frames 按帧序排列。
type DebugDocument struct {
	FrameCount int    `json:"frameCount"`
	Frames     []Plan `json:"frames"`
}

// WriteDebugJSON 把每帧的排版结果写成缩进 JSON，自动创建所在目录。
func WriteDebugJSON(plans []Plan, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	data, err := json.MarshalIndent(DebugDocument{FrameCount: len(plans), Frames: plans}, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化排版结果失败: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
