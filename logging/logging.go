// Package logging 提供带时间戳的 charmbracelet/log 日志器，并通过 context 传递。
package logging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Log levels re-exported for callers that do not import charmbracelet/log.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
)

// New 创建写入 w、按 level 过滤的日志器，时间戳格式为 "15:04:05.00"。
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger 返回携带 l 的 context。
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext 取出 context 中的日志器；没有时返回 log.Default()。
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}

// Progress 记录一次操作的起始时间，Done 时带上耗时输出。
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// NewProgress 以当前时间为起点。
func NewProgress(l *log.Logger) *Progress {
	return &Progress{logger: l, start: time.Now()}
}

// Done 输出 msg 与经过的时间（毫秒精度）。
func (p *Progress) Done(msg string, keyvals ...any) {
	kv := append(keyvals[:len(keyvals):len(keyvals)], "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, kv...)
}
