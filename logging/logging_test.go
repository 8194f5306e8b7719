package logging

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", LevelInfo, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", LevelInfo, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", LevelDebug, func(l *log.Logger) { l.Debug("test") }, true},
		{"info at warn level", LevelWarn, func(l *log.Logger) { l.Info("test") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(New(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("FromContext() did not return the attached logger")
	}
	if FromContext(context.Background()) != log.Default() {
		t.Fatal("FromContext() without logger should return log.Default()")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(New(&buf, LevelInfo))
	p.Done("rendered", "frames", 3)
	out := buf.String()
	if !strings.Contains(out, "rendered") || !strings.Contains(out, "elapsed") {
		t.Fatalf("unexpected progress output %q", out)
	}
}

func TestProgressDoneKeepsCallerSlice(t *testing.T) {
	backing := make([]any, 4)
	backing[2] = "untouched"
	kv := backing[:2]
	kv[0], kv[1] = "frames", 1

	NewProgress(New(io.Discard, LevelInfo)).Done("rendered", kv...)
	if backing[2] != "untouched" {
		t.Fatalf("Done wrote into the caller's slice: %v", backing)
	}
}
