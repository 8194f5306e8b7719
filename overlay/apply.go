package overlay

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/snaptext/binding"
	"github.com/ByLCY/snaptext/config"
	"github.com/ByLCY/snaptext/fonts"
	"github.com/ByLCY/snaptext/frame"
	"github.com/ByLCY/snaptext/layout"
	"github.com/ByLCY/snaptext/logging"
)

// FontSize 返回帧宽 width 下的像素字号：round(width*ratio)，至少为 1。
func FontSize(width int, ratio float64) int {
	size := math.Round(float64(width) * ratio)
	if math.IsNaN(size) || size < 1 {
		return 1
	}
	return int(size)
}

// FrameData 返回第 index 帧可用于 ${frame.*} 占位符的数据，并与 user 合并。
func FrameData(user binding.Data, index, count, width, height int) binding.Data {
	return binding.Merge(user, binding.Data{
		"frame": map[string]any{
			"index":  index,
			"number": index + 1,
			"count":  count,
			"width":  width,
			"height": height,
		},
	})
}

// ApplyTensor 校验原始形状后调用 Apply。
func (c *Compositor) ApplyTensor(ctx context.Context, shape []int, data []float32, opts config.Options, user binding.Data) (*frame.Batch, error) {
	b, err := frame.NewBatch(shape, data)
	if err != nil {
		return nil, err
	}
	return c.Apply(ctx, b, opts, user)
}

// Apply 对批次中的每一帧执行 折行 → 排版 → 合成，返回新的批次，输入不被修改。
// 找不到字体、通道数不是 3 或单帧绘制失败时，对应帧原样输出。
func (c *Compositor) Apply(ctx context.Context, batch *frame.Batch, opts config.Options, user binding.Data) (*frame.Batch, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: 批次为空", frame.ErrInvalidShape)
	}
	if _, err := frame.NewBatch(batch.Shape[:], batch.Data); err != nil {
		return nil, err
	}
	style, err := StyleOf(opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	out := batch.Clone()
	n, w, h := batch.Len(), batch.Width(), batch.Height()
	if n == 0 || w == 0 || h == 0 {
		return out, nil
	}
	if ch := batch.Channels(); ch != 3 {
		logger.Warn("通道数不是 3，原样输出", "channels", ch)
		return out, nil
	}

	size := float64(FontSize(w, opts.FontSizeRatio))
	font, err := c.Fonts.Resolve(opts.FontName, func(f fonts.Font) error {
		_, err := c.Renderer.NewFace(f.Data, size)
		return err
	})
	if err != nil {
		logger.Warn("没有可用字体，原样输出", "font", opts.FontName, "err", err)
		return out, nil
	}
	logger.Debug("使用字体", "font", opts.FontName, "source", font.Source, "size", size)

	workers := min(max(1, opts.Workers), n)
	faces := make(chan layout.Face, workers)
	for range workers {
		face, err := c.Renderer.NewFace(font.Data, size)
		if err != nil {
			logger.Warn("创建字体失败，原样输出", "source", font.Source, "err", err)
			return out, nil
		}
		faces <- face
	}

	var planMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			face := <-faces
			defer func() { faces <- face }()
			if err := gctx.Err(); err != nil {
				return err
			}
			in := layout.PlanInput{
				FrameWidth:   w,
				FrameHeight:  h,
				Text:         binding.Interpolate(opts.Text, FrameData(user, i, n, w, h)),
				Face:         face,
				LineSpacing:  opts.LineSpacing,
				PaddingRatio: opts.PaddingRatio,
				Policy:       opts.Policy(),
				Percent:      opts.CustomPercentage,
			}
			plan := layout.NewPlan(in)
			plan.Index = i
			if c.OnPlan != nil {
				planMu.Lock()
				c.OnPlan(i, plan)
				planMu.Unlock()
			}
			c.renderFrame(logger, out, i, face, plan, style)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Compositor) renderFrame(logger *log.Logger, b *frame.Batch, i int, face layout.Face, plan layout.Plan, style Style) {
	if plan.Block.Empty() {
		return
	}
	img, err := b.Image(i)
	if err != nil {
		logger.Warn("帧转换失败，原样输出", "frame", i, "err", err)
		return
	}
	if err := c.Composite(img, face, plan, style); err != nil {
		logger.Warn("合成失败，原样输出", "frame", i, "err", err)
		return
	}
	if err := b.SetImage(i, img); err != nil {
		logger.Warn("写回帧失败", "frame", i, "err", err)
	}
}
