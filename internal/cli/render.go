package cli

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ByLCY/snaptext/fonts"
	"github.com/ByLCY/snaptext/frame"
	"github.com/ByLCY/snaptext/layout"
	"github.com/ByLCY/snaptext/logging"
	"github.com/ByLCY/snaptext/overlay"
)

// watchDebounce coalesces editor save bursts into one re-render.
const watchDebounce = 150 * time.Millisecond

type renderOpts struct {
	inputs   []string    // input image files, stacked into one batch
	output   string      // output path; batches get a _0001 style suffix
	planPath string      // optional per-frame layout JSON
	data     string      // JSON object or @file for ${path} placeholders
	watch    bool        // re-render when the inputs or the style file change
	style    *styleFlags // caption option flags and --config
}

// planLog collects the plans of frames that reached layout. Frames passed
// through before layout (no usable font, non-RGB) have no entry.
type planLog struct {
	plans []layout.Plan
}

// record is an overlay.Compositor OnPlan hook; calls are serialized.
func (l *planLog) record(_ int, p layout.Plan) {
	l.plans = append(l.plans, p)
}

// ordered returns the recorded plans by frame index.
func (l *planLog) ordered() []layout.Plan {
	out := slices.Clone(l.plans)
	slices.SortFunc(out, func(a, b layout.Plan) int { return cmp.Compare(a.Index, b.Index) })
	return out
}

func renderCommand() *cobra.Command {
	opts := renderOpts{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw a caption onto image files",
		Example: `  snaptext render -i in.png -o out.png -t "Hello" --vertical-placement bottom
  snaptext render -i a.png -i b.png -o out.png -c style.caption --data '{"user":"ada"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.inputs) == 0 {
				return errors.New("at least one --input is required")
			}
			if opts.output == "" {
				return errors.New("--output is required")
			}
			if !opts.watch {
				return runRender(cmd, opts)
			}
			return watchRender(cmd, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.inputs, "input", "i", nil, "input image file (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output image file")
	cmd.Flags().StringVar(&opts.planPath, "plan", "", "write per-frame layout plans as JSON")
	cmd.Flags().StringVar(&opts.data, "data", "", "JSON object (or @file) for ${path} placeholders")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-render when inputs or the style file change")
	opts.style = addStyleFlags(cmd)
	return cmd
}

func runRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	style, err := opts.style.resolve(cmd)
	if err != nil {
		return err
	}
	data, err := parseData(opts.data)
	if err != nil {
		return err
	}
	batch, err := frame.Load(opts.inputs...)
	if err != nil {
		return err
	}

	r, err := overlay.NewRenderer(style.Backend)
	if err != nil {
		return err
	}
	c := overlay.New(r, fonts.NewResolver())
	plans := &planLog{}
	if opts.planPath != "" {
		c.OnPlan = plans.record
	}

	prog := logging.NewProgress(logger)
	out, err := c.Apply(ctx, batch, style, data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	written, err := frame.Save(out, opts.output)
	if err != nil {
		return err
	}
	if opts.planPath != "" {
		if err := layout.WriteDebugJSON(plans.ordered(), opts.planPath); err != nil {
			return fmt.Errorf("write plan JSON: %w", err)
		}
	}
	prog.Done("rendered", "frames", out.Len(), "backend", style.Backend, "output", written[0])
	return nil
}

// watchRender renders once, then again on every write to an input or the
// style file until the context is canceled.
func watchRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := append([]string{}, opts.inputs...)
	if opts.style.configPath != "" {
		watched = append(watched, opts.style.configPath)
	}
	for _, f := range watched {
		// 监听所在目录：编辑器常以重命名方式保存文件。
		if err := w.Add(filepath.Dir(f)); err != nil {
			return fmt.Errorf("watch %s: %w", f, err)
		}
	}
	isWatched := func(name string) bool {
		for _, f := range watched {
			if filepath.Clean(f) == filepath.Clean(name) {
				return true
			}
		}
		return false
	}

	render := func() {
		if err := runRender(cmd, opts); err != nil {
			logger.Error("render failed", "err", err)
		}
	}
	render()
	logger.Info("watching for changes", "files", len(watched))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isWatched(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("change", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher", "err", err)
		case <-fire:
			fire = nil
			render()
		}
	}
}

