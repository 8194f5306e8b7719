package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ByLCY/snaptext/fonts"
	"github.com/ByLCY/snaptext/layout"
	"github.com/ByLCY/snaptext/overlay"
)

type wrapOpts struct {
	text    string
	width   int
	font    string
	size    float64
	spacing int
	backend string
}

func wrapCommand() *cobra.Command {
	opts := wrapOpts{}
	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Show how a caption wraps at a pixel width",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := runWrap(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "caption text")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 400, "maximum line width in pixels")
	cmd.Flags().StringVarP(&opts.font, "font", "f", fonts.EmbedPrefix+fonts.DefaultEmbedded, "font file, name or embed:<name>")
	cmd.Flags().Float64VarP(&opts.size, "size", "s", 20, "font size in pixels")
	cmd.Flags().IntVar(&opts.spacing, "line-spacing", 4, "pixels between lines")
	cmd.Flags().StringVar(&opts.backend, "backend", "canvas", "glyph layout backend (canvas or raster)")
	return cmd
}

func runWrap(opts wrapOpts) (string, error) {
	r, err := overlay.NewRenderer(opts.backend)
	if err != nil {
		return "", err
	}
	var face layout.Face
	font, err := fonts.NewResolver().Resolve(opts.font, func(f fonts.Font) error {
		face, err = r.NewFace(f.Data, opts.size)
		return err
	})
	if err != nil {
		return "", err
	}

	lines := layout.Wrap(opts.text, face, float64(opts.width))
	var b strings.Builder
	for i, line := range lines {
		ext := layout.Measure(face, line)
		width := styleNumber.Render(fmt.Sprintf("%6.1fpx", ext.Width))
		if ext.Estimated {
			width += styleWarning.Render(" ~")
		}
		fmt.Fprintf(&b, "%s %s %s\n", styleDim.Render(fmt.Sprintf("%2d", i+1)), width, line)
	}
	if len(lines) == 0 {
		b.WriteString(styleDim.Render("(no lines)") + "\n")
	}
	footer := fmt.Sprintf("%d lines, block height %dpx, font %s",
		len(lines), layout.BlockHeight(lines, face, opts.spacing), font.Source)

	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render(fmt.Sprintf("wrap @ %dpx", opts.width)),
		styleBox.Render(strings.TrimSuffix(b.String(), "\n")),
		styleDim.Render(footer),
	), nil
}
