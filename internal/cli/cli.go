// Package cli implements the snaptext command-line interface.
//
// Commands:
//   - render: caption image files (optionally re-rendering on change with --watch)
//   - wrap: print how a text wraps at a pixel width
//   - serve: run the HTTP caption service
//   - config: write or check style files
//
// All commands support --verbose (-v) for debug-level logging; the logger
// travels through context.Context.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/snaptext/logging"
)

// Version is overridden at build time via ldflags.
var Version = "dev"

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return RootCommand().ExecuteContext(ctx)
}

// RootCommand builds the command tree.
func RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "snaptext",
		Short:        "snaptext draws caption bars onto images",
		Long:         `snaptext wraps caption text by measured pixel width, sizes and places a semi-transparent bar, and composites bar and text onto every frame of an image batch.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelInfo
			if verbose {
				level = logging.LevelDebug
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(os.Stderr, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(renderCommand())
	root.AddCommand(wrapCommand())
	root.AddCommand(serveCommand())
	root.AddCommand(configCommand())
	return root
}
