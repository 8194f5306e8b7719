package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/snaptext/config"
	"github.com/ByLCY/snaptext/layout"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write, check and list caption style options",
	}
	cmd.AddCommand(configInitCommand())
	cmd.AddCommand(configCheckCommand())
	cmd.AddCommand(configParamsCommand())
	return cmd
}

func configInitCommand() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default style",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && !cmd.Flags().Changed("format") {
				f, err := config.FormatOf(output)
				if err != nil {
					return err
				}
				format = f
			}
			if output == "" {
				return config.Write(cmd.OutOrStdout(), format, config.Default())
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := config.Write(f, format, config.Default()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), styleSuccess.Render("wrote "+output))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", config.FormatTOML, "toml, yaml or caption")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func configCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Load and validate a style file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			if _, ok := layout.ParsePolicy(opts.Placement); !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), styleWarning.Render(
					fmt.Sprintf("unknown placement %q, using %s", opts.Placement, opts.Policy())))
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(args[0]+": ok"))
			return nil
		},
	}
}

func configParamsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List caption options with defaults and ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			var b strings.Builder
			for _, p := range config.Params() {
				rng := ""
				switch {
				case p.Min != nil && p.Max != nil:
					rng = fmt.Sprintf("[%g, %g]", *p.Min, *p.Max)
				case len(p.Choices) > 0:
					rng = strings.Join(p.Choices, "|")
				}
				fmt.Fprintf(&b, "%s %s %s %s\n",
					styleTitle.Render(fmt.Sprintf("%-32s", p.Name)),
					styleNumber.Render(fmt.Sprintf("%-12v", p.Default)),
					styleDim.Render(fmt.Sprintf("%-16s", rng)),
					p.Help)
			}
			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
}
