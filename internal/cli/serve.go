package cli

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/snaptext/fonts"
	"github.com/ByLCY/snaptext/logging"
	"github.com/ByLCY/snaptext/server"
)

func serveCommand() *cobra.Command {
	var addr string
	var style *styleFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the caption pipeline over HTTP",
		Long:  "Style flags and --config set the defaults that every request's form fields override.",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := style.resolve(cmd)
			if err != nil {
				return err
			}
			s := server.New(defaults, fonts.NewResolver(), logging.FromContext(cmd.Context()))
			return s.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	style = addStyleFlags(cmd)
	return cmd
}
