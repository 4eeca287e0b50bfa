package cli

import (
	"github.com/spf13/cobra"

	"github.com/Venuja2003/Estate-Agent/internal"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			app, err := internal.NewAppWithConfig(cfg)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
}
