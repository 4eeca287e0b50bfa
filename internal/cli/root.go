// Package cli implements the estate-agent commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Venuja2003/Estate-Agent/internal"
	"github.com/Venuja2003/Estate-Agent/internal/configs"
	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

type options struct {
	envFile string
	format  string
	verbose bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "estate-agent",
		Short:         "Browse, search and shortlist property listings",
		Long:          "Serves the property catalog over HTTP, or searches it from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "Path to a .env file (default: ./.env when present)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or text")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at the configured level instead of warnings only")

	root.AddCommand(newServeCmd(opts), newSearchCmd(opts), newShowCmd(opts), newImportCmd(opts), newEventsCmd(opts))
	return root
}

func (o *options) loadConfig() (*configs.AppConfig, error) {
	if o.envFile != "" {
		return configs.LoadConfig(o.envFile)
	}
	return configs.LoadConfig()
}

// openCatalog loads config and catalog for one-shot commands. The returned
// context carries the logger; cleanup releases everything.
func (o *options) openCatalog(ctx context.Context) (context.Context, *configs.AppConfig, *domain.Catalog, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if !o.verbose {
		cfg.StdoutLogger.Level = "warn"
	}
	logging, err := internal.NewLogging(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ctx = contextkeys.ContextWithLogger(ctx, logging.Base)

	catalog, pool, err := internal.LoadCatalog(ctx, cfg)
	if err != nil {
		logging.Close()
		return nil, nil, nil, nil, err
	}
	cleanup := func() {
		if pool != nil {
			pool.Close()
		}
		logging.Close()
	}
	return ctx, cfg, catalog, cleanup, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
