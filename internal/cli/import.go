package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Venuja2003/Estate-Agent/internal"
	"github.com/Venuja2003/Estate-Agent/internal/adapters/catalogfile"
	postgres_adapter "github.com/Venuja2003/Estate-Agent/internal/adapters/postgres"
	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/pkg/postgres"
)

func newImportCmd(opts *options) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a JSON catalog into PostgreSQL",
		Long: "Validates a JSON catalog (the bundled one unless --from is given) and replaces " +
			"the properties table with it. Requires DATABASE_URL.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is required for import")
			}
			logging, err := internal.NewLogging(cfg)
			if err != nil {
				return err
			}
			defer logging.Close()
			ctx := contextkeys.ContextWithLogger(cmd.Context(), logging.Base)

			loader, err := catalogfile.NewLoader(from)
			if err != nil {
				return err
			}
			records, err := loader.Load(ctx)
			if err != nil {
				return err
			}
			if _, err := domain.NewCatalog(records); err != nil {
				return err
			}

			pool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: cfg.Database.URL, ConnTimeout: 10 * time.Second})
			if err != nil {
				return err
			}
			defer pool.Close()

			repo, err := postgres_adapter.NewCatalogRepository(pool)
			if err != nil {
				return err
			}
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := repo.Replace(ctx, records); err != nil {
				return err
			}

			logging.Base.Info("Catalog imported", port.Fields{"properties": len(records)})
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"ok": true, "imported": len(records)})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "JSON catalog to import (default: bundled catalog)")
	return cmd
}
