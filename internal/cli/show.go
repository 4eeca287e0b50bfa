package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Venuja2003/Estate-Agent/internal/core/usecase"
)

type showResult struct {
	searchResult
	Tenure          string   `json:"tenure"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description,omitempty"`
	Images          []string `json:"images,omitempty"`
	FloorPlan       string   `json:"floor_plan,omitempty"`
	DaysSinceAdded  int      `json:"days_since_added"`
	Geohash         string   `json:"geohash"`
	MapURL          string   `json:"map_url"`
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <property-id>",
		Short: "Show one property in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, catalog, cleanup, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			d, err := usecase.NewGetPropertyUseCase(catalog, cfg.MapsEmbedKey).Execute(ctx, args[0])
			if err != nil {
				return err
			}

			res := showResult{
				searchResult:    toSearchResult(d.Record),
				Tenure:          d.Record.Tenure,
				Description:     d.Record.Description,
				LongDescription: d.Record.LongDescription,
				Images:          d.Record.Images,
				FloorPlan:       d.Record.FloorPlan,
				DaysSinceAdded:  d.DaysSinceAdded,
				Geohash:         d.Geohash,
				MapURL:          d.MapURL,
			}
			if opts.format != "text" {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %d bed %s\n", res.Price, res.Location, res.Bedrooms, res.Type)
			fmt.Fprintf(out, "Tenure: %s\n", res.Tenure)
			fmt.Fprintf(out, "Added %s (%d days ago)\n\n", res.AddedText, res.DaysSinceAdded)
			fmt.Fprintln(out, res.Description)
			if res.LongDescription != "" {
				fmt.Fprintf(out, "\n%s\n", res.LongDescription)
			}
			fmt.Fprintf(out, "\nMap: %s\n", res.MapURL)
			return nil
		},
	}
}
