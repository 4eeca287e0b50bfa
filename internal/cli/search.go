package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/usecase"
)

type searchResult struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Price     string `json:"price"`
	Bedrooms  int    `json:"bedrooms"`
	Location  string `json:"location"`
	Postcode  string `json:"postcode_area,omitempty"`
	AddedText string `json:"added"`
}

func toSearchResult(rec domain.PropertyRecord) searchResult {
	return searchResult{
		ID:        rec.ID,
		Type:      string(rec.Type),
		Price:     domain.FormatPrice(rec.Price),
		Bedrooms:  rec.Bedrooms,
		Location:  rec.Location,
		Postcode:  domain.ExtractPostcodeArea(rec.Location),
		AddedText: rec.Added.String(),
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	var form domain.CriteriaForm
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog",
		Long:  "Filter the catalog. Every flag is optional; with none the whole catalog is listed.",
		Example: "  estate-agent search --type house --min-price 400000 --postcode BR5\n" +
			"  estate-agent search --date-after 01/10/2024 -f text",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, _, catalog, cleanup, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			records := usecase.NewSearchPropertiesUseCase(catalog).Execute(ctx, form.Criteria())
			results := make([]searchResult, 0, len(records))
			for _, rec := range records {
				results = append(results, toSearchResult(rec))
			}

			if opts.format == "text" {
				return writeSearchTable(cmd.OutOrStdout(), results)
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Type, "type", "", "House or Flat")
	f.StringVar(&form.MinPrice, "min-price", "", "Minimum price in pounds")
	f.StringVar(&form.MaxPrice, "max-price", "", "Maximum price in pounds")
	f.StringVar(&form.MinBedrooms, "min-bedrooms", "", "Minimum bedrooms")
	f.StringVar(&form.MaxBedrooms, "max-bedrooms", "", "Maximum bedrooms")
	f.StringVar(&form.DateAfter, "date-after", "", "Added on or after, dd/mm/yyyy or yyyy-mm-dd")
	f.StringVar(&form.DateBefore, "date-before", "", "Added on or before, dd/mm/yyyy or yyyy-mm-dd")
	f.StringVar(&form.Postcode, "postcode", "", "Postcode area, e.g. BR5 or BR")
	return cmd
}

func writeSearchTable(w io.Writer, results []searchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tPRICE\tBEDS\tPOSTCODE\tADDED\tLOCATION")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n", r.ID, r.Type, r.Price, r.Bedrooms, r.Postcode, r.AddedText, r.Location)
	}
	fmt.Fprintf(tw, "\n%d properties\n", len(results))
	return tw.Flush()
}
