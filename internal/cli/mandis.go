// internal/cli/mandis.go
package cli

import (
	"fmt"
	"text/tabwriter"

	"mandi-workers/internal/mandi"

	"github.com/spf13/cobra"
)

// NewMandisCommand creates the mandis command
func NewMandisCommand() *cobra.Command {
	var (
		scenarioKey string
		product     string
	)

	cmd := &cobra.Command{
		Use:   "mandis",
		Short: "List mandis, optionally only those listing a product",
		Long: `List mandis across the catalog or within one scenario.

With --product only mandis listing that product are shown, together with
their stock, price and shelf life for it.

Examples:
  mandi mandis
  mandi mandis --scenario scenario2 --product Onions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			markets := catalog.AllMarkets()
			if scenarioKey != "" {
				scenario, err := catalog.Scenario(scenarioKey)
				if err != nil {
					return err
				}
				markets = scenario.Markets
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if product == "" {
				fmt.Fprintln(w, "ID\tNAME\tLOCATION\tPRODUCTS")
				for _, m := range markets {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", m.ID, m.Name, m.Location, len(m.Products))
				}
				return w.Flush()
			}

			fmt.Fprintln(w, "ID\tNAME\tLOCATION\tQTY\tPRICE/KG\tSHELF LIFE")
			found := 0
			for _, m := range markets {
				listing, ok := mandi.FindListing(m, product)
				if !ok {
					continue
				}
				found++
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.2f\t%dd\n",
					m.ID, m.Name, m.Location, listing.AvailableQuantity, listing.PricePerKg, listing.ShelfLifeDays)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if found == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No mandis list %s\n", product)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioKey, "scenario", "", "Restrict to one scenario")
	cmd.Flags().StringVar(&product, "product", "", "Only mandis listing this product")

	return cmd
}
