// internal/cli/rank.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"mandi-workers/internal/mandi"
	"mandi-workers/internal/report"

	"github.com/spf13/cobra"
)

type rankOptions struct {
	scenario  string
	product   string
	quantity  float64
	mode      string
	resale    float64
	lat       float64
	lon       float64
	limit     int
	xlsxPath  string
	asJSON    bool
	noReasons bool
}

// NewRankCommand creates the rank command
func NewRankCommand() *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the mandis of a scenario for a purchase",
		Long: `Qualify, score and rank the mandis of a scenario for one product and
quantity, printing each mandi with the reasons behind its position.

Resale price and location default to the retailer profile in the catalog.

Examples:
  mandi rank --scenario scenario1 --product Tomatoes --quantity 200
  mandi rank --scenario scenario1 --product Tomatoes --quantity 200 --mode distance --limit 3
  mandi rank --scenario scenario2 --product Onions --quantity 500 --xlsx onions.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			scenario, err := catalog.Scenario(opts.scenario)
			if err != nil {
				return err
			}
			req, err := opts.request(cmd, catalog.Retailer)
			if err != nil {
				return err
			}

			recs := mandi.Recommend(scenario.Markets, req)
			qualified := len(recs)
			if opts.limit > 0 && len(recs) > opts.limit {
				recs = recs[:opts.limit]
			}

			if opts.xlsxPath != "" {
				if err := writeWorkbook(opts.xlsxPath, report.Ranking{
					Scenario:        scenario.Key,
					Request:         req,
					Recommendations: recs,
				}); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}

			if qualified == 0 {
				fmt.Fprintf(out, "No mandi in %s has %.0f kg of %s\n", scenario.Key, req.RequiredQuantity, req.ProductName)
				return nil
			}
			fmt.Fprintf(out, "\n=== %s: %.0f kg %s by %s (%d qualified) ===\n\n",
				scenario.Name, req.RequiredQuantity, req.ProductName, req.Mode, qualified)
			if err := printRanking(out, recs, !opts.noReasons); err != nil {
				return err
			}
			if opts.xlsxPath != "" {
				fmt.Fprintf(out, "\nWorkbook written to %s\n", opts.xlsxPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "Scenario key (required)")
	cmd.Flags().StringVar(&opts.product, "product", "", "Product name (required)")
	cmd.Flags().Float64Var(&opts.quantity, "quantity", 0, "Required quantity in kg (required)")
	cmd.Flags().StringVar(&opts.mode, "mode", string(mandi.ModeBalanced),
		"Rank mode: balanced, distance, price, profit or shelfLife")
	cmd.Flags().Float64Var(&opts.resale, "resale", 0, "Resale price per kg (defaults to the retailer profile)")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "Requester latitude (defaults to the retailer profile)")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "Requester longitude (defaults to the retailer profile)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Show at most this many mandis")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "Also write the ranking to this xlsx file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print recommendations as JSON")
	cmd.Flags().BoolVar(&opts.noReasons, "no-reasons", false, "Omit the reason lines")
	_ = cmd.MarkFlagRequired("scenario")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func (o *rankOptions) request(cmd *cobra.Command, retailer mandi.RetailerProfile) (mandi.PurchaseRequest, error) {
	product := strings.TrimSpace(o.product)
	if product == "" {
		return mandi.PurchaseRequest{}, fmt.Errorf("--product must not be blank")
	}
	if o.quantity <= 0 {
		return mandi.PurchaseRequest{}, fmt.Errorf("--quantity must be greater than 0")
	}
	mode, err := mandi.ParseRankMode(o.mode)
	if err != nil {
		return mandi.PurchaseRequest{}, fmt.Errorf("invalid --mode %q: %w", o.mode, err)
	}

	resale := o.resale
	if !cmd.Flags().Changed("resale") {
		price, ok := retailer.ResalePrice(product)
		if !ok {
			return mandi.PurchaseRequest{}, fmt.Errorf("no resale price configured for %q, pass --resale", product)
		}
		resale = price
	}
	if resale < 0 {
		return mandi.PurchaseRequest{}, fmt.Errorf("--resale must not be negative")
	}

	requester := retailer.Point()
	if cmd.Flags().Changed("lat") {
		requester.Latitude = o.lat
	}
	if cmd.Flags().Changed("lon") {
		requester.Longitude = o.lon
	}

	return mandi.PurchaseRequest{
		ProductName:      product,
		RequiredQuantity: o.quantity,
		ResalePrice:      resale,
		Requester:        requester,
		Mode:             mode,
	}, nil
}

func printRanking(out io.Writer, recs []mandi.Recommendation, withReasons bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tMANDI\tDISTANCE\tPRICE/KG\tSHELF LIFE\tTOTAL COST\tPROFIT\tSCORE")
	for _, r := range recs {
		score := "-"
		if r.Score != nil {
			score = fmt.Sprintf("%d", *r.Score)
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f km\t₹%.2f\t%dd\t%s\t%s\t%s\n",
			r.Rank, r.Name, r.Distance, r.PricePerKg, r.ShelfLife,
			mandi.FormatINR(r.TotalCost), mandi.FormatINR(r.Profit), score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !withReasons {
		return nil
	}
	for _, r := range recs {
		if len(r.ReasonTexts) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n#%d %s\n", r.Rank, r.Name)
		for _, text := range r.ReasonTexts {
			fmt.Fprintf(out, "  - %s\n", text)
		}
	}
	return nil
}

func writeWorkbook(path string, r report.Ranking) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := report.WriteRanking(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return f.Close()
}
