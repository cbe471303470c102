// internal/cli/scenarios.go
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewScenariosCommand creates the scenarios command with subcommands
func NewScenariosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Inspect the seeded market scenarios",
	}

	cmd.AddCommand(newScenariosListCommand())
	cmd.AddCommand(newScenariosShowCommand())

	return cmd
}

func newScenariosListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenarios in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tMANDIS\tDESCRIPTION")
			for _, key := range catalog.ScenarioKeys() {
				s := catalog.Scenarios[key]
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", key, s.Name, len(s.Markets), s.Description)
			}
			return w.Flush()
		},
	}
}

func newScenariosShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show the mandis and listings of one scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			scenario, err := catalog.Scenario(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n=== %s (%s) ===\n", scenario.Name, scenario.Key)
			if scenario.Description != "" {
				fmt.Fprintf(out, "%s\n", scenario.Description)
			}
			fmt.Fprintln(out)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MANDI\tLOCATION\tPRODUCT\tQTY\tPRICE/KG\tSHELF LIFE")
			for _, m := range scenario.Markets {
				for _, p := range m.Products {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.2f\t%dd\n",
						m.Name, m.Location, p.ProductName, p.AvailableQuantity, p.PricePerKg, p.ShelfLifeDays)
				}
			}
			return w.Flush()
		},
	}
}
