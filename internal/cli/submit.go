// internal/cli/submit.go
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mandi-workers/internal/common/camunda"
	"mandi-workers/internal/mandi"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// purchaseVariables are the process variables a mandi purchase starts with.
type purchaseVariables struct {
	RequestID         string  `json:"requestId"`
	Scenario          string  `json:"scenario,omitempty"`
	RetailerID        string  `json:"retailerId"`
	RetailerName      string  `json:"retailerName,omitempty"`
	ProductName       string  `json:"productName"`
	RequiredQuantity  float64 `json:"requiredQuantity"`
	Mode              string  `json:"mode,omitempty"`
	DeliveryTimeHours int     `json:"deliveryTimeHours,omitempty"`
}

// NewSubmitCommand creates the submit command
func NewSubmitCommand() *cobra.Command {
	var (
		vars      purchaseVariables
		processID string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Start a mandi purchase process in Zeebe",
		Long: `Start an instance of the mandi purchase process. The workers validate
the request, rank the mandis, place the order and notify the retailer.

Examples:
  mandi submit --scenario scenario1 --product Tomatoes --quantity 200 --retailer R-1
  mandi submit --product Onions --quantity 500 --retailer R-1 --mode price --delivery-hours 6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars.ProductName = strings.TrimSpace(vars.ProductName)
			if vars.ProductName == "" {
				return fmt.Errorf("--product must not be blank")
			}
			if vars.RequiredQuantity <= 0 {
				return fmt.Errorf("--quantity must be greater than 0")
			}
			if _, err := mandi.ParseRankMode(vars.Mode); err != nil {
				return fmt.Errorf("invalid --mode %q: %w", vars.Mode, err)
			}
			if vars.RequestID == "" {
				vars.RequestID = uuid.NewString()
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if processID == "" {
				processID = cfg.Mandi.ProcessID
			}

			client, err := camunda.NewClient(cfg.Camunda.BrokerAddress)
			if err != nil {
				return fmt.Errorf("failed to connect to zeebe: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			instanceKey, err := client.StartPurchase(ctx, processID, vars)
			if err != nil {
				return fmt.Errorf("failed to start %s: %w", processID, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Started %s\n  Request ID:   %s\n  Instance key: %d\n",
				processID, vars.RequestID, instanceKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&vars.Scenario, "scenario", "", "Scenario key to rank against (empty uses live data)")
	cmd.Flags().StringVar(&vars.ProductName, "product", "", "Product name (required)")
	cmd.Flags().Float64Var(&vars.RequiredQuantity, "quantity", 0, "Required quantity in kg (required)")
	cmd.Flags().StringVar(&vars.Mode, "mode", "", "Rank mode (defaults to the configured mode)")
	cmd.Flags().StringVar(&vars.RetailerID, "retailer", "", "Retailer ID (required)")
	cmd.Flags().StringVar(&vars.RetailerName, "retailer-name", "", "Retailer display name")
	cmd.Flags().IntVar(&vars.DeliveryTimeHours, "delivery-hours", 0, "Requested delivery window in hours")
	cmd.Flags().StringVar(&vars.RequestID, "request-id", "", "Idempotency key (generated when empty)")
	cmd.Flags().StringVar(&processID, "process", "", "BPMN process ID (defaults to mandi.process_id)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Time allowed to start the instance")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("retailer")

	return cmd
}
