// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"mandi-workers/internal/common/config"
	"mandi-workers/internal/mandi"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	catalogPath  string
	configPath   string
	registryPath string
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mandi",
		Short: "Mandi CLI - rank wholesale markets and operate the mandi workers",
		Long: `Mandi CLI ranks wholesale markets (mandis) for a purchase request and
manages the data and registry the mandi workers depend on.

Examples:
  mandi scenarios list
  mandi mandis --scenario scenario1 --product Tomatoes
  mandi rank --scenario scenario1 --product Tomatoes --quantity 200 --mode profit
  mandi rank --scenario scenario1 --product Tomatoes --quantity 200 --xlsx ranking.xlsx
  mandi submit --scenario scenario1 --product Tomatoes --quantity 200 --retailer R-1
  mandi registry validate
  mandi seed --migrate`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", defaultPath("MANDI_CATALOG_PATH", "configs/seed/scenarios.yaml"),
		"Path to the scenario catalog")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a config file (defaults to configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", defaultPath("MANDI_REGISTRY_PATH", "configs/activity-registry.json"),
		"Path to the activity registry")

	rootCmd.AddCommand(NewScenariosCommand())
	rootCmd.AddCommand(NewMandisCommand())
	rootCmd.AddCommand(NewRankCommand())
	rootCmd.AddCommand(NewSubmitCommand())
	rootCmd.AddCommand(NewRegistryCommand())
	rootCmd.AddCommand(NewSeedCommand())

	return rootCmd
}

func defaultPath(env, fallback string) string {
	if path := os.Getenv(env); path != "" {
		return path
	}
	return fallback
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadCatalog() (*mandi.Catalog, error) {
	catalog, err := mandi.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog, nil
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
