// internal/cli/registry.go
package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"mandi-workers/internal/common/validation"
	"mandi-workers/pkg/registry"

	"github.com/spf13/cobra"
)

// NewRegistryCommand creates the registry command with subcommands
func NewRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and edit the activity registry",
		Long: `The activity registry describes every worker task type: its input and
output schemas, error codes, timeout and retries.

Examples:
  mandi registry list
  mandi registry validate
  mandi registry set rank-mandis status verified
  mandi registry add --id export-ranking --name "Export Ranking" --task-type export-ranking --category mandi
  mandi registry scaffold export-ranking`,
	}

	cmd.AddCommand(newRegistryListCommand())
	cmd.AddCommand(newRegistryValidateCommand())
	cmd.AddCommand(newRegistrySetCommand())
	cmd.AddCommand(newRegistryAddCommand())
	cmd.AddCommand(newRegistryScaffoldCommand())

	return cmd
}

func newRegistryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tSTATUS\tVERSION\tTIMEOUT\tRETRIES")
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					a.ID, a.Category, a.ImplementationStatus, a.Version, a.Timeout, a.Retries)
			}
			return w.Flush()
		},
	}
}

func newRegistryValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check required fields and compile every input schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			for _, a := range reg.Activities {
				if len(a.InputSchema) == 0 {
					continue
				}
				if _, err := validation.Compile(a.InputSchema); err != nil {
					return fmt.Errorf("activity %s has an invalid input schema: %w", a.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed (%d activities).\n", len(reg.Activities))
			return nil
		},
	}
}

func newRegistrySetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Set one field of an activity",
		Long: `Set one field of an activity and save the registry.

Fields: status, version, displayName, description, timeout, retries.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.SetField(args[0], args[1], args[2]); err != nil {
				return err
			}
			if err := reg.Save(registryPath); err != nil {
				return fmt.Errorf("failed to save registry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", args[0], args[1], args[2])
			return nil
		},
	}
}

func newRegistryAddCommand() *cobra.Command {
	activity := registry.Activity{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a planned activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if activity.TaskType == "" {
				activity.TaskType = activity.ID
			}

			reg, err := registry.LoadRegistry(registryPath)
			if errors.Is(err, os.ErrNotExist) {
				reg = &registry.ActivityRegistry{Version: "1.0.0"}
			} else if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			activity.InputSchema = map[string]interface{}{}
			activity.OutputSchema = map[string]interface{}{}
			activity.ErrorCodes = []string{}
			activity.Workflows = []string{}
			activity.Tags = []string{}
			if err := reg.Add(activity); err != nil {
				return err
			}
			if err := reg.Save(registryPath); err != nil {
				return fmt.Errorf("failed to save registry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", activity.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&activity.ID, "id", "", "Activity ID (required)")
	cmd.Flags().StringVar(&activity.DisplayName, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&activity.Category, "category", "mandi", "Category")
	cmd.Flags().StringVar(&activity.TaskType, "task-type", "", "Zeebe task type (defaults to the ID)")
	cmd.Flags().StringVar(&activity.Description, "description", "", "Description")
	cmd.Flags().StringVar(&activity.Version, "version", "1.0.0", "Version")
	cmd.Flags().StringVar(&activity.ImplementationStatus, "status", registry.StatusPlanned, "Implementation status")
	cmd.Flags().StringVar(&activity.Timeout, "timeout", "10s", "Job timeout")
	cmd.Flags().IntVar(&activity.Retries, "retries", 3, "Job retries")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
