package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect HOST CONTAINER",
	Short: "Show full details of a container",
	Long: `Inspect prints the engine's full inspect document for a container as
indented JSON. The CONTAINER argument accepts a name or an ID.`,
	Example: `  # Inspect by name
  sshdocker inspect prod web-1

  # Inspect by ID
  sshdocker inspect prod 4fa6e0f0c678`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newDockerClient()
		if err != nil {
			return err
		}

		detail, err := client.InspectContainer(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(detail, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode inspect result: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	},
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(inspectCmd)
}
