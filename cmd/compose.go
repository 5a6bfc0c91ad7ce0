package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/snadboy/sshdocker/internal/compose"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Reconcile compose deployments against observed containers",
}

var composeStatusCmd = &cobra.Command{
	Use:   "status HOST",
	Short: "Show deployment state of a compose file's services on a host",
	Long: `Status matches each service declared in a compose file against the
containers actually present on a host and derives a per-service state:

  running       the service's container exists and is running
  stopped       the container exists but is not running
  not_deployed  no container with the service's canonical name exists

Matching uses the name Docker Compose itself would assign: an explicit
container_name verbatim, otherwise {project}_{service}_1, where the
project name comes from the compose file's directory. Scaled replicas
(_2, _3, ...) are not considered.

The advisory line lists which compose lifecycle actions currently make
sense; sshdocker never runs them itself.`,
	Example: `  # Status of ./docker-compose.yml services on prod
  sshdocker compose status prod

  # Explicit compose file
  sshdocker compose status prod -f deploy/docker-compose.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runComposeStatus,
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.AddCommand(composeStatusCmd)

	composeStatusCmd.Flags().StringP("file", "f", "docker-compose.yml", "compose file to analyze")
}

func runComposeStatus(cmd *cobra.Command, args []string) error {
	client, err := newDockerClient()
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("file")
	doc, err := compose.ParseFile(file)
	if err != nil {
		return err
	}

	dir, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return fmt.Errorf("failed to resolve compose directory: %w", err)
	}

	analysis, err := compose.Analyze(context.Background(), client, args[0], doc, dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Project %q on host %q:\n\n", analysis.Project, analysis.Host)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SERVICE\tCONTAINER\tSTATE\t")
	for _, name := range doc.ServiceNames() {
		view := analysis.Services[name]
		state := stateMarker(view.State) + " " + string(view.State)
		note := ""
		if view.Err != nil {
			note = fmt.Sprintf("lookup failed: %v", view.Err)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", view.Name, view.ContainerName, state, note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nAvailable actions: %s\n", formatActions(analysis.Actions))
	return nil
}

func stateMarker(state compose.ServiceState) string {
	switch state {
	case compose.StateRunning:
		return "🟢"
	case compose.StateStopped:
		return "🔴"
	default:
		return "⚪"
	}
}

func formatActions(actions compose.ActionSet) string {
	var available []string
	for _, a := range []struct {
		name string
		ok   bool
	}{
		{"up", actions.Up},
		{"down", actions.Down},
		{"restart", actions.Restart},
		{"start", actions.Start},
		{"stop", actions.Stop},
	} {
		if a.ok {
			available = append(available, a.name)
		}
	}
	return strings.Join(available, ", ")
}
