package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Inspect and test configured Docker hosts",
	Long: `Host management commands for the hosts.yaml registry.

Hosts are addressed by alias everywhere else in sshdocker; these commands
show what each alias resolves to and whether the Docker daemon behind it
is reachable.`,
}

var hostsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured hosts",
	Example: `  # List all configured hosts
  sshdocker hosts list`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newDockerClient()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		// Write output to stdout; errors writing to stdout are not actionable in CLI context
		_, _ = fmt.Fprintln(w, "ALIAS\tTARGET\tTIMEOUT\tENABLED\tDESCRIPTION")

		for _, d := range client.Registry().All() {
			target := "local socket"
			if d.Remote() {
				target = fmt.Sprintf("ssh://%s@%s:%d", d.User, d.Hostname, d.Port)
			}
			enabled := "yes"
			if !d.Enabled {
				enabled = "no"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Alias, target, d.Timeout, enabled, d.Description)
		}

		return w.Flush()
	},
}

var hostsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connectivity to all enabled hosts",
	Long: `Test runs 'docker version' against every enabled host and reports which
daemons are reachable. Failures show the underlying transport or docker
error so misconfigured SSH access is visible immediately.`,
	Example: `  # Test all enabled hosts
  sshdocker hosts test`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newDockerClient()
		if err != nil {
			return err
		}

		ctx := context.Background()
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "Testing Docker host connectivity...")

		failures := 0
		for _, d := range client.Registry().Enabled() {
			serverVersion, err := client.Ping(ctx, d.Alias)
			if err != nil {
				failures++
				_, _ = fmt.Fprintf(out, "✗ %s - %v\n", d.Alias, err)
				continue
			}
			_, _ = fmt.Fprintf(out, "✓ %s - Docker %s\n", d.Alias, serverVersion)
		}

		if failures > 0 {
			return fmt.Errorf("%d host(s) unreachable", failures)
		}
		return nil
	},
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(hostsCmd)
	hostsCmd.AddCommand(hostsListCmd)
	hostsCmd.AddCommand(hostsTestCmd)
}
