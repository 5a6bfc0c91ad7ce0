package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snadboy/sshdocker/internal/docker"
)

var psCmd = &cobra.Command{
	Use:   "ps [HOST]",
	Short: "List containers on one host or all enabled hosts",
	Long: `Ps lists containers, parsed from docker's JSON output mode.

With a HOST argument only that host is queried; without one, every
enabled host is scanned concurrently and results are grouped by host.
Filter keys written in ALL-UPPERCASE are ergonomic shortcuts (SERVICE,
PROJECT, COMPOSE_FILE, STATUS, IMAGE, NETWORK, VOLUME, NAME, ID); any
other key is passed to docker as a native filter unchanged.`,
	Example: `  # Running containers on every enabled host
  sshdocker ps

  # All containers (including stopped) on one host
  sshdocker ps prod --all

  # Containers of one compose service
  sshdocker ps prod --filter SERVICE=web

  # Native docker filter, passed through
  sshdocker ps prod --filter label=env=production`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPS,
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(psCmd)

	psCmd.Flags().BoolP("all", "a", false, "include stopped containers")
	psCmd.Flags().StringArray("filter", nil, "filter containers (KEY=VALUE, repeatable)")
}

func runPS(cmd *cobra.Command, args []string) error {
	client, err := newDockerClient()
	if err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	rawFilters, _ := cmd.Flags().GetStringArray("filter")
	filters, err := parseFilterFlags(rawFilters)
	if err != nil {
		return err
	}

	opts := docker.ListOptions{All: all, Filters: filters}
	ctx := context.Background()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		containers, err := client.ListContainers(ctx, args[0], opts)
		if err != nil {
			return err
		}
		printContainers(out, args[0], containers)
		return nil
	}

	// Multi-host scan: per-host failures are reported inline, the scan
	// itself continues.
	results := client.ListAll(ctx, opts)
	failures := 0
	for _, hc := range results {
		if hc.Err != nil {
			failures++
			_, _ = fmt.Fprintf(out, "\n%s:\n  ⚠️  %v\n", hc.Host, hc.Err)
			continue
		}
		printContainers(out, hc.Host, hc.Containers)
	}

	if failures == len(results) && failures > 0 {
		return fmt.Errorf("all %d host(s) failed", failures)
	}
	return nil
}

func printContainers(out io.Writer, host string, containers []docker.Container) {
	_, _ = fmt.Fprintf(out, "\n%s:\n", host)
	if len(containers) == 0 {
		_, _ = fmt.Fprintln(out, "  No containers found")
		return
	}
	for _, c := range containers {
		marker := "🔴"
		if c.Running() {
			marker = "🟢"
		}
		_, _ = fmt.Fprintf(out, "  %s %s - %s (%s)\n", marker, c.Name, c.Image, c.Status)
	}
}

// parseFilterFlags converts repeated KEY=VALUE flags into a filter map.
func parseFilterFlags(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(raw))
	for _, f := range raw {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: expected KEY=VALUE", f)
		}
		filters[key] = value
	}
	return filters, nil
}
