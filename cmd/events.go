package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/snadboy/sshdocker/internal/notification"
)

var eventsCmd = &cobra.Command{
	Use:   "events HOST",
	Short: "Stream live Docker events from a host",
	Long: `Events subscribes to a host's Docker event feed and prints each event
as a JSON line until interrupted.

The feed is unbounded and has no replay: events missed while not
subscribed are gone, so consumers needing a consistent picture should
periodically re-check state (e.g. 'sshdocker compose status') instead of
relying on replay. Filters use the same shortcut expansion as ps.

With --notify, each event is also pushed to the configured Shoutrrr
notification channel.`,
	Example: `  # All events from a host
  sshdocker events prod

  # Container lifecycle events only
  sshdocker events prod --filter type=container

  # Events for one compose project, with notifications
  sshdocker events prod --filter PROJECT=myapp --notify`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringArray("filter", nil, "filter events (KEY=VALUE, repeatable)")
	eventsCmd.Flags().Bool("notify", false, "send each event to the configured notification channel")
}

func runEvents(cmd *cobra.Command, args []string) error {
	client, err := newDockerClient()
	if err != nil {
		return err
	}

	rawFilters, _ := cmd.Flags().GetStringArray("filter")
	filters, err := parseFilterFlags(rawFilters)
	if err != nil {
		return err
	}

	notify, _ := cmd.Flags().GetBool("notify")
	var notifier *notification.Notifier
	if notify {
		notifier, err = notification.NewNotifier(cfg)
		if err != nil {
			return err
		}
	}

	// SIGINT/SIGTERM cancel the context, which terminates the streaming
	// process; no orphan survives a Ctrl-C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream, err := client.StreamEvents(ctx, args[0], filters)
	if err != nil {
		return err
	}
	defer stream.Close() //nolint:errcheck // Close error reported via stream.Err below

	out := cmd.OutOrStdout()
	fmt.Fprintf(os.Stderr, "Streaming events from %s (Ctrl-C to stop)...\n", args[0])

	for ev := range stream.Events() {
		encoded, err := json.Marshal(ev)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  failed to encode event: %v\n", err)
			continue
		}
		_, _ = fmt.Fprintln(out, string(encoded))

		if notifier != nil {
			if err := notifier.SendEvent(ev); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
			}
		}
	}

	return stream.Err()
}
