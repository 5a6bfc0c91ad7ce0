package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/snadboy/sshdocker/internal/docker"
	apperrors "github.com/snadboy/sshdocker/internal/errors"
)

var execCmd = &cobra.Command{
	Use:   "exec HOST COMMAND...",
	Short: "Run an arbitrary docker command on a host",
	Long: `Exec runs any docker command against a host and prints its output.

The command may be given as discrete arguments or as a single quoted
string. Discrete arguments pass through verbatim, exactly as your
shell split them; a single string is tokenized with shell-aware
splitting, so quoted values with internal spaces survive intact. A
leading "docker" token may be included or omitted.`,
	Example: `  # Discrete arguments
  sshdocker exec prod images --format '{{.Repository}}:{{.Tag}}'

  # Single quoted string
  sshdocker exec prod "ps --format '{{json .}}'"

  # Parse output as JSON
  sshdocker exec prod "image inspect nginx" --json

  # Override the host's default timeout
  sshdocker exec prod "system df" --timeout 120s`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExec,
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().Duration("timeout", 0, "override the host's command timeout")
	execCmd.Flags().Bool("json", false, "parse command output as JSON and pretty-print it")
}

func runExec(cmd *cobra.Command, args []string) error {
	client, err := newDockerClient()
	if err != nil {
		return err
	}

	host := args[0]
	tokens := args[1:]
	timeout, _ := cmd.Flags().GetDuration("timeout")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := context.Background()
	out := cmd.OutOrStdout()

	// Discrete arguments were already split by the caller's shell and
	// must pass through verbatim; re-joining them would split a token
	// with an internal space. Only a single string gets tokenized here.
	if asJSON {
		var docs []any
		if len(tokens) == 1 {
			docs, err = client.ExecuteJSON(ctx, host, tokens[0], timeout)
		} else {
			docs, err = client.ExecuteTokensJSON(ctx, host, tokens, timeout)
		}
		if err != nil {
			return execError(err)
		}
		encoded, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(encoded))
		return nil
	}

	var res docker.Result
	if len(tokens) == 1 {
		res, err = client.Execute(ctx, host, tokens[0], timeout)
	} else {
		res, err = client.ExecuteTokens(ctx, host, tokens, timeout)
	}
	if err != nil {
		return execError(err)
	}

	if res.Stdout != "" {
		_, _ = fmt.Fprint(out, res.Stdout)
	}
	if res.Stderr != "" {
		_, _ = fmt.Fprint(os.Stderr, res.Stderr)
	}
	if IsVerbose() {
		fmt.Fprintf(os.Stderr, "Completed in %s\n", res.Elapsed.Round(time.Millisecond))
	}
	return nil
}

// execError makes non-zero exits legible: stderr has already been
// captured into the error, so print it once instead of a wrapped chain.
func execError(err error) error {
	var failed *apperrors.CommandFailedError
	if errors.As(err, &failed) {
		fmt.Fprint(os.Stderr, failed.Stderr)
		return fmt.Errorf("command exited with code %d", failed.ExitCode)
	}
	return err
}
