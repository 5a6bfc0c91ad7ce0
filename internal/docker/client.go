package docker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"

	apperrors "github.com/snadboy/sshdocker/internal/errors"
	"github.com/snadboy/sshdocker/internal/hosts"
)

// Client is the container inventory: list/inspect/execute operations on
// hosts resolved through the registry. All results come from the docker
// CLI's JSON output mode, never from human-readable tables.
type Client struct {
	registry *hosts.Registry
	runner   *Runner
}

// NewClient creates an inventory client over the given registry and runner.
func NewClient(registry *hosts.Registry, runner *Runner) *Client {
	return &Client{registry: registry, runner: runner}
}

// Registry exposes the host registry the client resolves against.
func (c *Client) Registry() *hosts.Registry {
	return c.registry
}

// ListContainers lists containers on one host. Filters may use shortcut
// keys; they are expanded before hitting the CLI. An empty result is not
// an error.
func (c *Client) ListContainers(ctx context.Context, alias string, opts ListOptions) ([]Container, error) {
	d, err := c.registry.Resolve(alias)
	if err != nil {
		return nil, err
	}

	args := []string{"ps", "--format", "{{json .}}", "--no-trunc"}
	if opts.All {
		args = append(args, "--all")
	}
	args = append(args, FilterArgs(ExpandFilters(opts.Filters))...)

	res, err := c.runner.Run(ctx, d, args, 0)
	if err != nil {
		return nil, err
	}
	return parsePS(alias, res.Stdout)
}

// ListAll lists containers on every enabled host concurrently. Requests
// to different hosts never block on each other; a failing host carries
// its error in the per-host result instead of aborting the scan.
func (c *Client) ListAll(ctx context.Context, opts ListOptions) []HostContainers {
	enabled := c.registry.Enabled()
	results := make([]HostContainers, len(enabled))

	var wg sync.WaitGroup
	for i, d := range enabled {
		wg.Add(1)
		go func(i int, alias string) {
			defer wg.Done()
			containers, err := c.ListContainers(ctx, alias, opts)
			results[i] = HostContainers{Host: alias, Containers: containers, Err: err}
		}(i, d.Alias)
	}
	wg.Wait()

	return results
}

// InspectContainer returns the full engine inspect document for a
// container. A missing container is ContainerNotFoundError, distinguished
// from transport-level failures.
func (c *Client) InspectContainer(ctx context.Context, alias, nameOrID string) (*container.InspectResponse, error) {
	d, err := c.registry.Resolve(alias)
	if err != nil {
		return nil, err
	}

	args := []string{"inspect", "--type", "container", nameOrID}
	res, err := c.runner.Run(ctx, d, args, 0)
	if err != nil {
		var failed *apperrors.CommandFailedError
		if errors.As(err, &failed) && isNoSuchObject(failed.Stderr) {
			return nil, &apperrors.ContainerNotFoundError{Host: alias, Container: nameOrID}
		}
		return nil, err
	}
	return parseInspect(alias, nameOrID, res.Stdout)
}

// Execute runs an arbitrary docker command given as a single string. The
// string is shell-tokenized (quotes and escapes respected) and a leading
// "docker" token is dropped. The raw result is returned as captured.
func (c *Client) Execute(ctx context.Context, alias, command string, timeout time.Duration) (Result, error) {
	d, err := c.registry.Resolve(alias)
	if err != nil {
		return Result{}, err
	}

	args, err := SplitCommand(command)
	if err != nil {
		return Result{}, err
	}
	return c.runner.Run(ctx, d, args, timeout)
}

// ExecuteTokens runs an arbitrary docker command whose arguments are
// already discrete tokens, passed through verbatim. No re-tokenization
// happens, so a token with an internal space stays one argument. A
// leading "docker" token is dropped.
func (c *Client) ExecuteTokens(ctx context.Context, alias string, args []string, timeout time.Duration) (Result, error) {
	d, err := c.registry.Resolve(alias)
	if err != nil {
		return Result{}, err
	}

	if len(args) > 0 && args[0] == "docker" {
		args = args[1:]
	}
	return c.runner.Run(ctx, d, args, timeout)
}

// ExecuteTokensJSON is ExecuteTokens with the output decoded as JSON,
// one document or line-delimited objects.
func (c *Client) ExecuteTokensJSON(ctx context.Context, alias string, args []string, timeout time.Duration) ([]any, error) {
	res, err := c.ExecuteTokens(ctx, alias, args, timeout)
	if err != nil {
		return nil, err
	}
	return parseJSONOutput(alias, res.Stdout)
}

// ExecuteJSON runs an arbitrary docker command and decodes its output as
// JSON: either one document or line-delimited objects, whichever the
// command produced.
func (c *Client) ExecuteJSON(ctx context.Context, alias, command string, timeout time.Duration) ([]any, error) {
	res, err := c.Execute(ctx, alias, command, timeout)
	if err != nil {
		return nil, err
	}
	return parseJSONOutput(alias, res.Stdout)
}

// Ping checks that the docker daemon on a host is reachable and returns
// the server version it reports.
func (c *Client) Ping(ctx context.Context, alias string) (string, error) {
	d, err := c.registry.Resolve(alias)
	if err != nil {
		return "", err
	}

	res, err := c.runner.Run(ctx, d, []string{"version", "--format", "{{.Server.Version}}"}, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// isNoSuchObject matches the docker CLI's stderr for a missing inspect
// target across the phrasings it has used.
func isNoSuchObject(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "no such object") ||
		strings.Contains(lower, "no such container")
}
