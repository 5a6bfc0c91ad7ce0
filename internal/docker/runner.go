// Package docker runs the docker CLI against configured hosts and parses
// its structured output. Remote hosts are reached through docker's native
// SSH remote-host support (`-H ssh://user@host:port`), which delegates
// connection multiplexing and authentication to the SSH client instead of
// wrapping the whole command in a remote shell. That removes one layer of
// shell re-quoting: arguments travel as a discrete vector end to end.
package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	shellwords "github.com/mattn/go-shellwords"

	apperrors "github.com/snadboy/sshdocker/internal/errors"
	"github.com/snadboy/sshdocker/internal/hosts"
)

// killGracePeriod is how long a terminated process gets to exit after
// SIGTERM before it is killed.
const killGracePeriod = 5 * time.Second

// Runner builds and runs docker CLI commands against resolved hosts.
// It is safe for concurrent use; per-call state is never shared, and the
// per-host transport cache only amortizes argument construction.
type Runner struct {
	bin string

	mu   sync.Mutex
	pool map[string]*transport
}

// transport is the pooled per-host execution state. Docker's SSH remote
// support keeps the actual connection handling in the ssh client, so the
// pooled state reduces to the resolved argument prefix for the host.
type transport struct {
	baseArgs []string
}

// NewRunner creates a Runner that invokes the given docker binary.
func NewRunner(bin string) *Runner {
	if bin == "" {
		bin = "docker"
	}
	return &Runner{
		bin:  bin,
		pool: make(map[string]*transport),
	}
}

// transportFor returns the pooled transport for a host, creating it on
// first use. Acquiring a transport for one host never blocks another
// beyond the map access itself.
func (r *Runner) transportFor(d hosts.Descriptor) *transport {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.pool[d.Alias]; ok {
		return t
	}
	t := &transport{baseArgs: remoteArgs(d)}
	r.pool[d.Alias] = t
	return t
}

// remoteArgs computes the docker remote-host designator for a descriptor.
// Local hosts get none: the command runs straight against the local socket.
func remoteArgs(d hosts.Descriptor) []string {
	if d.Local {
		return nil
	}
	addr := fmt.Sprintf("ssh://%s@%s", d.User, d.Hostname)
	if d.Port != hosts.DefaultPort {
		addr = fmt.Sprintf("%s:%d", addr, d.Port)
	}
	return []string{"-H", addr}
}

// Run executes `docker <args>` against the host and returns the captured
// result. The effective timeout is the explicit override when positive,
// else the host's configured timeout. On expiry the process is terminated
// (SIGTERM, then SIGKILL after a grace period) and CommandTimeoutError is
// returned; a non-zero exit returns CommandFailedError alongside the
// captured result so callers can interpret the exit themselves.
func (r *Runner) Run(ctx context.Context, d hosts.Descriptor, args []string, timeout time.Duration) (Result, error) {
	t := r.transportFor(d)

	effective := timeout
	if effective <= 0 {
		effective = d.Timeout
	}
	runCtx, cancel := context.WithTimeout(ctx, effective)
	defer cancel()

	full := make([]string, 0, len(t.baseArgs)+len(args))
	full = append(full, t.baseArgs...)
	full = append(full, args...)

	cmd := exec.CommandContext(runCtx, r.bin, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = killGracePeriod

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	if ctx.Err() != nil {
		// The caller's context ended, whether by cancel or its own
		// deadline; the per-call timeout only applies when the parent
		// is still live.
		return res, &apperrors.TransportError{Host: d.Alias, Operation: "exec", Err: ctx.Err()}
	}
	if runCtx.Err() == context.DeadlineExceeded {
		return res, &apperrors.CommandTimeoutError{Host: d.Alias, Args: args, Timeout: effective}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &apperrors.CommandFailedError{
			Host:     d.Alias,
			Args:     args,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}

	// The process never ran: missing binary, spawn failure, cancelled parent.
	return res, &apperrors.TransportError{Host: d.Alias, Operation: "exec", Err: err}
}

// start launches `docker <args>` as a long-lived streaming process and
// returns the command together with its stdout pipe. The caller owns the
// process and must Wait on it; cancelling ctx terminates it with the same
// SIGTERM-then-kill sequence as Run.
func (r *Runner) start(ctx context.Context, d hosts.Descriptor, args []string) (*exec.Cmd, io.ReadCloser, *bytes.Buffer, error) {
	t := r.transportFor(d)

	full := make([]string, 0, len(t.baseArgs)+len(args))
	full = append(full, t.baseArgs...)
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, r.bin, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = killGracePeriod

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, &apperrors.TransportError{Host: d.Alias, Operation: "stream", Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, nil, &apperrors.TransportError{Host: d.Alias, Operation: "stream", Err: err}
	}
	return cmd, stdout, &stderr, nil
}

// SplitCommand tokenizes a user-supplied command string with shell-aware
// splitting: single/double quotes and escapes are respected, so a value
// like `--format '{{json .}}'` stays one token. Naive whitespace splitting
// corrupted exactly that case once; don't reintroduce it. A leading
// "docker" token is stripped since the runner supplies the binary itself.
func SplitCommand(command string) ([]string, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize command %q: %w", command, err)
	}
	if len(args) > 0 && args[0] == "docker" {
		args = args[1:]
	}
	return args, nil
}
