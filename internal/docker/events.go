package docker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	apperrors "github.com/snadboy/sshdocker/internal/errors"
)

// maxEventLine caps a single event line from the feed. Event lines carry
// the subject's full attribute map; compose projects with many labels push
// them past the scanner's default 64 KiB token limit.
const maxEventLine = 1024 * 1024

func newEventScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	return scanner
}

// EventStream is a live subscription to one host's docker event feed: an
// unbounded, order-preserving sequence with no replay. When the channel
// from Events closes, Err reports why the stream ended; Close (or
// cancelling the subscribe context) terminates the underlying process.
type EventStream struct {
	host   string
	cmd    *exec.Cmd
	cancel context.CancelFunc
	events chan Event
	done   chan struct{}
	err    error
}

// StreamEvents subscribes to a host's docker event feed. Filters may use
// shortcut keys. The stream runs until the feed ends, ctx is cancelled,
// or Close is called; either way the underlying process is terminated,
// never leaked.
func (c *Client) StreamEvents(ctx context.Context, alias string, filters map[string]string) (*EventStream, error) {
	d, err := c.registry.Resolve(alias)
	if err != nil {
		return nil, err
	}

	args := []string{"events", "--format", "{{json .}}"}
	args = append(args, FilterArgs(ExpandFilters(filters))...)

	streamCtx, cancel := context.WithCancel(ctx)
	cmd, stdout, stderr, err := c.runner.start(streamCtx, d, args)
	if err != nil {
		cancel()
		return nil, err
	}

	es := &EventStream{
		host:   alias,
		cmd:    cmd,
		cancel: cancel,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	go es.consume(streamCtx, newEventScanner(stdout), stderr, args)

	return es, nil
}

// Events returns the event channel. It is closed when the stream ends;
// consult Err afterwards for the reason.
func (es *EventStream) Events() <-chan Event {
	return es.events
}

// Err reports why the stream ended. Valid only after the Events channel
// has closed; a deliberately closed or cancelled stream reports nil.
func (es *EventStream) Err() error {
	<-es.done
	return es.err
}

// Close terminates the event stream and waits for the underlying process
// to exit. Safe to call more than once.
func (es *EventStream) Close() error {
	es.cancel()
	<-es.done
	return es.err
}

// consume pumps process output into the event channel until the feed ends
// or the context is cancelled, then reaps the process.
func (es *EventStream) consume(ctx context.Context, scanner *bufio.Scanner, stderr *bytes.Buffer, args []string) {
	defer close(es.done)
	defer close(es.events)

	var parseErr error
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ev, err := parseEventLine(es.host, line)
		if err != nil {
			parseErr = err
			break
		}

		select {
		case es.events <- ev:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}

	es.cancel()
	waitErr := es.cmd.Wait()

	switch {
	case parseErr != nil:
		es.err = parseErr
	case ctx.Err() != nil:
		// Deliberate shutdown: the exit status of a killed process is noise.
		es.err = nil
	case scanner.Err() != nil:
		es.err = &apperrors.TransportError{Host: es.host, Operation: "events", Err: scanner.Err()}
	case waitErr != nil:
		es.err = streamExitError(es.host, args, waitErr, stderr.String())
	}
}

func streamExitError(host string, args []string, waitErr error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &apperrors.CommandFailedError{
			Host:     host,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr,
		}
	}
	return &apperrors.TransportError{Host: host, Operation: "events", Err: waitErr}
}
