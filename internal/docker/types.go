package docker

import (
	"time"

	"github.com/docker/docker/api/types/events"
)

// Container is a point-in-time snapshot of one container as observed via
// `docker ps`. It is stale the instant it is produced and never persisted.
type Container struct {
	ID      string
	Name    string
	Image   string
	Status  string // Free-form docker status string, e.g. "Up 3 hours"
	State   string // Machine state, e.g. "running", "exited"
	Labels  map[string]string
	Ports   []string
	Created string
	Host    string // Host alias the container was observed on
}

// ShortID returns the first 12 characters of the container ID.
func (c Container) ShortID() string {
	if len(c.ID) > 12 {
		return c.ID[:12]
	}
	return c.ID
}

// Running reports whether the container was running when observed.
func (c Container) Running() bool {
	return c.State == "running"
}

// ListOptions controls a container listing.
type ListOptions struct {
	All     bool              // Include stopped containers
	Filters map[string]string // Filter mapping, shortcut keys allowed (see ExpandFilters)
}

// Result is the immutable outcome of one docker CLI execution.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Elapsed  time.Duration
}

// Event is one entry from a host's docker event feed. The payload is the
// engine's own event schema; Host records which alias it was observed on.
type Event struct {
	events.Message
	Host string `json:"host"`
}

// ContainerName extracts the container name from the event's actor
// attributes, or "" when the event does not concern a named container.
func (e Event) ContainerName() string {
	return e.Actor.Attributes["name"]
}

// HostContainers is the per-host result of a multi-host listing. A failing
// host carries its error here instead of aborting the whole scan.
type HostContainers struct {
	Host       string
	Containers []Container
	Err        error
}
