package compose

import (
	"context"
	"errors"

	"github.com/docker/docker/api/types/container"
	"gopkg.in/yaml.v3"

	"github.com/snadboy/sshdocker/internal/docker"
	apperrors "github.com/snadboy/sshdocker/internal/errors"
)

// ServiceState is the derived deployment state of one compose service.
type ServiceState string

const (
	StateRunning     ServiceState = "running"
	StateStopped     ServiceState = "stopped"
	StateNotDeployed ServiceState = "not_deployed"
)

// Inventory is the slice of the container inventory the analyzer needs.
// The docker client satisfies it; tests substitute fakes.
type Inventory interface {
	ListContainers(ctx context.Context, alias string, opts docker.ListOptions) ([]docker.Container, error)
	InspectContainer(ctx context.Context, alias, nameOrID string) (*container.InspectResponse, error)
}

// ServiceView is the reconciled view of one declared service: its opaque
// config, the matched container (at most one), and the derived state.
type ServiceView struct {
	Name          string
	ContainerName string       // Canonical name the reconciler looked for
	Config        *yaml.Node   // Declared configuration, passed through unmodified
	Container     *docker.Container
	State         ServiceState
	Err           error // Per-service lookup failure, attached for diagnostics
}

// ActionSet is the advisory of which compose lifecycle actions make sense
// given current state. Up is always true: `up` is an idempotent
// create-or-start and safe to issue regardless of state.
type ActionSet struct {
	Up      bool `json:"up"`
	Down    bool `json:"down"`
	Restart bool `json:"restart"`
	Start   bool `json:"start"`
	Stop    bool `json:"stop"`
}

// Analysis is the result of reconciling one compose document against one
// host. Built fresh on every call and never cached: deployment state
// changes out of band.
type Analysis struct {
	Host     string
	Project  string
	Services map[string]ServiceView
	Actions  ActionSet
}

// Analyze reconciles the document's declared services against the
// containers observed on the host.
//
// The one shared precondition, listing containers, is fatal on failure.
// Per-service inspect failures are isolated: the service degrades to
// not_deployed with the error attached while the rest still resolve.
func Analyze(ctx context.Context, inv Inventory, alias string, doc *Document, dir string) (*Analysis, error) {
	project := ProjectName(dir)

	containers, err := inv.ListContainers(ctx, alias, docker.ListOptions{All: true})
	if err != nil {
		return nil, err
	}

	byName := make(map[string]docker.Container, len(containers))
	for _, c := range containers {
		byName[c.Name] = c
	}

	views := make(map[string]ServiceView, len(doc.Services))
	for name, svc := range doc.Services {
		canonical := CanonicalContainerName(project, name, svc.ContainerName)
		views[name] = resolveService(ctx, inv, alias, svc, canonical, byName)
	}

	return &Analysis{
		Host:     alias,
		Project:  project,
		Services: views,
		Actions:  deriveActions(views),
	}, nil
}

// resolveService derives one service's view. Only the canonical
// first-instance name is matched, so a service maps to at most one
// container and no mixed state can arise.
func resolveService(ctx context.Context, inv Inventory, alias string, svc Service, canonical string, byName map[string]docker.Container) ServiceView {
	view := ServiceView{
		Name:          svc.Name,
		ContainerName: canonical,
		Config:        svc.Config,
		State:         StateNotDeployed,
	}

	matched, ok := byName[canonical]
	if !ok {
		return view
	}

	// Re-inspect the match for a fresh status; the listing may be stale by
	// the time we get here.
	detail, err := inv.InspectContainer(ctx, alias, matched.ID)
	if err != nil {
		var notFound *apperrors.ContainerNotFoundError
		if errors.As(err, &notFound) {
			// Container disappeared between list and inspect.
			return view
		}
		view.Err = err
		return view
	}

	view.Container = &matched
	if detail.State != nil && string(detail.State.Status) == string(StateRunning) {
		view.State = StateRunning
	} else {
		view.State = StateStopped
	}
	return view
}

// deriveActions computes the advisory action set from resolved states.
// A service whose lookup failed counts as not_deployed here too.
func deriveActions(views map[string]ServiceView) ActionSet {
	anyRunning := false
	allRunning := true
	for _, v := range views {
		if v.State == StateRunning {
			anyRunning = true
		} else {
			allRunning = false
		}
	}

	return ActionSet{
		Up:      true,
		Down:    anyRunning,
		Restart: anyRunning,
		Stop:    anyRunning,
		Start:   !allRunning,
	}
}
