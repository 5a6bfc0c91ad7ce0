// Package hosts holds validated per-host connection descriptors and
// resolves them by alias. Descriptors are constructed once at
// configuration-load time and are read-only for the process lifetime.
package hosts

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	apperrors "github.com/snadboy/sshdocker/internal/errors"
)

// Defaults applied when neither the host entry nor the defaults block
// provides a value.
const (
	DefaultPort    = 22
	DefaultTimeout = 30 * time.Second
)

var (
	aliasRegexp    = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
	hostnameRegexp = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-.]*[a-zA-Z0-9])?$`)
	userRegexp     = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

// Descriptor is a validated, immutable connection descriptor for one
// Docker-capable host.
type Descriptor struct {
	Alias        string        // Unique symbolic name from configuration
	Hostname     string        // DNS name or IP ("" for local hosts)
	Port         int           // SSH port (remote hosts only)
	User         string        // SSH user (remote hosts only)
	Local        bool          // True when docker runs against the local socket
	IdentityFile string        // Optional SSH key reference (informational; auth is the SSH client's job)
	Timeout      time.Duration // Default per-command timeout
	Enabled      bool
	Description  string
}

// Remote reports whether commands to this host go over the SSH transport.
func (d Descriptor) Remote() bool {
	return !d.Local
}

// Registry resolves host aliases to descriptors. It is safe for
// concurrent use: the underlying map is never mutated after construction.
type Registry struct {
	byAlias map[string]Descriptor
}

// NewRegistry validates the given descriptors and builds a registry.
// Defaults must already be merged into each descriptor; validation here is
// the fail-fast step that rejects incomplete entries before any host is
// contacted.
func NewRegistry(descriptors []Descriptor) (*Registry, error) {
	byAlias := make(map[string]Descriptor, len(descriptors))

	for _, d := range descriptors {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, exists := byAlias[d.Alias]; exists {
			return nil, &apperrors.ConfigurationError{
				Key: "hosts." + d.Alias,
				Err: fmt.Errorf("duplicate host alias %q", d.Alias),
			}
		}
		byAlias[d.Alias] = d
	}

	return &Registry{byAlias: byAlias}, nil
}

// Resolve returns the descriptor for alias. Unknown and disabled aliases
// both fail with HostNotFoundError, never a silent default.
func (r *Registry) Resolve(alias string) (Descriptor, error) {
	d, ok := r.byAlias[alias]
	if !ok {
		return Descriptor{}, &apperrors.HostNotFoundError{Alias: alias}
	}
	if !d.Enabled {
		return Descriptor{}, &apperrors.HostNotFoundError{Alias: alias, Disabled: true}
	}
	return d, nil
}

// Enabled returns all enabled descriptors sorted by alias. The sort keeps
// multi-host operations (scan loops, `hosts list`) deterministic.
func (r *Registry) Enabled() []Descriptor {
	var enabled []Descriptor
	for _, d := range r.byAlias {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i].Alias < enabled[j].Alias })
	return enabled
}

// All returns every descriptor, enabled or not, sorted by alias.
func (r *Registry) All() []Descriptor {
	all := make([]Descriptor, 0, len(r.byAlias))
	for _, d := range r.byAlias {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Alias < all[j].Alias })
	return all
}

// Len returns the number of configured hosts.
func (r *Registry) Len() int {
	return len(r.byAlias)
}

func (d Descriptor) validate() error {
	key := "hosts." + d.Alias

	if d.Alias == "" || !aliasRegexp.MatchString(d.Alias) {
		return &apperrors.ConfigurationError{
			Key: "hosts",
			Err: fmt.Errorf("host alias %q contains invalid characters", d.Alias),
		}
	}

	if d.Timeout <= 0 {
		return &apperrors.ConfigurationError{
			Key: key + ".timeout",
			Err: fmt.Errorf("timeout must be positive, got %s", d.Timeout),
		}
	}

	// Local descriptors need no connection details.
	if d.Local {
		return nil
	}

	if d.Hostname == "" {
		return &apperrors.ConfigurationError{
			Key: key + ".hostname",
			Err: fmt.Errorf("hostname is required for remote host %q", d.Alias),
		}
	}
	if len(d.Hostname) > 253 || !hostnameRegexp.MatchString(d.Hostname) {
		return &apperrors.ConfigurationError{
			Key: key + ".hostname",
			Err: fmt.Errorf("hostname %q is not a valid hostname", d.Hostname),
		}
	}
	if d.User == "" {
		return &apperrors.ConfigurationError{
			Key: key + ".user",
			Err: fmt.Errorf("user is required for remote host %q (set it on the host or in defaults)", d.Alias),
		}
	}
	if len(d.User) > 32 || !userRegexp.MatchString(d.User) {
		return &apperrors.ConfigurationError{
			Key: key + ".user",
			Err: fmt.Errorf("user %q contains invalid characters", d.User),
		}
	}
	if d.Port < 1 || d.Port > 65535 {
		return &apperrors.ConfigurationError{
			Key: key + ".port",
			Err: fmt.Errorf("port must be between 1 and 65535, got %d", d.Port),
		}
	}

	return nil
}
