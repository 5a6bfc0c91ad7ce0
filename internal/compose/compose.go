// Package compose reconciles a Docker Compose service definition against
// the containers actually observed on a host, deriving a per-service state
// and an advisory set of sensible lifecycle actions. It observes and
// reports only: issuing the underlying compose command stays with the
// caller.
package compose

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/snadboy/sshdocker/internal/errors"
)

// Service is one declared compose service. Config is the service's parsed
// definition carried through opaquely; the reconciler never interprets it
// beyond the explicit container name.
type Service struct {
	Name          string
	ContainerName string // Explicit container_name, "" when not declared
	Config        *yaml.Node
}

// Document is a parsed compose file.
type Document struct {
	Path     string
	Services map[string]Service
}

// ServiceNames returns the declared service names in sorted order.
func (d *Document) ServiceNames() []string {
	names := make([]string, 0, len(d.Services))
	for name := range d.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseFile reads and parses a compose file from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperrors.ComposeDocumentError{Path: path, Err: err}
	}
	doc, err := ParseDocument(data)
	if err != nil {
		var docErr *apperrors.ComposeDocumentError
		if errors.As(err, &docErr) {
			docErr.Path = path
		}
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// ParseDocument parses compose YAML into declared services. A document
// that is not a mapping or has no services mapping is malformed; an empty
// `services: {}` mapping is a valid document with zero services.
func ParseDocument(data []byte) (*Document, error) {
	var raw struct {
		Services map[string]yaml.Node `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &apperrors.ComposeDocumentError{Err: err}
	}
	if raw.Services == nil {
		return nil, &apperrors.ComposeDocumentError{
			Err: fmt.Errorf("document has no services mapping"),
		}
	}

	services := make(map[string]Service, len(raw.Services))
	for name, node := range raw.Services {
		var meta struct {
			ContainerName string `yaml:"container_name"`
		}
		if err := node.Decode(&meta); err != nil {
			return nil, &apperrors.ComposeDocumentError{
				Err: fmt.Errorf("service %q: %w", name, err),
			}
		}
		n := node
		services[name] = Service{
			Name:          name,
			ContainerName: meta.ContainerName,
			Config:        &n,
		}
	}

	return &Document{Services: services}, nil
}

// ProjectName derives the compose project name from the compose
// directory's base name, normalized the way Docker Compose itself does
// (lowercased, characters outside [a-z0-9_-] removed). Deriving it here
// rather than accepting an override keeps canonical container names
// aligned with what compose actually created.
func ProjectName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

// CanonicalContainerName returns the container name compose assigns a
// service: the explicit container_name verbatim when declared, otherwise
// the default first-instance name {project}_{service}_1. Scaled replicas
// (_2, _3, ...) are intentionally invisible to the reconciler.
func CanonicalContainerName(project, service, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return fmt.Sprintf("%s_%s_1", project, service)
}
