package docker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"

	apperrors "github.com/snadboy/sshdocker/internal/errors"
)

// psEntry mirrors one line of `docker ps --format '{{json .}}'` output.
// Any field the CLI renames simply stops unmarshaling, which surfaces as
// empty records in tests rather than silent key errors at call sites.
type psEntry struct {
	ID        string `json:"ID"`
	Names     string `json:"Names"`
	Image     string `json:"Image"`
	Status    string `json:"Status"`
	State     string `json:"State"`
	Labels    string `json:"Labels"`
	Ports     string `json:"Ports"`
	CreatedAt string `json:"CreatedAt"`
}

// parsePS parses line-delimited JSON from `docker ps` into container
// snapshots tagged with the host alias they were observed on. A malformed
// line is a ParseError: a schema break must fail loudly, not misreport.
func parsePS(host, output string) ([]Container, error) {
	var containers []Container

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var entry psEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, &apperrors.ParseError{Host: host, Source: "docker ps", Err: err}
		}

		containers = append(containers, Container{
			ID:      entry.ID,
			Name:    strings.TrimPrefix(entry.Names, "/"),
			Image:   entry.Image,
			Status:  entry.Status,
			State:   entry.State,
			Labels:  parseLabels(entry.Labels),
			Ports:   parsePorts(entry.Ports),
			Created: entry.CreatedAt,
			Host:    host,
		})
	}

	return containers, nil
}

// parseLabels parses docker's comma-separated "key=value,key2=value2"
// label rendering into a map. Entries without "=" are ignored.
func parseLabels(s string) map[string]string {
	labels := make(map[string]string)
	if s == "" {
		return labels
	}

	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		labels[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return labels
}

// parsePorts splits docker's comma-separated port rendering into a slice.
func parsePorts(s string) []string {
	if s == "" {
		return nil
	}

	var ports []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ports = append(ports, p)
		}
	}
	return ports
}

// parseInspect parses `docker inspect` output. The CLI prints a JSON array
// of the engine's inspect schema, so the result binds directly to the
// typed API struct instead of an ad hoc map.
func parseInspect(host, name, output string) (*container.InspectResponse, error) {
	var details []container.InspectResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &details); err != nil {
		return nil, &apperrors.ParseError{Host: host, Source: "docker inspect", Err: err}
	}
	if len(details) == 0 {
		return nil, &apperrors.ContainerNotFoundError{Host: host, Container: name}
	}
	return &details[0], nil
}

// parseEventLine parses one line of `docker events --format '{{json .}}'`
// output into an Event tagged with the host alias.
func parseEventLine(host, line string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(line), &ev.Message); err != nil {
		return Event{}, &apperrors.ParseError{Host: host, Source: "docker events", Err: err}
	}
	ev.Host = host
	return ev, nil
}

// parseJSONOutput parses arbitrary docker output that the caller asked to
// have decoded: either a single JSON document (object or array) or
// line-delimited JSON objects, whichever the command produced.
func parseJSONOutput(host, output string) ([]any, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, nil
	}

	// A single document covers `docker inspect`-style array output.
	if strings.HasPrefix(trimmed, "[") {
		var doc []any
		if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
			return nil, &apperrors.ParseError{Host: host, Source: "docker output", Err: err}
		}
		return doc, nil
	}

	var results []any
	for i, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var doc any
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			return nil, &apperrors.ParseError{
				Host:   host,
				Source: "docker output",
				Err:    fmt.Errorf("line %d: %w", i+1, err),
			}
		}
		results = append(results, doc)
	}
	return results, nil
}
