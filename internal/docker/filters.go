package docker

import (
	"fmt"
	"sort"
)

// shortcut maps one ergonomic filter key to its native docker filter.
type shortcut struct {
	key      string // Native docker filter key
	template string // Value template; %s receives the caller's value
}

// shortcutFilters is the full shortcut table. A raw key is treated as a
// shortcut only when written in all-uppercase exactly as listed here; any
// other casing passes through unchanged as a native filter key.
var shortcutFilters = map[string]shortcut{
	"SERVICE":      {"label", "com.docker.compose.service=%s"},
	"PROJECT":      {"label", "com.docker.compose.project=%s"},
	"COMPOSE_FILE": {"label", "com.docker.compose.config-file=%s"},
	"STATUS":       {"status", "%s"},
	"IMAGE":        {"ancestor", "%s"},
	"NETWORK":      {"network", "%s"},
	"VOLUME":       {"volume", "%s"},
	"NAME":         {"name", "%s"},
	"ID":           {"id", "%s"},
}

// ExpandFilters translates a filter mapping into docker's native filter
// keys. Pure and stateless: the same input always yields the same output.
//
// Raw keys are processed in sorted order, the fixed iteration order that
// makes the collision rule deterministic: when two entries expand to the
// same native key (e.g. SERVICE and PROJECT both target "label"), the
// later-processed one wins. Last write wins is the contract, not an error.
func ExpandFilters(raw map[string]string) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	native := make(map[string]string, len(raw))
	for _, k := range keys {
		if sc, ok := shortcutFilters[k]; ok {
			native[sc.key] = fmt.Sprintf(sc.template, raw[k])
			continue
		}
		native[k] = raw[k]
	}
	return native
}

// FilterArgs renders a native filter mapping as docker CLI arguments in
// sorted key order: ["--filter", "key=value", ...].
func FilterArgs(native map[string]string) []string {
	if len(native) == 0 {
		return nil
	}

	keys := make([]string, 0, len(native))
	for k := range native {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(native)*2)
	for _, k := range keys {
		args = append(args, "--filter", k+"="+native[k])
	}
	return args
}
