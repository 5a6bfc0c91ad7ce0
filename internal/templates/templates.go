// Package templates contains embedded template files.
package templates

import (
	_ "embed"
)

//go:embed hosts.template

// HostsYAML contains the embedded hosts configuration template.
var HostsYAML []byte

//go:embed env.template

// EnvFile contains the embedded environment file template.
var EnvFile []byte
