// Package apperrors provides domain-specific error types for sshdocker.
// These error types include contextual information so callers can render
// a specific message for every failure kind and decide how to react.
package apperrors

import (
	"fmt"
	"strings"
	"time"
)

// HostNotFoundError is returned when a host alias is absent from the
// configuration or refers to a disabled host.
type HostNotFoundError struct {
	Alias    string // Host alias that failed to resolve
	Disabled bool   // True when the alias exists but the host is disabled
}

// Error implements the error interface for HostNotFoundError.
func (e *HostNotFoundError) Error() string {
	if e.Disabled {
		return fmt.Sprintf("host %q is disabled in configuration", e.Alias)
	}
	return fmt.Sprintf("host %q not found in configuration", e.Alias)
}

// ConfigurationError represents configuration-related errors.
// It includes the configuration file path and specific key that caused the error.
type ConfigurationError struct {
	ConfigPath string // Path to the configuration file
	Key        string // Configuration key that caused the error
	Err        error  // Underlying error
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error in %s (key: %s): %v", e.ConfigPath, e.Key, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", e.ConfigPath, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError represents a failure to establish or use the transport to
// a host (process spawn failure, SSH session failure) as opposed to the
// docker command itself exiting non-zero.
type TransportError struct {
	Host      string // Host alias
	Operation string // Operation that failed (e.g., "exec", "events")
	Err       error  // Underlying error
}

// Error implements the error interface for TransportError.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed for host %q: %v", e.Operation, e.Host, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// CommandTimeoutError is returned when a docker command exceeds its
// effective timeout. The underlying process has been terminated.
type CommandTimeoutError struct {
	Host    string        // Host alias
	Args    []string      // Docker CLI arguments that were being run
	Timeout time.Duration // Effective timeout that was exceeded
}

// Error implements the error interface for CommandTimeoutError.
func (e *CommandTimeoutError) Error() string {
	return fmt.Sprintf("docker %s on host %q timed out after %s",
		strings.Join(e.Args, " "), e.Host, e.Timeout)
}

// CommandFailedError is returned when a docker command exits non-zero.
// It carries the exit code and captured stderr so the caller can decide
// whether the failure is actually an error in its context (e.g., "no such
// object" from inspect vs. an empty match list, which is not a failure).
type CommandFailedError struct {
	Host     string   // Host alias
	Args     []string // Docker CLI arguments that were run
	ExitCode int      // Process exit code
	Stderr   string   // Captured standard error
}

// Error implements the error interface for CommandFailedError.
func (e *CommandFailedError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "(no stderr)"
	}
	return fmt.Sprintf("docker %s on host %q exited with code %d: %s",
		strings.Join(e.Args, " "), e.Host, e.ExitCode, msg)
}

// ContainerNotFoundError is returned when an inspect target does not exist
// on the host, distinguished from transport-level failures.
type ContainerNotFoundError struct {
	Host      string // Host alias
	Container string // Container ID or name that was requested
}

// Error implements the error interface for ContainerNotFoundError.
func (e *ContainerNotFoundError) Error() string {
	return fmt.Sprintf("container %q not found on host %q", e.Container, e.Host)
}

// ComposeDocumentError is returned when a compose document cannot be
// parsed or does not declare a valid services mapping.
type ComposeDocumentError struct {
	Path string // Path to the compose file ("" when parsed from memory)
	Err  error  // Underlying error
}

// Error implements the error interface for ComposeDocumentError.
func (e *ComposeDocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid compose document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid compose document: %v", e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *ComposeDocumentError) Unwrap() error {
	return e.Err
}

// ParseError represents malformed structured output from the docker CLI.
// A schema change in the tool's JSON output surfaces here rather than as
// silently misreported fields.
type ParseError struct {
	Host   string // Host alias the output came from
	Source string // What was being parsed (e.g., "docker ps", "docker inspect")
	Err    error  // Underlying error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s output from host %q: %v", e.Source, e.Host, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *ParseError) Unwrap() error {
	return e.Err
}
