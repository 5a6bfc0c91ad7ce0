// Package cmd implements the CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snadboy/sshdocker/internal/config"
	"github.com/snadboy/sshdocker/internal/docker"
	"github.com/snadboy/sshdocker/internal/version"
)

var (
	cfgFile       string
	verbose       bool
	cfg           *config.Config
	errConfigLoad error
)

var rootCmd = &cobra.Command{
	Use:   "sshdocker",
	Short: "Manage Docker containers on local and remote hosts",
	Long: `sshdocker runs Docker CLI commands against one or many hosts, using the
local Docker socket for local hosts and Docker's native SSH remote-host
support for remote ones.

It features:
  - A hosts.yaml registry of Docker hosts with per-host defaults
  - Container listing and inspection with structured (JSON) parsing
  - Ergonomic filter shortcuts (SERVICE, PROJECT, STATUS, ...)
  - Live Docker event streaming with optional notifications
  - Compose deployment status: per-service state and sensible actions`,
	Version: version.GetFullVersion(),
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		skipConfig := cmd.Name() == "init" || cmd.Name() == "help" || cmd.Name() == "version"
		if skipConfig {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			// Store the config load error; commands fail fast on it in their
			// RunE handlers where they can render a useful message.
			errConfigLoad = err
			if verbose {
				fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
			}
		}

		if verbose && cfg != nil {
			fmt.Fprintf(os.Stderr, "Loaded configuration: %s\n", cfg.Summary())
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./hosts.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// GetConfig returns the loaded configuration or nil if not loaded.
// Must be called after rootCmd.PersistentPreRunE has executed.
func GetConfig() *config.Config {
	return cfg
}

// IsVerbose returns whether verbose mode is enabled via the -v flag.
func IsVerbose() bool {
	return verbose
}

// newDockerClient builds the inventory client for the loaded
// configuration. It is the shared fail-fast path for every command that
// contacts a host: config load errors, validation errors, and registry
// construction errors all surface here before any host is touched.
func newDockerClient() (*docker.Client, error) {
	if errConfigLoad != nil {
		return nil, fmt.Errorf("configuration not loaded: %w", errConfigLoad)
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded (run 'sshdocker init' to create one)")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return docker.NewClient(registry, docker.NewRunner(cfg.Docker.Binary)), nil
}
