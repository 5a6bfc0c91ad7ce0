// Package config handles configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/snadboy/sshdocker/internal/errors"
	"github.com/snadboy/sshdocker/internal/hosts"
)

// HostConfig is the raw per-host entry from hosts.yaml, before defaults
// are merged. Zero values mean "fall back to the defaults block".
type HostConfig struct {
	Hostname     string `mapstructure:"hostname"`
	User         string `mapstructure:"user"`
	Port         int    `mapstructure:"port"`
	Local        bool   `mapstructure:"local"`
	IdentityFile string `mapstructure:"identity_file"`
	Timeout      int    `mapstructure:"timeout"` // seconds
	Enabled      *bool  `mapstructure:"enabled"` // nil = inherit default
	Description  string `mapstructure:"description"`
}

// DefaultsConfig is the defaults block merged into every host entry.
type DefaultsConfig struct {
	User         string `mapstructure:"user"`
	Port         int    `mapstructure:"port"`
	IdentityFile string `mapstructure:"identity_file"`
	Timeout      int    `mapstructure:"timeout"` // seconds
	Enabled      *bool  `mapstructure:"enabled"`
}

// DockerConfig contains settings for the docker CLI invocation itself.
type DockerConfig struct {
	Binary string `mapstructure:"binary"` // docker binary to run (default "docker")
}

// NotificationConfig contains notification settings.
type NotificationConfig struct {
	ShoutrrURL string `mapstructure:"shoutrrr_url"` // Shoutrrr URL format
	Enabled    bool   `mapstructure:"enabled"`
}

// Config represents the application configuration.
type Config struct {
	Hosts        map[string]HostConfig `mapstructure:"hosts"`
	Defaults     DefaultsConfig        `mapstructure:"defaults"`
	Docker       DockerConfig          `mapstructure:"docker"`
	Notification NotificationConfig    `mapstructure:"notification"`

	// ConfigFilePath stores the path to the loaded config file (not marshaled from YAML)
	ConfigFilePath string `mapstructure:"-"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("hosts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/sshdocker")
		v.AddConfigPath("/etc/sshdocker")
	}

	setDefaults(v)

	// Read config file (optional when no explicit path was given)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configFile := v.ConfigFileUsed()
			if configFile == "" {
				configFile = configPath
			}
			return nil, &apperrors.ConfigurationError{ConfigPath: configFile, Err: err}
		}
		// Config file not found; using defaults and env vars
	}

	// Environment variable support
	v.SetEnvPrefix("SSHDOCKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		configFile := v.ConfigFileUsed()
		if configFile == "" {
			configFile = "(using defaults and environment variables)"
		}
		return nil, &apperrors.ConfigurationError{ConfigPath: configFile, Err: err}
	}

	// Store the config file path in the struct (DI approach, no global state)
	cfg.ConfigFilePath = v.ConfigFileUsed()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Docker defaults
	v.SetDefault("docker.binary", "docker")

	// Notification defaults
	v.SetDefault("notification.shoutrrr_url", "") // Required for AutomaticEnv to work
	v.SetDefault("notification.enabled", false)

	// Host defaults block
	v.SetDefault("defaults.port", hosts.DefaultPort)
	v.SetDefault("defaults.timeout", int(hosts.DefaultTimeout/time.Second))
}

// Registry merges the defaults block into every host entry and builds a
// validated host registry. Per-host values win, unset fields fall back to
// the defaults block, and fields with no default and no host value fail
// here, at load time, not at call time.
func (c *Config) Registry() (*hosts.Registry, error) {
	if len(c.Hosts) == 0 {
		return nil, &apperrors.ConfigurationError{
			ConfigPath: c.configSource(),
			Key:        "hosts",
			Err:        errors.New("no hosts defined in configuration"),
		}
	}

	descriptors := make([]hosts.Descriptor, 0, len(c.Hosts))
	for alias, hc := range c.Hosts {
		descriptors = append(descriptors, c.descriptor(alias, hc))
	}

	reg, err := hosts.NewRegistry(descriptors)
	if err != nil {
		// Attach the config file path so validation failures point at the file.
		var cfgErr *apperrors.ConfigurationError
		if errors.As(err, &cfgErr) && cfgErr.ConfigPath == "" {
			cfgErr.ConfigPath = c.configSource()
		}
		return nil, err
	}
	return reg, nil
}

// descriptor builds one merged descriptor. The merge happens exactly once,
// at load time; the resulting Descriptor is immutable afterwards.
func (c *Config) descriptor(alias string, hc HostConfig) hosts.Descriptor {
	d := hosts.Descriptor{
		Alias:        alias,
		Hostname:     hc.Hostname,
		User:         hc.User,
		Port:         hc.Port,
		Local:        hc.Local,
		IdentityFile: hc.IdentityFile,
		Description:  hc.Description,
		Enabled:      true,
	}

	if d.User == "" {
		d.User = c.Defaults.User
	}
	if d.Port == 0 {
		d.Port = c.Defaults.Port
	}
	if d.Port == 0 {
		d.Port = hosts.DefaultPort
	}
	if d.IdentityFile == "" {
		d.IdentityFile = c.Defaults.IdentityFile
	}
	if d.IdentityFile != "" {
		d.IdentityFile = expandHome(d.IdentityFile)
	}

	timeout := hc.Timeout
	if timeout == 0 {
		timeout = c.Defaults.Timeout
	}
	if timeout == 0 {
		d.Timeout = hosts.DefaultTimeout
	} else {
		d.Timeout = time.Duration(timeout) * time.Second
	}

	switch {
	case hc.Enabled != nil:
		d.Enabled = *hc.Enabled
	case c.Defaults.Enabled != nil:
		d.Enabled = *c.Defaults.Enabled
	}

	return d
}

func (c *Config) configSource() string {
	if c.ConfigFilePath == "" {
		return "(defaults/environment)"
	}
	return c.ConfigFilePath
}

// Validate ensures the non-host sections are usable. Host entries are
// validated by Registry(), which is the fail-fast path for descriptors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Docker.Binary) == "" {
		return &apperrors.ConfigurationError{
			ConfigPath: c.configSource(),
			Key:        "docker.binary",
			Err:        errors.New("docker binary must not be empty"),
		}
	}
	if c.Notification.Enabled && strings.TrimSpace(c.Notification.ShoutrrURL) == "" {
		return &apperrors.ConfigurationError{
			ConfigPath: c.configSource(),
			Key:        "notification.shoutrrr_url",
			Err:        errors.New("notifications enabled but shoutrrr_url not configured"),
		}
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory. Paths that
// cannot be expanded are returned unchanged.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

// Summary returns a short human-readable description of the loaded
// configuration, used by verbose output.
func (c *Config) Summary() string {
	return fmt.Sprintf("%d hosts (config: %s)", len(c.Hosts), c.configSource())
}
