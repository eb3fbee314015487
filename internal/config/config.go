// Package config handles soopchat CLI configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order. An explicit
// path (from -config) is checked first by FindConfig.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "soopchat", "config.yaml"))
	}
	paths = append(paths, "/etc/soopchat/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must
// exist. Otherwise the first existing entry of DefaultSearchPaths wins.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all soopchat settings.
type Config struct {
	StreamerID string `yaml:"streamer_id"`
	Password   string `yaml:"password"`
	LogLevel   string `yaml:"log_level"`

	// HeartbeatSec overrides the PING period in seconds.
	HeartbeatSec int `yaml:"heartbeat_sec"`

	// CommandQueueSize bounds the outbound command queue.
	CommandQueueSize int `yaml:"command_queue_size"`

	// EventBufferSize bounds each event subscriber's channel.
	EventBufferSize int `yaml:"event_buffer_size"`

	// InsecureTLS accepts any chat server certificate. Debugging only.
	InsecureTLS bool `yaml:"insecure_tls"`

	// Reconnect keeps retrying after session failures.
	Reconnect bool `yaml:"reconnect"`
}

// Load reads configuration from a YAML file, expands environment
// variables, applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SOOP_PASSWORD}) for
	// container deployments.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// applyDefaults fills zero-value fields so callers can read any field
// without checking.
func (c *Config) applyDefaults() {
	if c.HeartbeatSec == 0 {
		c.HeartbeatSec = 60
	}
	if c.CommandQueueSize == 0 {
		c.CommandQueueSize = 32
	}
	if c.EventBufferSize == 0 {
		c.EventBufferSize = 8192
	}
}

// Validate checks internal consistency. Runs after applyDefaults.
func (c *Config) Validate() error {
	if c.StreamerID == "" {
		return fmt.Errorf("streamer_id is required")
	}
	if c.HeartbeatSec < 1 {
		return fmt.Errorf("heartbeat_sec %d out of range", c.HeartbeatSec)
	}
	if c.LogLevel != "" {
		if _, err := ParseLogLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// Heartbeat returns the heartbeat period as a duration.
func (c *Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatSec) * time.Second
}

// Default returns a configuration with all defaults applied and no
// streamer selected.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
