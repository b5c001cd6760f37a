// Package config provides configuration management for instrsync.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/instrsync/instrsync/internal/model"
	"github.com/instrsync/instrsync/internal/util"
	"github.com/instrsync/instrsync/internal/workspace"
)

// Config represents the complete instrsync configuration.
type Config struct {
	// Sources lists locally configured instruction sources. They override
	// remote-document sources sharing the same language and destination.
	Sources []model.InstructionSource `yaml:"sources"`

	// Remote configures the central remote configuration document.
	Remote RemoteConfig `yaml:"remote"`

	// Sync configures confirmation and trigger behavior.
	Sync SyncConfig `yaml:"sync"`

	// Workspace configures language detection.
	Workspace WorkspaceConfig `yaml:"workspace"`

	// Output configures display preferences.
	Output OutputConfig `yaml:"output"`
}

// RemoteConfig holds settings for the central configuration document.
type RemoteConfig struct {
	// URL is the location of the remote configuration document.
	// Empty disables the remote layer.
	URL string `yaml:"url,omitempty"`
	// TTL is how long a fetched document stays fresh.
	TTL time.Duration `yaml:"ttl"`
	// CacheDir overrides the default cache directory.
	CacheDir string `yaml:"cache_dir,omitempty"`
}

// SyncConfig holds synchronization settings. The three toggles are
// tri-state: unset defers to the remote document's value, then to the
// default.
type SyncConfig struct {
	// ConfirmBeforeSync asks before each changed file is written.
	ConfirmBeforeSync *bool `yaml:"confirm_before_sync,omitempty"`
	// SyncOnOpen runs an initial sync when watch mode starts.
	SyncOnOpen *bool `yaml:"sync_on_open,omitempty"`
	// SyncOnConfigChange runs a sync when watched configuration changes.
	SyncOnConfigChange *bool `yaml:"sync_on_config_change,omitempty"`
}

// WorkspaceConfig holds language detection settings.
type WorkspaceConfig struct {
	// MaxDepth bounds the directory walk during language detection.
	MaxDepth int `yaml:"max_depth"`
	// Skip lists extra directory names excluded from the walk.
	Skip []string `yaml:"skip,omitempty"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never).
	Color string `yaml:"color"`
	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			TTL: time.Hour,
		},
		Workspace: WorkspaceConfig{
			MaxDepth: workspace.DefaultMaxDepth,
		},
		Output: OutputConfig{
			Color:   "auto",
			Verbose: false,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.InstrsyncConfigPath(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults with environment overrides
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	// Parse YAML over defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern INSTRSYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	// Remote settings
	if v := os.Getenv("INSTRSYNC_REMOTE_URL"); v != "" {
		c.Remote.URL = v
	}
	if v := os.Getenv("INSTRSYNC_REMOTE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Remote.TTL = d
		}
	}
	if v := os.Getenv("INSTRSYNC_REMOTE_CACHE_DIR"); v != "" {
		c.Remote.CacheDir = v
	}

	// Sync settings
	if v := os.Getenv("INSTRSYNC_CONFIRM_BEFORE_SYNC"); v != "" {
		c.Sync.ConfirmBeforeSync = boolPtr(parseBool(v))
	}
	if v := os.Getenv("INSTRSYNC_SYNC_ON_OPEN"); v != "" {
		c.Sync.SyncOnOpen = boolPtr(parseBool(v))
	}
	if v := os.Getenv("INSTRSYNC_SYNC_ON_CONFIG_CHANGE"); v != "" {
		c.Sync.SyncOnConfigChange = boolPtr(parseBool(v))
	}

	// Workspace settings
	if v := os.Getenv("INSTRSYNC_WORKSPACE_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workspace.MaxDepth = n
		}
	}

	// Output settings
	if v := os.Getenv("INSTRSYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("INSTRSYNC_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

func boolPtr(v bool) *bool {
	return &v
}

// ConfirmBeforeSync resolves the confirmation policy. The local setting wins
// over the remote document's toggle; both unset means confirm.
func (c *Config) ConfirmBeforeSync(remote *bool) bool {
	if c.Sync.ConfirmBeforeSync != nil {
		return *c.Sync.ConfirmBeforeSync
	}
	if remote != nil {
		return *remote
	}
	return true
}

// SyncOnOpen resolves the initial-sync trigger for watch mode; local wins
// over remote, default true.
func (c *Config) SyncOnOpen(remote *bool) bool {
	if c.Sync.SyncOnOpen != nil {
		return *c.Sync.SyncOnOpen
	}
	if remote != nil {
		return *remote
	}
	return true
}

// SyncOnConfigChange resolves the config-change trigger for watch mode;
// local wins over remote, default true.
func (c *Config) SyncOnConfigChange(remote *bool) bool {
	if c.Sync.SyncOnConfigChange != nil {
		return *c.Sync.SyncOnConfigChange
	}
	if remote != nil {
		return *remote
	}
	return true
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
