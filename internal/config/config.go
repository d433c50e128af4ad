// Package config handles repository configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/netviz/internal/controls"
	"github.com/matsen/netviz/internal/metric"
)

// Config represents repository configuration stored in .netviz/config.json.
type Config struct {
	Directed bool            `json:"directed"`           // Whether links are directed
	Source   string          `json:"source,omitempty"`   // File the dataset was last imported from
	Controls *controls.State `json:"controls,omitempty"` // Saved control state; nil uses defaults
}

const (
	NetvizDir  = ".netviz"
	ConfigFile = "config.json"
	NodesFile  = "nodes.jsonl"
	LinksFile  = "links.jsonl"
	CacheDir   = "cache"
	DBFile     = "network.db"
)

// NetvizPath returns the path to the .netviz directory from a root path.
func NetvizPath(root string) string {
	return filepath.Join(root, NetvizDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, NetvizDir, ConfigFile)
}

// NodesPath returns the path to nodes.jsonl from a root path.
func NodesPath(root string) string {
	return filepath.Join(root, NetvizDir, NodesFile)
}

// LinksPath returns the path to links.jsonl from a root path.
func LinksPath(root string) string {
	return filepath.Join(root, NetvizDir, LinksFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, NetvizDir, CacheDir)
}

// DBPath returns the path to network.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, NetvizDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a netviz repository.
func IsRepository(root string) bool {
	info, err := os.Stat(NetvizPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a netviz repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a netviz repository (no %s directory found)", NetvizDir)
		}
		abs = parent
	}
}

// Init creates the repository layout under root with an empty dataset.
func Init(root string, cfg *Config) error {
	if IsRepository(root) {
		return fmt.Errorf("repository already exists at %s", root)
	}
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	for _, path := range []string{NodesPath(root), LinksPath(root)} {
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
		}
	}
	return cfg.Save(root)
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ControlState returns the effective starting control state: the
// repository's saved state if any, else the global default, else
// controls.DefaultState. The result is normalized.
func (c *Config) ControlState() controls.State {
	state := controls.DefaultState()
	if g, err := LoadGlobalConfig(); err == nil && g.Controls != nil {
		state = *g.Controls
	}
	if c != nil && c.Controls != nil {
		state = *c.Controls
	}
	return state.Normalize()
}

// ValidateMetric checks that key names a registered metric. Empty is
// allowed and means no metric is selected.
func ValidateMetric(key string) error {
	if key == "" {
		return nil
	}
	if _, ok := metric.Lookup(key); !ok {
		return fmt.Errorf("invalid metric: %s (valid: %v)", key, metric.Keys())
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

// ValidateNexus checks that the path exists and is a netviz repository.
func ValidateNexus(path string) error {
	if path == "" {
		return nil // Empty is allowed (not yet configured)
	}

	expandedPath := ExpandPath(path)

	if !IsRepository(expandedPath) {
		return fmt.Errorf("not a netviz repository: %s (no %s directory)", expandedPath, NetvizDir)
	}

	return nil
}
