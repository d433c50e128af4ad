package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/netviz/internal/controls"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/netviz/config.yml.
type GlobalConfig struct {
	NexusPath string          `yaml:"nexus_path,omitempty"`
	Listen    string          `yaml:"listen,omitempty"`
	Controls  *controls.State `yaml:"controls,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "netviz"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// EnvNexusPath overrides nexus_path when set (also read from .env).
	EnvNexusPath = "NETVIZ_NEXUS_PATH"
	// EnvListen overrides listen when set.
	EnvListen = "NETVIZ_LISTEN"

	// DefaultListen is the serve address when none is configured.
	DefaultListen = "127.0.0.1:8080"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/netviz/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file and applies
// environment overrides. Returns an empty config (not an error) if the file
// doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg := &GlobalConfig{}
	if path := GlobalConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		}
	}

	if v := os.Getenv(EnvNexusPath); v != "" {
		cfg.NexusPath = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Listen = v
	}
	if cfg.NexusPath != "" {
		cfg.NexusPath = ExpandPath(cfg.NexusPath)
	}
	if cfg.Controls != nil {
		normalized := cfg.Controls.Normalize()
		cfg.Controls = &normalized
	}

	globalConfigCache = cfg
	return cfg, nil
}

// SaveGlobalConfig writes cfg to the global config file, creating its
// directory if needed, and resets the cache.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return errors.New("cannot determine global config path")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}
	ResetGlobalConfigCache()
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetNexusPath returns the configured nexus path from global config.
func GetNexusPath() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.NexusPath
}

// GetListen returns the serve address from global config, or DefaultListen.
func GetListen() string {
	cfg, err := LoadGlobalConfig()
	if err != nil || cfg.Listen == "" {
		return DefaultListen
	}
	return cfg.Listen
}

// ErrNexusPathNotConfigured is returned when nexus_path is not set in config.
var ErrNexusPathNotConfigured = errors.New("nexus_path not configured")

// ErrNexusPathNotExist is returned when the configured nexus_path doesn't exist.
var ErrNexusPathNotExist = errors.New("nexus_path does not exist")

// ValidateNexusPath returns the nexus path from global config after validation.
// Returns error if not configured or if the path doesn't exist.
func ValidateNexusPath() (string, error) {
	path := GetNexusPath()
	if path == "" {
		return "", ErrNexusPathNotConfigured
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNexusPathNotExist, path)
	}
	return path, nil
}

// ResolveRepository finds the repository for a command: an explicit path
// wins, then the repository enclosing the working directory, then the
// configured nexus path.
func ResolveRepository(explicit string) (string, error) {
	if explicit != "" {
		root := ExpandPath(explicit)
		if !IsRepository(root) {
			return "", fmt.Errorf("not a netviz repository: %s", root)
		}
		return root, nil
	}
	if root, err := FindRepository("."); err == nil {
		return root, nil
	}
	nexus, err := ValidateNexusPath()
	if err != nil {
		return "", err
	}
	if !IsRepository(nexus) {
		return "", fmt.Errorf("nexus_path is not a netviz repository: %s", nexus)
	}
	return nexus, nil
}

// HelpfulConfigMessage returns a helpful message when no repository is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No netviz repository found.

Tip: run 'nv init' in a directory, or create %s to set a default:
  mkdir -p %s
  echo 'nexus_path: /path/to/your/network' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
