package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/netviz/internal/controls"
	"github.com/matsen/netviz/internal/metric"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/netviz/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "netviz", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvNexusPath, "")
	t.Setenv(EnvListen, "")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.NexusPath != "" || cfg.Controls != nil {
		t.Errorf("LoadGlobalConfig() = %+v, want empty", cfg)
	}
	if GetListen() != DefaultListen {
		t.Errorf("GetListen() = %q, want default", GetListen())
	}
}

func TestLoadGlobalConfig_YAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv(EnvNexusPath, "")
	t.Setenv(EnvListen, "")

	content := `nexus_path: /data/net
listen: ":9000"
controls:
  metric: degree
  display_range:
    lo: 1
    hi: 40
  labels: true
`
	dir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.NexusPath != "/data/net" || cfg.Listen != ":9000" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Controls == nil || cfg.Controls.Metric != metric.Degree || !cfg.Controls.Labels {
		t.Fatalf("Controls = %+v", cfg.Controls)
	}
	if cfg.Controls.Display.Lo != 3 || cfg.Controls.Display.Hi != 20 {
		t.Errorf("display range = %+v, want clamped [3,20]", cfg.Controls.Display)
	}

	// Repository without saved controls inherits the global default.
	if got := (&Config{}).ControlState(); got.Metric != metric.Degree {
		t.Errorf("ControlState().Metric = %q, want global default", got.Metric)
	}
}

func TestLoadGlobalConfig_EnvOverride(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvNexusPath, "/from/env")
	t.Setenv(EnvListen, ":7000")

	if got := GetNexusPath(); got != "/from/env" {
		t.Errorf("GetNexusPath() = %q", got)
	}
	if got := GetListen(); got != ":7000" {
		t.Errorf("GetListen() = %q", got)
	}
}

func TestSaveGlobalConfig(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvNexusPath, "")

	state := controls.DefaultState()
	state.Labels = true
	if err := SaveGlobalConfig(&GlobalConfig{NexusPath: "/x", Controls: &state}); err != nil {
		t.Fatalf("SaveGlobalConfig() error = %v", err)
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NexusPath != "/x" || cfg.Controls == nil || !cfg.Controls.Labels {
		t.Errorf("round trip = %+v", cfg)
	}
}

func TestValidateNexusPath(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Setenv(EnvNexusPath, "")
	if _, err := ValidateNexusPath(); !errors.Is(err, ErrNexusPathNotConfigured) {
		t.Errorf("error = %v, want ErrNexusPathNotConfigured", err)
	}

	ResetGlobalConfigCache()
	t.Setenv(EnvNexusPath, "/definitely/not/here")
	if _, err := ValidateNexusPath(); !errors.Is(err, ErrNexusPathNotExist) {
		t.Errorf("error = %v, want ErrNexusPathNotExist", err)
	}
}

func TestResolveRepository_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := ResolveRepository(tmpDir); err == nil {
		t.Error("ResolveRepository() should reject a non-repository")
	}
	if err := Init(tmpDir, &Config{}); err != nil {
		t.Fatal(err)
	}
	got, err := ResolveRepository(tmpDir)
	if err != nil || got != tmpDir {
		t.Errorf("ResolveRepository() = %q, %v", got, err)
	}
}
