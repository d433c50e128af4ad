package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/netviz/internal/controls"
	"github.com/matsen/netviz/internal/metric"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/repo"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"NetvizPath", NetvizPath, "/test/repo/.netviz"},
		{"ConfigPath", ConfigPath, "/test/repo/.netviz/config.json"},
		{"NodesPath", NodesPath, "/test/repo/.netviz/nodes.jsonl"},
		{"LinksPath", LinksPath, "/test/repo/.netviz/links.jsonl"},
		{"CachePath", CachePath, "/test/repo/.netviz/cache"},
		{"DBPath", DBPath, "/test/repo/.netviz/cache/network.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestIsRepository(t *testing.T) {
	tmpDir := t.TempDir()

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true for non-repo directory")
	}

	if err := os.Mkdir(filepath.Join(tmpDir, NetvizDir), 0755); err != nil {
		t.Fatalf("Failed to create .netviz: %v", err)
	}

	if !IsRepository(tmpDir) {
		t.Error("IsRepository() = false for repo directory")
	}
}

func TestIsRepository_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, NetvizDir), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to create .netviz file: %v", err)
	}

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true when .netviz is a file")
	}
}

func TestFindRepository(t *testing.T) {
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "repo")
	nestedDir := filepath.Join(repoDir, "data", "raw")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}
	if err := os.Mkdir(filepath.Join(repoDir, NetvizDir), 0755); err != nil {
		t.Fatalf("Failed to create .netviz: %v", err)
	}

	got, err := FindRepository(nestedDir)
	if err != nil {
		t.Fatalf("FindRepository() error = %v", err)
	}
	if got != repoDir {
		t.Errorf("FindRepository() = %q, want %q", got, repoDir)
	}

	if _, err := FindRepository(tmpDir); err == nil {
		t.Error("FindRepository() should fail outside a repository")
	}
}

func TestInitLoadSave(t *testing.T) {
	tmpDir := t.TempDir()

	if err := Init(tmpDir, &Config{Directed: true}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	for _, path := range []string{NodesPath(tmpDir), LinksPath(tmpDir), CachePath(tmpDir)} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s missing after Init: %v", path, err)
		}
	}
	if err := Init(tmpDir, &Config{}); err == nil {
		t.Error("Init() should refuse an existing repository")
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Directed {
		t.Error("Directed not persisted")
	}

	state := controls.DefaultState()
	state.Metric = metric.Betweenness
	cfg.Controls = &state
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	cfg, err = Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Controls == nil || cfg.Controls.Metric != metric.Betweenness {
		t.Errorf("Controls = %+v", cfg.Controls)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() should fail without config.json")
	}
}

func TestControlState(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var nilCfg *Config
	if got := nilCfg.ControlState(); got != controls.DefaultState() {
		t.Errorf("nil config state = %+v, want defaults", got)
	}

	saved := controls.State{Metric: metric.Degree, SizeThreshold: 100}
	cfg := &Config{Controls: &saved}
	got := cfg.ControlState()
	if got.Metric != metric.Degree {
		t.Errorf("Metric = %q", got.Metric)
	}
	if got.SizeThreshold != 20 {
		t.Errorf("SizeThreshold = %v, want clamped 20", got.SizeThreshold)
	}
}

func TestValidateMetric(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"", false},
		{metric.Degree, false},
		{metric.Eigenvector, false},
		{"pagerank", true},
	}
	for _, tt := range tests {
		err := ValidateMetric(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMetric(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~/data", filepath.Join(home, "data")},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
