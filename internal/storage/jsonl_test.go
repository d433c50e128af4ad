package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/netviz/internal/network"
)

func TestReadAllNodes_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nodes.jsonl")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	f.Close()

	nodes, err := ReadAllNodes(path)
	if err != nil {
		t.Fatalf("ReadAllNodes() error = %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("ReadAllNodes() returned %d nodes, want 0", len(nodes))
	}
}

func TestReadAllNodes_NonExistentFile(t *testing.T) {
	nodes, err := ReadAllNodes("/nonexistent/path/nodes.jsonl")
	if err != nil {
		t.Fatalf("ReadAllNodes() error = %v (should return nil for nonexistent file)", err)
	}
	if len(nodes) != 0 {
		t.Errorf("ReadAllNodes() returned %v, want nil or empty slice", nodes)
	}
}

func TestReadAllNodes_Metrics(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nodes.jsonl")

	lines := []string{
		`{"id":"a","label":"Alpha","type":"person","degree":3,"betweenness":0.5}`,
		``,
		`{"id":7,"type":"org"}`,
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	nodes, err := ReadAllNodes(path)
	if err != nil {
		t.Fatalf("ReadAllNodes() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("ReadAllNodes() returned %d nodes, want 2", len(nodes))
	}
	if v, ok := nodes[0].Value("degree"); !ok || v != 3 {
		t.Errorf("degree = %v, %v; want 3, true", v, ok)
	}
	if nodes[1].ID != "7" {
		t.Errorf("numeric id = %q, want \"7\"", nodes[1].ID)
	}
}

func TestReadAllNodes_InvalidLine(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nodes.jsonl")
	if err := os.WriteFile(path, []byte("{\"id\":\"a\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadAllNodes(path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadAllNodes() error = %v, want line 2 parse error", err)
	}
}

func TestReadAllNodes_MissingID(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nodes.jsonl")
	if err := os.WriteFile(path, []byte("{\"label\":\"x\"}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadAllNodes(path)
	if !errors.Is(err, network.ErrEmptyID) {
		t.Errorf("ReadAllNodes() error = %v, want ErrEmptyID", err)
	}
}

func TestWriteReadDataset(t *testing.T) {
	tmpDir := t.TempDir()
	nodesPath := filepath.Join(tmpDir, "nodes.jsonl")
	linksPath := filepath.Join(tmpDir, "links.jsonl")

	ds := &network.Dataset{
		Directed: true,
		Nodes: []network.Node{
			{ID: "a", Label: "Alpha", Metrics: map[string]float64{"degree": 1}},
			{ID: "b", Type: "org"},
		},
		Links: []network.Link{{Source: "a", Target: "b", Weight: 2.5}},
	}
	if err := WriteDataset(nodesPath, linksPath, ds); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	got, err := ReadDataset(nodesPath, linksPath, true)
	if err != nil {
		t.Fatalf("ReadDataset() error = %v", err)
	}
	if !got.Directed || len(got.Nodes) != 2 || len(got.Links) != 1 {
		t.Fatalf("ReadDataset() = %+v", got)
	}
	if got.Nodes[0].Label != "Alpha" || got.Nodes[1].Type != "org" {
		t.Errorf("nodes = %+v", got.Nodes)
	}
	if got.Links[0].Weight != 2.5 {
		t.Errorf("weight = %v, want 2.5", got.Links[0].Weight)
	}
}

func TestReadDataset_UnknownEndpoint(t *testing.T) {
	tmpDir := t.TempDir()
	nodesPath := filepath.Join(tmpDir, "nodes.jsonl")
	linksPath := filepath.Join(tmpDir, "links.jsonl")

	if err := WriteAllNodes(nodesPath, []network.Node{{ID: "a"}}); err != nil {
		t.Fatal(err)
	}
	if err := WriteAllLinks(linksPath, []network.Link{{Source: "a", Target: "ghost"}}); err != nil {
		t.Fatal(err)
	}

	_, err := ReadDataset(nodesPath, linksPath, false)
	if !errors.Is(err, network.ErrUnknownEndpoint) {
		t.Errorf("ReadDataset() error = %v, want ErrUnknownEndpoint", err)
	}
}
