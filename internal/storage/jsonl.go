// Package storage handles dataset persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/netviz/internal/network"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
// This constant is shared across all JSONL file readers.
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAllNodes reads all nodes from a JSONL file.
func ReadAllNodes(path string) ([]network.Node, error) {
	var nodes []network.Node
	err := scanJSONL(path, "nodes", func(lineNum int, line []byte) error {
		var n network.Node
		if err := json.Unmarshal(line, &n); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if n.ID == "" {
			return fmt.Errorf("invalid node at line %d: %w", lineNum, network.ErrEmptyID)
		}
		nodes = append(nodes, n)
		return nil
	})
	return nodes, err
}

// ReadAllLinks reads all links from a JSONL file.
func ReadAllLinks(path string) ([]network.Link, error) {
	var links []network.Link
	err := scanJSONL(path, "links", func(lineNum int, line []byte) error {
		var l network.Link
		if err := json.Unmarshal(line, &l); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		links = append(links, l)
		return nil
	})
	return links, err
}

// scanJSONL calls fn for every non-empty line. A missing file reads as empty.
func scanJSONL(path, what string, fn func(lineNum int, line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s file: %w", what, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s file: %w", what, err)
	}
	return nil
}

// writeJSONLine marshals v and writes it as a JSONL line.
func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}

// WriteAllNodes writes all nodes to a JSONL file, replacing existing content.
func WriteAllNodes(path string, nodes []network.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating nodes file: %w", err)
	}
	defer f.Close()

	for i, n := range nodes {
		if err := writeJSONLine(f, n); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
	}
	return nil
}

// WriteAllLinks writes all links to a JSONL file, replacing existing content.
func WriteAllLinks(path string, links []network.Link) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating links file: %w", err)
	}
	defer f.Close()

	for i, l := range links {
		if err := writeJSONLine(f, l); err != nil {
			return fmt.Errorf("link %d: %w", i, err)
		}
	}
	return nil
}

// ReadDataset reads nodes and links from their JSONL files and validates
// the result.
func ReadDataset(nodesPath, linksPath string, directed bool) (*network.Dataset, error) {
	nodes, err := ReadAllNodes(nodesPath)
	if err != nil {
		return nil, err
	}
	links, err := ReadAllLinks(linksPath)
	if err != nil {
		return nil, err
	}
	ds := &network.Dataset{Directed: directed, Nodes: nodes, Links: links}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("validating dataset: %w", err)
	}
	return ds, nil
}

// WriteDataset replaces both JSONL files with the dataset's contents.
func WriteDataset(nodesPath, linksPath string, ds *network.Dataset) error {
	if err := WriteAllNodes(nodesPath, ds.Nodes); err != nil {
		return err
	}
	return WriteAllLinks(linksPath, ds.Links)
}
