// Package network defines the dataset model for a visualized network:
// nodes carrying optional numeric metrics, and weighted links between them.
package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Node is an entity in the visualized network.
type Node struct {
	ID    string
	Label string
	Type  string

	// Metrics holds every numeric attribute found on the node (degree,
	// betweenness, ...). Absent keys mean the dataset does not carry that
	// metric for this node.
	Metrics map[string]float64

	// Extra holds non-numeric attributes, kept verbatim for export.
	Extra map[string]json.RawMessage
}

// Value returns the numeric attribute stored under key.
func (n Node) Value(key string) (float64, bool) {
	v, ok := n.Metrics[key]
	return v, ok
}

// SetValue stores a numeric attribute on the node.
func (n *Node) SetValue(key string, v float64) {
	if n.Metrics == nil {
		n.Metrics = make(map[string]float64)
	}
	n.Metrics[key] = v
}

// DisplayLabel returns the label, falling back to the id.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Link is a connection between two nodes, referenced by id.
type Link struct {
	Source string
	Target string
	Weight float64

	// Weighted marks a weight that was given explicitly, so a stored 0
	// stays 0 instead of reading as unweighted.
	Weighted bool
}

// Strength returns the link weight. A link with no weight counts as 1.
func (l Link) Strength() float64 {
	if l.Weighted || l.Weight != 0 {
		return l.Weight
	}
	return 1
}

// HasWeight reports whether the link carries a weight of its own.
func (l Link) HasWeight() bool {
	return l.Weighted || l.Weight != 0
}

// Dataset is one loaded network: an ordered node list and its links.
// Node order is significant; the first node decides which metrics the
// dataset carries.
type Dataset struct {
	Directed bool
	Nodes    []Node
	Links    []Link
}

// Validation errors.
var (
	ErrEmptyID         = errors.New("node id is required")
	ErrDuplicateID     = errors.New("duplicate node id")
	ErrUnknownEndpoint = errors.New("link references unknown node")
	ErrUnknownNode     = errors.New("node not found")
)

// Validate checks node ids are present and unique and every link endpoint
// names a node in the dataset.
func (d *Dataset) Validate() error {
	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: %w", i, ErrEmptyID)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		}
		seen[n.ID] = true
	}
	for i, l := range d.Links {
		if !seen[l.Source] {
			return fmt.Errorf("link %d: %w: %s", i, ErrUnknownEndpoint, l.Source)
		}
		if !seen[l.Target] {
			return fmt.Errorf("link %d: %w: %s", i, ErrUnknownEndpoint, l.Target)
		}
	}
	return nil
}

// Index maps node ids to their position in Nodes.
func (d *Dataset) Index() map[string]int {
	idx := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Node returns the node with the given id.
func (d *Dataset) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Types returns the distinct node types in the dataset, sorted.
func (d *Dataset) Types() []string {
	set := make(map[string]bool)
	for _, n := range d.Nodes {
		if n.Type != "" {
			set[n.Type] = true
		}
	}
	types := make([]string, 0, len(set))
	for t := range set {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Subset returns a dataset holding only the nodes for which keep returns
// true, plus the links whose endpoints are both kept. Node order is preserved.
func (d *Dataset) Subset(keep func(Node) bool) *Dataset {
	out := &Dataset{Directed: d.Directed}
	kept := make(map[string]bool)
	for _, n := range d.Nodes {
		if keep(n) {
			out.Nodes = append(out.Nodes, n.clone())
			kept[n.ID] = true
		}
	}
	for _, l := range d.Links {
		if kept[l.Source] && kept[l.Target] {
			out.Links = append(out.Links, l)
		}
	}
	return out
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	return d.Subset(func(Node) bool { return true })
}

func (n Node) clone() Node {
	c := n
	if n.Metrics != nil {
		c.Metrics = make(map[string]float64, len(n.Metrics))
		for k, v := range n.Metrics {
			c.Metrics[k] = v
		}
	}
	if n.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(n.Extra))
		for k, v := range n.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}
