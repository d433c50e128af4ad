// Package metric is the fixed registry of per-node graph metrics that can
// drive node sizing.
package metric

import "github.com/matsen/netviz/internal/network"

// Metric keys, as stored on dataset nodes.
const (
	Degree      = "degree"
	InDegree    = "in_degree"
	OutDegree   = "out_degree"
	Betweenness = "betweenness"
	Eigenvector = "eigenvector_centrality"
)

// Accessor reads a metric value from a node. The bool is false when the
// node does not carry the metric.
type Accessor func(n network.Node) (float64, bool)

// Descriptor describes one sizing metric.
type Descriptor struct {
	Key   string
	Label string
	Value Accessor
}

func attribute(key string) Accessor {
	return func(n network.Node) (float64, bool) {
		return n.Value(key)
	}
}

// registry is ordered as presented to users and never mutated.
var registry = []Descriptor{
	{Key: Degree, Label: "Degree", Value: attribute(Degree)},
	{Key: InDegree, Label: "In Degree", Value: attribute(InDegree)},
	{Key: OutDegree, Label: "Out Degree", Value: attribute(OutDegree)},
	{Key: Betweenness, Label: "Betweenness Centrality", Value: attribute(Betweenness)},
	{Key: Eigenvector, Label: "Eigenvector Centrality", Value: attribute(Eigenvector)},
}

var byKey = func() map[string]int {
	m := make(map[string]int, len(registry))
	for i, d := range registry {
		m[d.Key] = i
	}
	return m
}()

// All returns the registered metrics in order.
func All() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Keys returns the registered metric keys in order.
func Keys() []string {
	keys := make([]string, len(registry))
	for i, d := range registry {
		keys[i] = d.Key
	}
	return keys
}

// Lookup returns the descriptor registered under key.
func Lookup(key string) (Descriptor, bool) {
	i, ok := byKey[key]
	if !ok {
		return Descriptor{}, false
	}
	return registry[i], true
}
