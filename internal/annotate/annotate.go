// Package annotate computes graph metrics for dataset nodes and derives
// filtered views of a network (minimum degree, node type, ego graph).
package annotate

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	gonet "gonum.org/v1/gonum/graph/network"

	"github.com/matsen/netviz/internal/metric"
	"github.com/matsen/netviz/internal/network"
)

// AllFields lists every metric Annotate can compute.
var AllFields = []string{
	metric.Degree,
	metric.InDegree,
	metric.OutDegree,
	metric.Betweenness,
	metric.Eigenvector,
}

// Eigenvector power iteration limits.
const (
	eigenMaxIter   = 100
	eigenTolerance = 1e-6
)

// Annotate writes the requested metrics onto every node of ds, in place.
// In and out degree are only written for directed datasets. Unknown field
// names are an error.
func Annotate(ds *network.Dataset, fields ...string) error {
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		if _, ok := metric.Lookup(f); !ok {
			return fmt.Errorf("unknown metric field %q", f)
		}
		want[f] = true
	}
	if len(ds.Nodes) == 0 {
		return nil
	}

	if want[metric.Degree] {
		deg := Degrees(ds)
		for i := range ds.Nodes {
			ds.Nodes[i].SetValue(metric.Degree, float64(deg[ds.Nodes[i].ID]))
		}
	}

	if ds.Directed && (want[metric.InDegree] || want[metric.OutDegree]) {
		in, out := directedDegrees(ds)
		for i := range ds.Nodes {
			id := ds.Nodes[i].ID
			if want[metric.InDegree] {
				ds.Nodes[i].SetValue(metric.InDegree, float64(in[id]))
			}
			if want[metric.OutDegree] {
				ds.Nodes[i].SetValue(metric.OutDegree, float64(out[id]))
			}
		}
	}

	if want[metric.Betweenness] || want[metric.Eigenvector] {
		g := ds.Graph()
		if want[metric.Betweenness] {
			scores := betweenness(g)
			for i := range ds.Nodes {
				ds.Nodes[i].SetValue(metric.Betweenness, scores[i])
			}
		}
		if want[metric.Eigenvector] {
			scores, converged := eigenvector(g)
			if !converged {
				slog.Warn("eigenvector centrality did not converge",
					"iterations", eigenMaxIter, "nodes", g.Len())
			}
			for i := range ds.Nodes {
				ds.Nodes[i].SetValue(metric.Eigenvector, scores[i])
			}
		}
	}

	return nil
}

// Degrees counts link endpoints per node. Parallel links each count and a
// self link counts twice.
func Degrees(ds *network.Dataset) map[string]int {
	deg := make(map[string]int, len(ds.Nodes))
	for _, n := range ds.Nodes {
		deg[n.ID] = 0
	}
	for _, l := range ds.Links {
		deg[l.Source]++
		deg[l.Target]++
	}
	return deg
}

func directedDegrees(ds *network.Dataset) (in, out map[string]int) {
	in = make(map[string]int, len(ds.Nodes))
	out = make(map[string]int, len(ds.Nodes))
	for _, l := range ds.Links {
		out[l.Source]++
		in[l.Target]++
	}
	return in, out
}

// betweenness returns normalized betweenness centrality indexed by node
// position, scaled by 1/((n-1)(n-2)).
func betweenness(g *network.Graph) []float64 {
	n := g.Len()
	scores := make([]float64, n)
	raw := gonet.Betweenness(g.Graph)
	scale := 1.0
	if n > 2 {
		scale = 1 / float64((n-1)*(n-2))
	}
	for id, v := range raw {
		scores[id] = v * scale
	}
	return scores
}

// eigenvector runs power iteration on (A + I), following incoming edges for
// directed graphs, and returns the L2-normalized vector.
func eigenvector(g *network.Graph) ([]float64, bool) {
	n := g.Len()
	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}

	incoming := make([][]int64, n)
	for i := 0; i < n; i++ {
		incoming[i] = g.Incoming(int64(i))
	}

	next := make([]float64, n)
	for iter := 0; iter < eigenMaxIter; iter++ {
		copy(next, x)
		for i := 0; i < n; i++ {
			for _, j := range incoming[i] {
				next[i] += x[j]
			}
		}
		norm := floats.Norm(next, 2)
		if norm == 0 {
			norm = 1
		}
		floats.Scale(1/norm, next)

		delta := floats.Distance(next, x, 1)
		x, next = next, x
		if delta < float64(n)*eigenTolerance {
			return x, true
		}
	}
	return x, false
}
