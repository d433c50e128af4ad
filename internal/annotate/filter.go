package annotate

import (
	"fmt"

	"github.com/matsen/netviz/internal/network"
)

// Ego graph limits. Radius 2 neighborhoods are too dense to read without
// a minimum degree filter.
const (
	MinEgoRadius     = 1
	MaxEgoRadius     = 2
	WideEgoMinDegree = 5
	DefaultMinDegree = 1
)

// FilterByMinDegree keeps nodes whose degree (over the full dataset) is at
// least minDegree, plus the links among them.
func FilterByMinDegree(ds *network.Dataset, minDegree int) *network.Dataset {
	deg := Degrees(ds)
	return ds.Subset(func(n network.Node) bool {
		return deg[n.ID] >= minDegree
	})
}

// FilterByType keeps nodes of the given types. No types keeps everything.
func FilterByType(ds *network.Dataset, types ...string) *network.Dataset {
	if len(types) == 0 {
		return ds.Clone()
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return ds.Subset(func(n network.Node) bool {
		return allowed[n.Type]
	})
}

// EgoRadius clamps a requested radius into the supported range and returns
// the minimum degree filter that goes with it.
func EgoRadius(radius int) (int, int) {
	if radius < MinEgoRadius {
		radius = MinEgoRadius
	}
	if radius > MaxEgoRadius {
		radius = MaxEgoRadius
	}
	if radius == MaxEgoRadius {
		return radius, WideEgoMinDegree
	}
	return radius, 0
}

// Ego returns the undirected neighborhood of center within radius hops,
// with the links among the included nodes. Type filtering happens before
// the walk so excluded types do not bridge neighborhoods.
func Ego(ds *network.Dataset, center string, radius int, types ...string) (*network.Dataset, error) {
	base := FilterByType(ds, types...)
	g := base.UndirectedGraph()
	start, ok := g.ID(center)
	if !ok {
		return nil, fmt.Errorf("%w: %s", network.ErrUnknownNode, center)
	}

	depth := map[int64]int{start: 0}
	queue := []int64{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if depth[id] == radius {
			continue
		}
		for _, nb := range g.Neighbors(id) {
			if _, seen := depth[nb]; seen {
				continue
			}
			depth[nb] = depth[id] + 1
			queue = append(queue, nb)
		}
	}

	return base.Subset(func(n network.Node) bool {
		id, _ := g.ID(n.ID)
		_, in := depth[id]
		return in
	}), nil
}

// Adjacency returns the weighted adjacency matrix in node order. Parallel
// link weights add up; undirected datasets produce a symmetric matrix.
func Adjacency(ds *network.Dataset) [][]float64 {
	idx := ds.Index()
	m := make([][]float64, len(ds.Nodes))
	for i := range m {
		m[i] = make([]float64, len(ds.Nodes))
	}
	for _, l := range ds.Links {
		s, okS := idx[l.Source]
		t, okT := idx[l.Target]
		if !okS || !okT {
			continue
		}
		w := l.Strength()
		m[s][t] += w
		if !ds.Directed && s != t {
			m[t][s] += w
		}
	}
	return m
}

// EgoGraph clamps the requested radius and, for wide radii, drops nodes
// below WideEgoMinDegree before the walk. The center is always kept.
func EgoGraph(ds *network.Dataset, center string, requested int, types ...string) (*network.Dataset, int, error) {
	radius, minDegree := EgoRadius(requested)
	base := ds
	if minDegree > 0 {
		deg := Degrees(ds)
		base = ds.Subset(func(n network.Node) bool {
			return n.ID == center || deg[n.ID] >= minDegree
		})
	}
	ego, err := Ego(base, center, radius, types...)
	if err != nil {
		return nil, 0, err
	}
	return ego, radius, nil
}

// Filtered applies the type and minimum degree filters, then recomputes
// every metric over the remaining subgraph. With no filter requested ds is
// returned unchanged.
func Filtered(ds *network.Dataset, minDegree int, types ...string) (*network.Dataset, error) {
	if minDegree <= 0 && len(types) == 0 {
		return ds, nil
	}
	out := FilterByType(ds, types...)
	if minDegree > 0 {
		out = FilterByMinDegree(out, minDegree)
	}
	if err := Annotate(out, AllFields...); err != nil {
		return nil, err
	}
	return out, nil
}
