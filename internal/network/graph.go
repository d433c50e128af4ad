package network

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph is a gonum view of a dataset. Node ids in the gonum graph are the
// positions of the nodes in the dataset. Parallel links collapse into one
// edge and self links are dropped, since gonum simple graphs allow neither.
type Graph struct {
	graph.Graph
	directed bool
	ids      map[string]int64
	names    []string
}

// Graph builds a directed or undirected gonum graph from the dataset.
func (d *Dataset) Graph() *Graph {
	return d.buildGraph(d.Directed)
}

// UndirectedGraph builds an undirected view regardless of the dataset's
// directedness.
func (d *Dataset) UndirectedGraph() *Graph {
	return d.buildGraph(false)
}

func (d *Dataset) buildGraph(directed bool) *Graph {
	g := &Graph{
		directed: directed,
		ids:      make(map[string]int64, len(d.Nodes)),
		names:    make([]string, len(d.Nodes)),
	}
	for i, n := range d.Nodes {
		g.ids[n.ID] = int64(i)
		g.names[i] = n.ID
	}

	if directed {
		dg := simple.NewDirectedGraph()
		for i := range d.Nodes {
			dg.AddNode(simple.Node(i))
		}
		for _, l := range d.Links {
			from, okFrom := g.ids[l.Source]
			to, okTo := g.ids[l.Target]
			if !okFrom || !okTo || from == to {
				continue
			}
			dg.SetEdge(dg.NewEdge(dg.Node(from), dg.Node(to)))
		}
		g.Graph = dg
		return g
	}

	ug := simple.NewUndirectedGraph()
	for i := range d.Nodes {
		ug.AddNode(simple.Node(i))
	}
	for _, l := range d.Links {
		from, okFrom := g.ids[l.Source]
		to, okTo := g.ids[l.Target]
		if !okFrom || !okTo || from == to {
			continue
		}
		ug.SetEdge(ug.NewEdge(ug.Node(from), ug.Node(to)))
	}
	g.Graph = ug
	return g
}

// Directed reports whether the view follows link direction.
func (g *Graph) Directed() bool {
	return g.directed
}

// ID returns the gonum id for a dataset node id.
func (g *Graph) ID(nodeID string) (int64, bool) {
	id, ok := g.ids[nodeID]
	return id, ok
}

// Name returns the dataset node id for a gonum id.
func (g *Graph) Name(id int64) string {
	if id < 0 || int(id) >= len(g.names) {
		return ""
	}
	return g.names[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.names)
}

// Incoming returns the ids of nodes with an edge into id. For undirected
// views these are simply the neighbors.
func (g *Graph) Incoming(id int64) []int64 {
	var it graph.Nodes
	if dg, ok := g.Graph.(graph.Directed); ok && g.directed {
		it = dg.To(id)
	} else {
		it = g.Graph.From(id)
	}
	var out []int64
	for it.Next() {
		out = append(out, it.Node().ID())
	}
	return out
}

// Neighbors returns the ids adjacent to id, following edges in either
// direction.
func (g *Graph) Neighbors(id int64) []int64 {
	seen := make(map[int64]bool)
	var out []int64
	collect := func(it graph.Nodes) {
		for it.Next() {
			nid := it.Node().ID()
			if !seen[nid] {
				seen[nid] = true
				out = append(out, nid)
			}
		}
	}
	collect(g.Graph.From(id))
	if dg, ok := g.Graph.(graph.Directed); ok && g.directed {
		collect(dg.To(id))
	}
	return out
}
