package viz

import (
	"github.com/matsen/netviz/internal/frame"
	"github.com/matsen/netviz/internal/network"
	"github.com/matsen/netviz/internal/sizing"
)

// palette colors node types in first-seen order.
var palette = []string{
	"#4A90D9", "#E8923A", "#27AE60", "#9B59B6", "#E74C3C",
	"#1ABC9C", "#F1C40F", "#7F8C8D", "#D35400", "#2C3E50",
}

// defaultColor is used for nodes without a type.
const defaultColor = "#95A5A6"

// BuildGraph combines a frame with the dataset it was built from. Metric
// values are carried along for tooltips.
func BuildGraph(f *frame.Frame, ds *network.Dataset) *GraphData {
	idx := ds.Index()
	colors := typeColors(ds.Types())

	g := &GraphData{
		Metric: f.Metric,
		Nodes:  make([]Node, 0, len(f.Nodes)),
		Edges:  make([]Edge, 0, len(f.Links)),
	}

	for _, fn := range f.Nodes {
		n := Node{
			ID:           fn.ID,
			Type:         fn.Type,
			Label:        fn.Label,
			Color:        defaultColor,
			Size:         fn.Size,
			Diameter:     2 * fn.Size,
			Visible:      fn.Visible == sizing.Visible,
			LabelVisible: fn.LabelVisible == sizing.Visible,
		}
		if c, ok := colors[fn.Type]; ok {
			n.Color = c
		}
		if i, ok := idx[fn.ID]; ok {
			n.Metrics = ds.Nodes[i].Metrics
		}
		g.Nodes = append(g.Nodes, n)
	}

	for _, fl := range f.Links {
		g.Edges = append(g.Edges, Edge{
			Source:  fl.Source,
			Target:  fl.Target,
			Weight:  fl.Weight,
			Visible: fl.Visible == sizing.Visible,
		})
	}
	return g
}

// typeColors assigns palette colors to the sorted, non-empty node types,
// cycling when there are more types than colors.
func typeColors(types []string) map[string]string {
	colors := make(map[string]string, len(types))
	i := 0
	for _, t := range types {
		if t == "" {
			continue
		}
		colors[t] = palette[i%len(palette)]
		i++
	}
	return colors
}
