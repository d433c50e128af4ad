// Package viz renders a resolved frame as a standalone Cytoscape.js page.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Metric string `json:"metric,omitempty"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
}

// Node is one node with its resolved display state.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type,omitempty"`
	Label string `json:"label"`
	Color string `json:"color"`

	// Resolved size is a radius; Cytoscape sizes by diameter.
	Size     float64 `json:"size"`
	Diameter float64 `json:"diameter"`

	Visible      bool `json:"-"`
	LabelVisible bool `json:"-"`

	// Metric values for tooltips
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// Edge is one link with its resolved visibility.
type Edge struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Weight  float64 `json:"weight"`
	Visible bool    `json:"-"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
