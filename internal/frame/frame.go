// Package frame evaluates the resolvers over a whole dataset, producing the
// per-tick values a renderer consumes.
package frame

import (
	"github.com/matsen/netviz/internal/network"
	"github.com/matsen/netviz/internal/sizing"
)

// Node is the rendered state of one node.
type Node struct {
	ID           string            `json:"id"`
	Label        string            `json:"label"`
	Type         string            `json:"type,omitempty"`
	Size         float64           `json:"size"`
	Visible      sizing.Visibility `json:"visible"`
	LabelVisible sizing.Visibility `json:"label_visible"`
}

// Link is the rendered state of one link.
type Link struct {
	Source  string            `json:"source"`
	Target  string            `json:"target"`
	Weight  float64           `json:"weight"`
	Visible sizing.Visibility `json:"visible"`
}

// Frame is one full evaluation of sizes and visibility.
type Frame struct {
	Metric       string `json:"metric,omitempty"`
	Nodes        []Node `json:"nodes"`
	Links        []Link `json:"links"`
	VisibleNodes int    `json:"visible_nodes"`
	VisibleLinks int    `json:"visible_links"`
}

// Build evaluates r over every node and link of ds. Node visibility is
// computed once per node and reused for its links.
func Build(r *sizing.Resolver, ds *network.Dataset) *Frame {
	f := &Frame{
		Metric: r.Selected(),
		Nodes:  make([]Node, 0, len(ds.Nodes)),
		Links:  make([]Link, 0, len(ds.Links)),
	}

	shown := make(map[string]sizing.Visibility, len(ds.Nodes))
	for _, n := range ds.Nodes {
		vis := r.NodeShown(n)
		shown[n.ID] = vis
		if vis == sizing.Visible {
			f.VisibleNodes++
		}
		f.Nodes = append(f.Nodes, Node{
			ID:           n.ID,
			Label:        n.DisplayLabel(),
			Type:         n.Type,
			Size:         r.ResolveSize(n),
			Visible:      vis,
			LabelVisible: r.LabelShown(n),
		})
	}

	for _, l := range ds.Links {
		vis := sizing.BothVisible(shown[l.Source], shown[l.Target])
		if vis == sizing.Visible {
			f.VisibleLinks++
		}
		f.Links = append(f.Links, Link{
			Source:  l.Source,
			Target:  l.Target,
			Weight:  l.Strength(),
			Visible: vis,
		})
	}
	return f
}
