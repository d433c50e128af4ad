package frame

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matsen/netviz/internal/controls"
	"github.com/matsen/netviz/internal/metric"
	"github.com/matsen/netviz/internal/network"
	"github.com/matsen/netviz/internal/sizing"
)

func triangle() *network.Dataset {
	return &network.Dataset{
		Nodes: []network.Node{
			{ID: "a", Label: "Alpha", Metrics: map[string]float64{metric.Degree: 2}},
			{ID: "b", Metrics: map[string]float64{metric.Degree: 5}},
			{ID: "c", Label: "Gamma", Metrics: map[string]float64{metric.Degree: 10}},
		},
		Links: []network.Link{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c", Weight: 2},
			{Source: "a", Target: "c"},
		},
	}
}

func TestBuild_Defaults(t *testing.T) {
	ds := triangle()
	panel := controls.NewPanel()
	f := Build(sizing.NewResolver(ds, panel), ds)

	if f.Metric != "" {
		t.Errorf("Metric = %q, want empty", f.Metric)
	}
	if f.VisibleNodes != 3 || f.VisibleLinks != 3 {
		t.Errorf("visible = %d nodes %d links, want 3 / 3", f.VisibleNodes, f.VisibleLinks)
	}
	for _, n := range f.Nodes {
		if n.Size != sizing.DefaultSize {
			t.Errorf("%s size = %v, want default", n.ID, n.Size)
		}
		if n.LabelVisible != sizing.Hidden {
			t.Errorf("%s label visible with labels off", n.ID)
		}
	}
	if f.Nodes[1].Label != "b" {
		t.Errorf("unlabeled node label = %q, want id", f.Nodes[1].Label)
	}
	if f.Links[0].Weight != 1 || f.Links[1].Weight != 2 {
		t.Errorf("link weights = %v, %v", f.Links[0].Weight, f.Links[1].Weight)
	}
}

func TestBuild_MaxThreshold(t *testing.T) {
	ds := triangle()
	panel := controls.NewPanel()
	panel.SelectMetric(metric.Degree)
	panel.SetSizeThreshold(20)
	panel.EnableLabels(true)

	f := Build(sizing.NewResolver(ds, panel), ds)

	if f.Metric != metric.Degree {
		t.Errorf("Metric = %q", f.Metric)
	}
	if f.VisibleNodes != 1 || f.Nodes[2].Visible != sizing.Visible {
		t.Errorf("only c should be visible, got %+v", f.Nodes)
	}
	if f.VisibleLinks != 0 {
		t.Errorf("VisibleLinks = %d, want 0", f.VisibleLinks)
	}
	if f.Nodes[0].LabelVisible != sizing.Hidden || f.Nodes[2].LabelVisible != sizing.Visible {
		t.Error("labels should follow node visibility")
	}
}

func TestBuild_JSON(t *testing.T) {
	ds := triangle()
	panel := controls.NewPanel()
	panel.SelectMetric(metric.Degree)
	f := Build(sizing.NewResolver(ds, panel), ds)

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"metric":"degree"`, `"size":9.375`, `"visible":"visible"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("frame JSON missing %s: %s", want, data)
		}
	}
}

func TestBuild_JSONRoundTrip(t *testing.T) {
	ds := triangle()
	panel := controls.NewPanel()
	panel.SelectMetric(metric.Degree)
	panel.SetSizeThreshold(10)
	panel.EnableLabels(true)
	want := Build(sizing.NewResolver(ds, panel), ds)

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	var got Frame
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	for i := range want.Nodes {
		if got.Nodes[i] != want.Nodes[i] {
			t.Errorf("node %d = %+v, want %+v", i, got.Nodes[i], want.Nodes[i])
		}
	}
	for i := range want.Links {
		if got.Links[i] != want.Links[i] {
			t.Errorf("link %d = %+v, want %+v", i, got.Links[i], want.Links[i])
		}
	}
}
