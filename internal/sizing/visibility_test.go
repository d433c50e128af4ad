package sizing

import (
	"encoding/json"
	"testing"

	"github.com/matsen/netviz/internal/metric"
	"github.com/matsen/netviz/internal/scale"
)

func TestBothVisible(t *testing.T) {
	tests := []struct {
		a, b Visibility
		want Visibility
	}{
		{Visible, Visible, Visible},
		{Visible, Hidden, Hidden},
		{Hidden, Visible, Hidden},
		{Hidden, Hidden, Hidden},
	}
	for _, tt := range tests {
		if got := BothVisible(tt.a, tt.b); got != tt.want {
			t.Errorf("BothVisible(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVisibility_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Visibility{"a": Visible, "b": Hidden})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":"visible","b":"hidden"}` {
		t.Errorf("got %s", data)
	}
}

func TestVisibility_UnmarshalJSON(t *testing.T) {
	var got map[string]Visibility
	if err := json.Unmarshal([]byte(`{"a":"visible","b":"hidden"}`), &got); err != nil {
		t.Fatal(err)
	}
	if got["a"] != Visible || got["b"] != Hidden {
		t.Errorf("got %v", got)
	}

	var v Visibility
	if err := json.Unmarshal([]byte(`"shown"`), &v); err == nil {
		t.Error("expected error for unknown visibility")
	}
	if err := json.Unmarshal([]byte(`true`), &v); err == nil {
		t.Error("expected error for bare bool")
	}
}

func TestNodeVisible_MaxThreshold(t *testing.T) {
	ds := degreeDataset(2, 5, 10)
	controls := newStub()
	controls.metric = metric.Degree
	controls.sizeThreshold = scale.MaxSize
	r := NewResolver(ds, controls)

	want := []Visibility{Hidden, Hidden, Visible}
	for i, n := range ds.Nodes {
		if got := r.NodeVisible(n); got != want[i] {
			t.Errorf("NodeVisible(%s) = %v, want %v", n.ID, got, want[i])
		}
	}

	// a-b, a-c and b-c touch at least one hidden node
	pairs := [][2]int{{0, 1}, {0, 2}, {1, 2}}
	for _, p := range pairs {
		src, dst := ds.Nodes[p[0]], ds.Nodes[p[1]]
		if got := r.LinkShown(src, dst); got != Hidden {
			t.Errorf("LinkShown(%s, %s) = %v, want hidden", src.ID, dst.ID, got)
		}
	}
	if got := r.LinkShown(ds.Nodes[2], ds.Nodes[2]); got != Visible {
		t.Errorf("LinkShown(c, c) = %v, want visible", got)
	}
}

func TestNodeShown_GatingOff(t *testing.T) {
	ds := degreeDataset(2, 5, 10)
	controls := newStub()
	controls.metric = metric.Degree
	controls.sizeThreshold = scale.MaxSize
	controls.gated = false
	r := NewResolver(ds, controls)

	if r.NodesGated() {
		t.Fatal("NodesGated() = true with gating off")
	}
	for _, n := range ds.Nodes {
		if got := r.NodeShown(n); got != Visible {
			t.Errorf("NodeShown(%s) = %v with gating off", n.ID, got)
		}
	}
	// the pure threshold query is unaffected by the toggle
	if got := r.NodeVisible(ds.Nodes[0]); got != Hidden {
		t.Errorf("NodeVisible(a) = %v, want hidden", got)
	}
}

func TestLabelVisible_Disabled(t *testing.T) {
	ds := degreeDataset(2, 5, 10)
	controls := newStub()
	controls.metric = metric.Degree
	controls.labels = false
	controls.labelThreshold = scale.MinSize
	r := NewResolver(ds, controls)

	if r.LabelsShown() != Hidden {
		t.Error("LabelsShown() visible with labels disabled")
	}
	for _, n := range ds.Nodes {
		if got := r.LabelVisible(n); got != Hidden {
			t.Errorf("LabelVisible(%s) = %v with labels disabled", n.ID, got)
		}
	}
}

func TestLabelVisible_Threshold(t *testing.T) {
	ds := degreeDataset(2, 5, 10)
	controls := newStub()
	controls.metric = metric.Degree
	controls.labels = true
	controls.labelThreshold = 9
	r := NewResolver(ds, controls)

	want := []Visibility{Hidden, Visible, Visible}
	for i, n := range ds.Nodes {
		if got := r.LabelVisible(n); got != want[i] {
			t.Errorf("LabelVisible(%s) = %v, want %v", n.ID, got, want[i])
		}
	}
}

func TestLabelShown_RequiresNode(t *testing.T) {
	ds := degreeDataset(2, 5, 10)
	controls := newStub()
	controls.metric = metric.Degree
	controls.labels = true
	controls.labelThreshold = scale.MinSize
	controls.sizeThreshold = 10
	r := NewResolver(ds, controls)

	// b has a visible label (9.375 >= 3) but its node is below 10
	if got := r.LabelVisible(ds.Nodes[1]); got != Visible {
		t.Fatalf("LabelVisible(b) = %v, want visible", got)
	}
	if got := r.LabelShown(ds.Nodes[1]); got != Hidden {
		t.Errorf("LabelShown(b) = %v, want hidden", got)
	}
	if got := r.LabelShown(ds.Nodes[2]); got != Visible {
		t.Errorf("LabelShown(c) = %v, want visible", got)
	}
}
