package viz

import (
	"strings"
	"testing"
)

func TestGenerateHTML(t *testing.T) {
	g := sampleGraph(t, 3)

	out, err := GenerateHTML(g, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	for _, want := range []string{"cytoscape.min.js", `"cose"`, "Sized by degree", "data(diameter)"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestGenerateHTML_Options(t *testing.T) {
	g := sampleGraph(t, 3)

	opts := HTMLOptions{
		Layout:    "grid",
		Library:   "/* bundled */",
		Title:     "Karate",
		Directed:  true,
		FrameURL:  "/frame.json",
		RefreshMs: 500,
	}
	out, err := GenerateHTML(g, opts)
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	for _, want := range []string{"/* bundled */", `"grid"`, "<title>Karate</title>", "'triangle'", "500"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(out, "unpkg.com") {
		t.Error("inline library should replace the CDN tag")
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	out, err := GenerateHTML(&GraphData{}, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if !strings.Contains(out, "No graph data") {
		t.Error("empty graph should render the empty state")
	}
}

func TestGenerateHTML_Errors(t *testing.T) {
	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("nil graph should fail")
	}
	opts := DefaultOptions()
	opts.Layout = "spiral"
	if _, err := GenerateHTML(sampleGraph(t, 3), opts); err == nil {
		t.Error("invalid layout should fail")
	}
}

func TestLayoutToCytoscape(t *testing.T) {
	tests := []struct {
		layout string
		want   string
	}{
		{"", "cose"},
		{"force", "cose"},
		{"circle", "circle"},
		{"grid", "grid"},
	}
	for _, tt := range tests {
		if got := layoutToCytoscape(tt.layout); got != tt.want {
			t.Errorf("layoutToCytoscape(%q) = %q, want %q", tt.layout, got, tt.want)
		}
	}
}
