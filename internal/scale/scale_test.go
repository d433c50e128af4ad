package scale

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matsen/netviz/internal/network"
)

func fixed(d DisplayRange) func() DisplayRange {
	return func() DisplayRange { return d }
}

func degreeOf(n network.Node) (float64, bool) {
	return n.Value("degree")
}

func nodesWithDegree(values ...float64) []network.Node {
	nodes := make([]network.Node, len(values))
	for i, v := range values {
		nodes[i] = network.Node{ID: string(rune('a' + i)), Metrics: map[string]float64{"degree": v}}
	}
	return nodes
}

func TestObserve(t *testing.T) {
	r, ok := Observe(nodesWithDegree(5, 2, 10), degreeOf)
	if !ok {
		t.Fatal("Observe() reported metric absent")
	}
	if r.Min != 2 || r.Max != 10 {
		t.Errorf("Observe() = %+v, want {2 10}", r)
	}
}

func TestObserve_FirstNodeDecides(t *testing.T) {
	nodes := nodesWithDegree(1, 2)
	nodes = append([]network.Node{{ID: "bare"}}, nodes...)

	if _, ok := Observe(nodes, degreeOf); ok {
		t.Error("Observe() defined a range although the first node lacks the metric")
	}
}

func TestObserve_SkipsMissingLater(t *testing.T) {
	nodes := append(nodesWithDegree(4, 8), network.Node{ID: "bare"})

	r, ok := Observe(nodes, degreeOf)
	if !ok || r.Min != 4 || r.Max != 8 {
		t.Errorf("Observe() = (%+v, %v), want ({4 8}, true)", r, ok)
	}
}

func TestObserve_Empty(t *testing.T) {
	if _, ok := Observe(nil, degreeOf); ok {
		t.Error("Observe(nil) reported a range")
	}
}

func TestLinear_Scenario(t *testing.T) {
	f := Linear(Range{Min: 2, Max: 10}, fixed(DefaultDisplayRange()))

	tests := []struct {
		v    float64
		want float64
	}{
		{2, 3},
		{5, 9.375},
		{10, 20},
		{-4, 3},   // below observed min
		{100, 20}, // above observed max
	}
	for _, tt := range tests {
		if got := f(tt.v); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("f(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestLinear_BoundariesExact(t *testing.T) {
	display := DisplayRange{Lo: 4.1, Hi: 17.3}
	f := Linear(Range{Min: 0.013, Max: 0.77}, fixed(display))

	if got := f(0.013); got != display.Lo {
		t.Errorf("f(min) = %v, want exactly %v", got, display.Lo)
	}
	if got := f(0.77); got != display.Hi {
		t.Errorf("f(max) = %v, want exactly %v", got, display.Hi)
	}
}

func TestLinear_Degenerate(t *testing.T) {
	f := Linear(Range{Min: 7, Max: 7}, fixed(DisplayRange{Lo: 6, Hi: 12}))

	for _, v := range []float64{0, 7, 50} {
		if got := f(v); got != 6 {
			t.Errorf("f(%v) = %v, want 6 (low end)", v, got)
		}
	}
}

func TestLinear_LiveDisplayRange(t *testing.T) {
	current := DisplayRange{Lo: 3, Hi: 20}
	f := Linear(Range{Min: 0, Max: 10}, func() DisplayRange { return current })

	if got := f(10); got != 20 {
		t.Fatalf("f(10) = %v, want 20", got)
	}

	current = DisplayRange{Lo: 5, Hi: 8}
	if got := f(10); got != 8 {
		t.Errorf("after moving the range f(10) = %v, want 8", got)
	}
	if got := f(0); got != 5 {
		t.Errorf("after moving the range f(0) = %v, want 5", got)
	}
}

func TestDisplayRange_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   DisplayRange
		want DisplayRange
	}{
		{"in bounds", DisplayRange{5, 10}, DisplayRange{5, 10}},
		{"clamped", DisplayRange{0, 40}, DisplayRange{3, 20}},
		{"swapped", DisplayRange{15, 4}, DisplayRange{4, 15}},
		{"nan", DisplayRange{math.NaN(), 9}, DisplayRange{3, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLinearProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	observed := Range{Min: -50, Max: 50}

	properties.Property("monotonic non-decreasing", prop.ForAll(
		func(a, b, lo, hi float64) bool {
			d := DisplayRange{Lo: lo, Hi: hi}.Normalize()
			f := Linear(observed, fixed(d))
			if a > b {
				a, b = b, a
			}
			return f(a) <= f(b)
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
		gen.Float64Range(MinSize, MaxSize),
		gen.Float64Range(MinSize, MaxSize),
	))

	properties.Property("output stays inside display range", prop.ForAll(
		func(v, lo, hi float64) bool {
			d := DisplayRange{Lo: lo, Hi: hi}.Normalize()
			got := Linear(observed, fixed(d))(v)
			return got >= d.Lo && got <= d.Hi
		},
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(MinSize, MaxSize),
		gen.Float64Range(MinSize, MaxSize),
	))

	properties.TestingRun(t)
}
