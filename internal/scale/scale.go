// Package scale maps raw metric values onto rendered node sizes.
package scale

import (
	"math"

	"github.com/matsen/netviz/internal/network"
)

// Bounds for every rendered size, display range end and threshold.
// Sizes below MinSize are imperceptible.
const (
	MinSize = 3.0
	MaxSize = 20.0
)

// Range is the observed minimum and maximum of a metric over a dataset.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Degenerate reports whether every node shares the same value.
func (r Range) Degenerate() bool {
	return r.Min == r.Max
}

// Observe computes the range of value over nodes. The metric counts as
// present only if the first node carries it; nodes lacking a value (or
// carrying NaN) are skipped.
func Observe(nodes []network.Node, value func(network.Node) (float64, bool)) (Range, bool) {
	if len(nodes) == 0 {
		return Range{}, false
	}
	if _, ok := value(nodes[0]); !ok {
		return Range{}, false
	}

	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, n := range nodes {
		v, ok := value(n)
		if !ok || math.IsNaN(v) {
			continue
		}
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	if math.IsInf(r.Min, 1) {
		return Range{}, false
	}
	return r, true
}

// DisplayRange is the user-chosen smallest and largest rendered size.
type DisplayRange struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// DefaultDisplayRange spans the full allowed size bound.
func DefaultDisplayRange() DisplayRange {
	return DisplayRange{Lo: MinSize, Hi: MaxSize}
}

// Normalize clamps both ends into [MinSize, MaxSize] and orders them.
func (d DisplayRange) Normalize() DisplayRange {
	lo, hi := ClampSize(d.Lo), ClampSize(d.Hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	return DisplayRange{Lo: lo, Hi: hi}
}

// ClampSize clamps v into [MinSize, MaxSize]. NaN maps to MinSize.
func ClampSize(v float64) float64 {
	if math.IsNaN(v) || v < MinSize {
		return MinSize
	}
	if v > MaxSize {
		return MaxSize
	}
	return v
}

// Func maps a raw metric value to a display size.
type Func func(v float64) float64

// Linear returns a scale from observed onto the display range. The display
// range is read through display on every call, so moving the range takes
// effect without rebuilding the scale. Values outside the observed range
// clamp to the display ends; a degenerate observed range maps everything
// to the low end.
func Linear(observed Range, display func() DisplayRange) Func {
	return func(v float64) float64 {
		d := display()
		switch {
		case observed.Degenerate():
			return d.Lo
		case math.IsNaN(v), v <= observed.Min:
			return d.Lo
		case v >= observed.Max:
			return d.Hi
		}
		size := d.Lo + (v-observed.Min)/(observed.Max-observed.Min)*(d.Hi-d.Lo)
		return math.Min(math.Max(size, d.Lo), d.Hi)
	}
}
