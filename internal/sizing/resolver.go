// Package sizing resolves rendered node sizes and node, label and edge
// visibility from the current control state.
//
// A Resolver is built once per loaded dataset. Every query re-reads the
// injected Controls, so the hosting loop can call it on each animation tick
// and always see the latest slider and toggle positions.
package sizing

import (
	"github.com/matsen/netviz/internal/metric"
	"github.com/matsen/netviz/internal/network"
	"github.com/matsen/netviz/internal/scale"
)

// DefaultSize is used when no usable metric is selected.
const DefaultSize = 5.0

// Controls is read-only access to the current control panel state.
type Controls interface {
	SelectedMetric() string
	DisplayRange() scale.DisplayRange
	SizeThreshold() float64
	LabelThreshold() float64
	LabelsEnabled() bool
	SizeGated() bool
}

// Resolver derives sizes and visibility for nodes of one dataset.
// It is immutable after construction and safe for concurrent use as long
// as the Controls implementation is.
type Resolver struct {
	controls   Controls
	ranges     map[string]scale.Range
	scales     map[string]scale.Func
	selectable []metric.Descriptor
}

// NewResolver computes the observed range of every registered metric over
// ds and binds a live scale for each metric the dataset carries.
func NewResolver(ds *network.Dataset, controls Controls) *Resolver {
	r := &Resolver{
		controls: controls,
		ranges:   make(map[string]scale.Range),
		scales:   make(map[string]scale.Func),
	}
	var nodes []network.Node
	if ds != nil {
		nodes = ds.Nodes
	}
	for _, d := range metric.All() {
		observed, ok := scale.Observe(nodes, d.Value)
		if !ok {
			continue
		}
		r.ranges[d.Key] = observed
		r.scales[d.Key] = scale.Linear(observed, controls.DisplayRange)
		r.selectable = append(r.selectable, d)
	}
	return r
}

// Selectable returns the metrics the dataset carries, in registry order.
// Only these may be offered as a sizing basis.
func (r *Resolver) Selectable() []metric.Descriptor {
	out := make([]metric.Descriptor, len(r.selectable))
	copy(out, r.selectable)
	return out
}

// Range returns the observed range for a metric key.
func (r *Resolver) Range(key string) (scale.Range, bool) {
	observed, ok := r.ranges[key]
	return observed, ok
}

// Selected returns the selected metric key if it currently drives sizing,
// or "" when sizes fall back to DefaultSize.
func (r *Resolver) Selected() string {
	key := r.controls.SelectedMetric()
	if _, ok := r.scales[key]; !ok {
		return ""
	}
	return key
}

// ResolveSize returns the display size of n under the selected metric.
// An unknown or unselected metric, a metric absent from the dataset, or a
// node without a value all degrade to DefaultSize.
func (r *Resolver) ResolveSize(n network.Node) float64 {
	d, ok := metric.Lookup(r.controls.SelectedMetric())
	if !ok {
		return DefaultSize
	}
	f, ok := r.scales[d.Key]
	if !ok {
		return DefaultSize
	}
	v, ok := d.Value(n)
	if !ok {
		return DefaultSize
	}
	return f(v)
}
