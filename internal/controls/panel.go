// Package controls holds the user-adjustable control panel state that the
// sizing resolvers read on every query.
package controls

import (
	"sync"

	"github.com/matsen/netviz/internal/metric"
	"github.com/matsen/netviz/internal/scale"
)

// State is a plain snapshot of the control panel.
type State struct {
	Metric         string             `json:"metric" yaml:"metric"`
	Display        scale.DisplayRange `json:"display_range" yaml:"display_range"`
	SizeThreshold  float64            `json:"size_threshold" yaml:"size_threshold"`
	LabelThreshold float64            `json:"label_threshold" yaml:"label_threshold"`
	Labels         bool               `json:"labels" yaml:"labels"`
	SizeGated      bool               `json:"size_gated" yaml:"size_gated"`
}

// DefaultState has no metric selected, the full display range, both
// thresholds at the low end, labels off and size gating on.
func DefaultState() State {
	return State{
		Display:        scale.DefaultDisplayRange(),
		SizeThreshold:  scale.MinSize,
		LabelThreshold: scale.MinSize,
		SizeGated:      true,
	}
}

// Normalize clamps every numeric control into the allowed size bound.
// Unknown metric keys are kept; the resolver treats them as unselected.
func (s State) Normalize() State {
	s.Display = s.Display.Normalize()
	s.SizeThreshold = scale.ClampSize(s.SizeThreshold)
	s.LabelThreshold = scale.ClampSize(s.LabelThreshold)
	return s
}

// Panel is the live control state. Setters model direct user input and
// clamp at the input boundary; getters satisfy sizing.Controls.
type Panel struct {
	mu    sync.RWMutex
	state State
}

// NewPanel returns a panel holding the default state.
func NewPanel() *Panel {
	return &Panel{state: DefaultState()}
}

// Snapshot returns the current state.
func (p *Panel) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Apply replaces the whole state, normalized.
func (p *Panel) Apply(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s.Normalize()
}

// SelectMetric sets the sizing metric. An empty key clears the selection.
// It reports whether the key is registered.
func (p *Panel) SelectMetric(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Metric = key
	if key == "" {
		return true
	}
	_, ok := metric.Lookup(key)
	return ok
}

// SetDisplayRange moves both slider handles.
func (p *Panel) SetDisplayRange(lo, hi float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Display = scale.DisplayRange{Lo: lo, Hi: hi}.Normalize()
}

// SetSizeThreshold sets the node size cutoff.
func (p *Panel) SetSizeThreshold(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.SizeThreshold = scale.ClampSize(v)
}

// SetLabelThreshold sets the label size cutoff.
func (p *Panel) SetLabelThreshold(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.LabelThreshold = scale.ClampSize(v)
}

// EnableLabels toggles labels globally.
func (p *Panel) EnableLabels(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Labels = on
}

// GateBySize toggles whether the size threshold hides nodes.
func (p *Panel) GateBySize(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.SizeGated = on
}

func (p *Panel) SelectedMetric() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Metric
}

func (p *Panel) DisplayRange() scale.DisplayRange {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Display
}

func (p *Panel) SizeThreshold() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.SizeThreshold
}

func (p *Panel) LabelThreshold() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.LabelThreshold
}

func (p *Panel) LabelsEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Labels
}

func (p *Panel) SizeGated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.SizeGated
}
