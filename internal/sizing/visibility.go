package sizing

import (
	"fmt"

	"github.com/matsen/netviz/internal/network"
)

// Visibility is the binary rendered/not-rendered state of a node, label or
// edge.
type Visibility bool

const (
	Hidden  Visibility = false
	Visible Visibility = true
)

func (v Visibility) String() string {
	if v {
		return "visible"
	}
	return "hidden"
}

// MarshalText encodes the state as "visible" or "hidden".
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts "visible" or "hidden".
func (v *Visibility) UnmarshalText(b []byte) error {
	switch string(b) {
	case "visible":
		*v = Visible
	case "hidden":
		*v = Hidden
	default:
		return fmt.Errorf("invalid visibility %q", b)
	}
	return nil
}

// BothVisible is the boolean AND of two visibility states. Edge visibility
// is BothVisible of its endpoints.
func BothVisible(a, b Visibility) Visibility {
	return a && b
}

func visibleIf(ok bool) Visibility {
	return Visibility(ok)
}

// NodeVisible reports whether n's resolved size reaches the size threshold.
func (r *Resolver) NodeVisible(n network.Node) Visibility {
	return visibleIf(r.ResolveSize(n) >= r.controls.SizeThreshold())
}

// NodesGated reports whether node visibility is gated by size at all.
func (r *Resolver) NodesGated() bool {
	return r.controls.SizeGated()
}

// NodeShown is the visibility used for rendering: the size threshold
// applies only while gating is on.
func (r *Resolver) NodeShown(n network.Node) Visibility {
	if !r.NodesGated() {
		return Visible
	}
	return r.NodeVisible(n)
}

// LabelVisible reports whether n's label is rendered. Labels are hidden
// whenever they are globally disabled; otherwise the resolved size is
// compared against the label threshold.
func (r *Resolver) LabelVisible(n network.Node) Visibility {
	if !r.controls.LabelsEnabled() {
		return Hidden
	}
	return visibleIf(r.ResolveSize(n) >= r.controls.LabelThreshold())
}

// LabelsShown is the global label toggle.
func (r *Resolver) LabelsShown() Visibility {
	return visibleIf(r.controls.LabelsEnabled())
}

// LinkShown derives edge visibility from its two endpoint nodes.
func (r *Resolver) LinkShown(source, target network.Node) Visibility {
	return BothVisible(r.NodeShown(source), r.NodeShown(target))
}

// LabelShown is the label state used for rendering: a label is drawn only
// when both the label and its node are.
func (r *Resolver) LabelShown(n network.Node) Visibility {
	return BothVisible(r.LabelVisible(n), r.NodeShown(n))
}
