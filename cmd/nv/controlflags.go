package main

import (
	"github.com/matsen/netviz/internal/config"
	"github.com/matsen/netviz/internal/controls"
	"github.com/spf13/cobra"
)

// controlFlags are per-invocation overrides of the saved control state.
type controlFlags struct {
	metric         string
	sizeThreshold  float64
	labelThreshold float64
	labels         bool
	gated          bool
	lo, hi         float64
}

func (f *controlFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.metric, "metric", "", "Sizing metric (overrides saved controls)")
	cmd.Flags().Float64Var(&f.sizeThreshold, "threshold", 0, "Size threshold for node visibility")
	cmd.Flags().Float64Var(&f.labelThreshold, "label-threshold", 0, "Size threshold for label visibility")
	cmd.Flags().BoolVar(&f.labels, "labels", false, "Show labels")
	cmd.Flags().BoolVar(&f.gated, "gate", true, "Hide nodes below the size threshold")
	cmd.Flags().Float64Var(&f.lo, "lo", 0, "Low end of the display size range")
	cmd.Flags().Float64Var(&f.hi, "hi", 0, "High end of the display size range")
}

// apply overlays the flags the user actually set onto the saved state and
// returns a panel holding the result.
func (f *controlFlags) apply(cmd *cobra.Command, cfg *config.Config) *controls.Panel {
	state := cfg.ControlState()
	flags := cmd.Flags()
	if flags.Changed("metric") {
		if err := config.ValidateMetric(f.metric); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		state.Metric = f.metric
	}
	if flags.Changed("threshold") {
		state.SizeThreshold = f.sizeThreshold
	}
	if flags.Changed("label-threshold") {
		state.LabelThreshold = f.labelThreshold
	}
	if flags.Changed("labels") {
		state.Labels = f.labels
	}
	if flags.Changed("gate") {
		state.SizeGated = f.gated
	}
	if flags.Changed("lo") {
		state.Display.Lo = f.lo
	}
	if flags.Changed("hi") {
		state.Display.Hi = f.hi
	}

	panel := controls.NewPanel()
	panel.Apply(state)
	return panel
}
