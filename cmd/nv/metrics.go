package main

import (
	"github.com/matsen/netviz/internal/controls"
	"github.com/matsen/netviz/internal/sizing"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(metricsCmd)
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the metrics the dataset can be sized by",
	Long: `List the metrics carried by the dataset, with their observed ranges.

Only these metrics may be selected as a sizing basis.`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

// MetricInfo describes one selectable metric.
type MetricInfo struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func runMetrics(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	ds := mustLoadDataset(repoRoot, cfg)

	r := sizing.NewResolver(ds, controls.NewPanel())
	out := []MetricInfo{}
	for _, d := range r.Selectable() {
		observed, _ := r.Range(d.Key)
		out = append(out, MetricInfo{Key: d.Key, Label: d.Label, Min: observed.Min, Max: observed.Max})
	}

	if humanOutput {
		if len(out) == 0 {
			outputHuman("No selectable metrics. Run 'nv annotate' first.\n")
			return nil
		}
		for _, m := range out {
			outputHuman("%-14s %-24s %s .. %s\n", m.Key, m.Label, formatFloat(m.Min), formatFloat(m.Max))
		}
		return nil
	}
	outputJSON(out)
	return nil
}
