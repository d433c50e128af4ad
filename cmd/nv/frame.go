package main

import (
	"github.com/matsen/netviz/internal/frame"
	"github.com/matsen/netviz/internal/sizing"
	"github.com/spf13/cobra"
)

var frameControls controlFlags

func init() {
	frameControls.register(frameCmd)
	rootCmd.AddCommand(frameCmd)
}

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Evaluate sizes and visibility for every node and link",
	Long: `Evaluate one full frame: node sizes, node and label visibility, and
link visibility. This is the same document the server returns from
/frame.json.`,
	Args: cobra.NoArgs,
	RunE: runFrame,
}

func runFrame(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	ds := mustLoadDataset(repoRoot, cfg)
	panel := frameControls.apply(cmd, cfg)

	f := frame.Build(sizing.NewResolver(ds, panel), ds)

	if humanOutput {
		outputHuman("%d of %d nodes and %d of %d links visible\n",
			f.VisibleNodes, len(f.Nodes), f.VisibleLinks, len(f.Links))
		return nil
	}
	outputJSON(f)
	return nil
}
