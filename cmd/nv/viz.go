package main

import (
	"os"

	"github.com/matsen/netviz/internal/frame"
	"github.com/matsen/netviz/internal/sizing"
	"github.com/matsen/netviz/internal/viz"
	"github.com/spf13/cobra"
)

var (
	vizOutput   string
	vizLayout   string
	vizLibrary  string
	vizTitle    string
	vizControls controlFlags
)

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "force", "Layout algorithm: force, circle, or grid")
	vizCmd.Flags().StringVar(&vizLibrary, "library", "", "Path to cytoscape.min.js to inline for offline use")
	vizCmd.Flags().StringVar(&vizTitle, "title", "Network", "Page title")
	vizControls.register(vizCmd)
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate a network visualization",
	Long: `Generate an interactive HTML snapshot of the network.

Nodes are sized and hidden according to the current controls, and colored
by type. Control flags override the saved state for this snapshot.

Examples:
  nv viz > network.html
  nv viz --metric degree --threshold 15 --labels -o network.html
  nv viz --library ./cytoscape.min.js -o offline.html`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	if err := viz.ValidateLayout(vizLayout); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	ds := mustLoadDataset(repoRoot, cfg)
	panel := vizControls.apply(cmd, cfg)

	f := frame.Build(sizing.NewResolver(ds, panel), ds)

	opts := viz.DefaultOptions()
	opts.Layout = vizLayout
	opts.Title = vizTitle
	opts.Directed = ds.Directed
	if vizLibrary != "" {
		lib, err := os.ReadFile(vizLibrary)
		if err != nil {
			exitWithError(ExitError, "reading library: %v", err)
		}
		opts.Library = string(lib)
	}

	html, err := viz.GenerateHTML(viz.BuildGraph(f, ds), opts)
	if err != nil {
		exitWithError(ExitError, "generating HTML: %v", err)
	}
	writeOutput(vizOutput, []byte(html))
	return nil
}
