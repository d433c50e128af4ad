package main

import (
	"github.com/matsen/netviz/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query cache from source data",
	Long: `Rebuild the SQLite cache from the nodes and links JSONL files.

Use this after pulling changes from git or if the cache becomes corrupted.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Nodes  int    `json:"nodes"`
	Links  int    `json:"links"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	nodes, links, err := db.RebuildFromJSONL(config.NodesPath(repoRoot), config.LinksPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		outputHuman("Rebuilt cache with %d nodes and %d links\n", nodes, links)
	} else {
		outputJSON(RebuildResult{
			Status: "rebuilt",
			Nodes:  nodes,
			Links:  links,
		})
	}

	return nil
}
