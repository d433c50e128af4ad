package main

import (
	"os"
	"path/filepath"

	"github.com/matsen/netviz/internal/config"
	"github.com/spf13/cobra"
)

var initDirected bool

func init() {
	initCmd.Flags().BoolVar(&initDirected, "directed", false, "Treat links as directed")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a new netviz repository",
	Long: `Initialize a new netviz repository in the given directory (default: current).

Creates:
  .netviz/
  ├── nodes.jsonl     # Empty file
  ├── links.jsonl     # Empty file
  ├── config.json     # Default config
  └── cache/          # Empty directory (gitignored)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		exitWithError(ExitError, "resolving path: %v", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		exitWithError(ExitError, "creating directory: %v", err)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a netviz repository")
	}

	if err := config.Init(root, &config.Config{Directed: initDirected}); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Initialized netviz repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}

	return nil
}
