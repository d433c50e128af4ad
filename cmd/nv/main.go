// Package main provides the nv CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/netviz/internal/annotate"
	"github.com/matsen/netviz/internal/config"
	"github.com/matsen/netviz/internal/controls"
	"github.com/matsen/netviz/internal/network"
	"github.com/matsen/netviz/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// repoFlag points at a repository explicitly
	repoFlag string
	logLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nv",
	Short: "Network sizing and visibility CLI",
	Long: `nv loads a network dataset, annotates it with graph metrics, and
resolves node sizes and node, label and link visibility from a set of
controls.

Data is stored in git-versionable JSONL with an ephemeral SQLite cache.
All commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		initLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "Repository root (default: enclosing directory, then nexus_path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.Version = Version
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	repoRoot, err := config.ResolveRepository(repoFlag)
	if err != nil {
		if repoFlag != "" {
			exitWithError(ExitConfigError, "%v", err)
		}
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// loadDataset reads the repository's JSONL files and computes every
// metric no node carries yet. Stored values are left alone.
func loadDataset(repoRoot string, directed bool) (*network.Dataset, error) {
	ds, err := storage.ReadDataset(config.NodesPath(repoRoot), config.LinksPath(repoRoot), directed)
	if err != nil {
		return nil, err
	}
	if err := annotate.Annotate(ds, missingFields(ds)...); err != nil {
		return nil, err
	}
	return ds, nil
}

// missingFields lists the annotatable metrics absent from every node.
func missingFields(ds *network.Dataset) []string {
	var missing []string
	for _, key := range annotate.AllFields {
		present := false
		for _, n := range ds.Nodes {
			if _, ok := n.Value(key); ok {
				present = true
				break
			}
		}
		if !present {
			missing = append(missing, key)
		}
	}
	return missing
}

// mustLoadDataset is loadDataset for commands, exits on error.
func mustLoadDataset(repoRoot string, cfg *config.Config) *network.Dataset {
	ds, err := loadDataset(repoRoot, cfg.Directed)
	if err != nil {
		exitWithError(ExitDataError, "loading dataset: %v", err)
	}
	return ds
}

// datasetLoader adapts loadDataset for the server, which reloads from disk.
func datasetLoader(repoRoot string, directed bool) func(context.Context) (*network.Dataset, error) {
	return func(ctx context.Context) (*network.Dataset, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return loadDataset(repoRoot, directed)
	}
}

// mustPanel returns a control panel seeded from the repository's saved
// state, the global default, or the built-in defaults, in that order.
func mustPanel(cfg *config.Config) *controls.Panel {
	panel := controls.NewPanel()
	panel.Apply(cfg.ControlState())
	return panel
}
