package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/matsen/netviz/internal/config"
	"github.com/matsen/netviz/internal/controls"
	"github.com/matsen/netviz/internal/server"
	"github.com/matsen/netviz/internal/viz"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveWatch   bool
	serveRate    float64
	serveBurst   int
	servePersist bool
	serveLayout  string
	serveRefresh int
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: global listen setting, then "+config.DefaultListen+")")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the dataset when its JSONL files change")
	serveCmd.Flags().Float64Var(&serveRate, "rate", server.DefaultRateLimit, "Requests per second allowed on data endpoints")
	serveCmd.Flags().IntVar(&serveBurst, "burst", server.DefaultBurst, "Rate limiter burst size")
	serveCmd.Flags().BoolVar(&servePersist, "persist", true, "Save control changes to the repository config")
	serveCmd.Flags().StringVar(&serveLayout, "layout", "force", "Layout algorithm for /viz: force, circle, or grid")
	serveCmd.Flags().IntVar(&serveRefresh, "refresh", 500, "Milliseconds between frame polls on /viz")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the network and its controls over HTTP",
	Long: `Serve the annotated network, frames and the control panel over HTTP.

Endpoints:
  GET /network.json?min_degree=N&type=T   node-link JSON
  GET /adjacency.json                     adjacency matrix
  GET /ego.json?id=X&radius=R             ego network
  GET /node.json?id=X                     one node
  GET /frame.json                         sizes and visibility
  GET /selectable.json                    metrics with observed ranges
  GET|PUT /controls                       control panel state
  GET /viz                                live page polling /frame.json
  GET /health, /metrics                   liveness, Prometheus metrics

Examples:
  nv serve
  nv serve --addr :9000 --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := viz.ValidateLayout(serveLayout); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	addr := serveAddr
	if addr == "" {
		addr = config.GetListen()
	}

	page := viz.DefaultOptions()
	page.Layout = serveLayout
	page.Directed = cfg.Directed
	page.FrameURL = "/frame.json"
	page.RefreshMs = serveRefresh

	opts := server.Options{
		Addr:      addr,
		Load:      datasetLoader(repoRoot, cfg.Directed),
		Panel:     mustPanel(cfg),
		RateLimit: serveRate,
		Burst:     serveBurst,
		Page:      page,
	}
	if serveWatch {
		opts.Watch = []string{config.NodesPath(repoRoot), config.LinksPath(repoRoot)}
	}
	if servePersist {
		var mu sync.Mutex
		opts.Persist = func(s controls.State) error {
			mu.Lock()
			defer mu.Unlock()
			cfg.Controls = &s
			return cfg.Save(repoRoot)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if humanOutput {
		outputHuman("Serving %s on http://%s\n", repoRoot, addr)
	}
	slog.Info("starting server", "repo", repoRoot, "addr", addr, "watch", serveWatch)

	if err := server.New(opts).Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
