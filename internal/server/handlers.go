package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/matsen/netviz/internal/annotate"
	"github.com/matsen/netviz/internal/frame"
	"github.com/matsen/netviz/internal/metric"
	"github.com/matsen/netviz/internal/network"
	"github.com/matsen/netviz/internal/viz"
)

// maxControlsBody bounds PUT /controls payloads.
const maxControlsBody = 64 << 10

// AdjacencyResponse pairs the matrix with its row and column order.
type AdjacencyResponse struct {
	Nodes  []string    `json:"nodes"`
	Matrix [][]float64 `json:"matrix"`
}

// EgoResponse is the ego network with the radius actually used.
type EgoResponse struct {
	Center string           `json:"center"`
	Radius int              `json:"radius"`
	Graph  *network.Dataset `json:"graph"`
}

// NodeResponse describes one node and its direct neighbors.
type NodeResponse struct {
	Node      network.Node `json:"node"`
	Size      float64      `json:"size"`
	Visible   string       `json:"visible"`
	Neighbors []string     `json:"neighbors"`
}

// SelectableMetric is a metric the loaded dataset can be sized by.
type SelectableMetric struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// current fetches the published snapshot or writes a 503.
func (s *Server) current(w http.ResponseWriter) (*snapshot, bool) {
	snap, err := s.data.get()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no_dataset", err.Error())
		return nil, false
	}
	return snap, true
}

// filtered applies the optional min_degree and type query filters. A
// filtered dataset is re-annotated so its metrics describe the subgraph.
func filtered(w http.ResponseWriter, r *http.Request, ds *network.Dataset) (*network.Dataset, bool) {
	q := r.URL.Query()
	minDegree := 0
	if raw := q.Get("min_degree"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "min_degree must be an integer")
			return nil, false
		}
		minDegree = v
	}
	out, err := annotate.Filtered(ds, minDegree, q["type"]...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "annotate", err.Error())
		return nil, false
	}
	return out, true
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	ds, ok := filtered(w, r, snap.ds)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleAdjacency(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	ds, ok := filtered(w, r, snap.ds)
	if !ok {
		return
	}
	ids := make([]string, len(ds.Nodes))
	for i, n := range ds.Nodes {
		ids[i] = n.ID
	}
	writeJSON(w, http.StatusOK, AdjacencyResponse{Nodes: ids, Matrix: annotate.Adjacency(ds)})
}

// handleEgo serves the neighborhood of ?id. An unparsable radius falls
// back to the minimum.
func (s *Server) handleEgo(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	center := q.Get("id")
	if center == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "id is required")
		return
	}
	radius, err := strconv.Atoi(q.Get("radius"))
	if err != nil {
		radius = annotate.MinEgoRadius
	}

	ego, used, err := annotate.EgoGraph(snap.ds, center, radius, q["type"]...)
	if err != nil {
		if errors.Is(err, network.ErrUnknownNode) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "ego", err.Error())
		return
	}
	if err := annotate.Annotate(ego, annotate.AllFields...); err != nil {
		writeError(w, http.StatusInternalServerError, "annotate", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EgoResponse{Center: center, Radius: used, Graph: ego})
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	n, found := snap.ds.Node(id)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "unknown node: "+id)
		return
	}

	g := snap.ds.UndirectedGraph()
	gid, _ := g.ID(id)
	neighbors := []string{}
	for _, nb := range g.Neighbors(gid) {
		neighbors = append(neighbors, g.Name(nb))
	}

	writeJSON(w, http.StatusOK, NodeResponse{
		Node:      n,
		Size:      snap.resolver.ResolveSize(n),
		Visible:   snap.resolver.NodeShown(n).String(),
		Neighbors: neighbors,
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	f := frame.Build(snap.resolver, snap.ds)
	s.metrics.RecordFrame(f.VisibleNodes, f.VisibleLinks)
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleSelectable(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	out := []SelectableMetric{}
	for _, d := range snap.resolver.Selectable() {
		observed, _ := snap.resolver.Range(d.Key)
		out = append(out, SelectableMetric{Key: d.Key, Label: d.Label, Min: observed.Min, Max: observed.Max})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.panel.Snapshot())
}

// handlePutControls merges the body over the current state, so clients
// may send only the fields they change. Values are clamped, not rejected;
// an unregistered metric key is rejected.
func (s *Server) handlePutControls(w http.ResponseWriter, r *http.Request) {
	state := s.panel.Snapshot()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxControlsBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid controls: "+err.Error())
		return
	}
	if state.Metric != "" {
		if _, ok := metric.Lookup(state.Metric); !ok {
			writeError(w, http.StatusBadRequest, "unknown_metric", "unknown metric: "+state.Metric)
			return
		}
	}

	s.panel.Apply(state)
	applied := s.panel.Snapshot()
	if s.opts.Persist != nil {
		if err := s.opts.Persist(applied); err != nil {
			writeError(w, http.StatusInternalServerError, "persist", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, applied)
}

func (s *Server) handleViz(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	opts := s.opts.Page
	if opts.Layout == "" {
		opts.Layout = viz.DefaultOptions().Layout
	}
	opts.Directed = snap.ds.Directed
	opts.FrameURL = "/frame.json"
	if opts.RefreshMs <= 0 {
		opts.RefreshMs = 1000
	}

	f := frame.Build(snap.resolver, snap.ds)
	page, err := viz.GenerateHTML(viz.BuildGraph(f, snap.ds), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if snap, err := s.data.get(); err == nil {
		resp["nodes"] = len(snap.ds.Nodes)
		resp["links"] = len(snap.ds.Links)
		resp["loaded_at"] = snap.loadedAt.Format(time.RFC3339)
	} else {
		resp["status"] = "loading"
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// JSON response helpers
// ---------------------------------------------------------------------------

// writeJSON writes an arbitrary value as JSON with the given HTTP status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a standardised JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
