package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matsen/netviz/internal/network"
	"github.com/matsen/netviz/internal/sizing"
)

// ErrNoDataset is returned before the first successful load.
var ErrNoDataset = errors.New("no dataset loaded")

// Loader produces a fresh, annotated dataset.
type Loader func(ctx context.Context) (*network.Dataset, error)

// snapshot pairs a dataset with the resolver built over it. Both are
// read-only once published.
type snapshot struct {
	ds       *network.Dataset
	resolver *sizing.Resolver
	loadedAt time.Time
}

// holder publishes snapshots. Readers take the current pointer and never
// see a dataset swapped mid-request.
type holder struct {
	mu       sync.RWMutex
	current  *snapshot
	controls sizing.Controls
}

func (h *holder) get() (*snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return nil, ErrNoDataset
	}
	return h.current, nil
}

// set builds a resolver for ds, recomputing observed ranges, and publishes it.
func (h *holder) set(ds *network.Dataset) *snapshot {
	s := &snapshot{
		ds:       ds,
		resolver: sizing.NewResolver(ds, h.controls),
		loadedAt: time.Now(),
	}
	h.mu.Lock()
	h.current = s
	h.mu.Unlock()
	return s
}
