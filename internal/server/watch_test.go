package server

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "nodes.jsonl")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, nil, 0644))

	var changes atomic.Int32
	w, err := NewWatcher([]string{watched},
		WithDebounce(100*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register its directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(watched, []byte(`{"id":"a"}`+"\n"), 0644))
	}

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), changes.Load(), "burst of writes should coalesce")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcher_DedupesDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]string{filepath.Join(dir, "a"), filepath.Join(dir, "b")})
	require.NoError(t, err)
	defer w.Close()
	assert.Len(t, w.dirs, 1)
	assert.Len(t, w.files, 2)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "gone", "nodes.jsonl")})
	assert.Error(t, err)
}
