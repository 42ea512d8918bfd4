package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsnotify/fsnotify"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
)

// countingIndexer records reindex invocations. The first busyRuns calls
// report a busy controller before the indexer starts succeeding.
type countingIndexer struct {
	mu       sync.Mutex
	runs     int
	busyRuns int
	err      error
	runCh    chan struct{}
}

func (c *countingIndexer) Reindex(context.Context, []string) (*domain.IndexingSummary, error) {
	c.mu.Lock()
	c.runs++
	busy := c.runs <= c.busyRuns
	c.mu.Unlock()
	if c.runCh != nil {
		select {
		case c.runCh <- struct{}{}:
		default:
		}
	}
	if busy {
		return nil, domain.ErrBusy
	}
	if c.err != nil {
		return nil, c.err
	}
	return &domain.IndexingSummary{}, nil
}

func (c *countingIndexer) Clear(context.Context) error { return nil }

func (c *countingIndexer) Stats(context.Context) (*driving.IndexStats, error) {
	return &driving.IndexStats{}, nil
}

func (c *countingIndexer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

func TestWatcherTriggersReindexAfterQuietPeriod(t *testing.T) {
	dir := t.TempDir()
	indexer := &countingIndexer{runCh: make(chan struct{}, 1)}
	w := New(indexer, []string{dir}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("content"), 0o644))

	select {
	case <-indexer.runCh:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reindex run after the debounce interval")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 1, indexer.count())
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	indexer := &countingIndexer{runCh: make(chan struct{}, 4)}
	w := New(indexer, []string{dir}, WithDebounce(150*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "burst.txt"), []byte{byte(i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-indexer.runCh:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reindex run")
	}
	// The burst collapsed into one run; allow the debounce window to pass
	// again to be sure no second run fires.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, indexer.count())
}

func TestWatcherToleratesBusyIndexer(t *testing.T) {
	dir := t.TempDir()
	indexer := &countingIndexer{err: domain.ErrBusy, runCh: make(chan struct{}, 1)}
	w := New(indexer, []string{dir}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0o644))

	select {
	case <-indexer.runCh:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reindex attempt")
	}

	// A busy rejection must not kill the watch loop.
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherRetriesBurstAfterBusy(t *testing.T) {
	dir := t.TempDir()
	indexer := &countingIndexer{busyRuns: 1, runCh: make(chan struct{}, 4)}
	w := New(indexer, []string{dir}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0o644))

	// First attempt hits the busy controller; the burst is kept and
	// retried after the next quiet period without a new file event.
	for i := 0; i < 2; i++ {
		select {
		case <-indexer.runCh:
		case <-time.After(3 * time.Second):
			t.Fatalf("expected reindex attempt %d", i+1)
		}
	}
	assert.GreaterOrEqual(t, indexer.count(), 2)
}

func TestRelevantFiltersNoise(t *testing.T) {
	assert.False(t, relevant(fsnotify.Event{Name: "/d/.hidden", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "/d/file.txt~", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "/d/file.txt", Op: fsnotify.Chmod}))
	assert.True(t, relevant(fsnotify.Event{Name: "/d/file.txt", Op: fsnotify.Write}))
}
