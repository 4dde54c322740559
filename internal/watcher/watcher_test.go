package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the Watcher:
// - relevant() keeps only watched extensions and mutating ops
// - A burst of writes debounces into a single onChange call
// - Cancelling the context stops Run

func TestRelevant(t *testing.T) {
	t.Parallel()

	w := &Watcher{extensions: map[string]bool{".ts": true, ".js": true}}

	assert.True(t, w.relevant(fsnotify.Event{Name: "a.ts", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "b.js", Op: fsnotify.Create}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "a.ts", Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "a.css", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "a.ts", Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "noext", Op: fsnotify.Write}))
}

func TestRun_DebouncedChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.ts"), []byte("export const x = 1;\n"), 0o644))

	w, err := New(root, []string{".ts"})
	require.NoError(t, err)
	w.debounceTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before mutating.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.ts"), []byte("export const x = 2;\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a debounced change notification")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
