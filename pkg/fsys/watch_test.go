package fsys

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsCreate(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	require.NoError(t, w.Watch(dir))
	assert.Equal(t, dir, w.Dir())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), nil, 0o644))

	select {
	case got := <-w.Changes():
		assert.Equal(t, dir, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherSwitchDir(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b))
	assert.Equal(t, b, w.Dir())
	require.NoError(t, w.Watch(""))
	assert.Empty(t, w.Dir())

	assert.Error(t, w.Watch(filepath.Join(a, "missing")))
	assert.Empty(t, w.Dir())
}
