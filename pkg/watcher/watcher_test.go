package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newWatcher(t *testing.T, debounce time.Duration) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(debounce, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Close() })
	return fw
}

func TestWatchTriggersHandler(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "part.ply")
	require.NoError(t, os.WriteFile(file, []byte("ply\n"), 0644))

	fw := newWatcher(t, 20*time.Millisecond)
	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{file}, func(path string) { changed <- path }))
	fw.Start()

	require.NoError(t, os.WriteFile(file, []byte("ply\nformat ascii 1.0\n"), 0644))

	select {
	case path := <-changed:
		want, _ := filepath.Abs(file)
		assert.Equal(t, want, path)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
}

func TestDebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "part.obj")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	fw := newWatcher(t, 300*time.Millisecond)
	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{file}, func(path string) { changed <- path }))
	fw.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte{byte('a' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	select {
	case <-changed:
		t.Error("burst triggered more than one call")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "watched.stl")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	fw := newWatcher(t, 10*time.Millisecond)
	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{file}, func(path string) { changed <- path }))
	fw.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.stl"), []byte("x"), 0644))

	select {
	case path := <-changed:
		t.Errorf("unexpected call for %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRemoveAll(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.ply")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	fw := newWatcher(t, 10*time.Millisecond)
	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{file}, func(path string) { changed <- path }))
	fw.Start()
	require.NoError(t, fw.RemoveAll())

	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	select {
	case <-changed:
		t.Error("handler called after RemoveAll")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	fw := newWatcher(t, time.Millisecond)
	err := fw.Watch([]string{filepath.Join(t.TempDir(), "missing", "x.ply")}, func(string) {})
	assert.Error(t, err)
}
