package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c, ok := <-w.Changes:
		require.True(t, ok, "Changes closed early")
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
		return Change{}
	}
}

func TestWatcher_ReportsWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "chart.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))

	w, err := New(file)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(file, []byte(`{"bodies":[]}`), 0o644))
	c := waitChange(t, w)
	assert.Equal(t, ChangeModified, c.Kind)
	assert.Equal(t, w.File, c.File)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "chart.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))

	w, err := New(file)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte(`{"n":1}`), 0o644))
	}
	waitChange(t, w)

	select {
	case c := <-w.Changes:
		t.Fatalf("unexpected second change %+v", c)
	case <-time.After(3 * Debounce):
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "chart.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))

	w, err := New(file)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	select {
	case c := <-w.Changes:
		t.Fatalf("unexpected change %+v", c)
	case <-time.After(3 * Debounce):
	}
}

func TestWatcher_ReportsRemove(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "chart.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))

	w, err := New(file)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.Remove(file))
	c := waitChange(t, w)
	assert.Equal(t, ChangeRemoved, c.Kind)
}

func TestWatcher_StopClosesChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "chart.json"))
	require.NoError(t, err)
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()

	_, ok := <-w.Changes
	assert.False(t, ok)
}
