package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	require.Nil(t, NewFileWatcher(filepath.Join(t.TempDir(), "missing.json"), time.Millisecond))

	w := NewFileWatcher(path, 5*time.Millisecond)
	require.NotNil(t, w)
	require.False(t, w.Changed())

	fired := make(chan string, 1)
	w.OnChange(func(p string) { fired <- p })
	w.Start()
	defer w.Stop()

	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))
	require.True(t, w.Changed())

	select {
	case p := <-fired:
		require.Equal(t, path, p)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire")
	}

	w.ResetBaseline()
	require.False(t, w.Changed())
}
