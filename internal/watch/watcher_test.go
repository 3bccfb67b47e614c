package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"extsort/pkg/testutils"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitEvent(t *testing.T, ch <-chan FileModification) FileModification {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "event channel closed unexpectedly")
		return event
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return FileModification{}
}

func TestWatcherFsnotify(t *testing.T) {
	defer testutils.VerifyNoLeaks(t)
	tempDir := t.TempDir()

	w, err := New(tempDir)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())
	assert.Equal(t, tempDir, w.Directory())

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)

	testFilePath := filepath.Join(tempDir, "testfile.txt")
	require.NoError(t, os.WriteFile(testFilePath, []byte("x"), 0644))

	event := waitEvent(t, w.FileChannel())
	assert.Equal(t, testFilePath, event.Path)
	assert.True(t, event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write))
	require.NotNil(t, event.Info)
	assert.Equal(t, "testfile.txt", event.Info.Name())
}

func TestWatcherIgnoresFolders(t *testing.T) {
	defer testutils.VerifyNoLeaks(t)
	tempDir := t.TempDir()

	w, err := New(tempDir)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	// Folder creation and moves into it produce no events
	sub := filepath.Join(tempDir, "Images")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "inside.jpg"), []byte("x"), 0644))

	// A file at the top level still does
	top := filepath.Join(tempDir, "top.jpg")
	require.NoError(t, os.WriteFile(top, []byte("x"), 0644))

	event := waitEvent(t, w.FileChannel())
	assert.Equal(t, top, event.Path)
}

func TestWatcherStop(t *testing.T) {
	defer testutils.VerifyNoLeaks(t)

	w, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	assert.Error(t, w.Start(), "second start fails")

	w.Stop()
	assert.False(t, w.IsRunning())
	_, ok := <-w.FileChannel()
	assert.False(t, ok, "channel is closed after stop")

	w.Stop()
	assert.Error(t, w.Start(), "stopped watcher cannot restart")
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer testutils.VerifyNoLeaks(t)

	w, err := New(t.TempDir())
	require.NoError(t, err)
	w.Stop()
	_, ok := <-w.FileChannel()
	assert.False(t, ok)
}

func TestNewWatcherErrors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = New(file)
	assert.ErrorContains(t, err, "is not a directory")
}
