package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"extsort/internal/organize"
	"extsort/internal/watch"
	"extsort/pkg/testutils"
	"extsort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startDaemon(t *testing.T, d *watch.Daemon) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return d.Status().Running }, 2*time.Second, 10*time.Millisecond)
	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)

	return func() {
		cancelCtx()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("daemon did not stop")
		}
	}
}

func TestDaemonOrganizesNewFiles(t *testing.T) {
	defer testutils.VerifyNoLeaks(t)
	dir := t.TempDir()
	rules := types.RuleSet{types.NewRule("Docs", ".txt")}
	engine := organize.New()

	var runs atomic.Int32
	trigger := func(ctx context.Context) error {
		runs.Add(1)
		_, err := engine.Organize(dir, rules)
		return err
	}

	d := watch.NewDaemon(dir, trigger, watch.WithInterval(100*time.Millisecond), watch.WithInitialRun(false))
	stop := startDaemon(t, d)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "testfile.txt"), []byte("test content"), 0644))

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "Docs", "testfile.txt"))
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)

	// The move itself must not trigger another run
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, 1, d.Status().Runs)
	assert.False(t, d.Status().LastActivity.IsZero())
}

func TestDaemonCoalescesBursts(t *testing.T) {
	defer testutils.VerifyNoLeaks(t)
	dir := t.TempDir()

	var runs atomic.Int32
	d := watch.NewDaemon(dir, func(context.Context) error {
		runs.Add(1)
		return nil
	}, watch.WithInterval(300*time.Millisecond), watch.WithInitialRun(false))
	stop := startDaemon(t, d)
	defer stop()

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDaemonInitialRun(t *testing.T) {
	defer testutils.VerifyNoLeaks(t)

	var runs atomic.Int32
	d := watch.NewDaemon(t.TempDir(), func(context.Context) error {
		runs.Add(1)
		return assert.AnError
	})
	stop := startDaemon(t, d)

	require.Eventually(t, func() bool { return d.Status().Runs == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, assert.AnError, d.Status().LastError, "failed runs do not stop the daemon")
	assert.True(t, d.Status().Running)

	stop()
	assert.False(t, d.Status().Running)
}

func TestDaemonMissingDirectory(t *testing.T) {
	d := watch.NewDaemon(filepath.Join(t.TempDir(), "missing"), func(context.Context) error { return nil })
	err := d.Run(context.Background())
	assert.ErrorContains(t, err, "error adding watch directory")
	assert.False(t, d.Status().Running)
}
