package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"extsort/internal/log"
)

// DefaultInterval is how long the directory must stay quiet before a run.
const DefaultInterval = 2 * time.Second

// Trigger runs one organize pass over the watched directory.
type Trigger func(ctx context.Context) error

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running      bool      // Whether the daemon is currently active
	Directory    string    // Directory being watched
	LastActivity time.Time // Time of last file activity
	Runs         int       // Completed organize runs
	LastError    error     // Error of the most recent run, if any
}

// Daemon organizes a directory whenever new files settle in it. Bursts of
// events are coalesced and runs never overlap.
type Daemon struct {
	directory  string
	trigger    Trigger
	interval   time.Duration
	initialRun bool

	mutex        sync.RWMutex
	running      bool
	runs         int
	lastActivity time.Time
	lastError    error
}

// DaemonOption configures a Daemon.
type DaemonOption func(*Daemon)

// WithInterval sets the quiet period before a run.
func WithInterval(interval time.Duration) DaemonOption {
	return func(d *Daemon) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// WithInitialRun controls whether the directory is organized once on start.
func WithInitialRun(enabled bool) DaemonOption {
	return func(d *Daemon) { d.initialRun = enabled }
}

// NewDaemon creates a daemon calling trigger for directory
func NewDaemon(directory string, trigger Trigger, opts ...DaemonOption) *Daemon {
	d := &Daemon{
		directory:  directory,
		trigger:    trigger,
		interval:   DefaultInterval,
		initialRun: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run watches the directory until ctx is cancelled. It returns an error only
// when the watcher cannot be set up.
func (d *Daemon) Run(ctx context.Context) error {
	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return fmt.Errorf("daemon is already running")
	}
	d.running = true
	d.mutex.Unlock()

	defer func() {
		d.mutex.Lock()
		d.running = false
		d.mutex.Unlock()
	}()

	watcher, err := New(d.directory)
	if err != nil {
		return fmt.Errorf("error adding watch directory %s: %w", d.directory, err)
	}
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return fmt.Errorf("error starting watcher: %w", err)
	}
	defer watcher.Stop()

	logger := log.LogWithFields(log.F("directory", watcher.Directory()), log.F("interval", d.interval))
	logger.Info("Watch daemon started")

	if d.initialRun {
		d.organize(ctx)
	}

	timer := time.NewTimer(d.interval)
	timer.Stop()
	defer timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch daemon stopped")
			return nil

		case event, ok := <-watcher.FileChannel():
			if !ok {
				logger.Warn("Watcher closed unexpectedly")
				return nil
			}
			d.mutex.Lock()
			d.lastActivity = event.Timestamp
			d.mutex.Unlock()
			log.LogWithFields(log.F("file", event.Path), log.F("op", event.Op.String())).Debug("File activity")

			timer.Reset(d.interval)
			pending = timer.C

		case <-pending:
			pending = nil
			d.organize(ctx)
		}
	}
}

func (d *Daemon) organize(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	err := d.trigger(ctx)
	if err != nil {
		log.LogWithError(err).Error("Organize run failed")
	}

	d.mutex.Lock()
	d.runs++
	d.lastError = err
	d.mutex.Unlock()
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:      d.running,
		Directory:    d.directory,
		LastActivity: d.lastActivity,
		Runs:         d.runs,
		LastError:    d.lastError,
	}
}
