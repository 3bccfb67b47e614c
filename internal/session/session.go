// Package session holds the state shared by the front-ends and runs the
// organize workflow on their behalf: directory check, configuration load,
// engine run and report rendering.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"extsort/internal/config"
	"extsort/internal/errors"
	"extsort/internal/log"
	"extsort/internal/organize"
	"extsort/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// State is the application state a front-end hands to its handlers.
type State struct {
	Directory  string
	ConfigPath string
	DryRun     bool

	fs      afero.Fs
	sink    Sink
	lockDir string
}

// Option configures a State.
type Option func(*State)

// WithFs runs the session against fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *State) { s.fs = fs }
}

// WithSink sets the receiver of log lines and notices.
func WithSink(sink Sink) Option {
	return func(s *State) { s.sink = sink }
}

// WithLockDir sets where per-directory run locks are kept.
func WithLockDir(dir string) Option {
	return func(s *State) { s.lockDir = dir }
}

// New creates a session reading its rules from configPath.
func New(configPath string, opts ...Option) *State {
	s := &State{
		ConfigPath: configPath,
		fs:         afero.NewOsFs(),
		sink:       discardSink{},
		lockDir:    filepath.Join(os.TempDir(), config.AppName+"-locks"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sink returns the receiver of log lines and notices.
func (s *State) Sink() Sink {
	return s.sink
}

// SetSink replaces the receiver of log lines and notices.
func (s *State) SetSink(sink Sink) {
	if sink == nil {
		sink = discardSink{}
	}
	s.sink = sink
}

// Bootstrap makes sure a configuration document exists, writing the default
// one when it does not, and reports the result to the sink.
func (s *State) Bootstrap() error {
	rules, created, err := config.LoadOrCreate(s.fs, s.ConfigPath)
	if created {
		s.logf("Created default configuration file %s", s.ConfigPath)
	}
	if err != nil {
		s.logf("Configuration validation failed: %v", err)
		return err
	}
	if created {
		s.logf("Configuration structure validated")
	} else {
		s.logf("Using configuration %s (%d rules)", s.ConfigPath, len(rules))
	}
	return nil
}

// LockPath returns the run lock file guarding directory.
func (s *State) LockPath(directory string) string {
	abs, err := filepath.Abs(directory)
	if err != nil {
		abs = filepath.Clean(directory)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(s.lockDir, hex.EncodeToString(sum[:8])+".lock")
}

// Run organizes the session directory with the rules of the session
// configuration. Every outcome is also rendered to the sink.
func (s *State) Run() (*types.OrganizeReport, error) {
	runID := uuid.New().String()
	logger := log.LogWithFields(log.F("run_id", runID), log.F("directory", s.Directory))

	directory := strings.TrimSpace(s.Directory)
	s.logf("Selected directory: %s", directory)
	if directory == "" || !s.isDir(directory) {
		s.logf("Warning: no valid directory selected")
		s.sink.Notify(Notice{Level: LevelWarning, Title: "Warning", Message: "Please choose a valid directory."})
		logger.Warn("Run refused, no valid directory")
		return nil, errors.NewFileError("no valid directory selected", directory, errors.DirectoryUnavailable, nil)
	}

	unlock, err := s.lock(directory)
	if err != nil {
		s.fail(err)
		logger.WithError(err).Warn("Run refused")
		return nil, err
	}
	defer unlock()

	s.logf("Starting organization of %s with configuration %s", directory, s.ConfigPath)
	rules, err := config.Load(s.fs, s.ConfigPath)
	if err != nil {
		s.fail(err)
		logger.WithError(err).Error("Configuration could not be loaded")
		return nil, err
	}
	s.logf("Configuration loaded (%d rules)", len(rules))

	engine := organize.NewOrganizer(
		organize.WithFs(s.fs),
		organize.WithDryRun(s.DryRun),
		organize.WithLogger(logger),
	)
	report, err := engine.Organize(directory, rules)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.render(report)
	return report, nil
}

func (s *State) isDir(directory string) bool {
	info, err := s.fs.Stat(directory)
	return err == nil && info.IsDir()
}

// lock takes the run lock of directory without blocking.
func (s *State) lock(directory string) (func(), error) {
	if err := os.MkdirAll(s.lockDir, 0755); err != nil {
		return nil, errors.NewFileError("cannot create lock directory", s.lockDir, errors.RunInProgress, err)
	}
	fl := flock.New(s.LockPath(directory))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.NewFileError("acquire run lock", directory, errors.RunInProgress, err)
	}
	if !ok {
		return nil, errors.NewFileError("another run is already organizing", directory, errors.RunInProgress, nil)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			log.LogWithError(err).Warn("Failed to release run lock")
		}
	}, nil
}

func (s *State) render(report *types.OrganizeReport) {
	verb := "Moved"
	if report.DryRun {
		verb = "Would move"
	}
	for _, m := range report.Moves {
		s.logf("%s %s -> %s", verb, m.FileName, m.Folder)
	}
	for _, sk := range report.Skips {
		s.logf("Skipped %s (%s)", sk.FileName, sk.Reason)
	}
	for _, f := range report.Errors {
		s.logf("Error moving %s: %s", f.FileName, f.Message)
	}
	s.logf("Organization complete: %d processed, %d moved (%s), %d skipped, %d failed",
		report.Processed, report.Moved, humanize.Bytes(uint64(report.BytesMoved)), report.Skipped, report.Failed)

	switch {
	case report.HasErrors():
		s.sink.Notify(Notice{
			Level:   LevelError,
			Title:   "Error",
			Message: fmt.Sprintf("%d of %d files could not be moved.", report.Failed, report.Processed),
		})
	case report.DryRun:
		s.sink.Notify(Notice{Level: LevelInfo, Title: "Dry run", Message: fmt.Sprintf("%d files would be moved.", report.Moved)})
	default:
		s.sink.Notify(Notice{Level: LevelInfo, Title: "Success", Message: "Files were organized successfully."})
	}
}

func (s *State) fail(err error) {
	s.logf("Error: %v", err)
	s.sink.Notify(Notice{Level: LevelError, Title: "Error", Message: Describe(err)})
}

func (s *State) logf(format string, args ...interface{}) {
	s.sink.Log(fmt.Sprintf(format, args...))
}

// Describe turns an error into a sentence for a notice.
func Describe(err error) string {
	switch errors.KindOf(err) {
	case errors.ConfigNotFound:
		return "Configuration file not found!"
	case errors.ConfigUnreadable:
		return "Configuration file could not be read!"
	case errors.ConfigMalformed:
		return "Error reading the configuration file (invalid syntax)!"
	case errors.ConfigInvalidStructure:
		return "Configuration file has an invalid structure!"
	case errors.DirectoryUnavailable:
		return "The selected directory does not exist or is not accessible!"
	case errors.FolderCreateFailed:
		return "A destination folder could not be created!"
	case errors.RunInProgress:
		return "This directory is already being organized."
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}
