package organize

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"syscall"

	"extsort/internal/analysis"
	"extsort/internal/errors"
	"extsort/internal/log"
	"extsort/pkg/types"

	"github.com/spf13/afero"
)

// Engine handles file organization operations
type Engine struct {
	fs      afero.Fs
	scanner *analysis.Engine
	logger  *log.Logger
	dryRun  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithFs runs the engine against fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithLogger sets the logger used for per-file progress lines.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDryRun makes the engine plan moves without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// New creates a new Organization Engine instance
func New(opts ...Option) *Engine {
	e := &Engine{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	e.scanner = analysis.NewWithFs(e.fs)
	return e
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// Organize moves every regular file of directory whose extension matches a
// rule into the rule's folder under directory.
//
// The directory must exist and be readable, otherwise a DirectoryUnavailable
// error is returned and no report is produced. A folder that cannot be
// created aborts the run the same way. Failing to move an individual file is
// recorded in the report and the run continues.
func (e *Engine) Organize(directory string, rules types.RuleSet) (*types.OrganizeReport, error) {
	logger := e.logger.With(log.F("directory", directory))

	entries, err := e.scanner.Scan(directory)
	if err != nil {
		logger.WithError(err).Error("Directory is missing or not accessible")
		return nil, err
	}

	report := types.NewOrganizeReport(directory, e.dryRun)
	ensured := make(map[string]bool)

	for _, entry := range entries {
		fileLog := logger.With(log.F("file", entry.Name))
		fileLog.Debug("Processing file")

		c := analysis.Classify(entry, rules)
		if !c.Matched {
			fileLog.With(log.F("reason", c.Reason)).Debug("Skipping file")
			report.AddSkip(entry.Name, c.Reason)
			continue
		}

		folder := filepath.Join(directory, c.Rule.FolderName)
		if !ensured[folder] {
			if err := e.ensureFolder(folder); err != nil {
				logger.WithError(err).Error("Cannot create destination folder")
				return nil, err
			}
			ensured[folder] = true
		}

		move := types.Move{
			FileName:    entry.Name,
			Folder:      c.Rule.FolderName,
			Source:      entry.Path,
			Destination: filepath.Join(folder, entry.Name),
			Size:        entry.Size,
		}

		if _, err := e.MoveFile(entry.Path, folder); err != nil {
			fileLog.WithError(err).Error("Failed to move file")
			report.AddFailure(entry.Name, err)
			continue
		}
		if e.dryRun {
			fileLog.Info("Would move %s -> %s", entry.Name, c.Rule.FolderName)
		} else {
			fileLog.Info("Moved %s -> %s", entry.Name, c.Rule.FolderName)
		}
		report.AddMove(move)
	}

	logger.With(
		log.F("processed", report.Processed),
		log.F("moved", report.Moved),
		log.F("skipped", report.Skipped),
		log.F("failed", report.Failed),
	).Info("Organization complete")
	return report, nil
}

// ensureFolder creates folder unless it already exists. In dry run mode
// nothing is created.
func (e *Engine) ensureFolder(folder string) error {
	info, err := e.fs.Stat(folder)
	if err == nil {
		if !info.IsDir() {
			return errors.NewFileError("destination is not a folder", folder, errors.FolderCreateFailed, nil)
		}
		return nil
	}
	if !errors.Is(err, iofs.ErrNotExist) {
		return errors.NewFileError("cannot access destination folder", folder, errors.FolderCreateFailed, err)
	}
	if e.dryRun {
		e.logger.With(log.F("folder", folder)).Info("Would create folder")
		return nil
	}
	if err := e.fs.MkdirAll(folder, 0755); err != nil {
		return errors.NewFileError("failed to create folder", folder, errors.FolderCreateFailed, err)
	}
	e.logger.With(log.F("folder", folder)).Info("Folder created")
	return nil
}

// MoveFile moves src into destDir keeping its name and returns the number of
// bytes moved. An existing file of the same name in destDir is never
// overwritten. Renames across devices fall back to copy and remove.
func (e *Engine) MoveFile(src, destDir string) (int64, error) {
	name := filepath.Base(src)
	dest := filepath.Join(destDir, name)

	srcInfo, err := e.fs.Stat(src)
	if err != nil {
		return 0, errors.NewFileError("source file error", name, errors.MoveFailed, err)
	}
	if srcInfo.IsDir() {
		return 0, errors.NewFileError("cannot move directory as file", name, errors.MoveFailed, nil)
	}

	if _, err := e.fs.Stat(dest); err == nil {
		return 0, errors.NewFileError("destination path already exists", dest, errors.MoveFailed, nil)
	} else if !errors.Is(err, iofs.ErrNotExist) {
		return 0, errors.NewFileError("error checking destination", dest, errors.MoveFailed, err)
	}

	if e.dryRun {
		return srcInfo.Size(), nil
	}

	if err := e.fs.Rename(src, dest); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return 0, errors.NewFileError("failed to move file", name, errors.MoveFailed, err)
		}
		if err := e.copyAndRemove(src, dest, srcInfo.Mode()); err != nil {
			return 0, errors.NewFileError("failed to move file across devices", name, errors.MoveFailed, err)
		}
	}
	return srcInfo.Size(), nil
}

func (e *Engine) copyAndRemove(src, dest string, mode iofs.FileMode) error {
	in, err := e.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := e.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		e.fs.Remove(dest)
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := out.Close(); err != nil {
		e.fs.Remove(dest)
		return err
	}
	return e.fs.Remove(src)
}
