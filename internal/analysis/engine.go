// Package analysis lists a directory and classifies its files against a rule
// set. Classification looks at the extension string only; file contents are
// never opened.
package analysis

import (
	"os"
	"path/filepath"
	"sort"

	"extsort/internal/errors"
	"extsort/internal/log"
	"extsort/pkg/types"

	"github.com/spf13/afero"
)

// Classification is the routing decision for one file.
type Classification struct {
	Entry   types.FileEntry
	Rule    types.Rule
	Matched bool
	Reason  types.SkipReason
}

// Folder returns the destination folder name, or "" when the file stays put.
func (c Classification) Folder() string {
	if !c.Matched {
		return ""
	}
	return c.Rule.FolderName
}

// ExtensionSummary aggregates classifications per extension.
type ExtensionSummary struct {
	Extension string
	Files     int
	Bytes     int64
	Folder    string
}

// Engine scans directories for regular files.
type Engine struct {
	fs afero.Fs
}

// New creates an analysis engine on the OS filesystem.
func New() *Engine {
	return NewWithFs(afero.NewOsFs())
}

// NewWithFs creates an analysis engine on fs.
func NewWithFs(fs afero.Fs) *Engine {
	return &Engine{fs: fs}
}

// Scan returns the regular files directly inside directory, ordered by name.
// Directories, symlinks to directories, relative and broken links are left out.
// A directory that is missing, not a directory or unreadable yields
// DirectoryUnavailable.
func (e *Engine) Scan(directory string) ([]types.FileEntry, error) {
	info, err := e.fs.Stat(directory)
	if err != nil {
		return nil, errors.NewFileError("error accessing directory", directory, errors.DirectoryUnavailable, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("path is not a directory", directory, errors.DirectoryUnavailable, nil)
	}

	listing, err := afero.ReadDir(e.fs, directory)
	if err != nil {
		return nil, errors.NewFileError("error reading directory", directory, errors.DirectoryUnavailable, err)
	}
	sort.Slice(listing, func(i, j int) bool { return listing[i].Name() < listing[j].Name() })

	entries := make([]types.FileEntry, 0, len(listing))
	for _, fi := range listing {
		path := filepath.Join(directory, fi.Name())
		if fi.Mode()&os.ModeSymlink != 0 {
			// A relative link would point elsewhere once moved into a folder.
			if e.isRelativeLink(path) {
				log.LogWithFields(log.F("file", fi.Name())).Debug("Skipping relative link")
				continue
			}
			// Follow the link; broken links and links to directories are not files.
			target, err := e.fs.Stat(path)
			if err != nil {
				log.LogWithFields(log.F("file", fi.Name())).Debug("Skipping unreadable link")
				continue
			}
			fi = target
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		entries = append(entries, types.NewFileEntry(directory, filepath.Base(path), fi.Size()))
	}
	return entries, nil
}

func (e *Engine) isRelativeLink(path string) bool {
	lr, ok := e.fs.(afero.LinkReader)
	if !ok {
		return false
	}
	target, err := lr.ReadlinkIfPossible(path)
	return err == nil && !filepath.IsAbs(target)
}

// Classify routes entry through rules. An entry without an extension never
// consults the rules.
func Classify(entry types.FileEntry, rules types.RuleSet) Classification {
	c := Classification{Entry: entry}
	if !entry.HasExtension() {
		c.Reason = types.SkipNoExtension
		return c
	}
	rule, ok := rules.Match(entry.Extension)
	if !ok {
		c.Reason = types.SkipNoRule
		return c
	}
	c.Rule = rule
	c.Matched = true
	return c
}

// ClassifyDirectory scans directory and classifies every file in it.
func (e *Engine) ClassifyDirectory(directory string, rules types.RuleSet) ([]Classification, error) {
	entries, err := e.Scan(directory)
	if err != nil {
		return nil, err
	}
	out := make([]Classification, 0, len(entries))
	for _, entry := range entries {
		out = append(out, Classify(entry, rules))
	}
	return out, nil
}

// Summarize groups classifications by lowercased extension, largest groups first.
func Summarize(classifications []Classification) []ExtensionSummary {
	byExt := make(map[string]*ExtensionSummary)
	var order []string
	for _, c := range classifications {
		ext := types.NormalizeExtension(c.Entry.Extension)
		s, ok := byExt[ext]
		if !ok {
			s = &ExtensionSummary{Extension: ext, Folder: c.Folder()}
			byExt[ext] = s
			order = append(order, ext)
		}
		s.Files++
		s.Bytes += c.Entry.Size
	}

	out := make([]ExtensionSummary, 0, len(order))
	for _, ext := range order {
		out = append(out, *byExt[ext])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Files != out[j].Files {
			return out[i].Files > out[j].Files
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}
