package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileEntry is a transient view of one regular file in the target directory.
type FileEntry struct {
	Name      string `json:"name"`
	BaseName  string `json:"base_name"`
	Extension string `json:"extension"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
}

// NewFileEntry splits name into base name and extension.
func NewFileEntry(dir, name string, size int64) FileEntry {
	base, ext := SplitName(name)
	return FileEntry{
		Name:      name,
		BaseName:  base,
		Extension: ext,
		Path:      filepath.Join(dir, name),
		Size:      size,
	}
}

// HasExtension reports whether the entry has a non-empty extension.
func (f FileEntry) HasExtension() bool {
	return f.Extension != ""
}

// String returns a human-readable representation
func (f FileEntry) String() string {
	if f.Extension == "" {
		return fmt.Sprintf("%s (no extension)", f.Name)
	}
	return fmt.Sprintf("%s (%s)", f.Name, f.Extension)
}

// SplitName splits a file name at its last dot. Leading dots belong to the
// base name, so ".bashrc" has no extension. A trailing dot ("notes.") also
// yields no extension.
func SplitName(name string) (base, ext string) {
	trimmed := strings.TrimLeft(name, ".")
	lead := len(name) - len(trimmed)

	i := strings.LastIndex(trimmed, ".")
	if i < 0 || i == len(trimmed)-1 {
		return name, ""
	}
	return name[:lead+i], name[lead+i:]
}
