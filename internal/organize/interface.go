package organize

import (
	"extsort/pkg/types"
)

// Organizer defines the interface for file organization operations
// This allows for dependency injection in tests and other parts of the application
type Organizer interface {
	// SetDryRun sets whether operations should be performed or just simulated
	SetDryRun(dryRun bool)

	// IsDryRun reports whether operations are only simulated
	IsDryRun() bool

	// Organize sorts the files of a directory into the folders named by rules
	Organize(directory string, rules types.RuleSet) (*types.OrganizeReport, error)

	// MoveFile moves a file into a destination directory with safety checks
	MoveFile(src, destDir string) (int64, error)
}

// Ensure Engine implements the Organizer interface
var _ Organizer = (*Engine)(nil)
