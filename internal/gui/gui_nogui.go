//go:build nogui

package gui

import (
	"fmt"

	"extsort/internal/session"
)

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(state *session.State) error {
	return fmt.Errorf("GUI not available in this build, use the organize command instead")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
