package main

import (
	"extsort/internal/gui"
	"extsort/internal/session"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the gui command
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [directory]",
		Short: "Open the desktop window",
		Long:  `Open a window to pick a directory, organize it and follow the log.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := session.New(configPath(), session.WithFs(appFs))
			if len(args) > 0 {
				state.Directory = args[0]
			}
			return gui.StartGUI(state)
		},
	}
}
