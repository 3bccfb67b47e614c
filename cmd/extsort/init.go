package main

import (
	"fmt"

	"extsort/cmd/extsort/cli"

	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Long:  `Init writes an empty rule configuration when none exists yet and validates it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			state := newState(cmd, "")
			// Bootstrap lines are the whole point of init, always show them
			state.SetSink(cli.NewSink(out, true))
			if err := state.Bootstrap(); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.NewPainter(out).Success("Configuration ready: "+configPath()))
			return nil
		},
	}
}
