package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"extsort/cmd/extsort/cli"
	"extsort/internal/errors"
	"extsort/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates a command for watch mode
func NewWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Organize a directory whenever new files arrive",
		Long: `Watch organizes the directory once, then again each time new files have
settled in it for the given interval. Stop with Ctrl+C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := targetDirectory(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			paint := cli.NewPainter(out)

			state := newState(cmd, dir)
			state.DryRun = dryRun

			trigger := func(ctx context.Context) error {
				report, err := state.Run()
				if err != nil {
					if errors.IsRunInProgress(err) {
						return nil
					}
					return err
				}
				if report.Moved > 0 || report.Failed > 0 {
					printReport(out, paint, report)
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(out, paint.Title("Watching "+dir))
			fmt.Fprintln(out, paint.Status(fmt.Sprintf("Organizing after %s of quiet. Press Ctrl+C to stop.", interval)))

			daemon := watch.NewDaemon(dir, trigger, watch.WithInterval(interval))
			if err := daemon.Run(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, paint.Status(fmt.Sprintf("Stopped after %d runs.", daemon.Status().Runs)))
			return nil
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", watch.DefaultInterval, "Quiet period before organizing new files")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be done without actually moving files")

	return cmd
}
