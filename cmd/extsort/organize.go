package main

import (
	"fmt"
	"io"
	"path/filepath"

	"extsort/cmd/extsort/cli"
	"extsort/internal/session"
	"extsort/pkg/types"

	"github.com/spf13/cobra"
)

// NewOrganizeCmd creates the organize command
func NewOrganizeCmd() *cobra.Command {
	var (
		dryRun bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "organize [directory]",
		Short: "Move the files of a directory into their rule folders",
		Long: `Organize moves every file of the directory (default: the current one) whose
extension matches a rule into the rule's folder. Subfolders are left alone.
On a terminal the planned moves are shown and confirmed first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := targetDirectory(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			paint := cli.NewPainter(out)

			if !dryRun && !yes && interactive(cmd) {
				proceed, err := planAndConfirm(cmd, dir)
				if err != nil || !proceed {
					return err
				}
			}

			state := newState(cmd, dir)
			state.DryRun = dryRun
			report, err := state.Run()
			if err != nil {
				return err
			}

			printReport(out, paint, report)
			if report.HasErrors() {
				return fmt.Errorf("%d of %d files could not be moved", report.Failed, report.Processed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be done without actually moving files")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// planAndConfirm shows the moves a run would make and asks before making them.
func planAndConfirm(cmd *cobra.Command, dir string) (bool, error) {
	out := cmd.OutOrStdout()
	paint := cli.NewPainter(out)

	recorder := &session.RecordingSink{}
	plan := session.New(configPath(), session.WithFs(appFs), session.WithSink(recorder))
	plan.Directory = dir
	plan.DryRun = true

	report, err := plan.Run()
	if err != nil {
		sink := cli.NewSink(out, verbose)
		for _, n := range recorder.Notices() {
			sink.Notify(n)
		}
		return false, err
	}
	if report.Moved == 0 {
		fmt.Fprintln(out, paint.Status("Nothing to organize."))
		return false, nil
	}

	fmt.Fprintln(out, paint.Title("Planned moves"))
	fmt.Fprintln(out, movesTable(report.Moves))
	ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Move %d files?", report.Moved))
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(out, paint.Warning("Cancelled, no files were moved."))
	}
	return ok, nil
}

func movesTable(moves []types.Move) string {
	rows := make([][]string, 0, len(moves))
	for _, m := range moves {
		rows = append(rows, []string{m.FileName, m.Folder + string(filepath.Separator), cli.FormatBytes(m.Size)})
	}
	return cli.RenderTable([]string{"File", "Folder", "Size"}, rows, []cli.ColumnAlignment{cli.AlignLeft, cli.AlignLeft, cli.AlignRight})
}

func printReport(out io.Writer, paint cli.Painter, report *types.OrganizeReport) {
	title := "Organized " + report.Directory
	if report.DryRun {
		title = "Dry run for " + report.Directory
	}
	fmt.Fprintln(out, paint.Title(title))

	if len(report.Moves) > 0 {
		fmt.Fprintln(out, movesTable(report.Moves))
	}

	if len(report.Skips) > 0 && verbose {
		rows := make([][]string, 0, len(report.Skips))
		for _, s := range report.Skips {
			rows = append(rows, []string{s.FileName, string(s.Reason)})
		}
		fmt.Fprintln(out, cli.RenderTable([]string{"Skipped", "Reason"}, rows, nil))
	}

	for _, f := range report.Errors {
		fmt.Fprintln(out, paint.Error(fmt.Sprintf("Error moving %s: %s", f.FileName, f.Message)))
	}

	moved := "Moved"
	if report.DryRun {
		moved = "Would move"
	}
	summary := fmt.Sprintf("Processed: %d\n%s: %d (%s)\nSkipped: %d\nFailed: %d",
		report.Processed, moved, report.Moved, cli.FormatBytes(report.BytesMoved), report.Skipped, report.Failed)
	fmt.Fprintln(out, paint.Box(summary))

	if report.DryRun {
		fmt.Fprintln(out, paint.Status("Dry run complete. No files were moved."))
	}
}
