package main

import (
	"fmt"
	"strconv"

	"extsort/cmd/extsort/cli"
	"extsort/internal/analysis"
	"extsort/internal/config"
	"extsort/internal/errors"
	"extsort/pkg/types"

	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [directory]",
		Short: "Show how the files of a directory would be sorted",
		Long: `Analyze groups the files of a directory by extension and shows the folder
each group would go to. Nothing is moved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := targetDirectory(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			paint := cli.NewPainter(out)

			rules, err := config.Load(appFs, configPath())
			if errors.IsConfigNotFound(err) {
				fmt.Fprintln(out, paint.Warning(fmt.Sprintf("No configuration at %s, run 'extsort init' to create one.", configPath())))
				rules = types.RuleSet{}
			} else if err != nil {
				return err
			}

			classified, err := analysis.NewWithFs(appFs).ClassifyDirectory(dir, rules)
			if err != nil {
				return err
			}
			if len(classified) == 0 {
				fmt.Fprintln(out, paint.Status("No files in "+dir))
				return nil
			}

			summary := analysis.Summarize(classified)
			rows := make([][]string, 0, len(summary))
			for _, s := range summary {
				ext := s.Extension
				if ext == "" {
					ext = "(none)"
				}
				folder := s.Folder
				if folder == "" {
					folder = "-"
				}
				rows = append(rows, []string{ext, strconv.Itoa(s.Files), cli.FormatBytes(s.Bytes), folder})
			}

			fmt.Fprintln(out, paint.Title("Analysis of "+dir))
			fmt.Fprintln(out, cli.RenderTable(
				[]string{"Extension", "Files", "Size", "Folder"},
				rows,
				[]cli.ColumnAlignment{cli.AlignLeft, cli.AlignRight, cli.AlignRight, cli.AlignLeft},
			))

			matched := 0
			for _, c := range classified {
				if c.Matched {
					matched++
				}
			}
			fmt.Fprintf(out, "%d of %d files match a rule\n", matched, len(classified))
			return nil
		},
	}
}
