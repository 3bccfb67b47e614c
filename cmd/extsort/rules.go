package main

import (
	"fmt"
	"io"
	"strconv"

	"extsort/cmd/extsort/cli"
	"extsort/internal/config"
	"extsort/pkg/types"

	"github.com/spf13/cobra"
)

// NewRulesCmd creates the rules command
func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage organization rules",
		Long:  `View, add and remove extension to folder rules.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newRulesListCmd())
	cmd.AddCommand(newRulesAddCmd())
	cmd.AddCommand(newRulesRemoveCmd())

	return cmd
}

// newRulesListCmd creates the 'rules list' command
func newRulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all organization rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(cmd.OutOrStdout())
		},
	}
}

// newRulesAddCmd creates the 'rules add' command
func newRulesAddCmd() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:     "add --folder NAME EXTENSION...",
		Short:   "Add a rule sending extensions to a folder",
		Example: "  extsort rules add --folder Images .jpg .png",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, _, err := config.LoadOrCreate(appFs, configPath())
			if err != nil {
				return err
			}

			// Validate the raw arguments the way Load will before anything is written
			raw := append(append(types.RuleSet{}, rules...), types.Rule{FolderName: folder, Extensions: args})
			updated, err := (config.Document{Rules: raw}).RuleSet()
			if err != nil {
				return fmt.Errorf("invalid rule: %w", err)
			}
			rule := updated[len(updated)-1]
			if err := config.Save(appFs, configPath(), updated); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			paint := cli.NewPainter(out)
			fmt.Fprintln(out, paint.Success("Rule added: ")+paint.Emphasis(cli.JoinExtensions(rule.Extensions)+" -> "+rule.FolderName))
			return nil
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Folder receiving the files")
	_ = cmd.MarkFlagRequired("folder")

	return cmd
}

// newRulesRemoveCmd creates the 'rules remove' command
func newRulesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove INDEX",
		Short: "Remove an organization rule by its index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule index: %s", args[0])
			}

			rules, err := config.Load(appFs, configPath())
			if err != nil {
				return err
			}
			if index < 0 || index >= len(rules) {
				return fmt.Errorf("invalid rule index: %d (have %d rules)", index, len(rules))
			}

			removed := rules[index]
			updated := append(append(types.RuleSet{}, rules[:index]...), rules[index+1:]...)
			if err := config.Save(appFs, configPath(), updated); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.NewPainter(out).Success(fmt.Sprintf("Rule removed: %s -> %s", cli.JoinExtensions(removed.Extensions), removed.FolderName)))
			return nil
		},
	}
}

func listRules(out io.Writer) error {
	rules, err := config.Load(appFs, configPath())
	if err != nil {
		return err
	}
	paint := cli.NewPainter(out)
	if len(rules) == 0 {
		fmt.Fprintln(out, paint.Status("No rules configured. Add one with 'extsort rules add --folder NAME EXT...'."))
		return nil
	}

	rows := make([][]string, 0, len(rules))
	for i, r := range rules {
		rows = append(rows, []string{strconv.Itoa(i), r.FolderName, cli.JoinExtensions(r.Extensions)})
	}
	fmt.Fprintln(out, paint.Title("Rules in "+configPath()))
	fmt.Fprintln(out, cli.RenderTable([]string{"#", "Folder", "Extensions"}, rows, []cli.ColumnAlignment{cli.AlignRight}))
	return nil
}
