package main

import (
	"fmt"
	"io"
	"os"

	"extsort/cmd/extsort/cli"
	"extsort/internal/config"
	"extsort/internal/log"
	"extsort/internal/session"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	logFile string
	verbose bool

	// appFs is the filesystem every command works on; tests swap in a memory fs
	appFs afero.Fs = afero.NewOsFs()
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "extsort",
		Short: "Sort the files of a directory into folders by extension",
		Long: `extsort moves every file of a directory into a subfolder chosen by its
extension. The extension to folder rules live in a small configuration file
(JSON, YAML or TOML); files matching no rule stay where they are.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return log.Default().Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file (rotated)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every step of a run")

	rootCmd.AddCommand(NewOrganizeCmd())
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewRulesCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewGUICmd())

	return rootCmd
}

// setupLogging routes the structured log. It stays silent unless --debug or
// --log-file asks for it, the commands print their own output.
func setupLogging(stderr io.Writer) error {
	log.SetDebug(debug)

	out := io.Discard
	if debug {
		out = stderr
	}
	opts := []log.Option{log.WithOutput(out)}
	if logFile != "" {
		opts = append(opts, log.WithFile(logFile))
	}
	log.Configure(opts...)
	return nil
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// newState builds the session for a command, printing notices to its output
func newState(cmd *cobra.Command, directory string) *session.State {
	state := session.New(configPath(),
		session.WithFs(appFs),
		session.WithSink(cli.NewSink(cmd.OutOrStdout(), verbose)),
	)
	state.Directory = directory
	return state
}

// targetDirectory returns the directory argument or the working directory
func targetDirectory(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("error getting current directory: %w", err)
	}
	return dir, nil
}

// interactive reports whether the command talks to a person at a terminal
func interactive(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !cli.IsTerminal(in) {
		return false
	}
	return cli.ShouldColorize(cmd.OutOrStdout())
}
