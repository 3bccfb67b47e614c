package main

import (
	"fmt"
	"os"

	"extsort/cmd/extsort/cli"
)

var (
	version = "dev"
)

// Entry point for the application
func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.NewPainter(os.Stderr).Error("Error: "+err.Error()))
		os.Exit(1)
	}
}
