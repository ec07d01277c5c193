package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "retrace",
	Short: "retrace records edits as undoable steps",
	Long: `retrace reads lines of text as successive versions of a buffer. Edits that
arrive within the debounce window are grouped into one undoable step.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}
