package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfriel/noodle/internal/config"
	"github.com/mfriel/noodle/internal/debug"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "noodle",
	Short: "An endless random-phrase generator for ear training",
	Long: `noodle plays an endless, randomly evolving musical phrase against a
metronome: one bar of music, one bar of rest. Notes are drawn from a
configurable note set at randomly timed intervals, so no two phrases
repeat.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			if dir, err := config.Dir(); err == nil {
				_ = debug.Enable(dir)
			}
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Disable()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write a debug log to the config directory")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
