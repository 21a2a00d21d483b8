package main

import (
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	cpuProfile bool
)

var rootCmd = &cobra.Command{
	Use:   "sudoku",
	Short: "Sudoku solving, hinting, rating, and generation",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if cpuProfile {
			stopper := profile.Start(profile.CPUProfile, profile.ProfilePath("."))
			cobra.OnFinalize(stopper.Stop)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cpuProfile, "profile", false, "Write a CPU profile to the current directory")
}
