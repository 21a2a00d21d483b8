package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kcirtapfromspace/sudoku"
)

func init() {
	rateCmd := &cobra.Command{
		Use:   "rate <puzzle>",
		Short: "Rate the difficulty of a puzzle",
		Args:  cobra.ExactArgs(1),
		RunE:  runRate,
	}
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	g, err := sudoku.Parse(args[0])
	if err != nil {
		return err
	}
	rating, err := sudoku.Rate(g)
	if err != nil {
		return err
	}
	fmt.Printf("SE: %.1f\nTier: %s\nHardest technique: %s\n",
		rating.SE, rating.Tier, rating.MaxTechnique)
	return nil
}
