package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kcirtapfromspace/sudoku"
)

func init() {
	solveCmd := &cobra.Command{
		Use:   "solve <puzzle>",
		Short: "Solve a puzzle given as an 81-character string",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	g, err := sudoku.Parse(args[0])
	if err != nil {
		return err
	}
	solution, err := sudoku.Solve(g)
	if err != nil {
		return err
	}
	fmt.Println(solution.Format())
	fmt.Println(solution)
	return nil
}
