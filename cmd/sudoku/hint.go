package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kcirtapfromspace/sudoku"
)

var verified bool

func init() {
	hintCmd := &cobra.Command{
		Use:   "hint <puzzle>",
		Short: "Show the next solving step for a puzzle",
		Args:  cobra.ExactArgs(1),
		RunE:  runHint,
	}
	hintCmd.Flags().BoolVar(&verified, "verified", false, "Verify the hint against the unique solution")
	rootCmd.AddCommand(hintCmd)
}

func runHint(cmd *cobra.Command, args []string) error {
	g, err := sudoku.Parse(args[0])
	if err != nil {
		return err
	}

	var hint *sudoku.Hint
	if verified {
		hint, err = sudoku.GetNextPlacement(g)
	} else {
		hint, err = sudoku.GetHint(g)
	}
	if err != nil {
		return err
	}

	switch hint.Kind {
	case sudoku.SetValue:
		fmt.Printf("%s (SE %.1f): r%dc%d = %d\n",
			hint.TechniqueID, hint.SEScore, hint.Cell/9+1, hint.Cell%9+1, hint.Value)
	case sudoku.EliminateCandidates:
		fmt.Printf("%s (SE %.1f):", hint.TechniqueID, hint.SEScore)
		for _, e := range hint.Eliminations {
			fmt.Printf(" r%dc%d<>%d", e.Cell/9+1, e.Cell%9+1, e.Digit)
		}
		fmt.Println()
	}
	return nil
}
