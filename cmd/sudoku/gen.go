package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kcirtapfromspace/sudoku"
	"github.com/kcirtapfromspace/sudoku/internal/generator"
)

var (
	numPuzzles int
	clueCount  string
	outputFile string
	genTimeout time.Duration
	genSeed    int64
	withRating bool
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Sudoku puzzles",
		Long: `Generate one or more Sudoku puzzles with a unique solution.

Each puzzle is emitted on one line: the 81-character puzzle, a space, and
its 81-character solution. With --rate, a "#" line follows with the
difficulty tier, SE score, hardest technique, and the first 8 bytes of the
canonical hash.

Examples:
  sudoku gen --clues 40
  sudoku gen -n 5 --clues 28:32 --rate
  sudoku gen --clues 20 --timeout 15s -o puzzles.txt`,
		RunE: runGen,
	}

	genCmd.Flags().IntVarP(&numPuzzles, "number", "n", 1, "Number of puzzles to generate")
	genCmd.Flags().StringVarP(&clueCount, "clues", "c", strconv.Itoa(generator.DefaultClueCount), "Number of clues 17-80, or a range like 28:32")
	genCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write puzzles to a file instead of stdout")
	genCmd.Flags().DurationVar(&genTimeout, "timeout", 10*time.Second, "Generation timeout per puzzle")
	genCmd.Flags().Int64Var(&genSeed, "seed", 0, "Seed for reproducible puzzles (0 = random)")
	genCmd.Flags().BoolVar(&withRating, "rate", false, "Rate each generated puzzle")

	rootCmd.AddCommand(genCmd)
}

// parseClueRange accepts a single clue count ("32") or a range ("28:32")
// and checks it against the generator's bounds.
func parseClueRange(s string) (lo, hi int, err error) {
	first, second, isRange := strings.Cut(s, ":")
	lo, err = strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clue count %q: %w", s, err)
	}
	hi = lo
	if isRange {
		hi, err = strconv.Atoi(strings.TrimSpace(second))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid clue count %q: %w", s, err)
		}
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("clue range %q: min exceeds max", s)
	}
	if lo < generator.MinValidClueCount || hi > generator.MaxValidClueCount {
		return 0, 0, fmt.Errorf("clue counts must be between %d and %d",
			generator.MinValidClueCount, generator.MaxValidClueCount)
	}
	return lo, hi, nil
}

// emitPuzzle writes one generated puzzle in the interchange format.
func emitPuzzle(w io.Writer, index int, puzzle, solution *sudoku.Grid) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", puzzle, solution); err != nil {
		return err
	}
	if !withRating {
		return nil
	}
	rating, err := sudoku.Rate(puzzle)
	if err != nil {
		return fmt.Errorf("rating puzzle %d: %w", index, err)
	}
	hash := sudoku.CanonicalHash(puzzle)
	_, err = fmt.Fprintf(w, "# tier=%s se=%.1f technique=%s hash=%x\n",
		rating.Tier, rating.SE, rating.MaxTechnique, hash[:8])
	return err
}

func runGen(cmd *cobra.Command, args []string) error {
	lo, hi, err := parseClueRange(clueCount)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		bw := bufio.NewWriter(file)
		defer bw.Flush()
		w = bw
	}

	seed := genSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < numPuzzles; i++ {
		clues := lo
		if hi > lo {
			clues = lo + rng.Intn(hi-lo+1)
		}

		opts := generator.DefaultOptions(clues)
		opts.Timeout = genTimeout
		opts.Seed = rng.Int63()

		puzzle, solution, err := generator.New(opts).Generate()
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		if err := emitPuzzle(w, i+1, puzzle, solution); err != nil {
			return err
		}
	}

	if outputFile != "" {
		fmt.Printf("Generated %d puzzle(s) in %s\n", numPuzzles, outputFile)
	}
	return nil
}
