package generator

import (
	"errors"
	"math/rand"
	"time"

	"github.com/kcirtapfromspace/sudoku/internal/grid"
	"github.com/kcirtapfromspace/sudoku/internal/solver"
)

const (
	MinValidClueCount = 17
	MaxValidClueCount = 80
	DefaultClueCount  = 32
)

var (
	ErrGenerationFailed = errors.New("failed to generate valid puzzle")
	ErrInvalidClueCount = errors.New("clue count must be between 17 and 80")
	ErrDiggingFailed    = errors.New("failed to remove proper number of clues")
)

// Generator creates Sudoku puzzles.
type Generator struct {
	options *Options
	solver  *solver.Solver
	rng     *rand.Rand
}

// New creates a puzzle generator with the given options.
func New(options *Options) *Generator {
	if options == nil {
		options = DefaultOptions(DefaultClueCount)
	}

	seed := options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		options: options,
		solver:  solver.New(nil),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Generate creates a new Sudoku puzzle.
// Returns the puzzle and its solution, or an error if generation fails.
func (g *Generator) Generate() (puzzle *grid.Grid, solution *grid.Grid, err error) {
	if g.options.ClueCount < MinValidClueCount || g.options.ClueCount > MaxValidClueCount {
		return nil, nil, ErrInvalidClueCount
	}

	start := time.Now()
	timeout := g.options.Timeout

	for {
		if time.Since(start) >= timeout {
			return nil, nil, ErrGenerationFailed
		}

		// Generate a complete valid grid
		solution, err = g.generateSolution()
		if err != nil {
			continue
		}

		// Remove clues to create the puzzle
		puzzle, err = g.removeCells(solution)
		if err != nil {
			continue
		}

		// Verify uniqueness if required
		if g.options.EnsureUnique && !g.hasUniqueSolution(puzzle) {
			continue
		}

		return puzzle, solution, nil
	}
}

// generateSolution creates a complete valid Sudoku grid. It seeds the three
// diagonal boxes — which share no row, column, or box constraints — with
// random permutations, then completes the rest by backtracking.
func (g *Generator) generateSolution() (*grid.Grid, error) {
	b := grid.New()

	nums := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	for _, corner := range []int{0, 30, 60} {
		g.rng.Shuffle(len(nums), func(i, j int) {
			nums[i], nums[j] = nums[j], nums[i]
		})
		for j, val := range nums {
			pos := corner + (j/3)*9 + j%3
			b.SetForce(pos, val)
		}
	}

	return g.solver.FirstSolution(b)
}

// removeCells removes clues from a complete grid to create a puzzle.
func (g *Generator) removeCells(solution *grid.Grid) (*grid.Grid, error) {
	puzzle := solution.Clone()

	targetClues := g.options.ClueCount
	cellsToRemove := grid.CellCount - targetClues

	// Create shuffled list of all positions
	positions := g.rng.Perm(grid.CellCount)

	cellsRemoved := 0
	for _, pos := range positions {
		if cellsRemoved >= cellsToRemove {
			break
		}

		// Try removing this cell
		val := puzzle.Get(pos)
		if val == grid.EmptyCell {
			continue
		}

		if err := puzzle.Clear(pos); err != nil {
			return nil, err
		}
		cellsRemoved++

		// Verify the puzzle still has a unique solution
		if g.options.EnsureUnique && !g.hasUniqueSolution(puzzle) {
			puzzle.SetForce(pos, val)
			cellsRemoved--
		}
	}

	if cellsRemoved != cellsToRemove {
		return puzzle, ErrDiggingFailed
	}
	return puzzle, nil
}

// hasUniqueSolution checks if the puzzle has exactly one solution.
func (g *Generator) hasUniqueSolution(puzzle *grid.Grid) bool {
	_, err := g.solver.Solve(puzzle)
	return err == nil
}

// GenerateWithClueCount is a convenience function to generate a puzzle with a specific clue count.
func GenerateWithClueCount(clueCount int) (*grid.Grid, *grid.Grid, error) {
	gen := New(DefaultOptions(clueCount))
	return gen.Generate()
}
