package generator

import (
	"testing"
	"time"

	"github.com/kcirtapfromspace/sudoku/internal/solver"
)

func TestGenerate(t *testing.T) {
	opts := DefaultOptions(40)
	opts.Seed = 1
	opts.Timeout = 30 * time.Second
	gen := New(opts)

	puzzle, solution, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if puzzle.ClueCount() != 40 {
		t.Errorf("clue count = %d, want 40", puzzle.ClueCount())
	}
	if !solution.IsComplete() || !solution.IsValid() {
		t.Error("solution must be a complete valid grid")
	}

	solved, err := solver.New(nil).Solve(puzzle)
	if err != nil {
		t.Fatalf("generated puzzle is not uniquely solvable: %v", err)
	}
	if solved.String() != solution.String() {
		t.Error("puzzle's unique solution must match the reported solution")
	}
}

func TestGenerateRejectsBadClueCount(t *testing.T) {
	gen := New(&Options{ClueCount: 5, Timeout: time.Second})
	if _, _, err := gen.Generate(); err != ErrInvalidClueCount {
		t.Errorf("err = %v, want ErrInvalidClueCount", err)
	}
}
