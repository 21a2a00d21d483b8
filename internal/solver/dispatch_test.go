package solver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
	"github.com/kcirtapfromspace/sudoku/internal/grid"
)

// A well-known 17-clue minimal puzzle (Gordon Royle's collection).
const seventeenCluePuzzle = "000000010400000000020000000000050407008000300001090000300400200050100000000806000"

func mustParse(t *testing.T, s string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(s)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return g
}

func TestSolveClassicPuzzle(t *testing.T) {
	s := New(nil)
	solution, err := s.Solve(mustParse(t, wikipediaPuzzle))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if got := solution.String(); got != wikipediaSolution {
		t.Errorf("solution mismatch:\n got %s\nwant %s", got, wikipediaSolution)
	}
}

func TestSolveMultipleSolutions(t *testing.T) {
	// Two givens cannot pin down a unique grid.
	sparse := "12......." + "........." + "........." +
		"........." + "........." + "........." +
		"........." + "........." + "........."
	s := New(nil)
	if _, err := s.Solve(mustParse(t, sparse)); !errors.Is(err, ErrMultipleSolutions) {
		t.Errorf("Solve = %v, want ErrMultipleSolutions", err)
	}
	if _, err := s.GetNextPlacement(mustParse(t, sparse)); !errors.Is(err, ErrMultipleSolutions) {
		t.Errorf("GetNextPlacement = %v, want ErrMultipleSolutions", err)
	}
}

func TestSolveNoSolution(t *testing.T) {
	// Valid placements, but r0c8 has no candidate left.
	dead := "12345678." + "........9" + "........." +
		"........." + "........." + "........." +
		"........." + "........." + "........."
	s := New(nil)
	if _, err := s.Solve(mustParse(t, dead)); !errors.Is(err, ErrNoSolution) {
		t.Errorf("Solve = %v, want ErrNoSolution", err)
	}
	if _, err := s.GetHint(mustParse(t, dead)); !errors.Is(err, ErrNoSolution) {
		t.Errorf("GetHint = %v, want ErrNoSolution", err)
	}
}

func TestGetHintSolvedGrid(t *testing.T) {
	s := New(nil)
	if _, err := s.GetHint(mustParse(t, wikipediaSolution)); !errors.Is(err, ErrSolved) {
		t.Errorf("GetHint on solved grid = %v, want ErrSolved", err)
	}
}

func TestGetHintDeterminism(t *testing.T) {
	s := New(nil)
	g := mustParse(t, mediumPuzzle)
	fd1, err := s.GetHint(g)
	if err != nil {
		t.Fatal(err)
	}
	fd2, err := s.GetHint(g)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fd1, fd2); diff != "" {
		t.Errorf("hints differ across identical calls:\n%s", diff)
	}
}

func TestGetNextPlacementMatchesSolution(t *testing.T) {
	s := New(nil)
	g := mustParse(t, mediumPuzzle)
	solution, err := s.Solve(g)
	if err != nil {
		t.Fatal(err)
	}
	fd, err := s.GetNextPlacement(g)
	if err != nil {
		t.Fatal(err)
	}
	if !fd.IsPlacement() {
		t.Fatalf("GetNextPlacement returned %v, want a placement", fd)
	}
	if solution.Get(fd.Cell) != fd.Value {
		t.Errorf("placement %d at cell %d contradicts solution", fd.Value, fd.Cell)
	}
}

func TestGetNextPlacementSolvesToCompletion(t *testing.T) {
	s := New(nil)
	g := mustParse(t, wikipediaPuzzle)
	for i := 0; !g.IsComplete(); i++ {
		if i > grid.CellCount {
			t.Fatal("placement loop did not terminate")
		}
		fd, err := s.GetNextPlacement(g)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if want := int(wikipediaSolution[fd.Cell] - '0'); fd.Value != want {
			t.Fatalf("step %d: unsound placement %v", i, fd)
		}
		if err := g.Set(fd.Cell, fd.Value); err != nil {
			t.Fatalf("step %d: applying placement: %v", i, err)
		}
	}
	if g.String() != wikipediaSolution {
		t.Errorf("final grid mismatch: %s", g)
	}
}

func TestUnsoundEliminationFallsBack(t *testing.T) {
	s := New(nil)
	g := mustParse(t, wikipediaPuzzle)

	// Simulate a fish engine that skipped the fin-box check: it reports an
	// elimination of the cell's true value.
	s.findFirst = func(f *fabric.Fabric, depth int) *Finding {
		return elimination(FinnedXWing, []Candidate{{2, 4}}, FishProof{Digit: 4})
	}

	fd, err := s.GetNextPlacement(g)
	if err != nil {
		t.Fatal(err)
	}
	if !fd.IsPlacement() || fd.Technique != Backtracking {
		t.Fatalf("expected a backtracking fallback, got %v", fd)
	}
	if want := int(wikipediaSolution[fd.Cell] - '0'); fd.Value != want {
		t.Errorf("fallback placement %v contradicts solution", fd)
	}
}

func TestUnsoundPlacementFallsBack(t *testing.T) {
	s := New(nil)
	g := mustParse(t, wikipediaPuzzle)

	s.findFirst = func(f *fabric.Fabric, depth int) *Finding {
		return placement(NakedSingle, 2, 1, BasicProof{Cells: []int{2}})
	}

	fd, err := s.GetNextPlacement(g)
	if err != nil {
		t.Fatal(err)
	}
	if fd.Technique != Backtracking {
		t.Fatalf("expected a backtracking fallback, got %v", fd)
	}
	if want := int(wikipediaSolution[fd.Cell] - '0'); fd.Value != want {
		t.Errorf("fallback placement %v contradicts solution", fd)
	}
}

func TestStalledPipelineFallsBack(t *testing.T) {
	s := New(nil)
	g := mustParse(t, wikipediaPuzzle)

	s.findFirst = func(f *fabric.Fabric, depth int) *Finding { return nil }

	fd, err := s.GetNextPlacement(g)
	if err != nil {
		t.Fatal(err)
	}
	if fd.Technique != Backtracking {
		t.Fatalf("expected a backtracking fallback, got %v", fd)
	}
	if want := int(wikipediaSolution[fd.Cell] - '0'); fd.Value != want {
		t.Errorf("fallback placement %v contradicts solution", fd)
	}
}

func TestHintSoundnessBattery(t *testing.T) {
	puzzles := []string{wikipediaPuzzle, mediumPuzzle}
	s := New(nil)

	for _, puzzle := range puzzles {
		g := mustParse(t, puzzle)
		solution, err := s.Solve(g)
		if err != nil {
			t.Fatalf("%s: %v", puzzle, err)
		}

		working := g.Clone()
		for steps := 0; !working.IsComplete() && steps < 300; steps++ {
			fd, err := s.GetHint(working)
			if err != nil {
				t.Fatalf("%s step %d: %v", puzzle, steps, err)
			}
			if fd.IsPlacement() {
				if solution.Get(fd.Cell) != fd.Value {
					t.Fatalf("%s: unsound placement by %v: cell %d = %d, solution has %d",
						puzzle, fd.Technique, fd.Cell, fd.Value, solution.Get(fd.Cell))
				}
				if err := working.Set(fd.Cell, fd.Value); err != nil {
					t.Fatal(err)
				}
				continue
			}
			for _, e := range fd.Eliminations {
				if solution.Get(e.Cell) == e.Digit {
					t.Fatalf("%s: unsound elimination by %v: removing %d from cell %d",
						puzzle, fd.Technique, e.Digit, e.Cell)
				}
			}
			// GetHint is stateless over the grid; eliminations alone cannot
			// advance it, so stop once the puzzle needs more than placements.
			break
		}
	}
}

func TestBacktrackerOn17CluePuzzle(t *testing.T) {
	s := New(nil)
	solution, err := s.FirstSolution(mustParse(t, seventeenCluePuzzle))
	if err != nil {
		t.Fatalf("FirstSolution failed: %v", err)
	}
	if !solution.IsComplete() || !solution.IsValid() {
		t.Error("backtracker must complete the minimal puzzle with a valid grid")
	}
}

func TestRateClassicPuzzle(t *testing.T) {
	s := New(nil)
	rating, err := s.Rate(mustParse(t, wikipediaPuzzle))
	if err != nil {
		t.Fatal(err)
	}
	if rating.SE <= 0 {
		t.Errorf("SE score must be positive, got %f", rating.SE)
	}
	if rating.MaxTechnique > HiddenSingle {
		t.Errorf("classic easy puzzle should solve with singles, needed %v", rating.MaxTechnique)
	}
	if rating.Tier > Medium {
		t.Errorf("tier = %v, want at most medium", rating.Tier)
	}
}
