// Package sudoku is a Sudoku reasoning engine: a constraint solver that,
// given a partially filled 9x9 grid, produces a full solution, a
// step-by-step human-style hint with a proof certificate, or a difficulty
// rating.
package sudoku

import (
	"github.com/kcirtapfromspace/sudoku/internal/grid"
	"github.com/kcirtapfromspace/sudoku/internal/solver"
)

// Grid is a 9x9 Sudoku grid.
type Grid = grid.Grid

// Candidate is a (cell, digit) pair.
type Candidate = solver.Candidate

// Rating is a difficulty report.
type Rating = solver.Rating

// Proof is a technique-specific certificate attached to a hint.
type Proof = solver.Proof

// Re-exported failure modes.
var (
	ErrInvalidChar       = grid.ErrInvalidChar
	ErrWrongLength       = grid.ErrWrongLength
	ErrNoSolution        = solver.ErrNoSolution
	ErrMultipleSolutions = solver.ErrMultipleSolutions
	ErrInvalidPuzzle     = solver.ErrInvalidPuzzle
	ErrSolved            = solver.ErrSolved
)

// HintKind distinguishes placements from candidate eliminations.
type HintKind int

const (
	SetValue HintKind = iota
	EliminateCandidates
)

// Hint is one verified or unverified solving step.
type Hint struct {
	Kind         HintKind
	Cell         int
	Value        int
	Eliminations []Candidate
	TechniqueID  string
	SEScore      float32
	Proof        Proof
}

func hintFromFinding(fd *solver.Finding) *Hint {
	h := &Hint{
		TechniqueID: fd.Technique.ID(),
		SEScore:     fd.Technique.SEScore(),
		Proof:       fd.Proof,
	}
	if fd.IsPlacement() {
		h.Kind = SetValue
		h.Cell = fd.Cell
		h.Value = fd.Value
	} else {
		h.Kind = EliminateCandidates
		h.Eliminations = append([]Candidate(nil), fd.Eliminations...)
	}
	return h
}

// Parse reads an 81-character puzzle string; '.' or '0' mark empty cells.
// Whitespace is ignored.
func Parse(s string) (*Grid, error) {
	return grid.Parse(s)
}

// Solve returns the unique solution, or reports no-solution or
// multiple-solution states.
func Solve(g *Grid) (*Grid, error) {
	return solver.New(nil).Solve(g)
}

// GetHint returns the first applicable technique in pipeline order,
// without soundness verification.
func GetHint(g *Grid) (*Hint, error) {
	fd, err := solver.New(nil).GetHint(g)
	if err != nil {
		return nil, err
	}
	return hintFromFinding(fd), nil
}

// GetNextPlacement chains oracle-verified eliminations until a placement
// emerges; the returned hint is always a SetValue consistent with the
// puzzle's unique solution.
func GetNextPlacement(g *Grid) (*Hint, error) {
	fd, err := solver.New(nil).GetNextPlacement(g)
	if err != nil {
		return nil, err
	}
	return hintFromFinding(fd), nil
}

// Rate reports the puzzle's difficulty: the continuous Sudoku Explainer
// maximum, the discrete tier, and the hardest technique required.
func Rate(g *Grid) (Rating, error) {
	return solver.New(nil).Rate(g)
}

// CanonicalHash returns the SHA-256 digest of the grid's canonical
// 81-character form.
func CanonicalHash(g *Grid) [32]byte {
	return g.CanonicalHash()
}
