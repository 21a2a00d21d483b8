package solver

import (
	"github.com/kcirtapfromspace/sudoku/internal/fabric"
	"github.com/kcirtapfromspace/sudoku/internal/grid"
)

// findMRVCell returns the empty cell with the fewest candidates,
// lowest index on ties, or -1 on a solved fabric.
func findMRVCell(f *fabric.Fabric) int {
	best, bestCount := -1, 10
	for c := range fabric.CellCount {
		if !f.IsEmptyCell(c) {
			continue
		}
		if n := f.CandidatesMask(c).Count(); n < bestCount {
			best, bestCount = c, n
			if n <= 1 {
				break
			}
		}
	}
	return best
}

// solveRecursive completes the fabric in place by depth-first search with
// the MRV heuristic. Digits are tried ascending, so the search — and the
// solution it lands on first — is deterministic.
func solveRecursive(f *fabric.Fabric) bool {
	if f.Solved() {
		return true
	}
	c := findMRVCell(f)
	for _, d := range f.CandidatesMask(c).Digits() {
		clone := f.Clone()
		if clone.Place(c, d) == fabric.Contradiction {
			continue
		}
		if solveRecursive(clone) {
			*f = *clone
			return true
		}
	}
	return false
}

// countSolutions counts completions of the fabric up to limit.
// firstOut, when non-nil, receives the first solution found.
func countSolutions(f *fabric.Fabric, limit int, firstOut **fabric.Fabric) int {
	if f.Solved() {
		if firstOut != nil && *firstOut == nil {
			*firstOut = f.Clone()
		}
		return 1
	}
	c := findMRVCell(f)
	count := 0
	for _, d := range f.CandidatesMask(c).Digits() {
		clone := f.Clone()
		if clone.Place(c, d) == fabric.Contradiction {
			continue
		}
		count += countSolutions(clone, limit-count, firstOut)
		if count >= limit {
			return count
		}
	}
	return count
}

// backtrackingHint places the MRV cell from the canonical solution: the
// last-resort hint when no logical technique applies.
func backtrackingHint(f *fabric.Fabric, solution *grid.Grid) *Finding {
	c := findMRVCell(f)
	if c < 0 {
		return nil
	}
	return placement(Backtracking, c, solution.Get(c), BacktrackProof{})
}
