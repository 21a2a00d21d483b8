package solver

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// findNakedSingle returns the first empty cell with exactly one candidate.
func (s *Solver) findNakedSingle(f *fabric.Fabric) *Finding {
	for c := range fabric.CellCount {
		if !f.IsEmptyCell(c) {
			continue
		}
		m := f.CandidatesMask(c)
		if m.Count() == 1 {
			return placement(NakedSingle, c, m.Lowest(), BasicProof{
				Sector: fabric.RowSectorOf(c),
				Cells:  []int{c},
				Digits: m,
			})
		}
	}
	return nil
}

// findHiddenSingle returns the first digit with exactly one position left
// in some sector. Sectors are scanned in identifier order, digits ascending.
func (s *Solver) findHiddenSingle(f *fabric.Fabric) *Finding {
	for sector := range fabric.SectorCount {
		for d := 1; d <= 9; d++ {
			pos := f.DigitPositions(sector, d)
			if pos.Count() != 1 {
				continue
			}
			cell := fabric.SectorCells[sector][pos.Lowest()-1]
			// A naked single in the same cell is reported by the naked
			// single finder first; anything else here is genuinely hidden.
			return placement(HiddenSingle, cell, d, BasicProof{
				Sector: sector,
				Cells:  []int{cell},
				Digits: fabric.DigitMask(d),
			})
		}
	}
	return nil
}

// findNakedSubset finds n cells of one sector whose candidate union has
// size n, eliminating those digits from the sector's other cells.
// Tie-break: lowest sector id, then lexicographic cell tuple.
func (s *Solver) findNakedSubset(f *fabric.Fabric, n int) *Finding {
	for sector := range fabric.SectorCount {
		var open []int
		for _, c := range fabric.SectorCells[sector] {
			if f.IsEmptyCell(c) {
				open = append(open, c)
			}
		}
		if len(open) <= n {
			continue
		}
		for _, idxs := range combin.Combinations(len(open), n) {
			var union fabric.Mask
			cells := make([]int, n)
			for i, k := range idxs {
				cells[i] = open[k]
				union |= f.CandidatesMask(open[k])
			}
			if union.Count() != n {
				continue
			}
			subset := fabric.NewCellSet(cells...)
			var elims []Candidate
			for _, c := range open {
				if subset.Has(c) {
					continue
				}
				for _, d := range (f.CandidatesMask(c) & union).Digits() {
					elims = append(elims, Candidate{c, d})
				}
			}
			if fd := elimination(nakedSubsetTechnique(n), elims, BasicProof{
				Sector: sector,
				Cells:  cells,
				Digits: union,
			}); fd != nil {
				return fd
			}
		}
	}
	return nil
}

// findHiddenSubset finds n digits of one sector whose position union has
// size n, eliminating all other digits from those cells.
func (s *Solver) findHiddenSubset(f *fabric.Fabric, n int) *Finding {
	for sector := range fabric.SectorCount {
		var digits []int
		for d := 1; d <= 9; d++ {
			if f.DigitPositions(sector, d) != 0 {
				digits = append(digits, d)
			}
		}
		if len(digits) <= n {
			continue
		}
		for _, idxs := range combin.Combinations(len(digits), n) {
			var posUnion fabric.Mask
			var digitMask fabric.Mask
			for _, k := range idxs {
				posUnion |= f.DigitPositions(sector, digits[k])
				digitMask |= fabric.DigitMask(digits[k])
			}
			if posUnion.Count() != n {
				continue
			}
			cells := make([]int, 0, n)
			var elims []Candidate
			for _, p := range posUnion.Digits() {
				c := fabric.SectorCells[sector][p-1]
				cells = append(cells, c)
				for _, d := range (f.CandidatesMask(c) &^ digitMask).Digits() {
					elims = append(elims, Candidate{c, d})
				}
			}
			if fd := elimination(hiddenSubsetTechnique(n), elims, BasicProof{
				Sector: sector,
				Cells:  cells,
				Digits: digitMask,
			}); fd != nil {
				return fd
			}
		}
	}
	return nil
}

func nakedSubsetTechnique(n int) Technique {
	switch n {
	case 2:
		return NakedPair
	case 3:
		return NakedTriple
	default:
		return NakedQuad
	}
}

func hiddenSubsetTechnique(n int) Technique {
	switch n {
	case 2:
		return HiddenPair
	case 3:
		return HiddenTriple
	default:
		return HiddenQuad
	}
}
