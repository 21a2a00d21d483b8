package fabric

import (
	"errors"
	"fmt"

	"github.com/kcirtapfromspace/sudoku/internal/grid"
)

// ErrContradiction reports that the fabric reached an inconsistent state.
var ErrContradiction = errors.New("candidate fabric is contradictory")

// Outcome is the result of a fabric mutation. All mutators are total:
// callers must handle Contradiction explicitly.
type Outcome int

const (
	NoChange Outcome = iota
	Changed
	Contradiction
)

// Fabric is the solver's working state: per-cell candidate masks plus
// derived per-sector digit position indexes. Candidates only shrink and
// placements only grow over the fabric's lifetime.
//
// The sector indexes track candidate positions of unplaced cells only;
// placing a digit clears its sector masks. A digit is placed in a sector
// exactly when its position mask is empty and the digit is in sectorPlaced.
type Fabric struct {
	cells        [CellCount]Mask
	sectors      [SectorCount][9]Mask
	sectorPlaced [SectorCount]Mask
	values       [CellCount]int8
	given        [CellCount]bool
	empty        int
}

// FromGrid projects a fabric from a grid: candidates of each empty cell are
// {1..9} minus the values of its peers; filled cells carry their value only.
func FromGrid(g *grid.Grid) *Fabric {
	f := &Fabric{}
	for c := range CellCount {
		if v := g.Get(c); v != grid.EmptyCell {
			f.values[c] = int8(v)
			f.given[c] = g.IsGiven(c)
			f.cells[c] = DigitMask(v)
			for _, s := range CellSectors[c] {
				f.sectorPlaced[s] |= DigitMask(v)
			}
		}
	}
	for c := range CellCount {
		if f.values[c] != 0 {
			continue
		}
		f.empty++
		m := AllDigits
		for _, p := range Peers[c] {
			if f.values[p] != 0 {
				m &^= DigitMask(int(f.values[p]))
			}
		}
		f.cells[c] = m
		for i, s := range CellSectors[c] {
			bit := Mask(1) << uint(PosInSector[c][i])
			for _, d := range m.Digits() {
				f.sectors[s][d-1] |= bit
			}
		}
	}
	return f
}

// Clone returns an independent copy of the fabric.
func (f *Fabric) Clone() *Fabric {
	clone := *f
	return &clone
}

// CandidatesMask returns the candidate mask of a cell.
func (f *Fabric) CandidatesMask(c int) Mask { return f.cells[c] }

// Value returns the placed or given value of a cell, 0 if empty.
func (f *Fabric) Value(c int) int { return int(f.values[c]) }

// IsGiven reports whether a cell is one of the puzzle's original clues;
// placed cells report false.
func (f *Fabric) IsGiven(c int) bool { return f.given[c] }

// IsEmptyCell reports whether a cell has no value yet.
func (f *Fabric) IsEmptyCell(c int) bool { return f.values[c] == 0 }

// EmptyCount returns the number of unfilled cells.
func (f *Fabric) EmptyCount() int { return f.empty }

// Solved reports whether every cell has a value.
func (f *Fabric) Solved() bool { return f.empty == 0 }

// DigitPositions returns the position mask of digit d in a sector:
// bit k is set iff the k-th cell of the sector still carries d unplaced.
func (f *Fabric) DigitPositions(sector, d int) Mask {
	return f.sectors[sector][d-1]
}

// DigitCellSet returns the unplaced cells of a sector carrying digit d.
func (f *Fabric) DigitCellSet(sector, d int) CellSet {
	var set CellSet
	m := f.sectors[sector][d-1]
	for _, k := range m.Digits() {
		set.Add(SectorCells[sector][k-1])
	}
	return set
}

// DigitCells returns every unplaced cell on the grid carrying digit d.
func (f *Fabric) DigitCells(d int) CellSet {
	var set CellSet
	for s := 0; s < 9; s++ {
		set = set.Union(f.DigitCellSet(s, d))
	}
	return set
}

// Eliminate clears digit d from a cell and the matching bits of the cell's
// three sector masks, then propagates naked and hidden singles to quiescence.
func (f *Fabric) Eliminate(c, d int) Outcome {
	if f.values[c] != 0 {
		if int(f.values[c]) == d {
			return Contradiction
		}
		return NoChange
	}
	if !f.cells[c].Has(d) {
		return NoChange
	}
	if f.eliminateRaw(c, d) == Contradiction {
		return Contradiction
	}
	if f.propagate() == Contradiction {
		return Contradiction
	}
	return Changed
}

// Place asserts digit d at cell c, eliminates d from every peer and all other
// digits from c, then propagates naked and hidden singles to quiescence.
func (f *Fabric) Place(c, d int) Outcome {
	if f.values[c] != 0 {
		if int(f.values[c]) == d {
			return NoChange
		}
		return Contradiction
	}
	if !f.cells[c].Has(d) {
		return Contradiction
	}
	if f.placeRaw(c, d) == Contradiction {
		return Contradiction
	}
	if f.propagate() == Contradiction {
		return Contradiction
	}
	return Changed
}

// eliminateRaw clears one candidate without propagation.
// The caller guarantees the cell is unplaced and carries d.
func (f *Fabric) eliminateRaw(c, d int) Outcome {
	f.cells[c] &^= DigitMask(d)
	for i, s := range CellSectors[c] {
		f.sectors[s][d-1] &^= Mask(1) << uint(PosInSector[c][i])
		if f.sectors[s][d-1] == 0 && !f.sectorPlaced[s].Has(d) {
			return Contradiction
		}
	}
	if f.cells[c] == 0 {
		return Contradiction
	}
	return Changed
}

// placeRaw records a placement and performs the induced eliminations
// without propagation.
func (f *Fabric) placeRaw(c, d int) Outcome {
	f.values[c] = int8(d)
	f.empty--
	f.cells[c] = DigitMask(d)

	// The cell leaves the unplaced indexes entirely.
	for i, s := range CellSectors[c] {
		bit := Mask(1) << uint(PosInSector[c][i])
		for di := range 9 {
			f.sectors[s][di] &^= bit
		}
		f.sectorPlaced[s] |= DigitMask(d)
	}

	for _, p := range Peers[c] {
		if f.values[p] != 0 {
			if int(f.values[p]) == d {
				return Contradiction
			}
			continue
		}
		if !f.cells[p].Has(d) {
			continue
		}
		if f.eliminateRaw(p, d) == Contradiction {
			return Contradiction
		}
	}

	// A sector digit left without positions must already be placed there.
	for _, s := range CellSectors[c] {
		for di := range 9 {
			if f.sectors[s][di] == 0 && !f.sectorPlaced[s].Has(di+1) {
				return Contradiction
			}
		}
	}
	return Changed
}

// propagate places naked and hidden singles until quiescence. Each round
// rescans the whole fabric for the first single (cells before sectors) and
// places it; there is no queue of changed cells, so singles are taken in scan
// order, not breadth-first.
func (f *Fabric) propagate() Outcome {
	for {
		c, d, ok := f.findSingle()
		if !ok {
			return Changed
		}
		if f.placeRaw(c, d) == Contradiction {
			return Contradiction
		}
	}
}

// findSingle locates the next naked or hidden single, if any.
func (f *Fabric) findSingle() (cell, digit int, ok bool) {
	for c := range CellCount {
		if f.values[c] == 0 && f.cells[c].Count() == 1 {
			return c, f.cells[c].Lowest(), true
		}
	}
	for s := range SectorCount {
		for di := range 9 {
			if f.sectors[s][di].Count() == 1 {
				k := f.sectors[s][di].Lowest() - 1
				return SectorCells[s][k], di + 1, true
			}
		}
	}
	return 0, 0, false
}

// ApplyTo writes the fabric's placements into a grid clone and returns it.
func (f *Fabric) ApplyTo(g *grid.Grid) *grid.Grid {
	out := g.Clone()
	for c := range CellCount {
		if f.values[c] != 0 && out.Get(c) == grid.EmptyCell {
			out.SetForce(c, int(f.values[c]))
		}
	}
	return out
}

// CheckInvariants verifies the fabric's structural invariants.
// It is intended for tests and debugging, not the solving hot path.
func (f *Fabric) CheckInvariants() error {
	for c := range CellCount {
		if f.values[c] != 0 {
			if f.cells[c] != DigitMask(int(f.values[c])) {
				return fmt.Errorf("cell %d placed with %d but candidate mask %09b", c, f.values[c], f.cells[c])
			}
			for _, p := range Peers[c] {
				if f.values[p] == 0 && f.cells[p].Has(int(f.values[c])) {
					return fmt.Errorf("peer %d of placed cell %d still carries %d", p, c, f.values[c])
				}
			}
			continue
		}
		if f.cells[c] == 0 {
			return fmt.Errorf("%w: empty cell %d has no candidates", ErrContradiction, c)
		}
		for i, s := range CellSectors[c] {
			bit := Mask(1) << uint(PosInSector[c][i])
			for d := 1; d <= 9; d++ {
				inCell := f.cells[c].Has(d)
				inSector := f.sectors[s][d-1]&bit != 0
				if inCell != inSector {
					return fmt.Errorf("cell %d digit %d: cell mask and sector %d disagree", c, d, s)
				}
			}
		}
	}
	for s := range SectorCount {
		for d := 1; d <= 9; d++ {
			if f.sectors[s][d-1] == 0 != f.sectorPlaced[s].Has(d) {
				return fmt.Errorf("sector %d digit %d: placement and position mask disagree", s, d)
			}
		}
	}
	return nil
}
