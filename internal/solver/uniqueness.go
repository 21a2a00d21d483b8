package solver

import (
	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// rectangle is four cells on two rows and two columns spanning exactly two
// boxes: the only shape in which two digits could swap without touching any
// other cell.
type rectangle struct {
	a, b, c, d int // a=(r1,c1) b=(r1,c2) c=(r2,c1) d=(r2,c2)
}

// rectangles enumerates deadly-capable rectangles in deterministic order.
func rectangles() []rectangle {
	var out []rectangle
	for r1 := 0; r1 < 9; r1++ {
		for r2 := r1 + 1; r2 < 9; r2++ {
			for c1 := 0; c1 < 9; c1++ {
				for c2 := c1 + 1; c2 < 9; c2++ {
					a, b := r1*9+c1, r1*9+c2
					c, d := r2*9+c1, r2*9+c2
					boxes := map[int]bool{
						fabric.BoxSectorOf(a): true, fabric.BoxSectorOf(b): true,
						fabric.BoxSectorOf(c): true, fabric.BoxSectorOf(d): true,
					}
					if len(boxes) == 2 {
						out = append(out, rectangle{a, b, c, d})
					}
				}
			}
		}
	}
	return out
}

var allRectangles = rectangles()

// findUniqueRectangle finds type 1 and type 2 unique rectangles: two or
// three bivalue floor corners force extra candidates in the roof.
func (s *Solver) findUniqueRectangle(f *fabric.Fabric) *Finding {
	for _, rect := range allRectangles {
		corners := [4]int{rect.a, rect.b, rect.c, rect.d}
		allEmpty := true
		for _, c := range corners {
			if !f.IsEmptyCell(c) {
				allEmpty = false
				break
			}
		}
		if !allEmpty {
			continue
		}
		// A floor pair is two bivalue corners with the same mask; every
		// corner must carry both floor digits.
		for fi := 0; fi < 4; fi++ {
			fm := f.CandidatesMask(corners[fi])
			if fm.Count() != 2 {
				continue
			}
			ok := true
			for _, c := range corners {
				if f.CandidatesMask(c)&fm != fm {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			var floor, roof []int
			for _, c := range corners {
				if f.CandidatesMask(c) == fm {
					floor = append(floor, c)
				} else {
					roof = append(roof, c)
				}
			}
			switch len(roof) {
			case 1:
				// Type 1: the lone roof corner cannot take either floor digit.
				var elims []Candidate
				for _, d := range fm.Digits() {
					elims = append(elims, Candidate{roof[0], d})
				}
				if fd := elimination(UniqueRectangle, elims, UniquenessProof{
					Floor: floor, Roof: roof, Digits: fm,
				}); fd != nil {
					return fd
				}
			case 2:
				// Type 2: both roof corners share one extra digit, which
				// must land in one of them.
				e1 := f.CandidatesMask(roof[0]) &^ fm
				e2 := f.CandidatesMask(roof[1]) &^ fm
				if e1 != e2 || e1.Count() != 1 {
					continue
				}
				z := e1.Lowest()
				zone := fabric.PeerSet[roof[0]].Intersect(fabric.PeerSet[roof[1]])
				var elims []Candidate
				for _, c := range zone.Cells() {
					if f.IsEmptyCell(c) && f.CandidatesMask(c).Has(z) {
						elims = append(elims, Candidate{c, z})
					}
				}
				if fd := elimination(UniqueRectangle, elims, UniquenessProof{
					Floor: floor, Roof: roof, Digits: fm | e1,
				}); fd != nil {
					return fd
				}
			}
		}
	}
	return nil
}

// findHiddenRectangle finds a bivalue corner whose opposite corner is
// pinned by conjugate links on one floor digit along both roof edges.
func (s *Solver) findHiddenRectangle(f *fabric.Fabric) *Finding {
	for _, rect := range allRectangles {
		corners := [4]int{rect.a, rect.b, rect.c, rect.d}
		opposite := [4]int{rect.d, rect.c, rect.b, rect.a}
		allEmpty := true
		for _, c := range corners {
			if !f.IsEmptyCell(c) {
				allEmpty = false
				break
			}
		}
		if !allEmpty {
			continue
		}
		for i, floor := range corners {
			fm := f.CandidatesMask(floor)
			if fm.Count() != 2 {
				continue
			}
			carryAll := true
			for _, c := range corners {
				if f.CandidatesMask(c)&fm != fm {
					carryAll = false
					break
				}
			}
			if !carryAll {
				continue
			}
			far := opposite[i]
			digits := fm.Digits()
			for _, y := range digits {
				x := fm &^ fabric.DigitMask(y)
				// y confined to the rectangle columns in far's row and the
				// rectangle rows in far's column: the deadly swap would be
				// forced if far took x.
				rowPos := f.DigitPositions(fabric.RowSectorOf(far), y)
				colPos := f.DigitPositions(fabric.ColSectorOf(far), y)
				if rowPos.Count() != 2 || colPos.Count() != 2 {
					continue
				}
				rowCells := f.DigitCellSet(fabric.RowSectorOf(far), y)
				colCells := f.DigitCellSet(fabric.ColSectorOf(far), y)
				rectSet := fabric.NewCellSet(corners[0], corners[1], corners[2], corners[3])
				if !rectSet.ContainsAll(rowCells) || !rectSet.ContainsAll(colCells) {
					continue
				}
				if fd := elimination(HiddenRectangle, []Candidate{{far, x.Lowest()}}, UniquenessProof{
					Floor: []int{floor}, Roof: []int{far}, Digits: fm,
				}); fd != nil {
					return fd
				}
			}
		}
	}
	return nil
}

// findAvoidableRectangle finds three solved, non-given corners one swap
// away from a deadly pattern; the fourth corner avoids completing it.
func (s *Solver) findAvoidableRectangle(f *fabric.Fabric) *Finding {
	for _, rect := range allRectangles {
		// Orient the rectangle four ways: the empty corner is d.
		orients := [4][4]int{
			{rect.a, rect.b, rect.c, rect.d},
			{rect.b, rect.a, rect.d, rect.c},
			{rect.c, rect.d, rect.a, rect.b},
			{rect.d, rect.c, rect.b, rect.a},
		}
		for _, o := range orients {
			a, b, c, d := o[0], o[1], o[2], o[3]
			// a is diagonal to d; b and c are the adjacent corners.
			if !f.IsEmptyCell(d) || f.IsEmptyCell(a) || f.IsEmptyCell(b) || f.IsEmptyCell(c) {
				continue
			}
			if f.IsGiven(a) || f.IsGiven(b) || f.IsGiven(c) {
				continue
			}
			x, y1, y2 := f.Value(a), f.Value(b), f.Value(c)
			if y1 != y2 || x == y1 {
				continue
			}
			if !f.CandidatesMask(d).Has(x) {
				continue
			}
			if fd := elimination(AvoidableRectangle, []Candidate{{d, x}}, UniquenessProof{
				Floor: []int{a, b, c}, Roof: []int{d},
				Digits: fabric.DigitMask(x) | fabric.DigitMask(y1),
			}); fd != nil {
				return fd
			}
		}
	}
	return nil
}

// findExtendedUniqueRectangle finds six cells on two rows and three columns
// (or the transpose) spanning three boxes and sharing three digits, with
// exactly one cell carrying extras.
func (s *Solver) findExtendedUniqueRectangle(f *fabric.Fabric) *Finding {
	check := func(cells [6]int) *Finding {
		boxes := make(map[int]bool)
		for _, c := range cells {
			if !f.IsEmptyCell(c) {
				return nil
			}
			boxes[fabric.BoxSectorOf(c)] = true
		}
		if len(boxes) != 3 {
			return nil
		}
		// Exactly one cell may carry candidates beyond the three-digit core.
		for i, extraCell := range cells {
			var base fabric.Mask
			for j, c := range cells {
				if j != i {
					base |= f.CandidatesMask(c)
				}
			}
			if base.Count() != 3 {
				continue
			}
			em := f.CandidatesMask(extraCell)
			if em&^base == 0 || em&base == 0 {
				continue
			}
			var elims []Candidate
			for _, d := range (em & base).Digits() {
				elims = append(elims, Candidate{extraCell, d})
			}
			floor := make([]int, 0, 5)
			for j, c := range cells {
				if j != i {
					floor = append(floor, c)
				}
			}
			return elimination(ExtendedUniqueRectangle, elims, UniquenessProof{
				Floor: floor, Roof: []int{extraCell}, Digits: base,
			})
		}
		return nil
	}

	for r1 := 0; r1 < 9; r1++ {
		for r2 := r1 + 1; r2 < 9; r2++ {
			for c1 := 0; c1 < 9; c1++ {
				for c2 := c1 + 1; c2 < 9; c2++ {
					for c3 := c2 + 1; c3 < 9; c3++ {
						cells := [6]int{
							r1*9 + c1, r1*9 + c2, r1*9 + c3,
							r2*9 + c1, r2*9 + c2, r2*9 + c3,
						}
						if fd := check(cells); fd != nil {
							return fd
						}
					}
				}
			}
		}
	}
	for c1 := 0; c1 < 9; c1++ {
		for c2 := c1 + 1; c2 < 9; c2++ {
			for r1 := 0; r1 < 9; r1++ {
				for r2 := r1 + 1; r2 < 9; r2++ {
					for r3 := r2 + 1; r3 < 9; r3++ {
						cells := [6]int{
							r1*9 + c1, r2*9 + c1, r3*9 + c1,
							r1*9 + c2, r2*9 + c2, r3*9 + c2,
						}
						if fd := check(cells); fd != nil {
							return fd
						}
					}
				}
			}
		}
	}
	return nil
}

// findBug detects the bivalue-universal-grave plus one: every empty cell
// bivalue except a single trivalue cell. The digit appearing three times
// in one of that cell's sectors must go there, or the grid would collapse
// into a deadly two-solution state.
func (s *Solver) findBug(f *fabric.Fabric) *Finding {
	extra := -1
	for c := range fabric.CellCount {
		if !f.IsEmptyCell(c) {
			continue
		}
		switch f.CandidatesMask(c).Count() {
		case 2:
		case 3:
			if extra != -1 {
				return nil
			}
			extra = c
		default:
			return nil
		}
	}
	if extra == -1 {
		return nil
	}
	// Outside the trivalue cell's sectors, every digit must sit in at most
	// two positions, or the grid is not one candidate away from a grave.
	for sector := range fabric.SectorCount {
		inExtra := sector == fabric.RowSectorOf(extra) ||
			sector == fabric.ColSectorOf(extra) ||
			sector == fabric.BoxSectorOf(extra)
		for d := 1; d <= 9; d++ {
			limit := 2
			if inExtra && f.CandidatesMask(extra).Has(d) {
				limit = 3
			}
			if f.DigitPositions(sector, d).Count() > limit {
				return nil
			}
		}
	}
	row := fabric.RowSectorOf(extra)
	for _, d := range f.CandidatesMask(extra).Digits() {
		if f.DigitPositions(row, d).Count() == 3 {
			return placement(BivalueUniversalGrave, extra, d, UniquenessProof{
				Roof:   []int{extra},
				Digits: f.CandidatesMask(extra),
			})
		}
	}
	return nil
}

// findEmptyRectangle finds a digit confined, within a box, to one row/column
// cross; a conjugate pair pointing at one arm eliminates the far end of the
// other arm.
func (s *Solver) findEmptyRectangle(f *fabric.Fabric) *Finding {
	for d := 1; d <= 9; d++ {
		for box := 18; box < 27; box++ {
			pos := f.DigitCellSet(box, d)
			if pos.Len() < 2 {
				continue
			}
			boxCells := fabric.SectorSet[box]
			rows := boxRows(box)
			cols := boxCols(box)
			for _, r := range rows {
				rowArm := fabric.SectorSet[r].Intersect(boxCells)
				for _, col := range cols {
					colArm := fabric.SectorSet[col].Intersect(boxCells)
					cross := rowArm.Union(colArm)
					if !cross.ContainsAll(pos) {
						continue
					}
					// Confined to a single line is a pointing shape, not an ER.
					if fabric.SectorSet[r].ContainsAll(pos) || fabric.SectorSet[col].ContainsAll(pos) {
						continue
					}
					if fd := s.emptyRectangleElims(f, d, box, r, col); fd != nil {
						return fd
					}
				}
			}
		}
	}
	return nil
}

func boxRows(box int) [3]int {
	top := ((box - 18) / 3) * 3
	return [3]int{top, top + 1, top + 2}
}

func boxCols(box int) [3]int {
	left := ((box - 18) % 3) * 3
	return [3]int{9 + left, 9 + left + 1, 9 + left + 2}
}

func (s *Solver) emptyRectangleElims(f *fabric.Fabric, d, box, rowSector, colSector int) *Finding {
	boxCells := fabric.SectorSet[box]

	// Column conjugate pairs hitting the ER row.
	for cs := 9; cs < 18; cs++ {
		if pairCells := f.DigitCellSet(cs, d); pairCells.Len() == 2 && !pairCells.Overlaps(boxCells) {
			cells := pairCells.Cells()
			for i, p1 := range cells {
				p2 := cells[1-i]
				if fabric.RowSectorOf(p1) != rowSector {
					continue
				}
				target := (fabric.RowSectorOf(p2))*9 + (colSector - 9)
				if fabric.BoxSectorOf(target) == box || !f.IsEmptyCell(target) {
					continue
				}
				if !f.CandidatesMask(target).Has(d) {
					continue
				}
				return elimination(EmptyRectangle, []Candidate{{target, d}}, FishProof{
					Digit: d,
					Base:  []int{box},
					Cover: []int{rowSector, colSector},
					Fins:  []int{p1, p2},
				})
			}
		}
	}
	// Row conjugate pairs hitting the ER column.
	for rs := 0; rs < 9; rs++ {
		if pairCells := f.DigitCellSet(rs, d); pairCells.Len() == 2 && !pairCells.Overlaps(boxCells) {
			cells := pairCells.Cells()
			for i, p1 := range cells {
				p2 := cells[1-i]
				if fabric.ColSectorOf(p1) != colSector {
					continue
				}
				target := rowSector*9 + (fabric.ColSectorOf(p2) - 9)
				if fabric.BoxSectorOf(target) == box || !f.IsEmptyCell(target) {
					continue
				}
				if !f.CandidatesMask(target).Has(d) {
					continue
				}
				return elimination(EmptyRectangle, []Candidate{{target, d}}, FishProof{
					Digit: d,
					Base:  []int{box},
					Cover: []int{rowSector, colSector},
					Fins:  []int{p1, p2},
				})
			}
		}
	}
	return nil
}
