package solver

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// fishShape is one candidate (base, cover) configuration for a digit.
// fins is the base coverage gap; elims are the cover cells outside the base.
type fishShape struct {
	digit int
	base  []int
	cover []int
	fins  fabric.CellSet
	elims fabric.CellSet
}

// fishMode restricts the sector kinds permitted in base and cover sets.
type fishMode struct {
	base  []fabric.SectorKind
	cover []fabric.SectorKind
}

// Named techniques are parameter tuples over one generic engine:
// (digit, size, permitted sector kinds, fin status).
var (
	pointingModes = []fishMode{
		{base: []fabric.SectorKind{fabric.BoxSector}, cover: []fabric.SectorKind{fabric.RowSector, fabric.ColSector}},
	}
	boxLineModes = []fishMode{
		{base: []fabric.SectorKind{fabric.RowSector, fabric.ColSector}, cover: []fabric.SectorKind{fabric.BoxSector}},
	}
	basicModes = []fishMode{
		{base: []fabric.SectorKind{fabric.RowSector}, cover: []fabric.SectorKind{fabric.ColSector}},
		{base: []fabric.SectorKind{fabric.ColSector}, cover: []fabric.SectorKind{fabric.RowSector}},
	}
	frankenModes = []fishMode{
		{base: []fabric.SectorKind{fabric.RowSector, fabric.BoxSector}, cover: []fabric.SectorKind{fabric.ColSector, fabric.BoxSector}},
		{base: []fabric.SectorKind{fabric.ColSector, fabric.BoxSector}, cover: []fabric.SectorKind{fabric.RowSector, fabric.BoxSector}},
	}
	mutantModes = []fishMode{
		{
			base:  []fabric.SectorKind{fabric.RowSector, fabric.ColSector, fabric.BoxSector},
			cover: []fabric.SectorKind{fabric.RowSector, fabric.ColSector, fabric.BoxSector},
		},
	}
)

func kindPermitted(kinds []fabric.SectorKind, sector int) bool {
	k := fabric.KindOf(sector)
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// enumerateFish walks every (base, cover) configuration of the given size
// and modes in deterministic order: digit ascending, base sector ids
// lexicographic, cover sector ids lexicographic. Base sectors must be
// pairwise disjoint on the digit's cells, likewise cover sectors; a cover
// sector must intersect the base cells. visit returning true stops the walk.
func (s *Solver) enumerateFish(f *fabric.Fabric, n int, modes []fishMode, visit func(fishShape) bool) {
	const minBase = 2 // a base sector with one position is a hidden single
	for d := 1; d <= 9; d++ {
		var sets [fabric.SectorCount]fabric.CellSet
		for sec := range fabric.SectorCount {
			sets[sec] = f.DigitCellSet(sec, d)
		}
		for _, mode := range modes {
			var baseCands []int
			for sec := range fabric.SectorCount {
				if !kindPermitted(mode.base, sec) {
					continue
				}
				if cnt := sets[sec].Len(); cnt >= minBase && cnt <= 6 {
					baseCands = append(baseCands, sec)
				}
			}
			if len(baseCands) < n {
				continue
			}
			for _, baseIdx := range combin.Combinations(len(baseCands), n) {
				base := make([]int, n)
				var beta fabric.CellSet
				disjoint := true
				for i, k := range baseIdx {
					sec := baseCands[k]
					base[i] = sec
					if beta.Overlaps(sets[sec]) {
						disjoint = false
						break
					}
					beta = beta.Union(sets[sec])
				}
				if !disjoint || beta.Len() < n {
					continue
				}

				var coverCands []int
				for sec := range fabric.SectorCount {
					if !kindPermitted(mode.cover, sec) || containsSector(base, sec) {
						continue
					}
					if sets[sec].Overlaps(beta) {
						coverCands = append(coverCands, sec)
					}
				}
				if len(coverCands) < n {
					continue
				}
				for _, coverIdx := range combin.Combinations(len(coverCands), n) {
					cover := make([]int, n)
					var kappa fabric.CellSet
					ok := true
					for i, k := range coverIdx {
						sec := coverCands[k]
						cover[i] = sec
						if kappa.Overlaps(sets[sec]) {
							ok = false
							break
						}
						kappa = kappa.Union(sets[sec])
					}
					if !ok {
						continue
					}
					elims := kappa.Diff(beta)
					if elims.IsEmpty() {
						continue
					}
					shape := fishShape{
						digit: d,
						base:  base,
						cover: cover,
						fins:  beta.Diff(kappa),
						elims: elims,
					}
					if visit(shape) {
						return
					}
				}
			}
		}
	}
}

func containsSector(sectors []int, sec int) bool {
	for _, s := range sectors {
		if s == sec {
			return true
		}
	}
	return false
}

// sharedBox returns the box sector containing every cell of the set,
// or -1 if the cells span more than one box.
func sharedBox(set fabric.CellSet) int {
	box := -1
	for _, c := range set.Cells() {
		b := fabric.BoxSectorOf(c)
		if box == -1 {
			box = b
		} else if box != b {
			return -1
		}
	}
	return box
}

// fishFinding converts a shape into a finding. Unfinned shapes require an
// empty coverage gap; finned shapes require all fins in one box, and the
// eliminations shrink to that box.
func fishFinding(t Technique, shape fishShape, finned bool) *Finding {
	target := shape.elims
	var fins []int
	if finned {
		box := sharedBox(shape.fins)
		if box == -1 {
			return nil
		}
		target = target.Intersect(fabric.SectorSet[box])
		fins = shape.fins.Cells()
	} else if !shape.fins.IsEmpty() {
		return nil
	}
	var elims []Candidate
	for _, c := range target.Cells() {
		elims = append(elims, Candidate{c, shape.digit})
	}
	return elimination(t, elims, FishProof{
		Digit: shape.digit,
		Base:  append([]int(nil), shape.base...),
		Cover: append([]int(nil), shape.cover...),
		Fins:  fins,
	})
}

// findPointingPair finds a digit confined, within a box, to one line:
// a size-1 unfinned fish with a box base and a line cover.
func (s *Solver) findPointingPair(f *fabric.Fabric) *Finding {
	return s.findFishFirst(f, 1, pointingModes, false, func(int) Technique { return PointingPair })
}

// findBoxLineReduction is the converse intersection: a line base with a
// box cover.
func (s *Solver) findBoxLineReduction(f *fabric.Fabric) *Finding {
	return s.findFishFirst(f, 1, boxLineModes, false, func(int) Technique { return BoxLineReduction })
}

// findBasicFish finds an unfinned row/column fish of the given size.
func (s *Solver) findBasicFish(f *fabric.Fabric, n int) *Finding {
	return s.findFishFirst(f, n, basicModes, false, basicFishTechnique)
}

// findFinnedFish finds a finned row/column fish of the given size.
func (s *Solver) findFinnedFish(f *fabric.Fabric, n int) *Finding {
	return s.findFishFirst(f, n, basicModes, true, finnedFishTechnique)
}

// findFrankenFish finds a fish whose base or cover includes boxes.
// Sizes ascend, unfinned before finned.
func (s *Solver) findFrankenFish(f *fabric.Fabric) *Finding {
	for n := 2; n <= 4; n++ {
		for _, finned := range []bool{false, true} {
			if fd := s.findFishFirst(f, n, frankenModes, finned, func(int) Technique { return FrankenFish }); fd != nil {
				return fd
			}
		}
	}
	return nil
}

// findMutantFish allows any sector kind on either side.
func (s *Solver) findMutantFish(f *fabric.Fabric) *Finding {
	for n := 2; n <= 4; n++ {
		for _, finned := range []bool{false, true} {
			if fd := s.findFishFirst(f, n, mutantModes, finned, func(int) Technique { return MutantFish }); fd != nil {
				return fd
			}
		}
	}
	return nil
}

func (s *Solver) findFishFirst(f *fabric.Fabric, n int, modes []fishMode, finned bool, tech func(n int) Technique) *Finding {
	var found *Finding
	s.enumerateFish(f, n, modes, func(shape fishShape) bool {
		if fd := fishFinding(tech(n), shape, finned); fd != nil {
			found = fd
			return true
		}
		return false
	})
	return found
}

// findSiameseFish finds two finned fishes of the same digit and size
// sharing a fin box, reporting the intersection of their eliminations.
func (s *Solver) findSiameseFish(f *fabric.Fabric) *Finding {
	type finnedHit struct {
		shape fishShape
		box   int
		elims fabric.CellSet
	}
	for n := 2; n <= 4; n++ {
		var hits []finnedHit
		s.enumerateFish(f, n, basicModes, func(shape fishShape) bool {
			box := sharedBox(shape.fins)
			if shape.fins.IsEmpty() || box == -1 {
				return false
			}
			target := shape.elims.Intersect(fabric.SectorSet[box])
			if target.IsEmpty() {
				return false
			}
			hits = append(hits, finnedHit{shape, box, target})
			return false
		})
		for i := range hits {
			for j := i + 1; j < len(hits); j++ {
				if hits[i].shape.digit != hits[j].shape.digit || hits[i].box != hits[j].box {
					continue
				}
				common := hits[i].elims.Intersect(hits[j].elims)
				if common.IsEmpty() {
					continue
				}
				var elims []Candidate
				for _, c := range common.Cells() {
					elims = append(elims, Candidate{c, hits[i].shape.digit})
				}
				fins := hits[i].shape.fins.Union(hits[j].shape.fins)
				return elimination(SiameseFish, elims, FishProof{
					Digit: hits[i].shape.digit,
					Base:  append([]int(nil), hits[i].shape.base...),
					Cover: append([]int(nil), hits[i].shape.cover...),
					Fins:  fins.Cells(),
				})
			}
		}
	}
	return nil
}

func basicFishTechnique(n int) Technique {
	switch n {
	case 2:
		return XWing
	case 3:
		return Swordfish
	default:
		return Jellyfish
	}
}

func finnedFishTechnique(n int) Technique {
	switch n {
	case 2:
		return FinnedXWing
	case 3:
		return FinnedSwordfish
	default:
		return FinnedJellyfish
	}
}
