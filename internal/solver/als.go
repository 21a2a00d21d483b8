package solver

import (
	"sort"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// als is an almost-locked set: n cells of one sector carrying n+1 digits.
type als struct {
	sector int
	cells  []int
	set    fabric.CellSet
	cands  fabric.Mask
}

// enumerateALS collects every ALS of size 1-4, deduplicated across sectors
// and sorted by (cell count, lexicographic cells). A single bivalue cell is
// the size-1 case.
func (s *Solver) enumerateALS(f *fabric.Fabric) []als {
	seen := make(map[fabric.CellSet]bool)
	var out []als
	for sector := range fabric.SectorCount {
		var open []int
		for _, c := range fabric.SectorCells[sector] {
			if f.IsEmptyCell(c) {
				open = append(open, c)
			}
		}
		for n := 1; n <= 4 && n <= len(open); n++ {
			for _, idxs := range combin.Combinations(len(open), n) {
				var cands fabric.Mask
				cells := make([]int, n)
				for i, k := range idxs {
					cells[i] = open[k]
					cands |= f.CandidatesMask(open[k])
				}
				if cands.Count() != n+1 {
					continue
				}
				set := fabric.NewCellSet(cells...)
				if seen[set] {
					continue
				}
				seen[set] = true
				out = append(out, als{sector: sector, cells: cells, set: set, cands: cands})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].cells) != len(out[j].cells) {
			return len(out[i].cells) < len(out[j].cells)
		}
		return lessCells(out[i].cells, out[j].cells)
	})
	return out
}

func lessCells(a, b []int) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// digitCells returns the cells of the ALS carrying digit d.
func (a als) digitCells(f *fabric.Fabric, d int) fabric.CellSet {
	var set fabric.CellSet
	for _, c := range a.cells {
		if f.CandidatesMask(c).Has(d) {
			set.Add(c)
		}
	}
	return set
}

// restricted reports whether digit d is a restricted common candidate of
// two disjoint ALS: every d-cell of one sees every d-cell of the other.
func restricted(f *fabric.Fabric, a, b als, d int) bool {
	ad, bd := a.digitCells(f, d), b.digitCells(f, d)
	if ad.IsEmpty() || bd.IsEmpty() {
		return false
	}
	for _, c := range ad.Cells() {
		if !fabric.SeesAll(c, bd) {
			return false
		}
	}
	return true
}

// rccDigits lists the restricted common candidates of two disjoint ALS.
func rccDigits(f *fabric.Fabric, a, b als) []int {
	var out []int
	for _, d := range (a.cands & b.cands).Digits() {
		if restricted(f, a, b, d) {
			out = append(out, d)
		}
	}
	return out
}

// zEliminations finds cells outside both sets seeing every z-cell of each.
func zEliminations(f *fabric.Fabric, a, b als, z int) []Candidate {
	az, bz := a.digitCells(f, z), b.digitCells(f, z)
	targets := fabric.CommonPeers(az.Union(bz))
	exclude := a.set.Union(b.set)
	var elims []Candidate
	for _, c := range targets.Cells() {
		if exclude.Has(c) || !f.IsEmptyCell(c) {
			continue
		}
		if f.CandidatesMask(c).Has(z) {
			elims = append(elims, Candidate{c, z})
		}
	}
	return elims
}

func alsProofSets(sets ...als) []AlsSet {
	out := make([]AlsSet, len(sets))
	for i, a := range sets {
		out[i] = AlsSet{Cells: append([]int(nil), a.cells...), Digits: a.cands}
	}
	return out
}

// findAlsXz pairs disjoint ALS linked by a restricted common candidate x;
// any further common digit z is eliminated from cells seeing all z-cells of
// both sets. Pairs are tried smallest total cell count first, then lex.
func (s *Solver) findAlsXz(f *fabric.Fabric) *Finding {
	return s.searchAlsXz(f, AlsXz, func(a, b als) bool { return true })
}

// findWxyzWing is ALS-XZ restricted to a 3+1 split over four digits.
func (s *Solver) findWxyzWing(f *fabric.Fabric) *Finding {
	return s.searchAlsXz(f, WXYZWing, func(a, b als) bool {
		na, nb := len(a.cells), len(b.cells)
		if na+nb != 4 || (na != 1 && nb != 1) {
			return false
		}
		return (a.cands | b.cands).Count() == 4
	})
}

func (s *Solver) searchAlsXz(f *fabric.Fabric, t Technique, accept func(a, b als) bool) *Finding {
	sets := s.enumerateALS(f)
	type hit struct {
		total int
		cells []int
		fd    *Finding
	}
	var best *hit
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			a, b := sets[i], sets[j]
			if a.set.Overlaps(b.set) || !accept(a, b) {
				continue
			}
			total := len(a.cells) + len(b.cells)
			if best != nil && total > best.total {
				continue
			}
			rccs := rccDigits(f, a, b)
			if len(rccs) == 0 {
				continue
			}
			for _, x := range rccs {
				for _, z := range (a.cands & b.cands).Digits() {
					if z == x {
						continue
					}
					elims := zEliminations(f, a, b, z)
					if len(elims) == 0 {
						continue
					}
					fd := elimination(t, elims, AlsProof{
						Sets: alsProofSets(a, b),
						RCCs: []int{x},
						Z:    z,
					})
					key := append(append([]int(nil), a.cells...), b.cells...)
					if best == nil || total < best.total || lessCells(key, best.cells) {
						best = &hit{total: total, cells: key, fd: fd}
					}
				}
			}
		}
	}
	if best == nil {
		return nil
	}
	return best.fd
}

// findXyWing finds a bivalue pivot {x,y} with wings {x,z} and {y,z}:
// the smallest ALS-XZ instantiation, kept as its own identifier.
func (s *Solver) findXyWing(f *fabric.Fabric) *Finding {
	return s.findBentWing(f, XYWing, 2)
}

// findXyzWing is the same template with a trivalue pivot {x,y,z}; the pivot
// then also carries z, so eliminations must see the pivot too.
func (s *Solver) findXyzWing(f *fabric.Fabric) *Finding {
	return s.findBentWing(f, XYZWing, 3)
}

// findBentWing finds pivot/wing triples. pivotSize selects the XY (2) or
// XYZ (3) variant.
func (s *Solver) findBentWing(f *fabric.Fabric, t Technique, pivotSize int) *Finding {
	for pivot := range fabric.CellCount {
		pm := f.CandidatesMask(pivot)
		if !f.IsEmptyCell(pivot) || pm.Count() != pivotSize {
			continue
		}
		peers := fabric.PeerSet[pivot].Cells()
		for wi, w1 := range peers {
			m1 := f.CandidatesMask(w1)
			if !f.IsEmptyCell(w1) || m1.Count() != 2 {
				continue
			}
			for _, w2 := range peers[wi+1:] {
				m2 := f.CandidatesMask(w2)
				if !f.IsEmptyCell(w2) || m2.Count() != 2 {
					continue
				}
				z := m1 & m2
				if z.Count() != 1 {
					continue
				}
				union := pm | m1 | m2
				// XY: pivot = {x,y}, wings add only z. XYZ: pivot carries z.
				if pivotSize == 2 {
					if union.Count() != 3 || pm.Has(z.Lowest()) || (m1|m2)&pm != pm {
						continue
					}
				} else {
					if union != pm || m1&pm != m1 || m2&pm != m2 || m1 == m2 {
						continue
					}
				}
				zd := z.Lowest()
				var zone fabric.CellSet
				zone = fabric.PeerSet[w1].Intersect(fabric.PeerSet[w2])
				if pivotSize == 3 {
					zone = zone.Intersect(fabric.PeerSet[pivot])
				}
				var elims []Candidate
				for _, c := range zone.Cells() {
					if c == pivot || c == w1 || c == w2 || !f.IsEmptyCell(c) {
						continue
					}
					if f.CandidatesMask(c).Has(zd) {
						elims = append(elims, Candidate{c, zd})
					}
				}
				if fd := elimination(t, elims, AlsProof{
					Sets: []AlsSet{
						{Cells: []int{pivot}, Digits: pm},
						{Cells: []int{w1}, Digits: m1},
						{Cells: []int{w2}, Digits: m2},
					},
					RCCs: (pm &^ z).Digits(),
					Z:    zd,
				}); fd != nil {
					return fd
				}
			}
		}
	}
	return nil
}

// findAlsXyWing finds three ALS where a hinge C links A and B through two
// different restricted candidates; a further digit common to A and B falls.
func (s *Solver) findAlsXyWing(f *fabric.Fabric) *Finding {
	sets := s.enumerateALS(f)
	for hi := range sets {
		hinge := sets[hi]
		for ai := range sets {
			a := sets[ai]
			if ai == hi || a.set.Overlaps(hinge.set) {
				continue
			}
			xs := rccDigits(f, a, hinge)
			if len(xs) == 0 {
				continue
			}
			for bi := ai + 1; bi < len(sets); bi++ {
				b := sets[bi]
				if bi == hi || b.set.Overlaps(hinge.set) || b.set.Overlaps(a.set) {
					continue
				}
				ys := rccDigits(f, b, hinge)
				if len(ys) == 0 {
					continue
				}
				for _, x := range xs {
					for _, y := range ys {
						if x == y {
							continue
						}
						for _, z := range (a.cands & b.cands).Digits() {
							if z == x || z == y {
								continue
							}
							elims := zEliminations(f, a, b, z)
							if fd := elimination(AlsXyWing, elims, AlsProof{
								Sets: alsProofSets(a, hinge, b),
								RCCs: []int{x, y},
								Z:    z,
							}); fd != nil {
								return fd
							}
						}
					}
				}
			}
		}
	}
	return nil
}

// findAlsChain searches chains of pairwise disjoint ALS linked by distinct
// consecutive RCCs, shortest first, bounded at six sets.
func (s *Solver) findAlsChain(f *fabric.Fabric) *Finding {
	sets := s.enumerateALS(f)
	n := len(sets)
	if n == 0 {
		return nil
	}
	// Adjacency on restricted common candidates.
	type edge struct {
		to int
		x  int
	}
	adj := make([][]edge, n)
	for i := range sets {
		for j := range sets {
			if i == j || sets[i].set.Overlaps(sets[j].set) {
				continue
			}
			for _, x := range rccDigits(f, sets[i], sets[j]) {
				adj[i] = append(adj[i], edge{j, x})
			}
		}
	}

	for length := 3; length <= 6; length++ {
		var chain []int
		var rccs []int
		var used fabric.CellSet
		var dfs func(depth int) *Finding
		dfs = func(depth int) *Finding {
			cur := chain[len(chain)-1]
			if depth == length {
				first, last := sets[chain[0]], sets[cur]
				rccMask := fabric.Mask(0)
				for _, x := range rccs {
					rccMask |= fabric.DigitMask(x)
				}
				for _, z := range (first.cands & last.cands &^ rccMask).Digits() {
					elims := zEliminations(f, first, last, z)
					if len(elims) == 0 {
						continue
					}
					proofSets := make([]AlsSet, len(chain))
					for i, idx := range chain {
						proofSets[i] = AlsSet{
							Cells:  append([]int(nil), sets[idx].cells...),
							Digits: sets[idx].cands,
						}
					}
					return elimination(AlsChain, elims, AlsProof{
						Sets: proofSets,
						RCCs: append([]int(nil), rccs...),
						Z:    z,
					})
				}
				return nil
			}
			for _, e := range adj[cur] {
				if sets[e.to].set.Overlaps(used) {
					continue
				}
				if len(rccs) > 0 && rccs[len(rccs)-1] == e.x {
					continue
				}
				chain = append(chain, e.to)
				rccs = append(rccs, e.x)
				used = used.Union(sets[e.to].set)
				if fd := dfs(depth + 1); fd != nil {
					return fd
				}
				used = used.Diff(sets[e.to].set)
				chain = chain[:len(chain)-1]
				rccs = rccs[:len(rccs)-1]
			}
			return nil
		}
		for i := range sets {
			chain = []int{i}
			rccs = rccs[:0]
			used = sets[i].set
			if fd := dfs(1); fd != nil {
				return fd
			}
		}
	}
	return nil
}

// findSueDeCoq looks at each box/line intersection of 2-3 empty cells for a
// pair of ALS that exactly partition the intersection's candidates.
func (s *Solver) findSueDeCoq(f *fabric.Fabric) *Finding {
	for box := 18; box < 27; box++ {
		for line := 0; line < 18; line++ {
			inter := fabric.SectorSet[box].Intersect(fabric.SectorSet[line])
			if inter.IsEmpty() {
				continue
			}
			var icells []int
			var icands fabric.Mask
			for _, c := range inter.Cells() {
				if f.IsEmptyCell(c) {
					icells = append(icells, c)
					icands |= f.CandidatesMask(c)
				}
			}
			if len(icells) < 2 || icands.Count() < len(icells)+2 {
				continue
			}
			iset := fabric.NewCellSet(icells...)

			boxRest := alsWithin(f, fabric.SectorSet[box].Diff(inter))
			lineRest := alsWithin(f, fabric.SectorSet[line].Diff(inter))
			for _, a := range boxRest {
				if a.cands&^icands != 0 {
					continue
				}
				for _, b := range lineRest {
					if b.cands&^icands != 0 || a.cands&b.cands != 0 {
						continue
					}
					if a.cands|b.cands != icands {
						continue
					}
					var elims []Candidate
					for _, c := range fabric.SectorSet[box].Diff(inter).Diff(a.set).Cells() {
						if !f.IsEmptyCell(c) {
							continue
						}
						for _, d := range (f.CandidatesMask(c) & a.cands).Digits() {
							elims = append(elims, Candidate{c, d})
						}
					}
					for _, c := range fabric.SectorSet[line].Diff(inter).Diff(b.set).Cells() {
						if !f.IsEmptyCell(c) {
							continue
						}
						for _, d := range (f.CandidatesMask(c) & b.cands).Digits() {
							elims = append(elims, Candidate{c, d})
						}
					}
					if fd := elimination(SueDeCoq, elims, AlsProof{
						Sets: []AlsSet{
							{Cells: iset.Cells(), Digits: icands},
							{Cells: append([]int(nil), a.cells...), Digits: a.cands},
							{Cells: append([]int(nil), b.cells...), Digits: b.cands},
						},
						RCCs: nil,
						Z:    0,
					}); fd != nil {
						return fd
					}
				}
			}
		}
	}
	return nil
}

// alsWithin enumerates ALS whose cells all lie inside the given region.
func alsWithin(f *fabric.Fabric, region fabric.CellSet) []als {
	var open []int
	for _, c := range region.Cells() {
		if f.IsEmptyCell(c) {
			open = append(open, c)
		}
	}
	var out []als
	for n := 1; n <= 4 && n <= len(open); n++ {
		for _, idxs := range combin.Combinations(len(open), n) {
			var cands fabric.Mask
			cells := make([]int, n)
			for i, k := range idxs {
				cells[i] = open[k]
				cands |= f.CandidatesMask(open[k])
			}
			if cands.Count() != n+1 {
				continue
			}
			out = append(out, als{cells: cells, set: fabric.NewCellSet(cells...), cands: cands})
		}
	}
	return out
}

// findDeathBlossom matches each candidate of a stem cell to a disjoint ALS
// petal whose cells for that digit all see the stem; a digit common to every
// petal beyond the stem's own candidates falls from cells seeing every such
// petal cell.
func (s *Solver) findDeathBlossom(f *fabric.Fabric) *Finding {
	sets := s.enumerateALS(f)
	for stem := range fabric.CellCount {
		sm := f.CandidatesMask(stem)
		if !f.IsEmptyCell(stem) || sm.Count() < 2 || sm.Count() > 3 {
			continue
		}
		digits := sm.Digits()

		// Petal options per stem digit.
		options := make([][]int, len(digits))
		viable := true
		for i, d := range digits {
			for si, a := range sets {
				if a.set.Has(stem) || !a.cands.Has(d) {
					continue
				}
				ok := true
				for _, c := range a.digitCells(f, d).Cells() {
					if !fabric.Sees(c, stem) {
						ok = false
						break
					}
				}
				if ok {
					options[i] = append(options[i], si)
				}
			}
			if len(options[i]) == 0 {
				viable = false
				break
			}
		}
		if !viable {
			continue
		}

		chosen := make([]int, len(digits))
		var pick func(i int, used fabric.CellSet) *Finding
		pick = func(i int, used fabric.CellSet) *Finding {
			if i == len(digits) {
				common := fabric.AllDigits &^ sm
				for _, si := range chosen {
					common &= sets[si].cands
				}
				for _, z := range common.Digits() {
					var zCells fabric.CellSet
					for _, si := range chosen {
						zCells = zCells.Union(sets[si].digitCells(f, z))
					}
					var petals fabric.CellSet
					for _, si := range chosen {
						petals = petals.Union(sets[si].set)
					}
					var elims []Candidate
					for _, c := range fabric.CommonPeers(zCells).Cells() {
						if c == stem || petals.Has(c) || !f.IsEmptyCell(c) {
							continue
						}
						if f.CandidatesMask(c).Has(z) {
							elims = append(elims, Candidate{c, z})
						}
					}
					if len(elims) == 0 {
						continue
					}
					proofSets := make([]AlsSet, 0, len(chosen)+1)
					proofSets = append(proofSets, AlsSet{Cells: []int{stem}, Digits: sm})
					for _, si := range chosen {
						proofSets = append(proofSets, AlsSet{
							Cells:  append([]int(nil), sets[si].cells...),
							Digits: sets[si].cands,
						})
					}
					return elimination(DeathBlossom, elims, AlsProof{
						Sets: proofSets,
						RCCs: append([]int(nil), digits...),
						Z:    z,
					})
				}
				return nil
			}
			for _, si := range options[i] {
				if sets[si].set.Overlaps(used) {
					continue
				}
				chosen[i] = si
				if fd := pick(i+1, used.Union(sets[si].set)); fd != nil {
					return fd
				}
			}
			return nil
		}
		if fd := pick(0, fabric.NewCellSet(stem)); fd != nil {
			return fd
		}
	}
	return nil
}

// findAlignedPairExclusion examines pairs of mutually visible cells: a
// digit of one cell survives only if some digit of the other forms a legal
// combination with it. Combinations die on equality or on a bivalue ALS
// holding exactly both digits with every cell seeing the pair.
func (s *Solver) findAlignedPairExclusion(f *fabric.Fabric) *Finding {
	pairAls := s.pairAlsIndex(f)
	for c1 := range fabric.CellCount {
		if !f.IsEmptyCell(c1) {
			continue
		}
		for _, c2 := range fabric.PeerSet[c1].Cells() {
			if c2 <= c1 || !f.IsEmptyCell(c2) {
				continue
			}
			if fd := s.apeOnPair(f, pairAls, c1, c2); fd != nil {
				return fd
			}
		}
	}
	return nil
}

// pairAlsIndex maps a two-digit mask to the ALS carrying exactly those
// digits, for combination exclusion tests.
func (s *Solver) pairAlsIndex(f *fabric.Fabric) map[fabric.Mask][]als {
	idx := make(map[fabric.Mask][]als)
	for _, a := range s.enumerateALS(f) {
		if a.cands.Count() == 2 {
			idx[a.cands] = append(idx[a.cands], a)
		}
	}
	return idx
}

// comboExcluded reports whether assigning d1 to c1 and d2 to c2 is
// impossible: equal digits on peers, or an ALS of exactly {d1,d2} whose
// cells all see both.
func comboExcluded(pairAls map[fabric.Mask][]als, c1, d1, c2, d2 int) bool {
	if d1 == d2 && fabric.Sees(c1, c2) {
		return true
	}
	if d1 == d2 {
		return false
	}
	key := fabric.DigitMask(d1) | fabric.DigitMask(d2)
	for _, a := range pairAls[key] {
		if a.set.Has(c1) || a.set.Has(c2) {
			continue
		}
		allSee := true
		for _, c := range a.cells {
			if !fabric.Sees(c, c1) || !fabric.Sees(c, c2) {
				allSee = false
				break
			}
		}
		if allSee {
			return true
		}
	}
	return false
}

func (s *Solver) apeOnPair(f *fabric.Fabric, pairAls map[fabric.Mask][]als, c1, c2 int) *Finding {
	m1, m2 := f.CandidatesMask(c1), f.CandidatesMask(c2)
	var elims []Candidate
	for _, d1 := range m1.Digits() {
		alive := false
		for _, d2 := range m2.Digits() {
			if !comboExcluded(pairAls, c1, d1, c2, d2) {
				alive = true
				break
			}
		}
		if !alive {
			elims = append(elims, Candidate{c1, d1})
		}
	}
	for _, d2 := range m2.Digits() {
		alive := false
		for _, d1 := range m1.Digits() {
			if !comboExcluded(pairAls, c1, d1, c2, d2) {
				alive = true
				break
			}
		}
		if !alive {
			elims = append(elims, Candidate{c2, d2})
		}
	}
	return elimination(AlignedPairExclusion, elims, AlsProof{
		Sets: []AlsSet{
			{Cells: []int{c1}, Digits: m1},
			{Cells: []int{c2}, Digits: m2},
		},
	})
}

// findAlignedTripletExclusion extends the exclusion test to three mutually
// visible cells, killing a digit whose every completion dies pairwise.
func (s *Solver) findAlignedTripletExclusion(f *fabric.Fabric) *Finding {
	pairAls := s.pairAlsIndex(f)
	for c1 := range fabric.CellCount {
		if !f.IsEmptyCell(c1) {
			continue
		}
		peers1 := fabric.PeerSet[c1]
		for _, c2 := range peers1.Cells() {
			if c2 <= c1 || !f.IsEmptyCell(c2) {
				continue
			}
			both := peers1.Intersect(fabric.PeerSet[c2])
			for _, c3 := range both.Cells() {
				if c3 <= c2 || !f.IsEmptyCell(c3) {
					continue
				}
				if fd := s.ateOnTriple(f, pairAls, c1, c2, c3); fd != nil {
					return fd
				}
			}
		}
	}
	return nil
}

func (s *Solver) ateOnTriple(f *fabric.Fabric, pairAls map[fabric.Mask][]als, c1, c2, c3 int) *Finding {
	cells := [3]int{c1, c2, c3}
	masks := [3]fabric.Mask{f.CandidatesMask(c1), f.CandidatesMask(c2), f.CandidatesMask(c3)}

	legal := func(d1, d2, d3 int) bool {
		return !comboExcluded(pairAls, c1, d1, c2, d2) &&
			!comboExcluded(pairAls, c1, d1, c3, d3) &&
			!comboExcluded(pairAls, c2, d2, c3, d3)
	}

	var elims []Candidate
	for i := range cells {
		j, k := (i+1)%3, (i+2)%3
		for _, di := range masks[i].Digits() {
			alive := false
			for _, dj := range masks[j].Digits() {
				for _, dk := range masks[k].Digits() {
					var ds [3]int
					ds[i], ds[j], ds[k] = di, dj, dk
					if legal(ds[0], ds[1], ds[2]) {
						alive = true
						break
					}
				}
				if alive {
					break
				}
			}
			if !alive {
				elims = append(elims, Candidate{cells[i], di})
			}
		}
	}
	return elimination(AlignedTripletExclusion, elims, AlsProof{
		Sets: []AlsSet{
			{Cells: []int{c1}, Digits: masks[0]},
			{Cells: []int{c2}, Digits: masks[1]},
			{Cells: []int{c3}, Digits: masks[2]},
		},
	})
}
