package solver

import (
	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// branchResult captures everything a propagated assumption forces.
type branchResult struct {
	contradiction bool
	placements    [fabric.CellCount]int8
	eliminated    [fabric.CellCount]fabric.Mask
}

// propagateAssumption clones the fabric, places the assumption, and lets
// basic singles propagation run to quiescence.
func propagateAssumption(f *fabric.Fabric, cell, digit int) (*fabric.Fabric, bool) {
	clone := f.Clone()
	out := clone.Place(cell, digit)
	return clone, out == fabric.Contradiction
}

// branchOutcome diffs a propagated clone against the original fabric.
func branchOutcome(orig, clone *fabric.Fabric, contradiction bool) branchResult {
	res := branchResult{contradiction: contradiction}
	if contradiction {
		return res
	}
	for c := range fabric.CellCount {
		if !orig.IsEmptyCell(c) {
			continue
		}
		if !clone.IsEmptyCell(c) {
			res.placements[c] = int8(clone.Value(c))
			res.eliminated[c] = orig.CandidatesMask(c) &^ fabric.DigitMask(clone.Value(c))
		} else {
			res.eliminated[c] = orig.CandidatesMask(c) &^ clone.CandidatesMask(c)
		}
	}
	return res
}

// intersectBranches keeps only the placements and eliminations common to
// every branch; those are sound regardless of which branch is real.
func intersectBranches(results []branchResult) branchResult {
	common := results[0]
	for _, r := range results[1:] {
		for c := range fabric.CellCount {
			if common.placements[c] != r.placements[c] {
				common.placements[c] = 0
			}
			common.eliminated[c] &= r.eliminated[c]
		}
	}
	return common
}

// forcingFinding converts a common outcome into a finding, preferring a
// placement over eliminations.
func forcingFinding(f *fabric.Fabric, t Technique, common branchResult, proof ForcingProof) *Finding {
	for c := range fabric.CellCount {
		if common.placements[c] != 0 {
			return placement(t, c, int(common.placements[c]), proof)
		}
	}
	var elims []Candidate
	for c := range fabric.CellCount {
		for _, d := range common.eliminated[c].Digits() {
			elims = append(elims, Candidate{c, d})
		}
	}
	return elimination(t, elims, proof)
}

// findNishio eliminates any candidate whose single-branch propagation
// collapses into a contradiction.
func (s *Solver) findNishio(f *fabric.Fabric) *Finding {
	for c := range fabric.CellCount {
		if !f.IsEmptyCell(c) {
			continue
		}
		for _, d := range f.CandidatesMask(c).Digits() {
			_, contradiction := propagateAssumption(f, c, d)
			if !contradiction {
				continue
			}
			log.WithFields(logFields{"cell": c, "digit": d}).Debug("nishio contradiction")
			return elimination(NishioForcingChain, []Candidate{{c, d}}, ForcingProof{
				OnCell:     true,
				SourceCell: c,
				Branches:   1,
			})
		}
	}
	return nil
}

// findCellFC splits on every candidate of a cell and keeps the outcomes
// all branches agree on.
func (s *Solver) findCellFC(f *fabric.Fabric) *Finding {
	return s.cellForcing(f, CellForcingChain, propagateAssumption)
}

// findRegionFC splits on every position of a digit within a sector.
func (s *Solver) findRegionFC(f *fabric.Fabric) *Finding {
	return s.regionForcing(f, RegionForcingChain, propagateAssumption)
}

type propagator func(f *fabric.Fabric, cell, digit int) (*fabric.Fabric, bool)

func (s *Solver) cellForcing(f *fabric.Fabric, t Technique, prop propagator) *Finding {
	for c := range fabric.CellCount {
		if !f.IsEmptyCell(c) {
			continue
		}
		digits := f.CandidatesMask(c).Digits()
		if len(digits) < 2 || len(digits) > 4 {
			continue
		}
		results := make([]branchResult, 0, len(digits))
		viable := true
		for _, d := range digits {
			clone, contradiction := prop(f, c, d)
			if contradiction {
				// A dead branch belongs to Nishio, which runs earlier.
				viable = false
				break
			}
			results = append(results, branchOutcome(f, clone, false))
		}
		if !viable {
			continue
		}
		common := intersectBranches(results)
		if fd := forcingFinding(f, t, common, ForcingProof{
			OnCell:     true,
			SourceCell: c,
			Branches:   len(digits),
		}); fd != nil {
			log.WithFields(logFields{"cell": c, "branches": len(digits)}).Debug("cell forcing chain")
			return fd
		}
	}
	return nil
}

func (s *Solver) regionForcing(f *fabric.Fabric, t Technique, prop propagator) *Finding {
	for sector := range fabric.SectorCount {
		for d := 1; d <= 9; d++ {
			pos := f.DigitPositions(sector, d)
			if pos.Count() < 2 || pos.Count() > 4 {
				continue
			}
			var results []branchResult
			viable := true
			for _, k := range pos.Digits() {
				cell := fabric.SectorCells[sector][k-1]
				clone, contradiction := prop(f, cell, d)
				if contradiction {
					viable = false
					break
				}
				results = append(results, branchOutcome(f, clone, false))
			}
			if !viable {
				continue
			}
			common := intersectBranches(results)
			if fd := forcingFinding(f, t, common, ForcingProof{
				SourceSector: sector,
				SourceDigit:  d,
				Branches:     len(results),
			}); fd != nil {
				log.WithFields(logFields{"sector": sector, "digit": d}).Debug("region forcing chain")
				return fd
			}
		}
	}
	return nil
}

// findDynamicFC reruns the cell and region splits with full-pipeline
// propagation inside each branch. Recursion through the pipeline is
// bounded by the configured depth cap.
func (s *Solver) findDynamicFC(f *fabric.Fabric) *Finding {
	prop := func(f *fabric.Fabric, cell, digit int) (*fabric.Fabric, bool) {
		return s.propagateFull(f, cell, digit, 1)
	}
	if fd := s.cellForcing(f, DynamicForcingChain, prop); fd != nil {
		return fd
	}
	return s.regionForcing(f, DynamicForcingChain, prop)
}

// propagateFull places an assumption and then applies the full technique
// pipeline until no more progress. Forcing techniques join in only while
// depth is below the dynamic cap, which preserves termination.
func (s *Solver) propagateFull(f *fabric.Fabric, cell, digit, depth int) (*fabric.Fabric, bool) {
	clone := f.Clone()
	if clone.Place(cell, digit) == fabric.Contradiction {
		return clone, true
	}

	for range 200 {
		if clone.Solved() {
			return clone, false
		}
		fd := s.pipelineFinding(clone, depth)
		if fd == nil {
			break
		}
		if applyFinding(clone, fd) == fabric.Contradiction {
			return clone, true
		}
	}
	return clone, false
}

// applyFinding mutates a fabric with a finding's placement or eliminations.
func applyFinding(f *fabric.Fabric, fd *Finding) fabric.Outcome {
	if fd.IsPlacement() {
		return f.Place(fd.Cell, fd.Value)
	}
	result := fabric.NoChange
	for _, e := range fd.Eliminations {
		switch f.Eliminate(e.Cell, e.Digit) {
		case fabric.Contradiction:
			return fabric.Contradiction
		case fabric.Changed:
			result = fabric.Changed
		}
	}
	return result
}

// findKrakenFish verifies a finned fish whose fins escape the one-box
// shortcut: a cover elimination stands if every fin, when propagated as
// true, also removes it.
func (s *Solver) findKrakenFish(f *fabric.Fabric) *Finding {
	var found *Finding
	for n := 2; n <= 4 && found == nil; n++ {
		s.enumerateFish(f, n, basicModes, func(shape fishShape) bool {
			if shape.fins.IsEmpty() {
				return false
			}
			fins := shape.fins.Cells()
			for _, target := range shape.elims.Cells() {
				killed := true
				for _, fin := range fins {
					clone, contradiction := propagateAssumption(f, fin, shape.digit)
					if contradiction {
						continue // an impossible fin cannot rescue the target
					}
					if clone.IsEmptyCell(target) && clone.CandidatesMask(target).Has(shape.digit) {
						killed = false
						break
					}
					if !clone.IsEmptyCell(target) && clone.Value(target) == shape.digit {
						killed = false
						break
					}
				}
				if !killed {
					continue
				}
				found = elimination(KrakenFish, []Candidate{{target, shape.digit}}, FishProof{
					Digit: shape.digit,
					Base:  append([]int(nil), shape.base...),
					Cover: append([]int(nil), shape.cover...),
					Fins:  fins,
				})
				return true
			}
			return false
		})
	}
	return found
}
