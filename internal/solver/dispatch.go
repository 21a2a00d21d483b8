package solver

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
	"github.com/kcirtapfromspace/sudoku/internal/grid"
)

var (
	ErrNoSolution        = errors.New("puzzle has no solution")
	ErrMultipleSolutions = errors.New("puzzle has multiple solutions")
	ErrInvalidPuzzle     = errors.New("puzzle violates Sudoku constraints")
	ErrSolved            = errors.New("puzzle is already solved")
)

var log = logrus.WithField("component", "solver")

type logFields = logrus.Fields

// Options configures solving behavior.
type Options struct {
	// AssumeUnique enables deadly-pattern techniques, which are only sound
	// when the puzzle is known to have a single solution.
	AssumeUnique bool
	// DynamicDepth caps how deep dynamic forcing chains may recurse through
	// the technique pipeline inside a branch.
	DynamicDepth int
	// ChainDepthLimit bounds the link budget of the alternating chain search.
	ChainDepthLimit int
	// MaxVerifyIterations bounds the verified-hint elimination loop. The
	// monotonic shrinking of live candidates already guarantees termination;
	// this is a belt-and-braces guard.
	MaxVerifyIterations int
}

// DefaultOptions returns standard solver options.
func DefaultOptions() *Options {
	return &Options{
		AssumeUnique:        true,
		DynamicDepth:        2,
		ChainDepthLimit:     13,
		MaxVerifyIterations: 500,
	}
}

// Solver dispatches the technique pipeline over a candidate fabric.
// One solve owns its fabric exclusively; all public operations are pure
// functions of their input grid.
type Solver struct {
	options *Options

	// findFirst is the pipeline entry point. Tests swap it to simulate a
	// buggy engine and exercise the oracle fallback.
	findFirst func(f *fabric.Fabric, depth int) *Finding
}

// New creates a solver.
func New(options *Options) *Solver {
	if options == nil {
		options = DefaultOptions()
	}
	s := &Solver{options: options}
	s.findFirst = s.pipelineFinding
	return s
}

// pipelineFinding returns the first applicable technique in pipeline order.
// depth is zero for a top-level dispatch; branch propagation passes its
// recursion depth so forcing techniques stay bounded.
func (s *Solver) pipelineFinding(f *fabric.Fabric, depth int) *Finding {
	// Phase 1: singles.
	if fd := s.findNakedSingle(f); fd != nil {
		return fd
	}
	if fd := s.findHiddenSingle(f); fd != nil {
		return fd
	}

	// Phase 2: pairs and triples.
	for _, n := range []int{2, 3} {
		if fd := s.findNakedSubset(f, n); fd != nil {
			return fd
		}
		if fd := s.findHiddenSubset(f, n); fd != nil {
			return fd
		}
	}

	// Phase 3: intersections, the size-1 fish.
	if fd := s.findPointingPair(f); fd != nil {
		return fd
	}
	if fd := s.findBoxLineReduction(f); fd != nil {
		return fd
	}

	// Phase 4: fish of size 2-4, then quads.
	for n := 2; n <= 4; n++ {
		if fd := s.findBasicFish(f, n); fd != nil {
			return fd
		}
		if fd := s.findFinnedFish(f, n); fd != nil {
			return fd
		}
	}
	if fd := s.findNakedSubset(f, 4); fd != nil {
		return fd
	}
	if fd := s.findHiddenSubset(f, 4); fd != nil {
		return fd
	}

	// Phase 5: uniqueness patterns, gated behind the uniqueness axiom.
	if s.options.AssumeUnique {
		if fd := s.findEmptyRectangle(f); fd != nil {
			return fd
		}
		if fd := s.findAvoidableRectangle(f); fd != nil {
			return fd
		}
		if fd := s.findUniqueRectangle(f); fd != nil {
			return fd
		}
		if fd := s.findHiddenRectangle(f); fd != nil {
			return fd
		}
	}

	// Phase 6: wings, chains, and the ALS family.
	if fd := s.findXyWing(f); fd != nil {
		return fd
	}
	if fd := s.findXyzWing(f); fd != nil {
		return fd
	}
	if fd := s.findWxyzWing(f); fd != nil {
		return fd
	}
	if fd := s.findWWing(f); fd != nil {
		return fd
	}
	graph := buildLinkGraph(f)
	if fd := s.findXChain(f, graph); fd != nil {
		return fd
	}
	if fd := s.findMedusa(f, graph); fd != nil {
		return fd
	}
	if fd := s.findSueDeCoq(f); fd != nil {
		return fd
	}
	if fd := s.findAic(f, graph); fd != nil {
		return fd
	}
	if fd := s.findFrankenFish(f); fd != nil {
		return fd
	}
	if fd := s.findSiameseFish(f); fd != nil {
		return fd
	}
	if fd := s.findAlsXz(f); fd != nil {
		return fd
	}
	if s.options.AssumeUnique {
		if fd := s.findExtendedUniqueRectangle(f); fd != nil {
			return fd
		}
		if fd := s.findBug(f); fd != nil {
			return fd
		}
	}

	// Phase 7: the extreme family.
	if fd := s.findAlsXyWing(f); fd != nil {
		return fd
	}
	if fd := s.findAlsChain(f); fd != nil {
		return fd
	}
	if fd := s.findMutantFish(f); fd != nil {
		return fd
	}
	if fd := s.findAlignedPairExclusion(f); fd != nil {
		return fd
	}
	if fd := s.findAlignedTripletExclusion(f); fd != nil {
		return fd
	}
	if fd := s.findDeathBlossom(f); fd != nil {
		return fd
	}

	// Forcing chains: excluded from deep branches to bound recursion.
	if depth < s.options.DynamicDepth {
		if fd := s.findNishio(f); fd != nil {
			return fd
		}
		if fd := s.findKrakenFish(f); fd != nil {
			return fd
		}
		if fd := s.findRegionFC(f); fd != nil {
			return fd
		}
		if fd := s.findCellFC(f); fd != nil {
			return fd
		}
	}
	if depth == 0 {
		if fd := s.findDynamicFC(f); fd != nil {
			return fd
		}
	}
	return nil
}

// hasDeadCell reports whether some empty cell already lost every candidate.
func hasDeadCell(f *fabric.Fabric) bool {
	for c := range fabric.CellCount {
		if f.IsEmptyCell(c) && f.CandidatesMask(c) == 0 {
			return true
		}
	}
	return false
}

// Solve completes the puzzle with the backtracker, reporting no-solution
// and multiple-solution states explicitly.
func (s *Solver) Solve(g *grid.Grid) (*grid.Grid, error) {
	if !g.IsValid() {
		return nil, ErrInvalidPuzzle
	}
	f := fabric.FromGrid(g)
	if hasDeadCell(f) {
		return nil, ErrNoSolution
	}
	var first *fabric.Fabric
	switch countSolutions(f, 2, &first) {
	case 0:
		return nil, ErrNoSolution
	case 1:
		return first.ApplyTo(g), nil
	default:
		return nil, ErrMultipleSolutions
	}
}

// FirstSolution returns the first completion found by the backtracker,
// without checking for uniqueness. Generators use this to fill grids.
func (s *Solver) FirstSolution(g *grid.Grid) (*grid.Grid, error) {
	if !g.IsValid() {
		return nil, ErrInvalidPuzzle
	}
	f := fabric.FromGrid(g)
	if hasDeadCell(f) || !solveRecursive(f) {
		return nil, ErrNoSolution
	}
	return f.ApplyTo(g), nil
}

// GetHint returns the first applicable technique in pipeline order, with
// no soundness verification. Display-only callers use this path.
func (s *Solver) GetHint(g *grid.Grid) (*Finding, error) {
	if !g.IsValid() {
		return nil, ErrInvalidPuzzle
	}
	if g.IsComplete() {
		return nil, ErrSolved
	}
	f := fabric.FromGrid(g)
	if hasDeadCell(f) {
		return nil, ErrNoSolution
	}
	if fd := s.findFirst(f, 0); fd != nil {
		log.WithFields(logFields{"technique": fd.Technique.ID()}).Debug("hint found")
		return fd, nil
	}

	// Last resort: a backtracking hint from the canonical solution.
	var first *fabric.Fabric
	if countSolutions(f.Clone(), 1, &first) == 0 {
		return nil, ErrNoSolution
	}
	return backtrackingHint(f, first.ApplyTo(g)), nil
}

// GetNextPlacement is the safe path: it solves the puzzle once for an
// oracle, then chains verified eliminations until a placement emerges.
// Any unsound step falls back to the oracle's MRV placement, so the
// returned hint is provably correct even if an engine misfires.
func (s *Solver) GetNextPlacement(g *grid.Grid) (*Finding, error) {
	if !g.IsValid() {
		return nil, ErrInvalidPuzzle
	}
	if g.IsComplete() {
		return nil, ErrSolved
	}
	f := fabric.FromGrid(g)
	if hasDeadCell(f) {
		return nil, ErrNoSolution
	}
	var first *fabric.Fabric
	switch countSolutions(f.Clone(), 2, &first) {
	case 0:
		return nil, ErrNoSolution
	case 1:
	default:
		// Guessing under the uniqueness axiom would be unsound.
		return nil, ErrMultipleSolutions
	}
	solution := first.ApplyTo(g)

	fallback := func() (*Finding, error) {
		return backtrackingHint(fabric.FromGrid(g), solution), nil
	}

	for range s.options.MaxVerifyIterations {
		fd := s.findFirst(f, 0)
		if fd == nil {
			return fallback()
		}
		if fd.IsPlacement() {
			if solution.Get(fd.Cell) != fd.Value {
				log.WithFields(logFields{
					"technique": fd.Technique.ID(),
					"cell":      fd.Cell,
					"value":     fd.Value,
				}).Warn("unsound placement, falling back to backtracking")
				return fallback()
			}
			return fd, nil
		}
		sound := true
		for _, e := range fd.Eliminations {
			if solution.Get(e.Cell) == e.Digit {
				log.WithFields(logFields{
					"technique": fd.Technique.ID(),
					"cell":      e.Cell,
					"digit":     e.Digit,
				}).Warn("unsound elimination, falling back to backtracking")
				sound = false
				break
			}
		}
		if !sound {
			return fallback()
		}
		for _, e := range fd.Eliminations {
			if f.Eliminate(e.Cell, e.Digit) == fabric.Contradiction {
				return fallback()
			}
		}
		// Eliminations cascade singles inside the fabric; the first cell
		// placed there but still empty in the caller's grid is the
		// placement that emerged.
		for c := range fabric.CellCount {
			if f.Value(c) != 0 && g.Get(c) == grid.EmptyCell {
				if solution.Get(c) != f.Value(c) {
					return fallback()
				}
				return placement(NakedSingle, c, f.Value(c), BasicProof{
					Sector: fabric.RowSectorOf(c),
					Cells:  []int{c},
					Digits: fabric.DigitMask(f.Value(c)),
				}), nil
			}
		}
	}
	return fallback()
}

// Rating is a puzzle difficulty report: the continuous Sudoku Explainer
// maximum, the discrete tier, and the hardest technique required.
type Rating struct {
	SE           float32
	Tier         Difficulty
	MaxTechnique Technique
}

// Rate solves the puzzle with human techniques and reports the hardest
// step. Puzzles the pipeline cannot finish rate as backtracking.
func (s *Solver) Rate(g *grid.Grid) (Rating, error) {
	if !g.IsValid() {
		return Rating{}, ErrInvalidPuzzle
	}
	emptyCount := g.EmptyCount()
	f := fabric.FromGrid(g)
	if hasDeadCell(f) {
		return Rating{}, ErrNoSolution
	}

	maxTech := NakedSingle
	var maxSE float32
	for !f.Solved() {
		fd := s.findFirst(f, 0)
		if fd == nil {
			if !solveRecursive(f) {
				return Rating{}, ErrNoSolution
			}
			maxTech = Backtracking
			break
		}
		if fd.Technique > maxTech {
			maxTech = fd.Technique
		}
		if se := fd.Technique.SEScore(); se > maxSE {
			maxSE = se
		}
		if applyFinding(f, fd) == fabric.Contradiction {
			return Rating{}, ErrNoSolution
		}
	}
	if se := maxTech.SEScore(); se > maxSE {
		maxSE = se
	}
	return Rating{
		SE:           maxSE,
		Tier:         TierOf(maxTech, emptyCount),
		MaxTechnique: maxTech,
	}, nil
}
