package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// Candidate is a (cell, digit) pair.
type Candidate struct {
	Cell  int
	Digit int
}

// Finding is one inference: either a placement or a set of candidate
// eliminations, together with the technique that produced it and a proof
// certificate. Certificates copy any fabric data they need; they hold no
// references back into the fabric.
type Finding struct {
	Technique Technique

	// Cell and Value describe a placement when Eliminations is empty.
	Cell  int
	Value int

	Eliminations []Candidate

	Proof Proof
}

// IsPlacement reports whether the finding sets a value rather than
// eliminating candidates.
func (f *Finding) IsPlacement() bool { return len(f.Eliminations) == 0 }

// String renders the finding for logs and CLI output.
func (f *Finding) String() string {
	if f.IsPlacement() {
		return fmt.Sprintf("%s: r%dc%d=%d", f.Technique, f.Cell/9+1, f.Cell%9+1, f.Value)
	}
	parts := make([]string, len(f.Eliminations))
	for i, e := range f.Eliminations {
		parts[i] = fmt.Sprintf("r%dc%d<>%d", e.Cell/9+1, e.Cell%9+1, e.Digit)
	}
	return fmt.Sprintf("%s: %s", f.Technique, strings.Join(parts, " "))
}

// sortEliminations orders eliminations by (cell, digit) so equal findings
// compare byte-identical.
func sortEliminations(elims []Candidate) []Candidate {
	sort.Slice(elims, func(i, j int) bool {
		if elims[i].Cell != elims[j].Cell {
			return elims[i].Cell < elims[j].Cell
		}
		return elims[i].Digit < elims[j].Digit
	})
	return elims
}

// placement builds a placement finding.
func placement(t Technique, cell, value int, proof Proof) *Finding {
	return &Finding{Technique: t, Cell: cell, Value: value, Proof: proof}
}

// elimination builds an elimination finding; returns nil when the
// elimination list is empty.
func elimination(t Technique, elims []Candidate, proof Proof) *Finding {
	if len(elims) == 0 {
		return nil
	}
	return &Finding{Technique: t, Eliminations: sortEliminations(elims), Proof: proof}
}

// Proof is a technique-specific certificate explaining a finding.
type Proof interface {
	proofKind() string
}

// BasicProof certifies singles and naked/hidden subsets.
type BasicProof struct {
	Sector int
	Cells  []int
	Digits fabric.Mask
}

func (BasicProof) proofKind() string { return "basic" }

// FishProof certifies a fish: base and cover sector sets, fin cells, digit.
type FishProof struct {
	Digit int
	Base  []int
	Cover []int
	Fins  []int
}

func (FishProof) proofKind() string { return "fish" }

// AlsSet is one almost-locked set in a proof: n cells carrying n+1 digits.
type AlsSet struct {
	Cells  []int
	Digits fabric.Mask
}

// AlsProof certifies an ALS inference: the chain of sets, the restricted
// common candidates linking consecutive sets, and the eliminated digit.
type AlsProof struct {
	Sets []AlsSet
	RCCs []int
	Z    int
}

func (AlsProof) proofKind() string { return "als" }

// ChainNode is one candidate in an AIC, with the polarity of the link
// leading to the next node.
type ChainNode struct {
	Cell   int
	Digit  int
	Strong bool
}

// AicProof certifies an alternating inference chain.
type AicProof struct {
	Nodes []ChainNode
}

func (AicProof) proofKind() string { return "aic" }

// UniquenessProof certifies a deadly-pattern inference.
type UniquenessProof struct {
	Floor  []int
	Roof   []int
	Digits fabric.Mask
}

func (UniquenessProof) proofKind() string { return "uniqueness" }

// ForcingProof certifies a forcing-chain inference. Exactly one of
// SourceCell or SourceSector is meaningful, selected by OnCell.
type ForcingProof struct {
	OnCell       bool
	SourceCell   int
	SourceSector int
	SourceDigit  int
	Branches     int
}

func (ForcingProof) proofKind() string { return "forcing" }

// BacktrackProof marks a hint taken directly from the backtracker's solution.
type BacktrackProof struct{}

func (BacktrackProof) proofKind() string { return "backtracking" }
