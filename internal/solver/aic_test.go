package solver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// clearDigitFromCol removes a digit from every cell of a column except keep rows.
func clearDigitFromCol(t *testing.T, f *fabric.Fabric, col, digit int, keepRows ...int) {
	t.Helper()
	keepSet := map[int]bool{}
	for _, r := range keepRows {
		keepSet[r] = true
	}
	for row := 0; row < 9; row++ {
		if keepSet[row] {
			continue
		}
		if out := f.Eliminate(row*9+col, digit); out == fabric.Contradiction {
			t.Fatalf("setup contradiction at r%dc%d", row, col)
		}
	}
}

func TestXChainSkyscraper(t *testing.T) {
	f := emptyFabric(t)
	// Digit 1 conjugate pairs: column 0 rows {0,8}, column 5 rows {1,8}.
	// The bases share row 8, so one of r0c0 and r1c5 must hold 1.
	clearDigitFromCol(t, f, 0, 1, 0, 8)
	clearDigitFromCol(t, f, 5, 1, 1, 8)

	s := New(nil)
	g := buildLinkGraph(f)
	fd := s.findXChain(f, g)
	if fd == nil {
		t.Fatal("expected an X-Chain")
	}
	if fd.Technique != XChain {
		t.Errorf("technique = %v", fd.Technique)
	}
	// Cells seeing both chain ends that still carry 1: r0c3, r0c4, r1c1, r1c2.
	want := []Candidate{{3, 1}, {4, 1}, {10, 1}, {11, 1}}
	if diff := cmp.Diff(want, fd.Eliminations); diff != "" {
		t.Errorf("eliminations mismatch (-want +got):\n%s", diff)
	}
	proof, ok := fd.Proof.(AicProof)
	if !ok {
		t.Fatalf("proof = %T", fd.Proof)
	}
	if len(proof.Nodes) != 4 {
		t.Errorf("chain length = %d nodes, want 4", len(proof.Nodes))
	}
	for _, n := range proof.Nodes {
		if n.Digit != 1 {
			t.Errorf("X-Chain node on wrong digit: %+v", n)
		}
	}
}

func TestWWing(t *testing.T) {
	f := emptyFabric(t)
	// Bivalue cells r0c0 and r4c4 with {1,2}, bridged by a conjugate pair
	// of 2 in row 8 at columns 0 and 4.
	restrict(t, f, 0, 1, 2)
	restrict(t, f, 40, 1, 2)
	clearDigitFromRow(t, f, 8, 2, 0, 4)

	s := New(nil)
	fd := s.findWWing(f)
	if fd == nil {
		t.Fatal("expected a W-Wing")
	}
	if fd.Technique != WWing {
		t.Errorf("technique = %v", fd.Technique)
	}
	// Cells seeing both bivalue cells lose 1: r0c4 and r4c0.
	want := []Candidate{{4, 1}, {36, 1}}
	if diff := cmp.Diff(want, fd.Eliminations); diff != "" {
		t.Errorf("eliminations mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkGraphPolarity(t *testing.T) {
	f := emptyFabric(t)
	restrict(t, f, 0, 3, 7)
	g := buildLinkGraph(f)

	// The bivalue cell is a strong link between its two digits.
	strong := g.strongNeighbors(makeNode(0, 3), 0)
	found := false
	for _, n := range strong {
		if n.cell() == 0 && n.digit() == 7 {
			found = true
		}
	}
	if !found {
		t.Error("bivalue cell must yield a same-cell strong link")
	}

	// Weak links include every same-sector same-digit candidate.
	weak := g.weakNeighbors(makeNode(0, 3), 0)
	var sawPeer bool
	for _, n := range weak {
		if n.digit() == 3 && fabric.Sees(0, n.cell()) {
			sawPeer = true
		}
	}
	if !sawPeer {
		t.Error("weak neighbors must include same-digit peers")
	}
}
