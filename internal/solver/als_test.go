package solver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

func TestXYWing(t *testing.T) {
	f := emptyFabric(t)
	// Pivot r4c4 = {2,5}, wings r4c0 = {2,9} and r0c4 = {5,9}.
	restrict(t, f, 40, 2, 5)
	restrict(t, f, 36, 2, 9)
	restrict(t, f, 4, 5, 9)

	s := New(nil)
	fd := s.findXyWing(f)
	if fd == nil {
		t.Fatal("expected an XY-Wing")
	}
	if fd.Technique != XYWing {
		t.Errorf("technique = %v", fd.Technique)
	}
	// The only cell seeing both wings is r0c0; it loses 9.
	want := []Candidate{{0, 9}}
	if diff := cmp.Diff(want, fd.Eliminations); diff != "" {
		t.Errorf("eliminations mismatch (-want +got):\n%s", diff)
	}
	proof, ok := fd.Proof.(AlsProof)
	if !ok {
		t.Fatalf("proof = %T", fd.Proof)
	}
	if proof.Z != 9 {
		t.Errorf("proof Z = %d, want 9", proof.Z)
	}
	if len(proof.Sets) != 3 {
		t.Errorf("proof should carry pivot and both wings, got %d sets", len(proof.Sets))
	}
}

func TestXYZWing(t *testing.T) {
	f := emptyFabric(t)
	// Pivot r0c0 = {1,2,9}, wings r0c4 = {1,9} and r2c1 = {2,9} (in the
	// pivot's box). Only cells seeing all three may lose 9: r0c1 and r0c2.
	restrict(t, f, 0, 1, 2, 9)
	restrict(t, f, 4, 1, 9)
	restrict(t, f, 19, 2, 9)

	s := New(nil)
	fd := s.findXyzWing(f)
	if fd == nil {
		t.Fatal("expected an XYZ-Wing")
	}
	if fd.Technique != XYZWing {
		t.Errorf("technique = %v", fd.Technique)
	}
	for _, e := range fd.Eliminations {
		if e.Digit != 9 {
			t.Errorf("wrong digit: %v", e)
		}
		if e.Cell != 1 && e.Cell != 2 {
			t.Errorf("elimination must see pivot and both wings: %v", e)
		}
	}
	if len(fd.Eliminations) != 2 {
		t.Errorf("got %d eliminations, want 2", len(fd.Eliminations))
	}
}

func TestEnumerateALS(t *testing.T) {
	f := emptyFabric(t)
	restrict(t, f, 0, 3, 7)

	s := New(nil)
	sets := s.enumerateALS(f)
	if len(sets) == 0 {
		t.Fatal("expected at least the bivalue cell as a size-1 ALS")
	}
	// Sorted smallest first: the bivalue cell leads.
	first := sets[0]
	if len(first.cells) != 1 || first.cells[0] != 0 {
		t.Errorf("first ALS = %v, want the bivalue cell 0", first.cells)
	}
	if first.cands != fabric.DigitMask(3)|fabric.DigitMask(7) {
		t.Errorf("first ALS candidates = %09b", first.cands)
	}
	for _, a := range sets {
		if a.cands.Count() != len(a.cells)+1 {
			t.Errorf("ALS %v has %d candidates for %d cells", a.cells, a.cands.Count(), len(a.cells))
		}
	}
}

func TestAlsXz(t *testing.T) {
	f := emptyFabric(t)
	// Column 0 holds a bivalue r1c0 = {1,2} and the two-cell set
	// {r0c0, r8c0} with {1,2,9}; their restricted common candidate links
	// them and the shared third digit falls from the rest of the column.
	restrict(t, f, 0, 1, 2, 9)
	restrict(t, f, 9, 1, 2)
	restrict(t, f, 72, 2, 9)

	s := New(nil)
	fd := s.findAlsXz(f)
	if fd == nil {
		t.Fatal("expected an ALS-XZ elimination")
	}
	if fd.Technique != AlsXz {
		t.Errorf("technique = %v", fd.Technique)
	}
	proof, ok := fd.Proof.(AlsProof)
	if !ok {
		t.Fatalf("proof = %T", fd.Proof)
	}
	if len(proof.RCCs) != 1 {
		t.Errorf("expected one restricted common candidate, got %v", proof.RCCs)
	}
	for _, e := range fd.Eliminations {
		if e.Digit != proof.Z {
			t.Errorf("eliminated digit %d does not match proof Z %d", e.Digit, proof.Z)
		}
	}
}
