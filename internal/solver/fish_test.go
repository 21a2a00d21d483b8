package solver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// clearDigitFromRow removes a digit from every cell of a row except keep.
func clearDigitFromRow(t *testing.T, f *fabric.Fabric, row, digit int, keep ...int) {
	t.Helper()
	keepSet := map[int]bool{}
	for _, col := range keep {
		keepSet[col] = true
	}
	for col := 0; col < 9; col++ {
		if keepSet[col] {
			continue
		}
		if out := f.Eliminate(row*9+col, digit); out == fabric.Contradiction {
			t.Fatalf("setup contradiction at r%dc%d", row, col)
		}
	}
}

func TestXWing(t *testing.T) {
	f := emptyFabric(t)
	// Digit 4 in rows 1 and 8 confined to columns 3 and 6.
	clearDigitFromRow(t, f, 1, 4, 3, 6)
	clearDigitFromRow(t, f, 8, 4, 3, 6)

	s := New(nil)
	fd := s.findBasicFish(f, 2)
	if fd == nil {
		t.Fatal("expected an X-Wing")
	}
	if fd.Technique != XWing {
		t.Errorf("technique = %v", fd.Technique)
	}
	proof, ok := fd.Proof.(FishProof)
	if !ok {
		t.Fatalf("proof = %T", fd.Proof)
	}
	if diff := cmp.Diff(FishProof{
		Digit: 4,
		Base:  []int{1, 8},
		Cover: []int{12, 15},
		Fins:  nil,
	}, proof); diff != "" {
		t.Errorf("proof mismatch (-want +got):\n%s", diff)
	}
	// Digit 4 falls from columns 3 and 6 in every other row.
	want := 0
	for _, e := range fd.Eliminations {
		if e.Digit != 4 {
			t.Errorf("wrong digit eliminated: %v", e)
		}
		row, col := e.Cell/9, e.Cell%9
		if row == 1 || row == 8 {
			t.Errorf("elimination inside the base: %v", e)
		}
		if col != 3 && col != 6 {
			t.Errorf("elimination outside the cover: %v", e)
		}
		want++
	}
	if want != 14 {
		t.Errorf("got %d eliminations, want 14", want)
	}
}

func TestFinnedXWing(t *testing.T) {
	f := emptyFabric(t)
	// Rows 1 and 8 almost form an X-Wing on digit 4; the extra position
	// at r8c8 is a fin in the bottom-right box.
	clearDigitFromRow(t, f, 1, 4, 3, 6)
	clearDigitFromRow(t, f, 8, 4, 3, 6, 8)

	s := New(nil)
	if fd := s.findBasicFish(f, 2); fd != nil {
		t.Fatalf("unfinned finder must not fire with a nonempty gap, got %v", fd)
	}
	fd := s.findFinnedFish(f, 2)
	if fd == nil {
		t.Fatal("expected a finned X-Wing")
	}
	if fd.Technique != FinnedXWing {
		t.Errorf("technique = %v", fd.Technique)
	}
	// Eliminations shrink to the fin box: column 6 within rows 6-7.
	wantElims := []Candidate{{60, 4}, {69, 4}}
	if diff := cmp.Diff(wantElims, fd.Eliminations); diff != "" {
		t.Errorf("eliminations mismatch (-want +got):\n%s", diff)
	}
}

func TestFinnedFishRequiresSingleFinBox(t *testing.T) {
	f := emptyFabric(t)
	// Fins at r1c0 (box 0) and r8c8 (box 8): no theorem applies.
	clearDigitFromRow(t, f, 1, 4, 0, 3, 6)
	clearDigitFromRow(t, f, 8, 4, 3, 6, 8)

	s := New(nil)
	if fd := s.findBasicFish(f, 2); fd != nil {
		t.Errorf("unfinned finder fired with fins present: %v", fd)
	}
	if fd := s.findFinnedFish(f, 2); fd != nil {
		t.Errorf("finned finder fired with fins spanning two boxes: %v", fd)
	}
}

func TestPointingPair(t *testing.T) {
	f := emptyFabric(t)
	// Digit 5 in box 0 confined to row 0: eliminate it from the rest of
	// row 0 outside the box.
	for _, cell := range []int{9, 10, 11, 18, 19, 20} {
		if out := f.Eliminate(cell, 5); out == fabric.Contradiction {
			t.Fatal("setup contradiction")
		}
	}

	s := New(nil)
	fd := s.findPointingPair(f)
	if fd == nil {
		t.Fatal("expected a pointing pair")
	}
	if fd.Technique != PointingPair {
		t.Errorf("technique = %v", fd.Technique)
	}
	for _, e := range fd.Eliminations {
		if e.Digit != 5 {
			t.Errorf("wrong digit: %v", e)
		}
		if e.Cell/9 != 0 || e.Cell%9 < 3 {
			t.Errorf("elimination must hit row 0 outside box 0: %v", e)
		}
	}
	if len(fd.Eliminations) != 6 {
		t.Errorf("got %d eliminations, want 6", len(fd.Eliminations))
	}
}
