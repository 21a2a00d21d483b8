package grid

import (
	"errors"
	"strings"
	"testing"
)

const wikipediaPuzzle = "53..7....6..195....98....6.8...6...34..8.3..17...2...6.6....28....419..5....8..79"

func TestParseRoundTrip(t *testing.T) {
	g, err := Parse(wikipediaPuzzle)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := g.String(); got != wikipediaPuzzle {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", got, wikipediaPuzzle)
	}

	// Re-parsing the emitted form yields a semantically equal grid.
	g2, err := Parse(g.String())
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	for pos := range CellCount {
		if g.Get(pos) != g2.Get(pos) {
			t.Errorf("cell %d differs after round trip: %d vs %d", pos, g.Get(pos), g2.Get(pos))
		}
	}
}

func TestParseIgnoresWhitespace(t *testing.T) {
	spaced := strings.Join(strings.SplitAfterN(wikipediaPuzzle, "", 9), "\n")
	g, err := Parse(spaced)
	if err != nil {
		t.Fatalf("Parse with whitespace failed: %v", err)
	}
	if g.String() != wikipediaPuzzle {
		t.Errorf("whitespace parse mismatch: %s", g.String())
	}
}

func TestParseZeroAsEmpty(t *testing.T) {
	zeroed := strings.ReplaceAll(wikipediaPuzzle, ".", "0")
	g, err := Parse(zeroed)
	if err != nil {
		t.Fatalf("Parse with zeros failed: %v", err)
	}
	if g.String() != wikipediaPuzzle {
		t.Errorf("zero parse mismatch: %s", g.String())
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("WrongLength", func(t *testing.T) {
		if _, err := Parse("53..7"); !errors.Is(err, ErrWrongLength) {
			t.Errorf("expected ErrWrongLength, got %v", err)
		}
	})
	t.Run("InvalidChar", func(t *testing.T) {
		bad := "x" + wikipediaPuzzle[1:]
		if _, err := Parse(bad); !errors.Is(err, ErrInvalidChar) {
			t.Errorf("expected ErrInvalidChar, got %v", err)
		}
	})
	t.Run("IllegalPuzzle", func(t *testing.T) {
		// Two 5s in the first row.
		bad := "55..7...." + wikipediaPuzzle[9:]
		if _, err := Parse(bad); err == nil {
			t.Error("expected error for duplicate in row")
		}
	})
}

func TestGivensAreProtected(t *testing.T) {
	g, err := Parse(wikipediaPuzzle)
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsGiven(0) {
		t.Error("cell 0 should be a given")
	}
	if g.IsGiven(2) {
		t.Error("cell 2 should not be a given")
	}
	if err := g.Clear(0); err == nil {
		t.Error("clearing a given should fail")
	}

	// A value placed during solving is not a given and can be cleared.
	if err := g.Set(2, 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if g.IsGiven(2) {
		t.Error("placed cell must not become a given")
	}
	if err := g.Clear(2); err != nil {
		t.Errorf("clearing a placed cell failed: %v", err)
	}
}

func TestCandidatesMask(t *testing.T) {
	g, err := Parse(wikipediaPuzzle)
	if err != nil {
		t.Fatal(err)
	}
	// r0c2: row has {5,3,7}, column has {8}, box has {5,3,6,9,8}.
	mask := g.CandidatesMask(2)
	want := uint(1<<0 | 1<<1 | 1<<3) // digits 1, 2, 4
	if mask != want {
		t.Errorf("candidates of cell 2 = %09b, want %09b", mask, want)
	}
}

func TestCanonicalHash(t *testing.T) {
	g1, _ := Parse(wikipediaPuzzle)
	g2, _ := Parse(wikipediaPuzzle)
	if g1.CanonicalHash() != g2.CanonicalHash() {
		t.Error("equal grids must hash equally")
	}
	g3 := g1.Clone()
	if err := g3.Set(2, 1); err != nil {
		t.Fatal(err)
	}
	if g1.CanonicalHash() == g3.CanonicalHash() {
		t.Error("different grids must hash differently")
	}
}

func TestCounts(t *testing.T) {
	g, _ := Parse(wikipediaPuzzle)
	if got := g.ClueCount(); got != 30 {
		t.Errorf("ClueCount = %d, want 30", got)
	}
	if g.EmptyCount() != CellCount-30 {
		t.Errorf("EmptyCount = %d", g.EmptyCount())
	}
	if g.IsComplete() {
		t.Error("puzzle should not be complete")
	}
}

func TestMakePos(t *testing.T) {
	if MakePos(0, 0) != 0 || MakePos(8, 8) != 80 || MakePos(4, 2) != 38 {
		t.Error("MakePos mapping wrong")
	}
	if MakePos(9, 0) != InvalidCell || MakePos(0, -1) != InvalidCell {
		t.Error("MakePos must reject out-of-range coordinates")
	}
}
