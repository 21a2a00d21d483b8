package fabric

import "math/bits"

// Sector identifiers: 0-8 rows, 9-17 columns, 18-26 boxes.
const (
	CellCount   = 81
	SectorCount = 27

	rowBase = 0
	colBase = 9
	boxBase = 18
)

// SectorKind classifies a sector as a row, column, or box.
type SectorKind int

const (
	RowSector SectorKind = iota
	ColSector
	BoxSector
)

// KindOf returns the kind of a sector identifier.
func KindOf(sector int) SectorKind {
	switch {
	case sector < colBase:
		return RowSector
	case sector < boxBase:
		return ColSector
	default:
		return BoxSector
	}
}

// IsLine reports whether a sector is a row or a column.
func IsLine(sector int) bool { return sector < boxBase }

// RowSectorOf returns the row sector containing a cell.
func RowSectorOf(cell int) int { return rowBase + cell/9 }

// ColSectorOf returns the column sector containing a cell.
func ColSectorOf(cell int) int { return colBase + cell%9 }

// BoxSectorOf returns the box sector containing a cell.
func BoxSectorOf(cell int) int { return boxBase + 3*(cell/27) + (cell%9)/3 }

// CellSet is a set of cell positions 0-80, stored as a 128-bit mask.
type CellSet struct {
	lo, hi uint64
}

// Add inserts a cell into the set.
func (s *CellSet) Add(cell int) {
	if cell < 64 {
		s.lo |= 1 << uint(cell)
	} else {
		s.hi |= 1 << uint(cell-64)
	}
}

// Remove deletes a cell from the set.
func (s *CellSet) Remove(cell int) {
	if cell < 64 {
		s.lo &^= 1 << uint(cell)
	} else {
		s.hi &^= 1 << uint(cell-64)
	}
}

// Has reports whether a cell is in the set.
func (s CellSet) Has(cell int) bool {
	if cell < 64 {
		return s.lo&(1<<uint(cell)) != 0
	}
	return s.hi&(1<<uint(cell-64)) != 0
}

// Union returns the set union.
func (s CellSet) Union(t CellSet) CellSet {
	return CellSet{s.lo | t.lo, s.hi | t.hi}
}

// Intersect returns the set intersection.
func (s CellSet) Intersect(t CellSet) CellSet {
	return CellSet{s.lo & t.lo, s.hi & t.hi}
}

// Diff returns the cells in s but not in t.
func (s CellSet) Diff(t CellSet) CellSet {
	return CellSet{s.lo &^ t.lo, s.hi &^ t.hi}
}

// IsEmpty reports whether the set has no cells.
func (s CellSet) IsEmpty() bool { return s.lo == 0 && s.hi == 0 }

// Len returns the number of cells in the set.
func (s CellSet) Len() int {
	return bits.OnesCount64(s.lo) + bits.OnesCount64(s.hi)
}

// ContainsAll reports whether every cell of t is in s.
func (s CellSet) ContainsAll(t CellSet) bool {
	return t.lo&^s.lo == 0 && t.hi&^s.hi == 0
}

// Overlaps reports whether the sets share at least one cell.
func (s CellSet) Overlaps(t CellSet) bool {
	return s.lo&t.lo != 0 || s.hi&t.hi != 0
}

// Cells returns the members in ascending order.
func (s CellSet) Cells() []int {
	cells := make([]int, 0, s.Len())
	lo := s.lo
	for lo != 0 {
		cells = append(cells, bits.TrailingZeros64(lo))
		lo &= lo - 1
	}
	hi := s.hi
	for hi != 0 {
		cells = append(cells, 64+bits.TrailingZeros64(hi))
		hi &= hi - 1
	}
	return cells
}

// NewCellSet builds a set from cell positions.
func NewCellSet(cells ...int) CellSet {
	var s CellSet
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

// Precomputed geometry tables. Rows and columns never vary; boxes are the
// standard 3x3 layout. All tables are filled once in init.
var (
	// SectorCells lists the 9 cells of each sector in ascending order.
	SectorCells [SectorCount][9]int

	// SectorSet is the CellSet form of SectorCells.
	SectorSet [SectorCount]CellSet

	// CellSectors lists the row, column, and box sector of each cell.
	CellSectors [CellCount][3]int

	// PosInSector gives the index of a cell within each of its three sectors.
	PosInSector [CellCount][3]int

	// Peers lists the 20 other cells sharing at least one sector with a cell.
	Peers [CellCount][20]int

	// PeerSet is the CellSet form of Peers; it excludes the cell itself.
	PeerSet [CellCount]CellSet
)

// Sees reports whether two distinct cells share at least one sector.
func Sees(a, b int) bool {
	return PeerSet[a].Has(b)
}

// SeesAll reports whether cell sees every cell of the set, the cell itself excepted.
func SeesAll(cell int, set CellSet) bool {
	var self CellSet
	self.Add(cell)
	return PeerSet[cell].ContainsAll(set.Diff(self))
}

// CommonPeers returns the cells seeing every cell in the set, excluding members.
func CommonPeers(set CellSet) CellSet {
	common := CellSet{^uint64(0), (1 << (CellCount - 64)) - 1}
	for _, c := range set.Cells() {
		common = common.Intersect(PeerSet[c])
	}
	return common.Diff(set)
}

func init() {
	var counts [SectorCount]int
	for cell := range CellCount {
		sectors := [3]int{RowSectorOf(cell), ColSectorOf(cell), BoxSectorOf(cell)}
		CellSectors[cell] = sectors
		for i, s := range sectors {
			SectorCells[s][counts[s]] = cell
			PosInSector[cell][i] = counts[s]
			counts[s]++
		}
	}
	for s := range SectorCount {
		for _, cell := range SectorCells[s] {
			SectorSet[s].Add(cell)
		}
	}
	for cell := range CellCount {
		var peers CellSet
		for _, s := range CellSectors[cell] {
			peers = peers.Union(SectorSet[s])
		}
		peers.Remove(cell)
		PeerSet[cell] = peers
		copy(Peers[cell][:], peers.Cells())
	}
}
