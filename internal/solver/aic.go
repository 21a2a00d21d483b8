package solver

import (
	"github.com/kcirtapfromspace/sudoku/internal/fabric"
)

// node is a live candidate in the inference graph, encoded cell*9+digit-1.
type node int32

func makeNode(cell, digit int) node { return node(cell*9 + digit - 1) }
func (n node) cell() int            { return int(n) / 9 }
func (n node) digit() int           { return int(n)%9 + 1 }

// linkGraph answers strong/weak adjacency queries against a fabric.
// Edges are derived on demand; nothing is materialized beyond the node list.
// Strong links are conjugate pairs per sector per digit and bivalue cells;
// weak links are same-sector same-digit and same-cell pairs. Every strong
// link is also a weak link.
type linkGraph struct {
	f *fabric.Fabric
}

func buildLinkGraph(f *fabric.Fabric) *linkGraph {
	return &linkGraph{f: f}
}

// strongNeighbors lists nodes joined to n by an exactly-one-true relation.
func (g *linkGraph) strongNeighbors(n node, restrict int) []node {
	c, d := n.cell(), n.digit()
	var out []node
	for _, s := range fabric.CellSectors[c] {
		pos := g.f.DigitPositions(s, d)
		if pos.Count() != 2 {
			continue
		}
		for _, k := range pos.Digits() {
			other := fabric.SectorCells[s][k-1]
			if other != c {
				out = append(out, makeNode(other, d))
			}
		}
	}
	if restrict == 0 {
		m := g.f.CandidatesMask(c)
		if m.Count() == 2 {
			out = append(out, makeNode(c, (m &^ fabric.DigitMask(d)).Lowest()))
		}
	}
	return out
}

// weakNeighbors lists nodes joined to n by an at-most-one-true relation.
func (g *linkGraph) weakNeighbors(n node, restrict int) []node {
	c, d := n.cell(), n.digit()
	var out []node
	for _, p := range fabric.PeerSet[c].Cells() {
		if g.f.IsEmptyCell(p) && g.f.CandidatesMask(p).Has(d) {
			out = append(out, makeNode(p, d))
		}
	}
	if restrict == 0 {
		for _, d2 := range (g.f.CandidatesMask(c) &^ fabric.DigitMask(d)).Digits() {
			out = append(out, makeNode(c, d2))
		}
	}
	return out
}

// aicChain is a candidate chain: nodes joined by alternating links,
// starting and ending strong.
type aicChain struct {
	nodes []node
}

func (ch aicChain) distinctDigits() int {
	var m fabric.Mask
	for _, n := range ch.nodes {
		m |= fabric.DigitMask(n.digit())
	}
	return m.Count()
}

func lessChain(a, b aicChain) bool {
	if da, db := a.distinctDigits(), b.distinctDigits(); da != db {
		return da < db
	}
	for i := range a.nodes {
		if i >= len(b.nodes) {
			return false
		}
		if a.nodes[i] != b.nodes[i] {
			return a.nodes[i] < b.nodes[i]
		}
	}
	return len(a.nodes) < len(b.nodes)
}

// chainLimit bounds collected chains per depth so tie-breaking stays cheap.
const chainLimit = 256

// searchChains runs alternating depth-limited DFS from every candidate,
// growing the link budget two at a time and returning the finding from the
// best chain at the first depth that yields one. Revisit prevention is per
// polarity: a node may appear once with each entering link kind.
//
// restrict > 0 confines the search to that digit (the X-Chain parameter).
func (s *Solver) searchChains(f *fabric.Fabric, g *linkGraph, restrict int, tech Technique) *Finding {
	var starts []node
	for c := range fabric.CellCount {
		if !f.IsEmptyCell(c) {
			continue
		}
		for _, d := range f.CandidatesMask(c).Digits() {
			if restrict > 0 && d != restrict {
				continue
			}
			starts = append(starts, makeNode(c, d))
		}
	}

	for maxLinks := 3; maxLinks <= s.options.ChainDepthLimit; maxLinks += 2 {
		var hits []aicChain
		for _, start := range starts {
			visited := make(map[node]uint8)
			var path []node
			var dfs func(cur node, links int, nextStrong bool)
			dfs = func(cur node, links int, nextStrong bool) {
				if len(hits) >= chainLimit {
					return
				}
				if links == maxLinks {
					return
				}
				var nexts []node
				if nextStrong {
					nexts = g.strongNeighbors(cur, restrict)
				} else {
					nexts = g.weakNeighbors(cur, restrict)
				}
				bit := uint8(1)
				if nextStrong {
					bit = 2
				}
				for _, nx := range nexts {
					if visited[nx]&bit != 0 {
						continue
					}
					visited[nx] |= bit
					path = append(path, nx)
					// A chain closes on a strong link with ≥3 links used.
					if nextStrong && links+1 >= 3 && links%2 == 0 {
						if chainEliminates(f, path) {
							hits = append(hits, aicChain{nodes: append([]node(nil), path...)})
						}
					}
					dfs(nx, links+1, !nextStrong)
					path = path[:len(path)-1]
					visited[nx] &^= bit
				}
			}
			visited[start] = 3
			path = []node{start}
			dfs(start, 0, true)
		}
		if len(hits) > 0 {
			best := hits[0]
			for _, h := range hits[1:] {
				if lessChain(h, best) {
					best = h
				}
			}
			return chainFinding(f, best, tech)
		}
	}
	return nil
}

// chainEliminates reports whether a closed chain yields any elimination.
func chainEliminates(f *fabric.Fabric, path []node) bool {
	return len(chainEliminations(f, path)) > 0
}

// chainEliminations derives the eliminations of a chain whose endpoints
// carry the or-is-true disjunction. Same digit, different cells: the digit
// falls from common peers. Same cell, different digits: the cell keeps only
// the two endpoint digits.
func chainEliminations(f *fabric.Fabric, path []node) []Candidate {
	head, tail := path[0], path[len(path)-1]
	var elims []Candidate
	if head.cell() == tail.cell() {
		if head.digit() == tail.digit() {
			return nil
		}
		keep := fabric.DigitMask(head.digit()) | fabric.DigitMask(tail.digit())
		for _, d := range (f.CandidatesMask(head.cell()) &^ keep).Digits() {
			elims = append(elims, Candidate{head.cell(), d})
		}
		return elims
	}
	if head.digit() != tail.digit() {
		return nil
	}
	d := head.digit()
	zone := fabric.PeerSet[head.cell()].Intersect(fabric.PeerSet[tail.cell()])
	for _, c := range zone.Cells() {
		if !f.IsEmptyCell(c) || !f.CandidatesMask(c).Has(d) {
			continue
		}
		elims = append(elims, Candidate{c, d})
	}
	return elims
}

func chainFinding(f *fabric.Fabric, ch aicChain, tech Technique) *Finding {
	elims := chainEliminations(f, ch.nodes)
	nodes := make([]ChainNode, len(ch.nodes))
	for i, n := range ch.nodes {
		nodes[i] = ChainNode{Cell: n.cell(), Digit: n.digit(), Strong: i%2 == 0}
	}
	return elimination(tech, elims, AicProof{Nodes: nodes})
}

// findXChain is the single-digit restriction of the alternating search.
func (s *Solver) findXChain(f *fabric.Fabric, g *linkGraph) *Finding {
	for d := 1; d <= 9; d++ {
		if fd := s.searchChains(f, g, d, XChain); fd != nil {
			return fd
		}
	}
	return nil
}

// findAic runs the unrestricted alternating search.
func (s *Solver) findAic(f *fabric.Fabric, g *linkGraph) *Finding {
	return s.searchChains(f, g, 0, AIC)
}

// findWWing finds two bivalue cells with the same digit pair bridged by a
// conjugate pair of one digit: the length-six chain template.
func (s *Solver) findWWing(f *fabric.Fabric) *Finding {
	for a := range fabric.CellCount {
		ma := f.CandidatesMask(a)
		if !f.IsEmptyCell(a) || ma.Count() != 2 {
			continue
		}
		for b := a + 1; b < fabric.CellCount; b++ {
			if !f.IsEmptyCell(b) || f.CandidatesMask(b) != ma || fabric.Sees(a, b) {
				continue
			}
			digits := ma.Digits()
			for _, y := range digits {
				x := ma &^ fabric.DigitMask(y)
				for sector := range fabric.SectorCount {
					if fabric.SectorSet[sector].Has(a) || fabric.SectorSet[sector].Has(b) {
						continue
					}
					pos := f.DigitPositions(sector, y)
					if pos.Count() != 2 {
						continue
					}
					ks := pos.Digits()
					p := fabric.SectorCells[sector][ks[0]-1]
					q := fabric.SectorCells[sector][ks[1]-1]
					if !(fabric.Sees(p, a) && fabric.Sees(q, b)) && !(fabric.Sees(p, b) && fabric.Sees(q, a)) {
						continue
					}
					xd := x.Lowest()
					zone := fabric.PeerSet[a].Intersect(fabric.PeerSet[b])
					var elims []Candidate
					for _, c := range zone.Cells() {
						if !f.IsEmptyCell(c) || !f.CandidatesMask(c).Has(xd) {
							continue
						}
						elims = append(elims, Candidate{c, xd})
					}
					if fd := elimination(WWing, elims, AicProof{Nodes: []ChainNode{
						{Cell: a, Digit: xd, Strong: true},
						{Cell: a, Digit: y},
						{Cell: p, Digit: y, Strong: true},
						{Cell: q, Digit: y},
						{Cell: b, Digit: y, Strong: true},
						{Cell: b, Digit: xd},
					}}); fd != nil {
						return fd
					}
				}
			}
		}
	}
	return nil
}

// findMedusa two-colors each connected component of the strong-link
// subgraph, then applies the color contradiction rules and the sees-both-
// colors elimination. Equivalent to an AIC over the component, found by
// BFS in linear time.
func (s *Solver) findMedusa(f *fabric.Fabric, g *linkGraph) *Finding {
	colored := make(map[node]int8) // 1 or 2 within the current component
	var component []node

	var queue []node
	for c := range fabric.CellCount {
		if !f.IsEmptyCell(c) {
			continue
		}
		for _, d := range f.CandidatesMask(c).Digits() {
			start := makeNode(c, d)
			if _, ok := colored[start]; ok {
				continue
			}
			// BFS two-coloring of the strong component.
			componentStart := len(component)
			colored[start] = 1
			component = append(component, start)
			queue = append(queue[:0], start)
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				for _, nx := range g.strongNeighbors(cur, 0) {
					if _, ok := colored[nx]; ok {
						continue
					}
					colored[nx] = 3 - colored[cur]
					component = append(component, nx)
					queue = append(queue, nx)
				}
			}
			comp := component[componentStart:]
			if len(comp) < 4 {
				continue
			}
			if fd := s.medusaRules(f, comp, colored); fd != nil {
				return fd
			}
		}
	}
	return nil
}

// medusaRules checks one colored component for contradictions and traps.
func (s *Solver) medusaRules(f *fabric.Fabric, comp []node, colored map[node]int8) *Finding {
	// Contradiction rules: a color repeating within a cell, or within a
	// sector on one digit, is entirely false.
	for _, color := range []int8{1, 2} {
		var cellSeen [fabric.CellCount]fabric.Mask
		var sectorSeen [fabric.SectorCount]fabric.Mask
		bad := false
		for _, n := range comp {
			if colored[n] != color {
				continue
			}
			c, d := n.cell(), n.digit()
			if cellSeen[c] != 0 {
				bad = true
			}
			cellSeen[c] |= fabric.DigitMask(d)
			for _, s := range fabric.CellSectors[c] {
				if sectorSeen[s].Has(d) {
					bad = true
				}
				sectorSeen[s] |= fabric.DigitMask(d)
			}
		}
		if bad {
			var elims []Candidate
			for _, n := range comp {
				if colored[n] == color {
					elims = append(elims, Candidate{n.cell(), n.digit()})
				}
			}
			return elimination(ThreeDMedusa, elims, medusaProof(comp, colored))
		}
	}

	// Trap rule: an uncolored candidate weakly linked to both colors falls.
	var elims []Candidate
	for c := range fabric.CellCount {
		if !f.IsEmptyCell(c) {
			continue
		}
		for _, d := range f.CandidatesMask(c).Digits() {
			n := makeNode(c, d)
			if _, ok := colored[n]; ok {
				continue
			}
			var seesColor [3]bool
			for _, m := range comp {
				mc, md := m.cell(), m.digit()
				linked := (mc == c && md != d) || (md == d && fabric.Sees(mc, c))
				if linked {
					seesColor[colored[m]] = true
				}
			}
			if seesColor[1] && seesColor[2] {
				elims = append(elims, Candidate{c, d})
			}
		}
	}
	return elimination(ThreeDMedusa, elims, medusaProof(comp, colored))
}

func medusaProof(comp []node, colored map[node]int8) AicProof {
	nodes := make([]ChainNode, len(comp))
	for i, n := range comp {
		nodes[i] = ChainNode{Cell: n.cell(), Digit: n.digit(), Strong: colored[n] == 1}
	}
	return AicProof{Nodes: nodes}
}
