// Package logic implements the logical deduction solver ("basic solver"):
// a per-cell candidate-mask (Sukaku) state driven through naked singles,
// hidden singles, pointing/claiming, and naked/hidden subsets until a
// fixpoint, a stuck state, or a proven contradiction.
package logic

import (
	"github.com/sudogrid/sudogrid/internal/bitmask"
	"github.com/sudogrid/sudogrid/internal/grid"
)

// Result reports what a single StepBasics call accomplished.
type Result int

const (
	// Progressed means at least one of the four rounds changed state.
	Progressed Result = iota
	// Stuck means a full pass made no progress.
	Stuck
	// Contradiction means the puzzle was proved unsolvable.
	Contradiction
)

// Sukaku is a per-cell candidate-mask Sudoku state, independent of the
// band-oriented representation used by the brute-force solver.
type Sukaku struct {
	Placed grid.Grid
	Cand   [grid.NumCells]uint16
	RowMissing, ColMissing, BoxMissing [9]uint16
}

// NewSukaku builds a Sukaku from a (possibly partial) starting grid,
// propagating each given digit's elimination to its peers.
func NewSukaku(g grid.Grid) *Sukaku {
	s := &Sukaku{Placed: g}
	for i := 0; i < 9; i++ {
		s.RowMissing[i] = grid.AllDigitsMask
		s.ColMissing[i] = grid.AllDigitsMask
		s.BoxMissing[i] = grid.AllDigitsMask
	}
	for i, d := range g {
		if d == 0 {
			s.Cand[i] = grid.AllDigitsMask
			continue
		}
		bit := grid.DigitBit(int(d))
		s.Cand[i] = bit
		s.RowMissing[grid.RowOf[i]] &^= bit
		s.ColMissing[grid.ColOf[i]] &^= bit
		s.BoxMissing[grid.BoxOf[i]] &^= bit
	}
	for i, d := range g {
		if d != 0 {
			continue
		}
		for _, p := range grid.Peers[i] {
			if g[p] != 0 {
				s.Cand[i] &^= grid.DigitBit(int(g[p]))
			}
		}
	}
	return s
}

// Place installs digit d (as its singleton bit mask) at cell i, clears it
// from all 20 peers, and flips it out of the three covering region masks.
func (s *Sukaku) Place(i int, bit uint16) {
	d := bitToDigit(bit)
	s.Placed[i] = d
	s.Cand[i] = bit
	for _, p := range grid.Peers[i] {
		s.Cand[p] &^= bit
	}
	s.RowMissing[grid.RowOf[i]] &^= bit
	s.ColMissing[grid.ColOf[i]] &^= bit
	s.BoxMissing[grid.BoxOf[i]] &^= bit
}

// Eliminate removes mask from cell i's candidates and reports whether that
// changed the cell.
func (s *Sukaku) Eliminate(i int, mask uint16) bool {
	before := s.Cand[i]
	s.Cand[i] &^= mask
	return s.Cand[i] != before
}

func bitToDigit(bit uint16) uint8 {
	d := uint8(0)
	for bit > 1 {
		bit >>= 1
		d++
	}
	return d
}

// IsSolved reports whether every cell holds a digit.
func (s *Sukaku) IsSolved() bool {
	for _, d := range s.Placed {
		if d == 0 {
			return false
		}
	}
	return true
}

// SolveBasics runs StepBasics to a fixpoint: repeatedly progressing until a
// pass makes no change or a contradiction is proved. It is idempotent:
// calling it twice yields the same final state as calling it once, since a
// second call immediately observes Stuck (or Contradiction, unchanged).
func (s *Sukaku) SolveBasics() Result {
	for {
		switch s.StepBasics() {
		case Progressed:
			continue
		case Stuck:
			return Stuck
		default:
			return Contradiction
		}
	}
}

// StepBasics runs one full pass of the deduction ladder: naked singles,
// hidden singles, pointing/claiming, naked/hidden subsets, cheapest first.
func (s *Sukaku) StepBasics() Result {
	if changed, contradiction := s.nakedSingles(); contradiction {
		return Contradiction
	} else if changed {
		return Progressed
	}
	if changed, contradiction := s.hiddenSingles(); contradiction {
		return Contradiction
	} else if changed {
		return Progressed
	}
	if changed := s.pointingClaiming(); changed {
		return Progressed
	}
	if changed := s.subsets(); changed {
		return Progressed
	}
	return Stuck
}

func (s *Sukaku) nakedSingles() (changed bool, contradiction bool) {
	for i := 0; i < grid.NumCells; i++ {
		if s.Placed[i] != 0 {
			continue
		}
		c := s.Cand[i]
		if c == 0 {
			return changed, true
		}
		if bitmask.Mask[uint16](c).Count() == 1 {
			s.Place(i, c)
			changed = true
		}
	}
	return changed, false
}

type regionKind int

const (
	regionRow regionKind = iota
	regionCol
	regionBox
)

func (s *Sukaku) regions(kind regionKind) ([9][9]int, *[9]uint16) {
	switch kind {
	case regionRow:
		return grid.Rows, &s.RowMissing
	case regionCol:
		return grid.Cols, &s.ColMissing
	default:
		return grid.Boxes, &s.BoxMissing
	}
}

func (s *Sukaku) hiddenSingles() (changed bool, contradiction bool) {
	for _, kind := range []regionKind{regionRow, regionCol, regionBox} {
		cells, missing := s.regions(kind)
		for r := 0; r < 9; r++ {
			var atLeast, moreThan uint16
			for _, cell := range cells[r] {
				if s.Placed[cell] != 0 {
					continue
				}
				c := s.Cand[cell]
				moreThan |= atLeast & c
				atLeast |= c
			}
			if atLeast != missing[r] {
				return changed, true
			}
			exactlyOnce := atLeast &^ moreThan
			for _, cell := range cells[r] {
				if s.Placed[cell] != 0 {
					continue
				}
				found := s.Cand[cell] & exactlyOnce
				if bitmask.Mask[uint16](found).Count() == 1 {
					s.Place(cell, found)
					changed = true
				}
			}
		}
	}
	return changed, false
}

// pointingClaiming applies the four directional intersections: for each
// region and each missing digit, if every candidate cell for that digit
// lies in a single perpendicular region, eliminate the digit from that
// perpendicular region outside the first.
func (s *Sukaku) pointingClaiming() bool {
	changed := false
	changed = s.intersect(grid.Rows, &s.RowMissing, grid.BoxOf, grid.Boxes) || changed
	changed = s.intersect(grid.Cols, &s.ColMissing, grid.BoxOf, grid.Boxes) || changed
	changed = s.intersect(grid.Boxes, &s.BoxMissing, grid.RowOf, grid.Rows) || changed
	changed = s.intersect(grid.Boxes, &s.BoxMissing, grid.ColOf, grid.Cols) || changed
	return changed
}

// intersect implements one of the four (region -> perpendicular region)
// passes: regions is the set being scanned, missing its per-region missing
// mask, perpOf maps a cell to its perpendicular region index, and perp
// lists that perpendicular region's cells.
func (s *Sukaku) intersect(regions [9][9]int, missing *[9]uint16, perpOf [grid.NumCells]int, perp [9][9]int) bool {
	changed := false
	for r := 0; r < 9; r++ {
		it := bitmask.Mask[uint16](missing[r]).Bits()
		for {
			d, ok := it.Next()
			if !ok {
				break
			}
			bit := grid.DigitBit(d)
			perpIdx := -1
			confined := true
			for _, cell := range regions[r] {
				if s.Placed[cell] != 0 || s.Cand[cell]&bit == 0 {
					continue
				}
				if perpIdx == -1 {
					perpIdx = perpOf[cell]
				} else if perpOf[cell] != perpIdx {
					confined = false
					break
				}
			}
			if !confined || perpIdx == -1 {
				continue
			}
			for _, cell := range perp[perpIdx] {
				if perpOf[cell] == perpIdx && !contains(regions[r], cell) {
					if s.Eliminate(cell, bit) {
						changed = true
					}
				}
			}
		}
	}
	return changed
}

func contains(region [9]int, cell int) bool {
	for _, c := range region {
		if c == cell {
			return true
		}
	}
	return false
}

// subsets runs the naked-subset pass (cell subsets whose candidate union
// has exactly as many digits as cells) and the hidden-subset pass (digit
// subsets confined to exactly as many cells as digits), over every region,
// for sizes 2..n-2.
func (s *Sukaku) subsets() bool {
	changed := false
	for _, kind := range []regionKind{regionRow, regionCol, regionBox} {
		cells, missing := s.regions(kind)
		for r := 0; r < 9; r++ {
			if s.nakedSubsetsInRegion(cells[r]) {
				changed = true
			}
			if s.hiddenSubsetsInRegion(cells[r], missing[r]) {
				changed = true
			}
		}
	}
	return changed
}

func (s *Sukaku) nakedSubsetsInRegion(region [9]int) bool {
	var unsolved []int
	for _, c := range region {
		if s.Placed[c] == 0 {
			unsolved = append(unsolved, c)
		}
	}
	n := len(unsolved)
	if n < 4 {
		return false
	}
	changed := false
	full := bitmask.Mask[uint16](1<<uint(n) - 1)
	it := full.Subsets()
	for {
		sub, ok := it.Next()
		if !ok {
			break
		}
		size := sub.Count()
		if size < 2 || size > n-2 {
			continue
		}
		var union uint16
		bit := sub.Bits()
		for {
			pos, ok := bit.Next()
			if !ok {
				break
			}
			union |= s.Cand[unsolved[pos]]
		}
		if bitmask.Mask[uint16](union).Count() != size {
			continue
		}
		outer := sub.Bits()
		inSubset := map[int]bool{}
		for {
			pos, ok := outer.Next()
			if !ok {
				break
			}
			inSubset[unsolved[pos]] = true
		}
		for _, c := range unsolved {
			if inSubset[c] {
				continue
			}
			if s.Eliminate(c, union) {
				changed = true
			}
		}
	}
	return changed
}

func (s *Sukaku) hiddenSubsetsInRegion(region [9]int, missing uint16) bool {
	n := bitmask.Mask[uint16](missing).Count()
	if n < 4 {
		return false
	}
	changed := false
	it := bitmask.Mask[uint16](missing).Subsets()
	for {
		d, ok := it.Next()
		if !ok {
			break
		}
		size := d.Count()
		if size < 2 || size > n-2 {
			continue
		}
		var cells []int
		for _, c := range region {
			if s.Placed[c] == 0 && s.Cand[c]&uint16(d) != 0 {
				cells = append(cells, c)
			}
		}
		if len(cells) != size {
			continue
		}
		for _, c := range cells {
			if s.Eliminate(c, s.Cand[c]&^uint16(d)) {
				changed = true
			}
		}
	}
	return changed
}
