package symmetry

import (
	"github.com/sudogrid/sudogrid/internal/bitmask"
	"github.com/sudogrid/sudogrid/internal/dfs"
	"github.com/sudogrid/sudogrid/internal/grid"
)

type stepKind int

const (
	stepAddCell stepKind = iota
	stepPlaceDigit
)

// Step is one search decision: either committing to place a clue
// somewhere (AddCell) or choosing its digit (PlaceDigit).
type Step struct {
	Kind  stepKind
	Cell  int
	Digit uint8
}

// historyEntry is PlusN's own undo record, kept alongside the dfs
// package's generic stack so RevertStep can distinguish "this AddCell
// opened a new orbit" from "this AddCell committed a later orbit-mate"
// without needing that distinction encoded in Step itself.
type historyEntry struct {
	opened      bool
	prevPending int
}

// PlusN is the dfs.Traversable for symmetric expansion: starting from a
// grid and a dihedral subgroup, it adds up to n new clues such that the
// placed-clue set is closed under the group's action.
type PlusN struct {
	rm         *grid.RegionMasked
	orbitOf    [81]int
	orbitCells map[int][]int

	allowed    CellSet // orbit representatives still eligible to start
	placedReps CellSet // orbit representatives already chosen
	required   CellSet // orbit-mates of the orbit currently being filled
	pending    int     // cell awaiting a digit, or -1
	remaining  int     // clues still to place

	history []historyEntry
}

// NewPlusN builds a PlusN over rm using the given symmetry group. excluded
// lists cells that may never be chosen as a new clue (in addition to
// cells rm already has placed). n is the clue budget: every emitted grid
// carries at most n new clues (see Output).
//
// Any clue rm already carries is treated the way expansion.rs's
// for_sudoku_and_symmetry treats it: its whole orbit is folded in up
// front. required starts as every orbit-mate of an existing clue that
// isn't itself a clue yet (so the search is forced to close out that
// orbit before opening a new one, and that work consumes the n budget
// just as freshly-added clues do), and allowed drops the entire orbit of
// every existing clue and every excluded cell, not just the cell itself
// — otherwise an orbit representative could be picked to start a "new"
// orbit even though one of its orbit-mates is already a fixed clue.
func NewPlusN(rm *grid.RegionMasked, group []DihedralElement, excluded CellSet, n int) *PlusN {
	orbitOf, orbitCells := Orbits(group)
	p := &PlusN{
		rm:         rm,
		orbitOf:    orbitOf,
		orbitCells: orbitCells,
		pending:    -1,
		remaining:  n,
	}

	var clues CellSet
	for cell, d := range rm.Grid {
		if d != 0 {
			clues.Set(cell)
		}
	}

	for cell := 0; cell < 81; cell++ {
		if !clues.Test(cell) {
			continue
		}
		for _, m := range orbitCells[orbitOf[cell]] {
			if !clues.Test(m) {
				p.required.Set(m)
			}
		}
	}

	for cell, rep := range orbitOf {
		if rep == cell {
			p.allowed.Set(cell)
		}
	}
	for cell := 0; cell < 81; cell++ {
		if clues.Test(cell) || excluded.Test(cell) {
			p.allowed.Clear(orbitOf[cell])
		}
	}

	return p
}

// NextSteps implements dfs.Traversable.
func (p *PlusN) NextSteps() []Step {
	if p.pending >= 0 {
		cand := p.rm.Candidates(p.pending)
		var steps []Step
		it := bitmask.Mask[uint16](cand).Bits()
		for {
			d, ok := it.Next()
			if !ok {
				break
			}
			steps = append(steps, Step{Kind: stepPlaceDigit, Cell: p.pending, Digit: uint8(d)})
		}
		return steps
	}
	if !p.required.IsEmpty() {
		return []Step{{Kind: stepAddCell, Cell: p.required.Lowest()}}
	}
	if p.remaining <= 0 {
		return nil
	}
	start := 0
	if !p.placedReps.IsEmpty() {
		start = p.placedReps.Highest() + 1
	}
	var steps []Step
	for c := start; c < 81; c++ {
		if p.allowed.Test(c) {
			steps = append(steps, Step{Kind: stepAddCell, Cell: c})
		}
	}
	return steps
}

// ApplyStep implements dfs.Traversable.
func (p *PlusN) ApplyStep(s Step) {
	switch s.Kind {
	case stepAddCell:
		c := s.Cell
		opened := p.required.IsEmpty()
		if opened {
			var orbit CellSet
			for _, m := range p.orbitCells[p.orbitOf[c]] {
				orbit.Set(m)
			}
			p.required = orbit
			p.placedReps.Set(c)
		}
		p.required.Clear(c)
		p.history = append(p.history, historyEntry{opened: opened, prevPending: p.pending})
		p.pending = c
		p.remaining--
	case stepPlaceDigit:
		p.history = append(p.history, historyEntry{prevPending: p.pending})
		p.rm.Place(s.Cell, s.Digit)
		p.pending = -1
	}
}

// RevertStep implements dfs.Traversable.
func (p *PlusN) RevertStep(s Step) {
	n := len(p.history) - 1
	h := p.history[n]
	p.history = p.history[:n]
	switch s.Kind {
	case stepPlaceDigit:
		p.rm.Unplace(s.Cell)
		p.pending = h.prevPending
	case stepAddCell:
		c := s.Cell
		p.remaining++
		p.pending = h.prevPending
		p.required.Set(c)
		if h.opened {
			p.required = CellSet{}
			p.placedReps.Clear(c)
		}
	}
}

// ShouldPrune implements dfs.Traversable: an orbit that cannot be finished
// within the remaining clue budget is abandoned; a state with nothing left
// pending or required and no budget left stops deepening (its emission, if
// any, is handled by Output).
func (p *PlusN) ShouldPrune() bool {
	if !p.required.IsEmpty() && p.required.Count() > p.remaining {
		return true
	}
	if p.pending < 0 && p.required.IsEmpty() && p.remaining == 0 {
		return true
	}
	return false
}

// Output implements dfs.Traversable: any state with nothing required and
// nothing pending is a valid expansion, whether or not the full clue
// budget has been spent yet. In particular, when nothing is required at
// the start (no existing clue has an unplaced orbit-mate), the pristine,
// unexpanded grid is itself a valid (zero-clue) expansion and is the first
// value a Searcher built over a PlusN emits.
func (p *PlusN) Output() (grid.Grid, bool) {
	if p.required.IsEmpty() && p.pending < 0 {
		return p.rm.Grid, true
	}
	return grid.Grid{}, false
}

// Searcher returns a dfs.Searcher bound to this expansion.
func (p *PlusN) Searcher() *dfs.Searcher[Step, grid.Grid] {
	return dfs.NewSearcher[Step, grid.Grid](p)
}
