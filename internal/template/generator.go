package template

import (
	"github.com/sudogrid/sudogrid/internal/bitmask"
	"github.com/sudogrid/sudogrid/internal/dfs"
	"github.com/sudogrid/sudogrid/internal/grid"
)

// wildcardCell is a not-yet-placed wildcard: its index and its
// template-allowed digit mask.
type wildcardCell struct {
	cell int
	mask uint16
}

// step commits one digit to one wildcard cell.
type step struct {
	cell  int
	digit uint8
}

// Generator is the dfs.Traversable that enumerates every grid matching a
// Template: each Given cell pre-applied, each Wildcard cell assigned a
// digit from its allowed set, each Empty cell left unplaced.
type Generator struct {
	rm        *grid.RegionMasked
	wildcards []wildcardCell
	placed    int
}

// NewGenerator builds a Generator from a parsed Template: Givens are
// applied immediately (panicking on a peer conflict, per the malformed-
// input contract — a template with contradictory Givens is developer
// error), Wildcards are collected for the search, Empty cells stay bare.
func NewGenerator(tpl *Template) *Generator {
	rm := grid.NewRegionMasked()
	var wildcards []wildcardCell
	for i, d := range tpl.Cells {
		switch d.Kind {
		case Given:
			if rm.Candidates(i)&grid.DigitBit(int(d.Digit)) == 0 {
				panic("malformed template: given digit conflicts with a peer")
			}
			rm.Place(i, d.Digit)
		case Wildcard:
			wildcards = append(wildcards, wildcardCell{cell: i, mask: d.Mask})
		}
	}
	return &Generator{rm: rm, wildcards: wildcards}
}

// selectMRV returns the index into g.wildcards of the unplaced wildcard
// with the fewest live candidates, ties broken by ascending cell index, or
// -1 if every wildcard is already placed.
func (g *Generator) selectMRV() int {
	best := -1
	bestCount := 10
	for i, w := range g.wildcards {
		if g.rm.Grid[w.cell] != 0 {
			continue
		}
		count := bitmask.Mask[uint16](w.mask & g.rm.Candidates(w.cell)).Count()
		if count < bestCount {
			best, bestCount = i, count
		}
	}
	return best
}

// NextSteps implements dfs.Traversable.
func (g *Generator) NextSteps() []step {
	idx := g.selectMRV()
	if idx < 0 {
		return nil
	}
	w := g.wildcards[idx]
	live := bitmask.Mask[uint16](w.mask & g.rm.Candidates(w.cell))
	var steps []step
	it := live.Bits()
	for {
		d, ok := it.Next()
		if !ok {
			break
		}
		steps = append(steps, step{cell: w.cell, digit: uint8(d)})
	}
	return steps
}

// ApplyStep implements dfs.Traversable.
func (g *Generator) ApplyStep(s step) {
	g.rm.Place(s.cell, s.digit)
	g.placed++
}

// RevertStep implements dfs.Traversable.
func (g *Generator) RevertStep(s step) {
	g.rm.Unplace(s.cell)
	g.placed--
}

// ShouldPrune implements dfs.Traversable: nothing here prunes early; a
// wildcard cell with zero live candidates simply has no next steps and is
// treated as an exhausted (non-emitting) leaf by the searcher.
func (g *Generator) ShouldPrune() bool { return false }

// Output implements dfs.Traversable.
func (g *Generator) Output() (grid.Grid, bool) {
	if g.placed != len(g.wildcards) {
		return grid.Grid{}, false
	}
	return g.rm.Grid, true
}

// Searcher returns a dfs.Searcher bound to this generator.
func (g *Generator) Searcher() *dfs.Searcher[step, grid.Grid] {
	return dfs.NewSearcher[step, grid.Grid](g)
}
