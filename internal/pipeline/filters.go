package pipeline

import (
	"github.com/sudogrid/sudogrid/internal/bruteforce"
	"github.com/sudogrid/sudogrid/internal/grid"
	"github.com/sudogrid/sudogrid/internal/logic"
	"github.com/sudogrid/sudogrid/internal/minlex"
)

// Filter decides whether a grid belongs in the output stream. Some filters
// (NonEquivalent) carry mutable state across calls.
type Filter interface {
	Matches(g grid.Grid) bool
}

// filterStage adapts a Filter into a Stage: the underlying iterator
// adaptor is a plain skip-until-match loop, exactly as `Iterator::filter`
// behaves — no progress or weight rewriting, since a filter neither
// subdivides nor rescales the search space it sees.
type filterStage struct {
	f Filter
}

// AsStage wraps a Filter so it can be passed to New/Pipeline composition.
func AsStage(f Filter) Stage {
	return filterStage{f: f}
}

func (fs filterStage) apply(upstream Source) Source {
	return &filteredSource{upstream: upstream, f: fs.f}
}

type filteredSource struct {
	upstream Source
	f        Filter
}

func (s *filteredSource) Next() (progress float64, weight float64, out grid.Grid, ok bool) {
	for {
		p, w, g, more := s.upstream.Next()
		if !more {
			return p, 0, grid.Grid{}, false
		}
		if s.f.Matches(g) {
			return p, w, g, true
		}
	}
}

// CellDigit is one (cell, digit) elimination pair, cell already a 0..80
// index and digit 1..9.
type CellDigit struct {
	Cell  int
	Digit uint8
}

func countEmpty(g grid.Grid) int {
	n := 0
	for _, d := range g {
		if d == 0 {
			n++
		}
	}
	return n
}

func countEmptySukaku(s *logic.Sukaku) int {
	n := 0
	for _, d := range s.Placed {
		if d == 0 {
			n++
		}
	}
	return n
}

// atMostNBasicPlacements keeps a grid only if the logical deduction solver
// never needs to place more than n digits consecutively without making the
// grid harder to place into (i.e. the basic solver's progress never drops
// the empty-cell count by more than n below the grid's starting count).
type atMostNBasicPlacements struct {
	n int
}

// AtMostNBasicPlacements builds the filter from distilled §4.7/original
// source's `at_most_n_basic_placements`.
func AtMostNBasicPlacements(n int) Filter {
	return &atMostNBasicPlacements{n: n}
}

func (f *atMostNBasicPlacements) Matches(g grid.Grid) bool {
	missing := countEmpty(g)
	s := logic.NewSukaku(g)
	for {
		r := s.StepBasics()
		if r != logic.Progressed {
			break
		}
		if countEmptySukaku(s)+f.n < missing {
			return false
		}
	}
	return true
}

// solvesWithBasicsAfterElims keeps a grid only if, after applying a fixed
// set of candidate eliminations, the basic solver alone fully solves it.
type solvesWithBasicsAfterElims struct {
	elims []CellDigit
}

// SolvesWithBasicsAfterElims builds the filter.
func SolvesWithBasicsAfterElims(elims []CellDigit) Filter {
	return &solvesWithBasicsAfterElims{elims: elims}
}

func (f *solvesWithBasicsAfterElims) Matches(g grid.Grid) bool {
	s := logic.NewSukaku(g)
	for _, e := range f.elims {
		s.Eliminate(e.Cell, grid.DigitBit(int(e.Digit)))
	}
	s.SolveBasics()
	return s.IsSolved()
}

type hasAnySolution struct{}

// HasAnySolution keeps a grid only if the brute-force solver finds at
// least one completion.
func HasAnySolution() Filter { return hasAnySolution{} }

func (hasAnySolution) Matches(g grid.Grid) bool {
	return bruteforce.HasSolution(g)
}

type hasUniqueSolution struct{}

// HasUniqueSolution keeps a grid only if the brute-force solver proves
// exactly one completion exists.
func HasUniqueSolution() Filter { return hasUniqueSolution{} }

func (hasUniqueSolution) Matches(g grid.Grid) bool {
	return bruteforce.HasUniqueSolution(g)
}

// nonEquivalent keeps only the first grid seen in each minlex canonical
// class, across the lifetime of the filter.
type nonEquivalent struct {
	seen map[grid.Grid]bool
}

// NonEquivalent builds a fresh dedupe filter with an empty seen set.
func NonEquivalent() Filter {
	return &nonEquivalent{seen: make(map[grid.Grid]bool)}
}

func (f *nonEquivalent) Matches(g grid.Grid) bool {
	c := minlex.Canonicalize(g)
	if f.seen[c] {
		return false
	}
	f.seen[c] = true
	return true
}
