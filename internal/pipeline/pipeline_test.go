package pipeline

import (
	"strings"
	"testing"

	"github.com/sudogrid/sudogrid/internal/grid"
	"github.com/sudogrid/sudogrid/internal/symmetry"
	"github.com/sudogrid/sudogrid/internal/template"
)

// predicateFilter adapts a plain func for use as a Filter in tests, without
// depending on any of the concrete filters' own correctness.
type predicateFilter func(grid.Grid) bool

func (f predicateFilter) Matches(g grid.Grid) bool { return f(g) }

// wildcardTemplate builds a template with a single bracketed wildcard cell
// (e.g. "[123]") followed by 80 empty cells.
func wildcardTemplate(t *testing.T, bracket string) Source {
	t.Helper()
	text := bracket + strings.Repeat(".", 80)
	tpl := template.Parse(text)
	return template.NewGenerator(tpl).Searcher()
}

func drain(t *testing.T, p *Pipeline) []grid.Grid {
	t.Helper()
	var out []grid.Grid
	last := 0.0
	for {
		progress, _, g, ok := p.Next()
		if progress < last-1e-12 {
			t.Fatalf("progress decreased: %v -> %v", last, progress)
		}
		last = progress
		if !ok {
			break
		}
		out = append(out, g)
	}
	return out
}

func TestFilterStageIsSubsequenceOfBase(t *testing.T) {
	base := wildcardTemplate(t, "[123]")
	keepEven := predicateFilter(func(g grid.Grid) bool { return g[0]%2 == 0 })
	p := New(base, AsStage(keepEven))

	got := drain(t, p)
	if len(got) != 1 || got[0][0] != 2 {
		t.Fatalf("expected exactly one surviving grid with digit 2, got %v", got)
	}
}

func TestFilterStagePassesEverythingWithTrivialPredicate(t *testing.T) {
	base := wildcardTemplate(t, "[123]")
	always := predicateFilter(func(grid.Grid) bool { return true })
	p := New(base, AsStage(always))

	got := drain(t, p)
	if len(got) != 3 {
		t.Fatalf("got %d grids, want 3", len(got))
	}
}

func TestNonEquivalentFilterDedupesAcrossCalls(t *testing.T) {
	f := NonEquivalent()
	var g grid.Grid
	g[0] = 5
	if !f.Matches(g) {
		t.Fatalf("expected the first occurrence of a canonical class to pass")
	}
	if f.Matches(g) {
		t.Fatalf("expected a repeat of the same canonical class to be rejected")
	}
}

func TestSolvesWithBasicsAfterElimsRequiresFullSolve(t *testing.T) {
	f := SolvesWithBasicsAfterElims(nil)
	var empty grid.Grid
	if f.Matches(empty) {
		t.Fatalf("expected an empty grid to not be solved by basics alone")
	}
}

func TestAtMostNBasicPlacementsRejectsCascadeBelowBudget(t *testing.T) {
	f := AtMostNBasicPlacements(0)
	// Row 1 holds 1..8, so the basic solver places 9 at r1c9 as a naked
	// single: one placement, over a zero-placement budget.
	var g grid.Grid
	for c := 0; c < 8; c++ {
		g[c] = uint8(c + 1)
	}
	if f.Matches(g) {
		t.Fatalf("expected a grid with a forced naked single to fail a zero-placement budget once basics make progress")
	}
}

func TestAtMostNBasicPlacementsAcceptsUnderGenerousBudget(t *testing.T) {
	f := AtMostNBasicPlacements(grid.NumCells)
	var empty grid.Grid
	if !f.Matches(empty) {
		t.Fatalf("expected a budget covering the whole grid to always pass")
	}
}

func TestHasAnySolutionRejectsContradiction(t *testing.T) {
	f := HasAnySolution()
	var g grid.Grid
	g[0], g[1] = 5, 5 // two peers sharing a row with the same digit
	if f.Matches(g) {
		t.Fatalf("expected a grid with a peer conflict to have no solution")
	}
}

func TestExpansionStageProgressReachesOne(t *testing.T) {
	base := wildcardTemplate(t, "[12]")
	none, _ := symmetry.Group("none")
	p := New(base, Expansion{Group: none, Excluded: symmetry.CellSet{}, N: 1})

	got := drain(t, p)
	if len(got) == 0 {
		t.Fatalf("expected at least one expanded result")
	}
	if final, _, _, ok := p.Next(); ok || final < 1-1e-9 || final > 1+1e-9 {
		t.Fatalf("final progress = %v (ok=%v), want 1.0 on exhaustion", final, ok)
	}
}

func TestExpansionStageFoldsProgressWithinUnitRange(t *testing.T) {
	base := wildcardTemplate(t, "[12]")
	none, _ := symmetry.Group("none")
	p := New(base, Expansion{Group: none, Excluded: symmetry.CellSet{}, N: 1})

	for {
		progress, weight, _, ok := p.Next()
		if !ok {
			break
		}
		if progress < -1e-9 || progress > 1+1e-9 {
			t.Fatalf("progress %v out of [0,1] range", progress)
		}
		if weight < -1e-9 || weight > 1+1e-9 {
			t.Fatalf("weight %v out of [0,1] range", weight)
		}
	}
}
