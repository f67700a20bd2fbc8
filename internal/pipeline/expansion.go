package pipeline

import (
	"github.com/sudogrid/sudogrid/internal/dfs"
	"github.com/sudogrid/sudogrid/internal/grid"
	"github.com/sudogrid/sudogrid/internal/symmetry"
)

// Expansion configures a symmetric-expansion stage: for every upstream
// grid, add up to N new clues closed under Group, never touching a cell
// in Excluded.
type Expansion struct {
	Group    []symmetry.DihedralElement
	Excluded symmetry.CellSet
	N        int
}

func (e Expansion) apply(upstream Source) Source {
	return &expandedSource{upstream: upstream, cfg: e}
}

// expandedSource implements the flat_map half of §4.7: each upstream
// triple seeds a fresh PlusN sub-search, and every sub-search triple is
// folded back into the outer (progress, weight) space before being
// handed further down the chain.
type expandedSource struct {
	upstream Source
	cfg      Expansion

	have     bool
	progress float64
	scale    float64
	sub      *dfs.Searcher[symmetry.Step, grid.Grid]
}

func (s *expandedSource) Next() (progress float64, weight float64, out grid.Grid, ok bool) {
	for {
		if !s.have {
			p, w, g, more := s.upstream.Next()
			if !more {
				return p, 0, grid.Grid{}, false
			}
			s.progress, s.scale, s.have = p, w, true
			rm := grid.FromGrid(g)
			p2 := symmetry.NewPlusN(rm, s.cfg.Group, s.cfg.Excluded, s.cfg.N)
			s.sub = p2.Searcher()
		}

		subProgress, subWeight, subGrid, more := s.sub.Next()
		if !more {
			s.have = false
			continue
		}
		trueProgress := s.progress - s.scale + subProgress*s.scale
		trueWeight := s.scale * subWeight
		return trueProgress, trueWeight, subGrid, true
	}
}
