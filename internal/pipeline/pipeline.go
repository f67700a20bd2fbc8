// Package pipeline composes a base grid source with an ordered list of
// filter and expansion stages, folding each stage's own (progress, weight)
// bookkeeping into a single running (progress, weight, grid) triple per
// distilled spec §4.7 / §2.
package pipeline

import "github.com/sudogrid/sudogrid/internal/grid"

// Source is anything that yields (progress, weight, grid) triples, pulled
// one at a time. *dfs.Searcher[S, grid.Grid] satisfies this for any step
// type S, since S never appears in Next's signature.
type Source interface {
	Next() (progress float64, weight float64, out grid.Grid, ok bool)
}

// Stage transforms an upstream Source into a new one. Filter and Expansion
// stages each implement it.
type Stage interface {
	apply(upstream Source) Source
}

// Pipeline is a base generator with zero or more stages applied in order.
type Pipeline struct {
	src Source
}

// New composes base through stages, in order, exactly as distilled spec
// §4.7 describes: a Filter stage narrows the stream, an Expansion stage
// flat-maps each upstream grid into a sub-search's full output stream.
func New(base Source, stages ...Stage) *Pipeline {
	src := base
	for _, st := range stages {
		src = st.apply(src)
	}
	return &Pipeline{src: src}
}

// Next pulls the next (progress, weight, grid) triple through the whole
// stage chain, or reports exhaustion.
func (p *Pipeline) Next() (progress float64, weight float64, out grid.Grid, ok bool) {
	return p.src.Next()
}
