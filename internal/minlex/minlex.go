// Package minlex implements the minimum-lexicographic canonical form of a
// grid under the group of permutations that preserve Sudoku structure:
// reordering the 3 row-bands, the 3 column-stacks, the 3 rows within each
// band, the 3 columns within each stack, transposing, and relabeling
// digits by first-encounter order.
package minlex

import "github.com/sudogrid/sudogrid/internal/grid"

// perms3 lists all 6 permutations of {0,1,2}.
var perms3 = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

// Canonicalize returns g's minimum representative: the lexicographically
// smallest 81-cell row-major sequence reachable by band/stack/row/column
// permutation, transposition, and digit relabeling by first-encounter
// order (0 always sorts before every digit, since it is never relabeled).
func Canonicalize(g grid.Grid) grid.Grid {
	// A constant-9 sentinel is beaten by any real candidate at cell (0,0):
	// the first nonzero cell encountered in row-major order always relabels
	// to 1 (the first label handed out), and 0 passes through unchanged, so
	// either way the first candidate's cell 0 is <= 1 < 9.
	best := grid.Grid{}
	for i := range best {
		best[i] = 9
	}

	var candidate grid.Grid
	for _, transpose := range [2]bool{false, true} {
		for _, bandPerm := range perms3 {
			for _, stackPerm := range perms3 {
				for _, rp0 := range perms3 {
					for _, rp1 := range perms3 {
						for _, rp2 := range perms3 {
							rowPerms := [3][3]int{rp0, rp1, rp2}
							for _, cp0 := range perms3 {
								for _, cp1 := range perms3 {
									for _, cp2 := range perms3 {
										colPerms := [3][3]int{cp0, cp1, cp2}
										if tryOne(g, &candidate, &best, transpose, bandPerm, stackPerm, rowPerms, colPerms) {
											best = candidate
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
	return best
}

// tryOne builds the transformed+relabeled grid for one choice of
// permutations into candidate, comparing cell-by-cell against best and
// abandoning the moment a strictly-greater cell is found. It returns
// whether candidate is strictly smaller than best (in which case the
// caller should adopt it).
func tryOne(g grid.Grid, candidate *grid.Grid, best *grid.Grid, transpose bool, bandPerm, stackPerm [3]int, rowPerms, colPerms [3][3]int) bool {
	var digitMap [10]uint8
	var nextLabel uint8 = 1
	strictlyLess := false

	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			rr, cc := r, c
			if transpose {
				rr, cc = c, r
			}
			band, rowInBand := rr/3, rr%3
			srcBand := bandPerm[band]
			srcRowInBand := rowPerms[band][rowInBand]
			srcRow := srcBand*3 + srcRowInBand

			stack, colInStack := cc/3, cc%3
			srcStack := stackPerm[stack]
			srcColInStack := colPerms[stack][colInStack]
			srcCol := srcStack*3 + srcColInStack

			v := g[srcRow*9+srcCol]
			var out uint8
			if v != 0 {
				if digitMap[v] == 0 {
					digitMap[v] = nextLabel
					nextLabel++
				}
				out = digitMap[v]
			}

			outIdx := r*9 + c
			candidate[outIdx] = out
			if !strictlyLess {
				if out < best[outIdx] {
					strictlyLess = true
				} else if out > best[outIdx] {
					return false
				}
			}
		}
	}
	return strictlyLess
}
