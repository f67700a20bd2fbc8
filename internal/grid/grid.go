// Package grid implements the 9x9 Sudoku board representation shared by
// every other package: the flat 81-cell grid, its region index tables, and
// a region-masked variant that tracks which digits remain available per
// row/column/box.
package grid

// Grid is a row-major 81-cell board. 0 denotes an unknown cell; 1..9 are
// placed digits.
type Grid [81]uint8

// NumCells is the fixed board size.
const NumCells = 81

// AllDigitsMask has bits 1..9 set (bit 0 is unused, mirroring the "missing
// digit" masks which only ever examine bits 1..9).
const AllDigitsMask = 0b1111111110

var (
	// RowOf, ColOf, BoxOf map a cell index to its region index.
	RowOf [NumCells]int
	ColOf [NumCells]int
	BoxOf [NumCells]int

	// Rows, Cols, Boxes list the 9 cell indices of each region.
	Rows [9][9]int
	Cols [9][9]int
	Boxes [9][9]int

	// Peers lists, for each cell, the 20 distinct indices sharing its row,
	// column, or box.
	Peers [NumCells][20]int
)

func init() {
	for i := 0; i < NumCells; i++ {
		r, c := i/9, i%9
		b := (r/3)*3 + c/3
		RowOf[i], ColOf[i], BoxOf[i] = r, c, b
	}
	rowCursor := [9]int{}
	colCursor := [9]int{}
	boxCursor := [9]int{}
	for i := 0; i < NumCells; i++ {
		r, c, b := RowOf[i], ColOf[i], BoxOf[i]
		Rows[r][rowCursor[r]] = i
		rowCursor[r]++
		Cols[c][colCursor[c]] = i
		colCursor[c]++
		Boxes[b][boxCursor[b]] = i
		boxCursor[b]++
	}
	for i := 0; i < NumCells; i++ {
		seen := map[int]bool{i: true}
		n := 0
		add := func(j int) {
			if !seen[j] {
				seen[j] = true
				Peers[i][n] = j
				n++
			}
		}
		for _, j := range Rows[RowOf[i]] {
			add(j)
		}
		for _, j := range Cols[ColOf[i]] {
			add(j)
		}
		for _, j := range Boxes[BoxOf[i]] {
			add(j)
		}
	}
}

// DigitBit returns the bit mask for digit d (1..9).
func DigitBit(d int) uint16 {
	return uint16(1) << uint(d)
}

// RegionMasked pairs a Grid with three 10-bit "digits not yet placed"
// masks per row/column/box (bits 1..9).
type RegionMasked struct {
	Grid Grid
	Row  [9]uint16
	Col  [9]uint16
	Box  [9]uint16
}

// NewRegionMasked returns an empty region-masked grid: every region starts
// with all nine digits available.
func NewRegionMasked() *RegionMasked {
	rm := &RegionMasked{}
	for i := 0; i < 9; i++ {
		rm.Row[i] = AllDigitsMask
		rm.Col[i] = AllDigitsMask
		rm.Box[i] = AllDigitsMask
	}
	return rm
}

// FromGrid returns a RegionMasked with every non-zero cell of g already
// placed, region masks narrowed to match.
func FromGrid(g Grid) *RegionMasked {
	rm := NewRegionMasked()
	for i, d := range g {
		if d != 0 {
			rm.Place(i, d)
		}
	}
	return rm
}

// Candidates returns the live candidate mask for cell i: the intersection
// of its row/col/box availability masks, or the singleton bit of its
// placed digit.
func (rm *RegionMasked) Candidates(i int) uint16 {
	if d := rm.Grid[i]; d != 0 {
		return DigitBit(int(d))
	}
	return rm.Row[RowOf[i]] & rm.Col[ColOf[i]] & rm.Box[BoxOf[i]]
}

// Place sets digit d at cell i and clears it from the three covering
// region masks. The caller is responsible for ensuring d is a legal
// placement; Place does not check peer conflicts.
func (rm *RegionMasked) Place(i int, d uint8) {
	rm.Grid[i] = d
	bit := DigitBit(int(d))
	rm.Row[RowOf[i]] &^= bit
	rm.Col[ColOf[i]] &^= bit
	rm.Box[BoxOf[i]] &^= bit
}

// Unplace clears the digit previously placed at cell i and restores it to
// the three covering region masks. It is the exact inverse of Place.
func (rm *RegionMasked) Unplace(i int) {
	d := rm.Grid[i]
	if d == 0 {
		return
	}
	bit := DigitBit(int(d))
	rm.Row[RowOf[i]] |= bit
	rm.Col[ColOf[i]] |= bit
	rm.Box[BoxOf[i]] |= bit
	rm.Grid[i] = 0
}

// Clone returns a deep copy (RegionMasked is a plain value type, so this is
// just a value copy, but the method documents intent at call sites that
// branch a search).
func (rm *RegionMasked) Clone() *RegionMasked {
	cp := *rm
	return &cp
}
