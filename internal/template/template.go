// Package template parses the per-cell directive text format and drives
// the MRV wildcard generator described alongside it.
package template

import (
	"fmt"

	"github.com/sudogrid/sudogrid/internal/grid"
)

// Kind distinguishes the three per-cell directives.
type Kind byte

const (
	Empty Kind = iota
	Given
	Wildcard
)

// Directive is one cell's parsed instruction.
type Directive struct {
	Kind  Kind
	Digit uint8  // valid when Kind == Given
	Mask  uint16 // valid when Kind == Wildcard: bits 1..9 allowed
}

// Template is an immutable, fully parsed 81-cell directive sequence.
type Template struct {
	Cells [grid.NumCells]Directive
}

// Parse reads the 81-cell text format: whitespace is ignored; a digit
// '1'..'9' is a Given; one of '[', '(', '{', '<' opens a Wildcard that
// accumulates subsequent digit characters until a non-digit closes it;
// anything else is Empty. Malformed input (wrong cell count) panics with a
// human-readable message, per this module's error-handling contract for
// developer-authored strings.
func Parse(text string) *Template {
	var tpl Template
	cell := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			continue
		case r >= '1' && r <= '9':
			requireCell(cell)
			tpl.Cells[cell] = Directive{Kind: Given, Digit: uint8(r - '0')}
			cell++
		case r == '[' || r == '(' || r == '{' || r == '<':
			requireCell(cell)
			var mask uint16
			for i+1 < len(runes) && runes[i+1] >= '1' && runes[i+1] <= '9' {
				i++
				mask |= grid.DigitBit(int(runes[i] - '0'))
			}
			// The non-digit that stopped accumulation closes the wildcard
			// and is consumed here, not reprocessed as its own cell.
			if i+1 < len(runes) {
				i++
			}
			tpl.Cells[cell] = Directive{Kind: Wildcard, Mask: mask}
			cell++
		default:
			requireCell(cell)
			tpl.Cells[cell] = Directive{Kind: Empty}
			cell++
		}
	}
	if cell != grid.NumCells {
		panic(fmt.Sprintf("malformed template: expected %d cells, got %d", grid.NumCells, cell))
	}
	return &tpl
}

func requireCell(cell int) {
	if cell >= grid.NumCells {
		panic(fmt.Sprintf("malformed template: more than %d cells", grid.NumCells))
	}
}
