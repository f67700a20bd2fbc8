// Package ioformat implements the text I/O contracts from §6: reading a
// template (inline or from a file), the exclusion and elimination
// mini-languages, and grid serialization — plain functions and small
// wrapper types operating on io.Reader/io.Writer, in the unadorned style
// of kcptun's std.Pipe/std.NewCompStream helpers.
package ioformat

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/sudogrid/sudogrid/internal/grid"
	"github.com/sudogrid/sudogrid/internal/pipeline"
	"github.com/sudogrid/sudogrid/internal/symmetry"
)

// ResolveTemplateText returns the template text a --template flag names:
// spec itself, unless it starts with '@', in which case the rest is a file
// path to read the text from.
func ResolveTemplateText(spec string) (string, error) {
	if !strings.HasPrefix(spec, "@") {
		return spec, nil
	}
	path := spec[1:]
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "ioformat: reading template file %q", path)
	}
	return string(b), nil
}

// splitCellRef splits a "[prefix]r<row>c<col>" token into its optional
// leading digit prefix and the 1-based row/column. It panics on malformed
// input: these tokens are developer-authored configuration, not untrusted
// data.
func splitCellRef(tok string) (prefix string, row, col int) {
	ri := strings.IndexByte(tok, 'r')
	if ri < 0 {
		panic("malformed cell reference (missing 'r'): " + tok)
	}
	prefix = tok[:ri]
	rest := tok[ri+1:]
	ci := strings.IndexByte(rest, 'c')
	if ci < 0 {
		panic("malformed cell reference (missing 'c'): " + tok)
	}
	row, err := strconv.Atoi(rest[:ci])
	if err != nil {
		panic("malformed cell reference (bad row): " + tok)
	}
	col, err = strconv.Atoi(rest[ci+1:])
	if err != nil {
		panic("malformed cell reference (bad column): " + tok)
	}
	return prefix, row, col
}

func cellIndex(row, col int) int {
	if row < 1 || row > 9 || col < 1 || col > 9 {
		panic("cell reference out of range 1..9")
	}
	return 9*(row-1) + (col - 1)
}

// ParseExclusions parses a comma-separated "r4c1,r9c6" exclusion string
// into a CellSet, per §6. An empty string yields an empty set.
func ParseExclusions(s string) symmetry.CellSet {
	var set symmetry.CellSet
	for _, tok := range splitTokens(s) {
		prefix, row, col := splitCellRef(tok)
		if prefix != "" {
			panic("malformed exclusion token (unexpected digit prefix): " + tok)
		}
		set.Set(cellIndex(row, col))
	}
	return set
}

// ParseEliminations parses a comma-separated "56789r4c1,4r6c4" elimination
// string into one (cell, digit) tuple per prefix digit, per §6. An empty
// string yields no eliminations.
func ParseEliminations(s string) []pipeline.CellDigit {
	var out []pipeline.CellDigit
	for _, tok := range splitTokens(s) {
		prefix, row, col := splitCellRef(tok)
		if prefix == "" {
			panic("malformed elimination token (missing digit prefix): " + tok)
		}
		cell := cellIndex(row, col)
		for _, r := range prefix {
			if r < '1' || r > '9' {
				panic("malformed elimination token (bad digit prefix): " + tok)
			}
			out = append(out, pipeline.CellDigit{Cell: cell, Digit: uint8(r - '0')})
		}
	}
	return out
}

func splitTokens(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatGrid writes g as 81 characters '0'..'9' followed by a newline, per
// §6's grid serialization contract.
func FormatGrid(w io.Writer, g grid.Grid) error {
	var buf [82]byte
	for i, d := range g {
		buf[i] = '0' + d
	}
	buf[81] = '\n'
	_, err := w.Write(buf[:])
	return errors.Wrap(err, "ioformat: write grid")
}

// GridScanner reads one grid per line, each exactly 81 digit characters,
// mirroring bufio.Scanner's Scan/Err shape.
type GridScanner struct {
	sc  *bufio.Scanner
	cur grid.Grid
	err error
}

// NewGridScanner wraps r for line-at-a-time grid reading.
func NewGridScanner(r io.Reader) *GridScanner {
	return &GridScanner{sc: bufio.NewScanner(r)}
}

// Scan advances to the next grid, returning false at EOF or on a malformed
// line (see Err for the latter).
func (g *GridScanner) Scan() bool {
	if !g.sc.Scan() {
		g.err = g.sc.Err()
		return false
	}
	line := g.sc.Text()
	if len(line) != grid.NumCells {
		g.err = errors.Errorf("ioformat: grid line has %d characters, want %d", len(line), grid.NumCells)
		return false
	}
	var out grid.Grid
	for i := 0; i < grid.NumCells; i++ {
		c := line[i]
		if c < '0' || c > '9' {
			g.err = errors.Errorf("ioformat: invalid grid character %q at position %d", c, i)
			return false
		}
		out[i] = c - '0'
	}
	g.cur = out
	return true
}

// Grid returns the grid produced by the most recent successful Scan.
func (g *GridScanner) Grid() grid.Grid { return g.cur }

// Err returns the first non-EOF error encountered, if any.
func (g *GridScanner) Err() error { return g.err }

// CompressWriter wraps w in a snappy stream encoder, the same library
// kcptun uses to compress its smux byte stream, repurposed here to
// compress the grid output stream for --compress.
func CompressWriter(w io.Writer) io.WriteCloser {
	return snappy.NewBufferedWriter(w)
}
