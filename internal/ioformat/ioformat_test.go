package ioformat

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/sudogrid/sudogrid/internal/grid"
)

func TestResolveTemplateTextInline(t *testing.T) {
	got, err := ResolveTemplateText("123.....")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "123....." {
		t.Fatalf("got %q", got)
	}
}

func TestResolveTemplateTextFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tpl.txt")
	if err := os.WriteFile(path, []byte("5[123]......"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ResolveTemplateText("@" + path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5[123]......" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveTemplateTextMissingFile(t *testing.T) {
	if _, err := ResolveTemplateText("@/no/such/file"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestParseExclusionsEmpty(t *testing.T) {
	set := ParseExclusions("")
	if !set.IsEmpty() {
		t.Fatalf("expected an empty set for an empty string")
	}
}

func TestParseExclusionsSetsExpectedCells(t *testing.T) {
	set := ParseExclusions("r1c1, r9c9")
	if !set.Test(0) {
		t.Fatalf("expected r1c1 (index 0) to be excluded")
	}
	if !set.Test(80) {
		t.Fatalf("expected r9c9 (index 80) to be excluded")
	}
	if set.Count() != 2 {
		t.Fatalf("got %d excluded cells, want 2", set.Count())
	}
}

func TestParseExclusionsRejectsDigitPrefix(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a digit-prefixed exclusion token")
		}
	}()
	ParseExclusions("5r1c1")
}

func TestParseEliminationsExpandsEachPrefixDigit(t *testing.T) {
	got := ParseEliminations("56789r4c1,4r6c4")
	if len(got) != 6 {
		t.Fatalf("got %d eliminations, want 6", len(got))
	}
	cell41 := 9*(4-1) + (1 - 1)
	for i, d := range []uint8{5, 6, 7, 8, 9} {
		if got[i].Cell != cell41 || got[i].Digit != d {
			t.Fatalf("elimination %d = %+v, want cell %d digit %d", i, got[i], cell41, d)
		}
	}
	cell64 := 9*(6-1) + (4 - 1)
	if got[5].Cell != cell64 || got[5].Digit != 4 {
		t.Fatalf("elimination 5 = %+v, want cell %d digit 4", got[5], cell64)
	}
}

func TestParseEliminationsRequiresDigitPrefix(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an elimination token with no digit prefix")
		}
	}()
	ParseEliminations("r1c1")
}

func TestFormatGridThenScanRoundTrips(t *testing.T) {
	var g grid.Grid
	for i := range g {
		g[i] = uint8(i % 10)
	}
	var buf bytes.Buffer
	if err := FormatGrid(&buf, g); err != nil {
		t.Fatalf("FormatGrid: %v", err)
	}

	line := strings.TrimSuffix(buf.String(), "\n")
	if len(line) != grid.NumCells {
		t.Fatalf("formatted line has %d characters, want %d", len(line), grid.NumCells)
	}

	sc := NewGridScanner(&buf)
	if !sc.Scan() {
		t.Fatalf("expected a grid line, got err=%v", sc.Err())
	}
	if sc.Grid() != g {
		t.Fatalf("round-tripped grid %v != original %v", sc.Grid(), g)
	}
	if sc.Scan() {
		t.Fatalf("expected exactly one line")
	}
	if sc.Err() != nil {
		t.Fatalf("unexpected trailing error: %v", sc.Err())
	}
}

func TestGridScannerMultipleLines(t *testing.T) {
	var a, b grid.Grid
	a[0] = 1
	b[0] = 2
	var buf bytes.Buffer
	FormatGrid(&buf, a)
	FormatGrid(&buf, b)

	sc := NewGridScanner(&buf)
	var got []grid.Grid
	for sc.Scan() {
		got = append(got, sc.Grid())
	}
	if sc.Err() != nil {
		t.Fatalf("unexpected error: %v", sc.Err())
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("got %v, want [%v %v]", got, a, b)
	}
}

func TestGridScannerRejectsWrongLength(t *testing.T) {
	sc := NewGridScanner(strings.NewReader("123\n"))
	if sc.Scan() {
		t.Fatalf("expected the short line to fail")
	}
	if sc.Err() == nil {
		t.Fatalf("expected a length error")
	}
}

func TestGridScannerRejectsNonDigit(t *testing.T) {
	sc := NewGridScanner(strings.NewReader(strings.Repeat("0", 80) + "x\n"))
	if sc.Scan() {
		t.Fatalf("expected the non-digit line to fail")
	}
	if sc.Err() == nil {
		t.Fatalf("expected a character error")
	}
}

func TestCompressWriterRoundTripsThroughSnappyReader(t *testing.T) {
	var buf bytes.Buffer
	cw := CompressWriter(&buf)
	payload := []byte(strings.Repeat("0123456789", 50))
	if _, err := cw.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected compressed output")
	}
	got, err := io.ReadAll(snappy.NewReader(&buf))
	if err != nil {
		t.Fatalf("snappy read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("decompressed %d bytes do not match the %d-byte payload", len(got), len(payload))
	}
}
