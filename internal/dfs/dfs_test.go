package dfs

import "testing"

// binaryChoices is a minimal Traversable: a fixed-depth binary tree where
// every leaf is an output. It exists purely to exercise the Searcher's
// progress/order bookkeeping against a hand-countable tree.
type binaryChoices struct {
	depth int
	path  []int
}

func (b *binaryChoices) NextSteps() []int {
	if len(b.path) >= b.depth {
		return nil
	}
	return []int{0, 1}
}

func (b *binaryChoices) ApplyStep(s int) { b.path = append(b.path, s) }

func (b *binaryChoices) RevertStep(s int) { b.path = b.path[:len(b.path)-1] }

func (b *binaryChoices) ShouldPrune() bool { return false }

func (b *binaryChoices) Output() (string, bool) {
	if len(b.path) != b.depth {
		return "", false
	}
	out := make([]byte, b.depth)
	for i, v := range b.path {
		out[i] = byte('0' + v)
	}
	return string(out), true
}

func TestSearcherEnumeratesAllLeavesInOrder(t *testing.T) {
	tv := &binaryChoices{depth: 3}
	s := NewSearcher[int, string](tv)

	var got []string
	for {
		_, _, v, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}

	want := []string{"000", "001", "010", "011", "100", "101", "110", "111"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if diff := s.Progress() - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("final progress = %v, want 1.0", s.Progress())
	}
}

func TestSearcherProgressNonDecreasing(t *testing.T) {
	tv := &binaryChoices{depth: 4}
	s := NewSearcher[int, string](tv)
	last := 0.0
	for {
		_, _, _, ok := s.Next()
		if s.Progress() < last-1e-12 {
			t.Fatalf("progress decreased: %v -> %v", last, s.Progress())
		}
		last = s.Progress()
		if !ok {
			break
		}
	}
}

// emptyChoices has no steps at all: the pristine state is the single leaf.
type emptyChoices struct{ emitted bool }

func (e *emptyChoices) NextSteps() []int { return nil }
func (e *emptyChoices) ApplyStep(int)    {}
func (e *emptyChoices) RevertStep(int)   {}
func (e *emptyChoices) ShouldPrune() bool { return false }
func (e *emptyChoices) Output() (string, bool) {
	if e.emitted {
		return "", false
	}
	e.emitted = true
	return "only", true
}

func TestSearcherHandlesTrivialRoot(t *testing.T) {
	s := NewSearcher[int, string](&emptyChoices{})
	_, _, v, ok := s.Next()
	if !ok || v != "only" {
		t.Fatalf("expected single output 'only', got %v, %v", v, ok)
	}
	if s.Progress() != 1.0 {
		t.Fatalf("expected progress 1.0, got %v", s.Progress())
	}
	if _, _, _, ok := s.Next(); ok {
		t.Fatalf("expected exhaustion after single output")
	}
}
