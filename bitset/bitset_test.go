package bitset

import (
	"reflect"
	"testing"
)

func TestSetAndSize(t *testing.T) {
	s := New(10)
	if s.Size() != 0 {
		t.Fatalf("empty set should have size 0, got %d", s.Size())
	}
	s.Set(0)
	s.Set(9)
	s.Set(5)
	if got := s.Size(); got != 3 {
		t.Fatalf("expected size 3, got %d", got)
	}
	if !s.Has(5) || s.Has(4) {
		t.Fatalf("Has returned wrong membership")
	}
	if got := s.ToSlice(); !reflect.DeepEqual(got, []int{0, 5, 9}) {
		t.Fatalf("ToSlice = %v, want [0 5 9]", got)
	}
}

func TestNewFrom(t *testing.T) {
	s := NewFrom(8, 1, 3, 5)
	if got := s.ToSlice(); !reflect.DeepEqual(got, []int{1, 3, 5}) {
		t.Fatalf("ToSlice = %v, want [1 3 5]", got)
	}
}

// TestBitsetLaws checks the basic set-algebra identities a bitset must
// satisfy: (A ∩ B) ∪ (A \ B) = A; |A| = popcount(A); is_disjoint(A,B) ⇔
// |A ∩ B| = 0.
func TestBitsetLaws(t *testing.T) {
	a := NewFrom(16, 1, 2, 3, 7, 8, 15)
	b := NewFrom(16, 2, 3, 4, 9, 15)

	diff, inter := a.DiffIntersect(b)
	recombined := diff.Union(inter)
	if !reflect.DeepEqual(recombined.ToSlice(), a.ToSlice()) {
		t.Fatalf("(A \\ B) ∪ (A ∩ B) = %v, want %v", recombined.ToSlice(), a.ToSlice())
	}

	if got := a.Size(); got != len(a.ToSlice()) {
		t.Fatalf("Size() = %d, want popcount %d", got, len(a.ToSlice()))
	}

	disjointPair := NewFrom(16, 0, 1)
	otherPair := NewFrom(16, 2, 3)
	if !disjointPair.IsDisjoint(otherPair) {
		t.Fatalf("expected disjoint sets to report disjoint")
	}
	_, pairInter := disjointPair.DiffIntersect(otherPair)
	if pairInter.Size() != 0 {
		t.Fatalf("disjoint sets should have zero-size intersection")
	}

	if a.IsDisjoint(b) {
		t.Fatalf("A and B share members, should not be disjoint")
	}
}

func TestMismatchedSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on mismatched bitset sizes")
		}
	}()
	a := New(4)
	b := New(5)
	a.Union(b)
}

func TestOutOfRangeSetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-range Set")
		}
	}()
	New(4).Set(4)
}

func TestEmptySet(t *testing.T) {
	s := New(0)
	if s.Size() != 0 || len(s.ToSlice()) != 0 {
		t.Fatalf("empty universe set should be empty")
	}
}
