package costmodel

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// TestFitLinear_ExactLineThroughOrigin checks that raw samples lying
// exactly on a line yield that line's slope and intercept: samples
// [(0,0),(1,2),(2,4),(3,6)] yield a=2, b=0 exactly.
func TestFitLinear_ExactLineThroughOrigin(t *testing.T) {
	raw := []Sample{{0, 0}, {1, 2}, {2, 4}, {3, 6}}
	m, err := FitLinear(raw)
	if err != nil {
		t.Fatalf("FitLinear: %v", err)
	}
	if !almostEqual(m.CostPerGlyph, 2, 1e-9) || !almostEqual(m.CostBase, 0, 1e-9) {
		t.Fatalf("got a=%v b=%v, want a=2 b=0", m.CostPerGlyph, m.CostBase)
	}
}

func TestFitLinear_EmptyFails(t *testing.T) {
	if _, err := FitLinear(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

// TestFitEmpirical_BinsAveragesAndInterpolates checks that raw samples
// [(1,10),(1,12),(4,40),(9,85)] produce knots [(1,11),(4,40),(9,85)]
// (samples sharing an n are averaged into one knot); query n=2 returns
// 20.666..., query n=100 returns 85 (clamped to the last knot).
func TestFitEmpirical_BinsAveragesAndInterpolates(t *testing.T) {
	raw := []Sample{{1, 10}, {1, 12}, {4, 40}, {9, 85}}
	m, err := FitEmpirical(raw)
	if err != nil {
		t.Fatalf("FitEmpirical: %v", err)
	}
	want := []Sample{{1, 11}, {4, 40}, {9, 85}}
	got := m.Knots()
	if len(got) != len(want) {
		t.Fatalf("knots = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].N != want[i].N || !almostEqual(got[i].Bytes, want[i].Bytes, 1e-9) {
			t.Fatalf("knot %d = %v, want %v", i, got[i], want[i])
		}
	}

	if got := m.Eval(2); !almostEqual(got, 11+(40-11)*(2-1)/(4.0-1), 1e-9) {
		t.Fatalf("Eval(2) = %v, want %v", got, 11+(40-11)*(2-1)/(4.0-1))
	}
	if got := m.Eval(100); got != 85 {
		t.Fatalf("Eval(100) = %v, want 85", got)
	}
}

// TestEmpiricalAtKnots checks that querying the exact n of any knot
// returns that knot's value; outside the range returns the nearest
// endpoint.
func TestEmpiricalAtKnots(t *testing.T) {
	raw := []Sample{{2, 20}, {2, 22}, {5, 55}, {10, 100}}
	m, err := FitEmpirical(raw)
	if err != nil {
		t.Fatalf("FitEmpirical: %v", err)
	}
	for _, knot := range m.Knots() {
		if got := m.Eval(knot.N); got != knot.Bytes {
			t.Fatalf("Eval(%d) = %v, want knot value %v", knot.N, got, knot.Bytes)
		}
	}
	if got := m.Eval(0); got != m.Knots()[0].Bytes {
		t.Fatalf("below-range Eval should clamp to first knot")
	}
	if got := m.Eval(1000); got != m.Knots()[len(m.Knots())-1].Bytes {
		t.Fatalf("above-range Eval should clamp to last knot")
	}
}

func TestFitEmpirical_EmptyFails(t *testing.T) {
	if _, err := FitEmpirical(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestFitEmpirical_SingleKnot(t *testing.T) {
	m, err := FitEmpirical([]Sample{{5, 50}})
	if err != nil {
		t.Fatalf("FitEmpirical: %v", err)
	}
	for _, n := range []int{0, 5, 9} {
		if got := m.Eval(n); got != 50 {
			t.Fatalf("Eval(%d) = %v, want 50 with a single knot", n, got)
		}
	}
}
