// Package costmodel fits and evaluates the cost functions the partition
// optimizer scores candidate solutions with: a piecewise-linear empirical
// model built from real subsetting samples, and a plain linear model used
// only for diagnostic reporting.
package costmodel

import (
	"errors"
	"sort"
)

// ErrInsufficientData is returned when fitting either model variant on an
// empty sample set.
var ErrInsufficientData = errors.New("costmodel: insufficient data to fit a model")

// Sample is one raw (glyph count, compressed bytes) observation, as
// produced by the sample harness.
type Sample struct {
	N     int
	Bytes float64
}

// Kind distinguishes the two cost model variants. Modeled as a closed sum
// type rather than an interface: there are exactly two variants and they
// are stable, so a heap-allocated polymorphic cost model buys nothing.
type Kind int

const (
	Linear Kind = iota
	Empirical
)

// Model is a cost function mapping glyph count to predicted compressed
// bytes. Exactly one of the Linear-only or Empirical-only fields is
// populated, per Kind.
type Model struct {
	Kind Kind

	// Linear fields (Kind == Linear).
	CostPerGlyph float64
	CostBase     float64

	// Empirical fields (Kind == Empirical): knots sorted by N, strictly
	// increasing.
	knots []Sample
}

// Eval returns the predicted compressed byte count for a subset of n
// glyphs.
func (m Model) Eval(n int) float64 {
	switch m.Kind {
	case Linear:
		return m.CostPerGlyph*float64(n) + m.CostBase
	case Empirical:
		return evalEmpirical(m.knots, n)
	default:
		panic("costmodel: invalid Model.Kind")
	}
}

// Knots exposes the empirical model's fitted (n, bytes) knots, sorted by
// n. It returns nil for a Linear model.
func (m Model) Knots() []Sample {
	if m.Kind != Empirical {
		return nil
	}
	out := make([]Sample, len(m.knots))
	copy(out, m.knots)
	return out
}

// FitLinear computes the ordinary-least-squares line bytes = a*n + b over
// raw, using the closed-form OLS formulas.
func FitLinear(raw []Sample) (Model, error) {
	if len(raw) == 0 {
		return Model{}, ErrInsufficientData
	}
	n := float64(len(raw))
	var sx, sy, sxx, sxy float64
	for _, s := range raw {
		x := float64(s.N)
		y := s.Bytes
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	a := (n*sxy - sx*sy) / (n*sxx - sx*sx)
	b := (sy - a*sx) / n
	return Model{Kind: Linear, CostPerGlyph: a, CostBase: b}, nil
}

// FitEmpirical bins raw by glyph count, averages the bytes within each
// bin, and sorts the result into strictly increasing knots.
func FitEmpirical(raw []Sample) (Model, error) {
	if len(raw) == 0 {
		return Model{}, ErrInsufficientData
	}

	sums := make(map[int]float64, len(raw))
	counts := make(map[int]int, len(raw))
	for _, s := range raw {
		sums[s.N] += s.Bytes
		counts[s.N]++
	}

	ns := make([]int, 0, len(sums))
	for n := range sums {
		ns = append(ns, n)
	}
	sort.Ints(ns)

	knots := make([]Sample, 0, len(ns))
	for _, n := range ns {
		knots = append(knots, Sample{N: n, Bytes: sums[n] / float64(counts[n])})
	}
	return Model{Kind: Empirical, knots: knots}, nil
}

// evalEmpirical clamps at the ends and interpolates linearly between the
// two bracketing knots otherwise, using binary search for the first
// knot with knot.N >= n.
func evalEmpirical(knots []Sample, n int) float64 {
	if n <= knots[0].N {
		return knots[0].Bytes
	}
	last := len(knots) - 1
	if n >= knots[last].N {
		return knots[last].Bytes
	}

	ub := sort.Search(len(knots), func(i int) bool { return knots[i].N >= n })
	if knots[ub].N == n {
		return knots[ub].Bytes
	}
	lb := ub - 1
	frac := float64(n-knots[lb].N) / float64(knots[ub].N-knots[lb].N)
	return knots[lb].Bytes + (knots[ub].Bytes-knots[lb].Bytes)*frac
}
