package algorithms

import (
	"math"
)

// roundingTolerance absorbs the tiny negative operands that repeated
// insert/remove arithmetic can leave behind.
const roundingTolerance = 1e-12

// QualityTerms are the components of the quality score. With L the total
// edge weight, d and i a community's degree and internal weight, and g a
// node's degree:
//
//	Exit        = Σ_c (d−2i)/2L
//	ExitEntropy = Σ_c x·ln x            with x = (d−2i)/2L
//	NodeEntropy = Σ_n x·ln x            with x = g/2L
//	Flow        = Σ_c x·ln x            with x = (d−2i)/2L + d/2L
type QualityTerms struct {
	Exit        float64
	ExitEntropy float64
	NodeEntropy float64
	Flow        float64
}

// Score is the minimized objective: Exit·ln(Exit) − 2·ExitEntropy + Flow
func (t QualityTerms) Score() (float64, error) {
	a, err := xlogx(t.Exit)
	if err != nil {
		return 0, err
	}
	return checkFinite(a - 2*t.ExitEntropy + t.Flow)
}

// MapEquation additionally subtracts the node entropy term. The difference
// from Score is constant for a fixed graph.
func (t QualityTerms) MapEquation() (float64, error) {
	score, err := t.Score()
	if err != nil {
		return 0, err
	}
	return checkFinite(score - t.NodeEntropy)
}

// Quality returns the score of the current assignment; lower is better.
// It fails with ErrNumericDegenerate on a graph without edge weight.
func (s *Status[N]) Quality() (float64, error) {
	terms, err := s.QualityTerms()
	if err != nil {
		return 0, err
	}
	return terms.Score()
}

// QualityTerms evaluates every component of the quality score
func (s *Status[N]) QualityTerms() (QualityTerms, error) {
	var t QualityTerms
	if s.totalWeight == 0 {
		return t, NewError("Quality").Context("total edge weight is zero").Cause(ErrNumericDegenerate).Err()
	}
	twoL := 2 * s.totalWeight

	for _, g := range s.nodeDegree {
		v, err := xlogx(g / twoL)
		if err != nil {
			return t, err
		}
		t.NodeEntropy += v
	}

	for c, m := range s.members {
		if m == 0 {
			continue
		}
		exit := (s.degree[c] - 2*s.internal[c]) / twoL
		flow := exit + s.degree[c]/twoL

		e, err := xlogx(exit)
		if err != nil {
			return t, err
		}
		f, err := xlogx(flow)
		if err != nil {
			return t, err
		}
		t.Exit += exit
		t.ExitEntropy += e
		t.Flow += f
	}
	return t, nil
}

// Modularity returns Newman's modularity of the current assignment,
// Σ_c [ i/L − (d/2L)² ].
func (s *Status[N]) Modularity() (float64, error) {
	if s.totalWeight == 0 {
		return 0, NewError("Modularity").Context("total edge weight is zero").Cause(ErrNumericDegenerate).Err()
	}
	q := 0.0
	for c, m := range s.members {
		if m == 0 {
			continue
		}
		frac := s.degree[c] / (2 * s.totalWeight)
		q += s.internal[c]/s.totalWeight - frac*frac
	}
	return checkFinite(q)
}

// xlogx returns x·ln(x), defined as 0 at x == 0.
func xlogx(x float64) (float64, error) {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return 0, NewError("Quality").Context("non-finite operand %v", x).Cause(ErrNumericDegenerate).Err()
	case x < 0 && x > -roundingTolerance:
		return 0, nil
	case x < 0:
		return 0, NewError("Quality").Context("negative logarithm operand %v", x).Cause(ErrNumericDegenerate).Err()
	case x == 0:
		return 0, nil
	}
	return x * math.Log(x), nil
}

func checkFinite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, NewError("Quality").Context("non-finite score %v", v).Cause(ErrNumericDegenerate).Err()
	}
	return v, nil
}
