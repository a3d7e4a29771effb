package space

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"isd-hardness/internal/search"
)

// ErrInfeasible is returned by an Oracle when the sphere of the requested
// relative radius has no feasible symbol distribution.
var ErrInfeasible = errors.New("capacity: infeasible")

// Oracle maps a relative distance in [0,1] to the normalised sphere surface
// log_q|S(d·n·maxWeight)|/n in the limit n → ∞. Implementations must be
// deterministic.
type Oracle interface {
	Capacity(s VectorSpace, distance float64) (float64, error)
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(s VectorSpace, distance float64) (float64, error)

// Capacity calls f.
func (f OracleFunc) Capacity(s VectorSpace, distance float64) (float64, error) {
	return f(s, distance)
}

// EntropyOracle computes the capacity in closed form. The sphere size is the
// maximum entropy of a symbol distribution x over Z_q subject to
// Σ_e x_e·w(e) = d·maxWeight; the maximiser is the Gibbs distribution
// x_e ∝ exp(-λ·w(e)) and the entropy at the optimum is ln Z(λ) + λ·d·maxWeight.
// λ is located by bisection on the mean weight, which is decreasing in λ.
type EntropyOracle struct {
	// RelTol is the relative stopping width of the λ bracket; 0 means 1e-12.
	RelTol float64
}

const maxLambdaDoublings = 64

// Capacity implements Oracle.
func (o EntropyOracle) Capacity(s VectorSpace, distance float64) (float64, error) {
	if s.q < 2 {
		return 0, fmt.Errorf("%w: uninitialised vector space", ErrInvalidDomain)
	}
	if math.IsNaN(distance) || distance < 0 || distance > 1 {
		return 0, fmt.Errorf("%w: distance %g outside [0,1]", ErrInfeasible, distance)
	}

	g := newGibbs(s)
	maxW := float64(len(g.classes) - 1)
	target := distance * maxW
	switch distance {
	case 0:
		return g.boundary(0), nil
	case 1:
		return g.boundary(len(g.classes) - 1), nil
	}

	excess := func(lambda float64) (float64, error) {
		return g.mean(lambda) - target, nil
	}

	// mean(-∞) = maxW, mean(+∞) = 0
	lo, hi := -1.0, 1.0
	for i := 0; g.mean(lo) <= target; i++ {
		if i == maxLambdaDoublings {
			return g.boundary(len(g.classes) - 1), nil
		}
		lo *= 2
	}
	for i := 0; g.mean(hi) >= target; i++ {
		if i == maxLambdaDoublings {
			return g.boundary(0), nil
		}
		hi *= 2
	}

	rel := o.RelTol
	if rel <= 0 {
		rel = 1e-12
	}
	stop := func(a, b float64) bool {
		return math.Abs(b-a) <= rel*math.Max(1, math.Abs(a))
	}
	a, b, err := search.Bisect(excess, lo, hi, stop)
	if err != nil {
		return 0, fmt.Errorf("capacity: locate multiplier for %s at d=%g: %w", s, distance, err)
	}
	lambda := search.Midpoint(a, b)
	h := g.logZ(lambda) + lambda*target
	return math.Max(0, h/math.Log(float64(s.q))), nil
}

// gibbs evaluates the partition function over the non-empty weight classes
// in log space: each class contributes ln(count) - λ·w.
type gibbs struct {
	classes  []int
	q        int
	weights  []float64
	logCount []float64
	scratch  []float64
}

func newGibbs(s VectorSpace) *gibbs {
	g := &gibbs{classes: s.WeightClasses(), q: s.q}
	for w, c := range g.classes {
		if c == 0 {
			continue
		}
		g.weights = append(g.weights, float64(w))
		g.logCount = append(g.logCount, math.Log(float64(c)))
	}
	g.scratch = make([]float64, len(g.weights))
	return g
}

// logTerms fills scratch with ln(count_w) - λ·w.
func (g *gibbs) logTerms(lambda float64) []float64 {
	for i, w := range g.weights {
		g.scratch[i] = g.logCount[i] - lambda*w
	}
	return g.scratch
}

func (g *gibbs) logZ(lambda float64) float64 {
	return floats.LogSumExp(g.logTerms(lambda))
}

// mean is the expected symbol weight under x_e ∝ exp(-λ·w(e)).
func (g *gibbs) mean(lambda float64) float64 {
	terms := g.logTerms(lambda)
	lz := floats.LogSumExp(terms)
	var m float64
	for i, t := range terms {
		m += g.weights[i] * math.Exp(t-lz)
	}
	return m
}

// boundary is the capacity when all mass sits on weight class w.
func (g *gibbs) boundary(w int) float64 {
	return math.Log(float64(g.classes[w])) / math.Log(float64(g.q))
}
