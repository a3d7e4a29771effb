package search

import "fmt"

// BracketFunc returns the search interval of one coordinate given the values
// already fixed for the coordinates before it.
type BracketFunc func(prefix []float64) (low, high float64)

// VectorFunc is an objective over all coordinates.
type VectorFunc func(x []float64) (float64, error)

// NestedGoldenSection tunes len(brackets) coordinates by nested line search.
// Coordinate i is minimised by GoldenSection; each candidate value of it is
// scored by first tuning coordinates i+1.. for that value and then
// evaluating f on the full vector. Once coordinate i has converged the inner
// coordinates are tuned one final time at the converged value.
//
// This is not a joint minimiser; it is exact only when the inner optimum
// varies smoothly with the outer coordinate.
func NestedGoldenSection(f VectorFunc, brackets []BracketFunc, tol float64) ([]float64, error) {
	if len(brackets) == 0 {
		return nil, fmt.Errorf("search: no coordinates to tune")
	}
	x := make([]float64, len(brackets))
	n := &nested{f: f, brackets: brackets, tol: tol, x: x}
	if err := n.tune(0); err != nil {
		return nil, err
	}
	return x, nil
}

type nested struct {
	f        VectorFunc
	brackets []BracketFunc
	tol      float64
	x        []float64
}

// tune fills x[i:] with the nested optimum given x[:i].
func (n *nested) tune(i int) error {
	low, high := n.brackets[i](n.x[:i])
	last := i == len(n.brackets)-1

	score := func(v float64) (float64, error) {
		n.x[i] = v
		if !last {
			if err := n.tune(i + 1); err != nil {
				return 0, err
			}
		}
		return n.f(n.x)
	}

	best, err := GoldenSection(score, low, high, n.tol)
	if err != nil {
		return err
	}
	n.x[i] = best
	if last {
		return nil
	}
	return n.tune(i + 1)
}
