package isd

import (
	"fmt"

	"isd-hardness/internal/search"
	"isd-hardness/space"
)

// AvgSolsNum is the expected log number of codewords at relative distance
// `distance` in a random code of the given rate: capacity - (1 - codeRate).
func AvgSolsNum(oracle space.Oracle, s space.VectorSpace, distance, codeRate float64) (float64, error) {
	c, err := oracle.Capacity(s, distance)
	if err != nil {
		return 0, fmt.Errorf("%w: at distance %g: %w", ErrCapacityUnavailable, distance, err)
	}
	return c - (1 - codeRate), nil
}

// UpperRoot is the root of AvgSolsNum above the average relative weight. It
// first finds the largest rate for which a root below 1 exists; for any
// higher rate the solution count stays positive up to full weight and 1 is
// returned.
func UpperRoot(cfg Config, oracle space.Oracle, s space.VectorSpace, codeRate float64) (float64, error) {
	stop := search.Tolerance(cfg.Tol)
	atFullWeight := func(r float64) (float64, error) {
		return AvgSolsNum(oracle, s, 1-cfg.Epsilon, r)
	}
	lo, hi, err := search.Bisect(atFullWeight, 0, 1, stop)
	if err != nil {
		return 0, fmt.Errorf("upper root of %s: highest code rate: %w", s, err)
	}
	if codeRate > search.Midpoint(lo, hi) {
		return 1, nil
	}

	f := func(w float64) (float64, error) {
		return AvgSolsNum(oracle, s, w, codeRate)
	}
	lo, hi, err = search.Bisect(f, s.AvgRelativeWeight(), 1, stop)
	if err != nil {
		return 0, fmt.Errorf("upper root of %s at rate %g: %w", s, codeRate, err)
	}
	return search.Midpoint(lo, hi), nil
}

// LowerRoot is the root of AvgSolsNum below the average relative weight:
// the relative Gilbert-Varshamov distance.
func LowerRoot(cfg Config, oracle space.Oracle, s space.VectorSpace, codeRate float64) (float64, error) {
	f := func(w float64) (float64, error) {
		return AvgSolsNum(oracle, s, w, codeRate)
	}
	lo, hi, err := search.Bisect(f, 0, s.AvgRelativeWeight(), search.Tolerance(cfg.Tol))
	if err != nil {
		return 0, fmt.Errorf("lower root of %s at rate %g: %w", s, codeRate, err)
	}
	return search.Midpoint(lo, hi), nil
}

// UsesLowerRoot reports which root gives the hardest weight. Hamming spaces
// use the lower root, except q = 3, which like every Lee space uses the
// upper root.
func UsesLowerRoot(s space.VectorSpace) bool {
	return s.Metric() == space.Hamming && s.AlphabetSize() != 3
}

// HardestWeight locates the target weight of the hardest instance at the
// given rate: the selected root minus epsilon.
func HardestWeight(cfg Config, oracle space.Oracle, s space.VectorSpace, codeRate float64) (float64, error) {
	var (
		root float64
		err  error
	)
	if UsesLowerRoot(s) {
		root, err = LowerRoot(cfg, oracle, s, codeRate)
	} else {
		root, err = UpperRoot(cfg, oracle, s, codeRate)
	}
	if err != nil {
		return 0, err
	}
	return root - cfg.Epsilon, nil
}
