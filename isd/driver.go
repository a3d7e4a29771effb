package isd

import (
	"fmt"

	"isd-hardness/internal/search"
	"isd-hardness/space"
)

// Point is a fully optimised estimate at one code rate.
type Point struct {
	CodeRate float64
	Weight   float64
	Estimate
}

// Estimator binds a Config and a capacity oracle.
type Estimator struct {
	Config Config
	Oracle space.Oracle
	// OnCandidate, if set, sees every code rate HardestRate evaluates. It may
	// be called from several goroutines during a sweep.
	OnCandidate func(alphabetSize int, p Point)
}

// NewEstimator validates cfg. A nil oracle selects space.EntropyOracle.
func NewEstimator(cfg Config, oracle space.Oracle) (Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return Estimator{}, err
	}
	if oracle == nil {
		oracle = space.EntropyOracle{}
	}
	return Estimator{Config: cfg, Oracle: oracle}, nil
}

// EstimateAtRate locates the hardest weight at codeRate and optimises the
// algorithm's parameters there.
func (e Estimator) EstimateAtRate(m space.Metric, alg Algorithm, alphabetSize int, codeRate float64) (Point, error) {
	vs, err := space.New(m, alphabetSize)
	if err != nil {
		return Point{}, err
	}
	if !alg.Valid() {
		return Point{}, fmt.Errorf("%w: algorithm %d", ErrInvalidDomain, int(alg))
	}
	if err := checkUnit("codeRate", codeRate); err != nil {
		return Point{}, err
	}
	w, err := HardestWeight(e.Config, e.Oracle, vs, codeRate)
	if err != nil {
		return Point{}, err
	}
	in, err := NewInstance(e.Config, e.Oracle, Problem{
		Metric:       m,
		Algorithm:    alg,
		AlphabetSize: alphabetSize,
		CodeRate:     codeRate,
		Weight:       w,
	})
	if err != nil {
		return Point{}, err
	}
	est, err := in.Optimize()
	if err != nil {
		return Point{}, fmt.Errorf("%s %s q=%d R=%.6f: %w", m, alg, alphabetSize, codeRate, err)
	}
	return Point{CodeRate: codeRate, Weight: w, Estimate: est}, nil
}

// HardestRate searches codeRate ∈ [epsilon, 1-epsilon] for the rate whose
// optimised cost is largest and returns the estimate at that rate.
func (e Estimator) HardestRate(m space.Metric, alg Algorithm, alphabetSize int) (Point, error) {
	negCost := func(r float64) (float64, error) {
		p, err := e.EstimateAtRate(m, alg, alphabetSize, r)
		if err != nil {
			return 0, err
		}
		if e.OnCandidate != nil {
			e.OnCandidate(alphabetSize, p)
		}
		return -p.Cost, nil
	}
	eps := e.Config.Epsilon
	r, err := search.GoldenSection(negCost, eps, 1-eps, e.Config.Tol)
	if err != nil {
		return Point{}, err
	}
	return e.EstimateAtRate(m, alg, alphabetSize, r)
}
