package isd

import (
	"fmt"
	"math"

	"isd-hardness/internal/search"
)

// Estimate is an optimised parameter choice for one instance.
type Estimate struct {
	ParamL      float64
	ParamP      float64
	OptLevelNum int
	// Cost is log2 of the running time divided by n, i.e. log2(q)·RunTime.
	Cost float64
}

// paramPBracket is the feasible range of paramP once paramL is fixed: both
// distance ratios must stay in [0,1].
func (in *Instance) paramPBracket(paramL float64) (float64, float64) {
	low := math.Max(0, in.weight-(1-in.codeRate-paramL))
	high := math.Min(in.weight, in.codeRate+paramL)
	return low, high
}

// Optimize tunes the parameters of the instance's algorithm.
func (in *Instance) Optimize() (Estimate, error) {
	switch in.alg {
	case Prange:
		return in.OptimizeSingleParameter()
	case Dumer, Wagner:
		return in.OptimizeTwoParameters()
	}
	return Estimate{}, fmt.Errorf("%w: algorithm %d", ErrInvalidDomain, int(in.alg))
}

// OptimizeSingleParameter fixes paramL = 0 and minimises RunTime over
// paramP ∈ [max(0, w-(1-R)), min(w, R)]. This is Prange's algorithm.
func (in *Instance) OptimizeSingleParameter() (Estimate, error) {
	brackets := []search.BracketFunc{
		func([]float64) (float64, float64) { return in.paramPBracket(0) },
	}
	objective := func(x []float64) (float64, error) {
		c, _, err := in.RunTime(0, x[0])
		return c, err
	}
	x, err := search.NestedGoldenSection(objective, brackets, in.cfg.Tol)
	if err != nil {
		return Estimate{}, fmt.Errorf("optimise paramP: %w", err)
	}
	return in.finish(0, x[0])
}

// OptimizeTwoParameters minimises RunTime over paramL ∈ [0, 1-R] and, for
// each candidate paramL, over paramP in the bracket that paramL allows. Used
// for Dumer/Stern and Wagner.
func (in *Instance) OptimizeTwoParameters() (Estimate, error) {
	brackets := []search.BracketFunc{
		func([]float64) (float64, float64) { return 0, 1 - in.codeRate },
		func(prefix []float64) (float64, float64) { return in.paramPBracket(prefix[0]) },
	}
	objective := func(x []float64) (float64, error) {
		c, _, err := in.RunTime(x[0], x[1])
		return c, err
	}
	x, err := search.NestedGoldenSection(objective, brackets, in.cfg.Tol)
	if err != nil {
		return Estimate{}, fmt.Errorf("optimise paramL/paramP: %w", err)
	}
	return in.finish(x[0], x[1])
}

func (in *Instance) finish(paramL, paramP float64) (Estimate, error) {
	c, k, err := in.RunTime(paramL, paramP)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{
		ParamL:      paramL,
		ParamP:      paramP,
		OptLevelNum: k,
		Cost:        math.Log2(float64(in.AlphabetSize())) * c,
	}, nil
}
