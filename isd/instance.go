package isd

import (
	"fmt"
	"math"

	"isd-hardness/space"
)

// maxMergeLevels caps the Wagner depth search. The level predicate never
// fails when paramL = 0, and 2^64 lists is far beyond any meaningful tree.
const maxMergeLevels = 64

// Problem names one decoding instance.
type Problem struct {
	Metric       space.Metric
	Algorithm    Algorithm
	AlphabetSize int
	CodeRate     float64
	// Weight is the target relative weight of the error vector.
	Weight float64
}

// Instance is the cost model of one decoding problem. The sphere size at the
// target weight is computed once at construction.
type Instance struct {
	cfg      Config
	oracle   space.Oracle
	space    space.VectorSpace
	alg      Algorithm
	codeRate float64
	weight   float64
	surfaceW float64
}

// NewInstance validates p and evaluates the capacity at p.Weight.
func NewInstance(cfg Config, oracle space.Oracle, p Problem) (*Instance, error) {
	if oracle == nil {
		return nil, fmt.Errorf("isd: nil capacity oracle")
	}
	vs, err := space.New(p.Metric, p.AlphabetSize)
	if err != nil {
		return nil, err
	}
	if !p.Algorithm.Valid() {
		return nil, fmt.Errorf("%w: algorithm %d", ErrInvalidDomain, int(p.Algorithm))
	}
	if err := checkUnit("codeRate", p.CodeRate); err != nil {
		return nil, err
	}
	if err := checkUnit("weight", p.Weight); err != nil {
		return nil, err
	}
	sw, err := oracle.Capacity(vs, p.Weight)
	if err != nil {
		return nil, fmt.Errorf("%w: surfaceW at weight %g: %w", ErrCapacityUnavailable, p.Weight, err)
	}
	return &Instance{
		cfg:      cfg,
		oracle:   oracle,
		space:    vs,
		alg:      p.Algorithm,
		codeRate: p.CodeRate,
		weight:   p.Weight,
		surfaceW: sw,
	}, nil
}

func (in *Instance) Config() Config { return in.cfg }
func (in *Instance) Metric() space.Metric { return in.space.Metric() }
func (in *Instance) AlphabetSize() int { return in.space.AlphabetSize() }
func (in *Instance) Algorithm() Algorithm { return in.alg }
func (in *Instance) CodeRate() float64 { return in.codeRate }
func (in *Instance) Weight() float64 { return in.weight }
func (in *Instance) SurfaceW() float64 { return in.surfaceW }

// Problem returns the parameters the instance was built from.
func (in *Instance) Problem() Problem {
	return Problem{
		Metric:       in.space.Metric(),
		Algorithm:    in.alg,
		AlphabetSize: in.space.AlphabetSize(),
		CodeRate:     in.codeRate,
		Weight:       in.weight,
	}
}

// surface1 is the log-size of the set of paramP-weight vectors on the
// codeRate+paramL information-and-window positions.
func (in *Instance) surface1(paramL, paramP float64) (float64, error) {
	span := in.codeRate + paramL
	d, err := in.cfg.clampRatio("paramP / (codeRate + paramL)", paramP/span)
	if err != nil {
		return 0, err
	}
	c, err := in.oracle.Capacity(in.space, d)
	if err != nil {
		return 0, fmt.Errorf("%w: surface1 at distance %g: %w", ErrCapacityUnavailable, d, err)
	}
	return span * c, nil
}

// surface2 is the log-size of the remaining (weight-paramP)-weight part on
// the other 1-codeRate-paramL positions.
func (in *Instance) surface2(paramL, paramP float64) (float64, error) {
	span := 1 - in.codeRate - paramL
	d, err := in.cfg.clampRatio("(weight - paramP) / (1 - codeRate - paramL)", (in.weight-paramP)/span)
	if err != nil {
		return 0, err
	}
	c, err := in.oracle.Capacity(in.space, d)
	if err != nil {
		return 0, fmt.Errorf("%w: surface2 at distance %g: %w", ErrCapacityUnavailable, d, err)
	}
	return span * c, nil
}

// listSize is the bottom list size of a level-k tree built from surface1.
func (in *Instance) listSize(paramL, surface1 float64, levels int) float64 {
	k := float64(levels)
	den := math.Pow(2, k)
	if in.cfg.Quantum {
		den++
	}
	return math.Min(surface1/den, paramL/k)
}

// BDayDecCost is the cost of the birthday decoding step: the size of each
// bottom list.
func (in *Instance) BDayDecCost(paramL, paramP float64, levels int) (float64, error) {
	s1, err := in.surface1(paramL, paramP)
	if err != nil {
		return 0, err
	}
	return in.listSize(paramL, s1, levels), nil
}

// IterCost is the per-iteration cost; it has the same value as BDayDecCost.
func (in *Instance) IterCost(paramL, paramP float64, levels int) (float64, error) {
	return in.BDayDecCost(paramL, paramP, levels)
}

// SolsPerIter is the log number of candidate solutions produced by one
// iteration: 2·B - paramM classically, 3·B - paramM in the quantum model,
// with paramM = paramL - (levels-1)·B.
func (in *Instance) SolsPerIter(paramL, paramP float64, levels int) (float64, error) {
	b, err := in.BDayDecCost(paramL, paramP, levels)
	if err != nil {
		return 0, err
	}
	m := paramL - float64(levels-1)*b
	return in.mergeCoefficient()*b - m, nil
}

// SolsNum is the expected log number of solutions at the target weight.
func (in *Instance) SolsNum() float64 {
	return math.Max(in.surfaceW-(1-in.codeRate), 0)
}

// PartSolProb is the log probability that a fixed solution is found by one
// iteration.
func (in *Instance) PartSolProb(paramL, paramP float64) (float64, error) {
	s2, err := in.surface2(paramL, paramP)
	if err != nil {
		return 0, err
	}
	return s2 - in.surfaceW + paramL, nil
}

// AnySolProb is the log probability that an iteration finds some solution.
func (in *Instance) AnySolProb(paramL, paramP float64) (float64, error) {
	s2, err := in.surface2(paramL, paramP)
	if err != nil {
		return 0, err
	}
	return in.anySolProb(paramL, s2), nil
}

func (in *Instance) anySolProb(paramL, surface2 float64) float64 {
	return math.Min(0, surface2+paramL-math.Min(1-in.codeRate, in.surfaceW))
}

func (in *Instance) mergeCoefficient() float64 {
	if in.cfg.Quantum {
		return 3
	}
	return 2
}

// LevelPredicate reports whether a level-k tree still fits paramL:
// paramL <= k/2^k · surface1.
func LevelPredicate(paramL, surface1 float64, k int) bool {
	return paramL <= float64(k)/math.Pow(2, float64(k))*surface1
}

// WagnerLevels returns the tree depth for a Wagner merge: starting from 2 it
// increases k while LevelPredicate holds and steps back one from the first
// failing k. The result is at least 1.
func WagnerLevels(paramL, surface1 float64) int {
	k := 2
	for k < maxMergeLevels && LevelPredicate(paramL, surface1, k) {
		k++
	}
	return k - 1
}

func (in *Instance) levels(paramL, surface1 float64) int {
	if in.alg == Wagner {
		return WagnerLevels(paramL, surface1)
	}
	return 1
}

// RunTime is the log_q running time for one parameter choice, together with
// the number of merge levels it implies:
//
//	B - min(0, AnySolProb + 2B - paramM)          classical
//	B - 0.5·min(0, AnySolProb + 3B - paramM)      quantum
func (in *Instance) RunTime(paramL, paramP float64) (float64, int, error) {
	s1, err := in.surface1(paramL, paramP)
	if err != nil {
		return 0, 0, err
	}
	s2, err := in.surface2(paramL, paramP)
	if err != nil {
		return 0, 0, err
	}
	k := in.levels(paramL, s1)
	b := in.listSize(paramL, s1, k)
	m := paramL - float64(k-1)*b
	gain := math.Min(0, in.anySolProb(paramL, s2)+in.mergeCoefficient()*b-m)
	if in.cfg.Quantum {
		return b - 0.5*gain, k, nil
	}
	return b - gain, k, nil
}
