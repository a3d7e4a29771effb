package isd

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isd-hardness/space"
)

func TestNewInstance_Validation(t *testing.T) {
	cfg := DefaultConfig()
	base := Problem{Metric: space.Hamming, Algorithm: Prange, AlphabetSize: 2, CodeRate: 0.5, Weight: 0.1}

	bad := []Problem{}
	p := base
	p.AlphabetSize = 1
	bad = append(bad, p)
	p = base
	p.CodeRate = 1.5
	bad = append(bad, p)
	p = base
	p.Weight = -0.1
	bad = append(bad, p)
	p = base
	p.Algorithm = Algorithm(9)
	bad = append(bad, p)
	p = base
	p.Metric = space.Metric(4)
	bad = append(bad, p)

	for _, p := range bad {
		_, err := NewInstance(cfg, binaryEntropy, p)
		require.ErrorIs(t, err, ErrInvalidDomain, "%+v", p)
	}

	_, err := NewInstance(cfg, nil, base)
	require.Error(t, err)

	in, err := NewInstance(cfg, binaryEntropy, base)
	require.NoError(t, err)
	assert.Equal(t, base, in.Problem())
	assert.InDelta(t, h2(0.1), in.SurfaceW(), 1e-15)
	assert.Equal(t, 2, in.AlphabetSize())
	assert.Equal(t, space.Hamming, in.Metric())
	assert.Equal(t, cfg, in.Config())
}

func TestNewInstance_CapacityUnavailable(t *testing.T) {
	infeasible := space.OracleFunc(func(space.VectorSpace, float64) (float64, error) {
		return 0, space.ErrInfeasible
	})
	_, err := NewInstance(DefaultConfig(), infeasible, Problem{AlphabetSize: 2, CodeRate: 0.5, Weight: 0.1})
	require.ErrorIs(t, err, ErrCapacityUnavailable)
	require.ErrorIs(t, err, space.ErrInfeasible)
}

func TestRunTime_OracleFailurePropagates(t *testing.T) {
	calls := 0
	flaky := space.OracleFunc(func(s space.VectorSpace, d float64) (float64, error) {
		calls++
		if calls > 1 {
			return 0, space.ErrInfeasible
		}
		return h2(d), nil
	})
	in, err := NewInstance(DefaultConfig(), flaky, Problem{Algorithm: Dumer, AlphabetSize: 2, CodeRate: 0.5, Weight: 0.1})
	require.NoError(t, err)
	_, _, err = in.RunTime(0.1, 0.02)
	require.ErrorIs(t, err, ErrCapacityUnavailable)
	_, err = in.OptimizeTwoParameters()
	require.ErrorIs(t, err, ErrCapacityUnavailable)
}

func TestPerIterationQuantities(t *testing.T) {
	const (
		R = 0.5
		w = 0.11
		L = 0.08
		P = 0.03
	)
	in := binaryInstance(t, DefaultConfig(), Dumer, R, w)
	s1 := (R + L) * h2(P/(R+L))
	s2 := (1 - R - L) * h2((w-P)/(1-R-L))
	sw := h2(w)

	b, err := in.BDayDecCost(L, P, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Min(s1/2, L), b, 1e-12)

	ic, err := in.IterCost(L, P, 1)
	require.NoError(t, err)
	assert.Equal(t, b, ic)

	b3, err := in.BDayDecCost(L, P, 3)
	require.NoError(t, err)
	assert.InDelta(t, math.Min(s1/8, L/3), b3, 1e-12)

	spi, err := in.SolsPerIter(L, P, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2*b3-(L-2*b3), spi, 1e-12)

	psp, err := in.PartSolProb(L, P)
	require.NoError(t, err)
	assert.InDelta(t, s2-sw+L, psp, 1e-12)

	asp, err := in.AnySolProb(L, P)
	require.NoError(t, err)
	assert.InDelta(t, math.Min(0, s2+L-math.Min(1-R, sw)), asp, 1e-12)

	assert.InDelta(t, math.Max(sw-(1-R), 0), in.SolsNum(), 1e-15)
}

func TestRunTime_ClassicalAndQuantum(t *testing.T) {
	const (
		R = 0.4
		w = 0.14
		L = 0.05
		P = 0.04
	)
	s1 := (R + L) * h2(P/(R+L))
	s2 := (1 - R - L) * h2((w-P)/(1-R-L))
	sw := h2(w)
	anySol := math.Min(0, s2+L-math.Min(1-R, sw))

	classical := binaryInstance(t, DefaultConfig(), Dumer, R, w)
	got, k, err := classical.RunTime(L, P)
	require.NoError(t, err)
	assert.Equal(t, 1, k)
	b := math.Min(s1/2, L)
	m := L
	assert.InDelta(t, b-math.Min(0, anySol+2*b-m), got, 1e-12)

	qcfg := DefaultConfig()
	qcfg.Quantum = true
	quantum := binaryInstance(t, qcfg, Dumer, R, w)
	got, k, err = quantum.RunTime(L, P)
	require.NoError(t, err)
	assert.Equal(t, 1, k)
	b = math.Min(s1/3, L)
	assert.InDelta(t, b-0.5*math.Min(0, anySol+3*b-m), got, 1e-12)
}

func TestRunTime_PrangeAndDumerUseOneLevel(t *testing.T) {
	for _, alg := range []Algorithm{Prange, Dumer} {
		in := binaryInstance(t, DefaultConfig(), alg, 0.5, 0.11)
		_, k, err := in.RunTime(0.2, 0.05)
		require.NoError(t, err)
		assert.Equal(t, 1, k, alg.String())
	}
}

func TestWagnerLevels_Boundary(t *testing.T) {
	fixtures := []struct {
		paramL, surface1 float64
		want             int
	}{
		{0.3, 1.0, 3},
		{0.1, 1.0, 5},
		{0.01, 0.5, 8},
		{0.6, 1.0, 1},
		{0.2, 0.0, 1},
	}
	for _, f := range fixtures {
		k := WagnerLevels(f.paramL, f.surface1)
		assert.Equal(t, f.want, k, "paramL=%g surface1=%g", f.paramL, f.surface1)
		assert.False(t, LevelPredicate(f.paramL, f.surface1, k+1), "predicate must fail one level up")
		if k >= 2 {
			assert.True(t, LevelPredicate(f.paramL, f.surface1, k), "predicate must hold at the chosen level")
		}
	}
}

func TestWagnerLevels_ZeroWindowTerminates(t *testing.T) {
	k := WagnerLevels(0, 0.7)
	assert.Equal(t, maxMergeLevels-1, k)
}

func TestRunTime_WagnerMatchesLevelSelection(t *testing.T) {
	const (
		R = 0.5
		w = 0.11
	)
	in := binaryInstance(t, DefaultConfig(), Wagner, R, w)
	for _, lp := range [][2]float64{{0.02, 0.05}, {0.1, 0.08}, {0.3, 0.1}} {
		L, P := lp[0], lp[1]
		s1 := (R + L) * h2(P/(R+L))
		_, k, err := in.RunTime(L, P)
		require.NoError(t, err)
		assert.Equal(t, WagnerLevels(L, s1), k, "L=%g P=%g", L, P)
	}
}

func TestOptimize_DispatchAndErrors(t *testing.T) {
	in := binaryInstance(t, DefaultConfig(), Prange, 0.5, 0.11)
	est, err := in.Optimize()
	require.NoError(t, err)
	assert.Equal(t, 0.0, est.ParamL)
	assert.Equal(t, 1, est.OptLevelNum)

	in.alg = Algorithm(42)
	_, err = in.Optimize()
	require.True(t, errors.Is(err, ErrInvalidDomain))
}

func TestOptimizeTwoParameters_NotWorseThanPrange(t *testing.T) {
	cfg := DefaultConfig()
	const (
		R = 0.5
		w = 0.11
	)
	prange, err := binaryInstance(t, cfg, Prange, R, w).OptimizeSingleParameter()
	require.NoError(t, err)

	for _, alg := range []Algorithm{Dumer, Wagner} {
		in := binaryInstance(t, cfg, alg, R, w)
		est, err := in.OptimizeTwoParameters()
		require.NoError(t, err)
		assert.LessOrEqual(t, est.Cost, prange.Cost+5e-3, alg.String())
		assert.GreaterOrEqual(t, est.Cost, 0.0)
		assert.GreaterOrEqual(t, est.ParamL, 0.0)
		assert.LessOrEqual(t, est.ParamL, 1-R)
		lo, hi := in.paramPBracket(est.ParamL)
		assert.GreaterOrEqual(t, est.ParamP, lo-1e-9)
		assert.LessOrEqual(t, est.ParamP, hi+1e-9)
		assert.GreaterOrEqual(t, est.OptLevelNum, 1)
	}
}
