package space

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func h2(x float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return -x*math.Log2(x) - (1-x)*math.Log2(1-x)
}

func mustSpace(t *testing.T, m Metric, q int) VectorSpace {
	t.Helper()
	s, err := New(m, q)
	require.NoError(t, err)
	return s
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Hamming, 1)
	require.ErrorIs(t, err, ErrInvalidDomain)
	_, err = New(Metric(7), 5)
	require.ErrorIs(t, err, ErrInvalidDomain)
	s, err := New(Lee, 2)
	require.NoError(t, err)
	assert.Equal(t, Lee, s.Metric())
	assert.Equal(t, 2, s.AlphabetSize())
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric(" Lee ")
	require.NoError(t, err)
	assert.Equal(t, Lee, m)
	m, err = ParseMetric("hamming")
	require.NoError(t, err)
	assert.Equal(t, Hamming, m)
	_, err = ParseMetric("euclid")
	require.ErrorIs(t, err, ErrInvalidDomain)

	var u Metric
	require.NoError(t, u.UnmarshalText([]byte("lee")))
	assert.Equal(t, Lee, u)
	b, err := Hamming.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "hamming", string(b))
}

func TestWeights(t *testing.T) {
	ham := mustSpace(t, Hamming, 7)
	assert.Equal(t, 0, ham.Weight(0))
	assert.Equal(t, 1, ham.Weight(3))
	assert.Equal(t, 0, ham.Weight(7))
	assert.Equal(t, 1, ham.MaxWeight())
	assert.InDelta(t, 6.0/7.0, ham.AvgWeight(1), 1e-15)
	assert.InDelta(t, 12.0/7.0, ham.AvgWeight(2), 1e-15)

	lee := mustSpace(t, Lee, 7)
	want := []int{0, 1, 2, 3, 3, 2, 1}
	for e, w := range want {
		assert.Equal(t, w, lee.Weight(e), "lee weight of %d", e)
	}
	assert.Equal(t, 1, lee.Weight(-6))
	assert.Equal(t, 3, lee.MaxWeight())
	assert.InDelta(t, 12.0/7.0, lee.AvgWeight(1), 1e-15)
	assert.InDelta(t, 4.0/7.0, lee.AvgRelativeWeight(), 1e-15)

	even := mustSpace(t, Lee, 8)
	assert.Equal(t, []int{1, 2, 2, 2, 1}, even.WeightClasses())
	assert.Equal(t, 4, even.MaxWeight())
}

func TestEntropyOracle_BinaryEntropy(t *testing.T) {
	s := mustSpace(t, Hamming, 2)
	var o EntropyOracle
	for _, d := range []float64{1e-4, 0.05, 0.11, 0.3, 0.5, 0.77, 0.999} {
		c, err := o.Capacity(s, d)
		require.NoError(t, err)
		assert.InDelta(t, h2(d), c, 1e-9, "d=%g", d)
	}
}

func TestGibbs_MatchesDirectSum(t *testing.T) {
	g := newGibbs(mustSpace(t, Lee, 7))
	const lambda = 0.7
	var z, zw float64
	for w, c := range []int{1, 2, 2, 2} {
		e := float64(c) * math.Exp(-lambda*float64(w))
		z += e
		zw += float64(w) * e
	}
	assert.InDelta(t, math.Log(z), g.logZ(lambda), 1e-12)
	assert.InDelta(t, zw/z, g.mean(lambda), 1e-12)

	// Extreme multipliers stay finite and approach the boundary classes.
	assert.InDelta(t, 3, g.mean(-800), 1e-9)
	assert.InDelta(t, 0, g.mean(800), 1e-9)
	assert.False(t, math.IsInf(g.logZ(800), 0))
	assert.False(t, math.IsInf(g.logZ(-800), 0))
}

func TestEntropyOracle_QaryHamming(t *testing.T) {
	const q = 5
	s := mustSpace(t, Hamming, q)
	var o EntropyOracle
	for _, d := range []float64{0.1, 0.3, 0.8, 0.95} {
		want := (h2(d) + d*math.Log2(q-1)) / math.Log2(q)
		c, err := o.Capacity(s, d)
		require.NoError(t, err)
		assert.InDelta(t, want, c, 1e-9, "d=%g", d)
	}
}

func TestEntropyOracle_Boundaries(t *testing.T) {
	var o EntropyOracle

	lee := mustSpace(t, Lee, 7)
	c, err := o.Capacity(lee, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c)
	c, err = o.Capacity(lee, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2)/math.Log(7), c, 1e-15)

	// uniform distribution at the average relative weight
	c, err = o.Capacity(lee, lee.AvgRelativeWeight())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c, 1e-9)

	ham := mustSpace(t, Hamming, 3)
	c, err = o.Capacity(ham, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2)/math.Log(3), c, 1e-15)
}

func TestEntropyOracle_Infeasible(t *testing.T) {
	var o EntropyOracle
	s := mustSpace(t, Lee, 5)
	for _, d := range []float64{-1e-9, 1.0000001, math.NaN()} {
		_, err := o.Capacity(s, d)
		require.ErrorIs(t, err, ErrInfeasible, "d=%g", d)
	}
	_, err := o.Capacity(VectorSpace{}, 0.5)
	require.ErrorIs(t, err, ErrInvalidDomain)
}

func TestEntropyOracle_ConcaveShape(t *testing.T) {
	var o EntropyOracle
	for _, s := range []VectorSpace{mustSpace(t, Lee, 13), mustSpace(t, Hamming, 13)} {
		peak := s.AvgRelativeWeight()
		prev := -1.0
		for d := 0.0; d <= peak; d += 0.01 {
			c, err := o.Capacity(s, d)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, c, prev-1e-12, "%s increasing below peak, d=%g", s, d)
			prev = c
		}
		prev = 2.0
		for d := peak; d <= 1; d += 0.01 {
			c, err := o.Capacity(s, d)
			require.NoError(t, err)
			assert.LessOrEqual(t, c, prev+1e-12, "%s decreasing above peak, d=%g", s, d)
			prev = c
		}
	}
}

func TestOracleFunc(t *testing.T) {
	o := OracleFunc(func(s VectorSpace, d float64) (float64, error) { return d * 2, nil })
	c, err := o.Capacity(mustSpace(t, Hamming, 2), 0.25)
	require.NoError(t, err)
	assert.Equal(t, 0.5, c)
}
