package isd

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"isd-hardness/space"
)

func h2(x float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return -x*math.Log2(x) - (1-x)*math.Log2(1-x)
}

// binaryEntropy is the capacity of the binary Hamming space.
var binaryEntropy = space.OracleFunc(func(s space.VectorSpace, d float64) (float64, error) {
	if s.Metric() != space.Hamming || s.AlphabetSize() != 2 {
		return 0, fmt.Errorf("binary entropy mock: unsupported space %s", s)
	}
	if math.IsNaN(d) || d < 0 || d > 1 {
		return 0, space.ErrInfeasible
	}
	return h2(d), nil
})

// recordingOracle remembers every distance it was asked for.
type recordingOracle struct {
	inner space.Oracle
	mu    sync.Mutex
	seen  []float64
}

func (r *recordingOracle) Capacity(s space.VectorSpace, d float64) (float64, error) {
	r.mu.Lock()
	r.seen = append(r.seen, d)
	r.mu.Unlock()
	return r.inner.Capacity(s, d)
}

func (r *recordingOracle) last() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[len(r.seen)-1]
}

func binaryInstance(t *testing.T, cfg Config, alg Algorithm, codeRate, weight float64) *Instance {
	t.Helper()
	in, err := NewInstance(cfg, binaryEntropy, Problem{
		Metric:       space.Hamming,
		Algorithm:    alg,
		AlphabetSize: 2,
		CodeRate:     codeRate,
		Weight:       weight,
	})
	require.NoError(t, err)
	return in
}

func mustSpace(t *testing.T, m space.Metric, q int) space.VectorSpace {
	t.Helper()
	s, err := space.New(m, q)
	require.NoError(t, err)
	return s
}
