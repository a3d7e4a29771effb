// Package space describes the q-ary ambient spaces the decoding problems live
// in: an alphabet Z_q equipped with the Hamming or the Lee metric. It also
// provides the capacity oracle, the normalised log-size of the sphere of a
// given relative radius.
package space

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDomain reports a metric, alphabet size or normalised value outside
// its domain.
var ErrInvalidDomain = errors.New("invalid domain")

// Metric selects the per-symbol weight function.
type Metric int

const (
	// Hamming weighs every non-zero symbol 1.
	Hamming Metric = iota
	// Lee weighs a symbol by its circular distance to zero, min(a, q-a).
	Lee
)

func (m Metric) String() string {
	switch m {
	case Hamming:
		return "hamming"
	case Lee:
		return "lee"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// ParseMetric accepts "hamming" or "lee", case-insensitively.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hamming":
		return Hamming, nil
	case "lee":
		return Lee, nil
	}
	return 0, fmt.Errorf("%w: metric %q (allowed: hamming, lee)", ErrInvalidDomain, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if m != Hamming && m != Lee {
		return nil, fmt.Errorf("%w: metric %d", ErrInvalidDomain, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(b []byte) error {
	v, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// VectorSpace is the pair (metric, alphabet size). It is a value type and is
// never modified after construction.
type VectorSpace struct {
	metric Metric
	q      int
}

// New validates its arguments and returns the space Z_q with the given metric.
func New(m Metric, alphabetSize int) (VectorSpace, error) {
	if m != Hamming && m != Lee {
		return VectorSpace{}, fmt.Errorf("%w: metric %d", ErrInvalidDomain, int(m))
	}
	if alphabetSize < 2 {
		return VectorSpace{}, fmt.Errorf("%w: alphabet size %d (needs to be >= 2)", ErrInvalidDomain, alphabetSize)
	}
	return VectorSpace{metric: m, q: alphabetSize}, nil
}

// Metric returns the metric of the space.
func (s VectorSpace) Metric() Metric { return s.metric }

// AlphabetSize returns q.
func (s VectorSpace) AlphabetSize() int { return s.q }

func (s VectorSpace) String() string {
	return fmt.Sprintf("%s/Z_%d", s.metric, s.q)
}

// Weight returns the weight of a symbol, reduced mod q first. Hamming weight
// is 1 for every non-zero symbol; Lee weight is the circular distance to 0.
func (s VectorSpace) Weight(symbol int) int {
	e := symbol % s.q
	if e < 0 {
		e += s.q
	}
	if s.metric == Hamming {
		if e == 0 {
			return 0
		}
		return 1
	}
	return min(e, s.q-e)
}

// MaxWeight is the largest symbol weight: 1 for Hamming, floor(q/2) for Lee.
func (s VectorSpace) MaxWeight() int {
	if s.metric == Hamming {
		return 1
	}
	return s.q / 2
}

// AvgWeight is the mean symbol weight over Z_q scaled by length.
func (s VectorSpace) AvgWeight(length float64) float64 {
	total := 0
	for e := 0; e < s.q; e++ {
		total += s.Weight(e)
	}
	return float64(total) / float64(s.q) * length
}

// AvgRelativeWeight is AvgWeight(1)/MaxWeight(), the relative weight of a
// uniformly random vector. It separates the two roots of the solution count.
func (s VectorSpace) AvgRelativeWeight() float64 {
	return s.AvgWeight(1) / float64(s.MaxWeight())
}

// WeightClasses returns, for each weight w in 0..MaxWeight(), the number of
// symbols of weight w.
func (s VectorSpace) WeightClasses() []int {
	counts := make([]int, s.MaxWeight()+1)
	for e := 0; e < s.q; e++ {
		counts[s.Weight(e)]++
	}
	return counts
}
