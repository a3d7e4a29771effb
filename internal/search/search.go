// Package search implements the derivative-free scalar searches used by the
// cost model: golden-section minimisation over a bounded interval, bracketed
// bisection, and a nested golden-section helper that tunes several
// coordinates whose brackets depend on the coordinates fixed before them.
package search

import (
	"errors"
	"fmt"
	"math"
)

// Phi is the golden ratio (√5+1)/2.
var Phi = (math.Sqrt(5) + 1) / 2

var (
	// ErrNoSignChange is returned by Bisect when f has the same sign at both ends.
	ErrNoSignChange = errors.New("search: no change of sign in bracket")
	// ErrMaxIterations is returned when bisection does not satisfy its stop predicate.
	ErrMaxIterations = errors.New("search: iteration limit reached")
)

// Func is a scalar objective. A non-nil error aborts the search that calls it.
type Func func(x float64) (float64, error)

// StopFunc decides whether the bracket [lo, hi] is narrow enough.
type StopFunc func(lo, hi float64) bool

// maxBisectIter bounds Bisect; 1100 halvings exhaust any float64 bracket.
const maxBisectIter = 1100

// Tolerance returns the stop predicate |hi-lo| <= tol.
func Tolerance(tol float64) StopFunc {
	return func(lo, hi float64) bool {
		return math.Abs(hi-lo) <= tol
	}
}

// GoldenSection minimises f over [low, high]. At each step f is evaluated at
// c = high-(high-low)/φ and d = low+(high-low)/φ and the side with the larger
// value is dropped; the search stops once |c-d| <= tol and returns the
// midpoint of the remaining bracket. On a multimodal f it returns some local
// minimum.
func GoldenSection(f Func, low, high, tol float64) (float64, error) {
	a, b := low, high
	c := b - (b-a)/Phi
	d := a + (b-a)/Phi
	for math.Abs(c-d) > tol {
		fc, err := f(c)
		if err != nil {
			return 0, err
		}
		fd, err := f(d)
		if err != nil {
			return 0, err
		}
		if fc < fd {
			b = d
		} else {
			a = c
		}
		c = b - (b-a)/Phi
		d = a + (b-a)/Phi
	}
	return (a + b) / 2, nil
}

// Bisect narrows [low, high] around a root of f, assuming f(low) and f(high)
// have opposite signs. It returns the final bracket; callers usually take its
// midpoint. An exact zero at an end point or at a midpoint collapses the
// bracket onto that point.
func Bisect(f Func, low, high float64, stop StopFunc) (float64, float64, error) {
	flo, err := f(low)
	if err != nil {
		return 0, 0, err
	}
	if flo == 0 {
		return low, low, nil
	}
	fhi, err := f(high)
	if err != nil {
		return 0, 0, err
	}
	if fhi == 0 {
		return high, high, nil
	}
	if math.Signbit(flo) == math.Signbit(fhi) {
		return 0, 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoSignChange, low, flo, high, fhi)
	}

	lo, hi := low, high
	for i := 0; i < maxBisectIter; i++ {
		if stop(lo, hi) {
			return lo, hi, nil
		}
		mid := lo + (hi-lo)/2
		fmid, err := f(mid)
		if err != nil {
			return 0, 0, err
		}
		if fmid == 0 {
			return mid, mid, nil
		}
		if math.Signbit(fmid) == math.Signbit(flo) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return lo, hi, fmt.Errorf("%w: bracket [%g, %g]", ErrMaxIterations, lo, hi)
}

// Midpoint returns the centre of a bracket.
func Midpoint(lo, hi float64) float64 {
	return (lo + hi) / 2
}
