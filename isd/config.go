package isd

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"isd-hardness/space"
)

var (
	// ErrInvalidDomain is space.ErrInvalidDomain; both names match with errors.Is.
	ErrInvalidDomain = space.ErrInvalidDomain
	// ErrNumericalInstability reports a derived distance ratio outside [0,1]
	// beyond the tolerated slack.
	ErrNumericalInstability = errors.New("numerical instability")
	// ErrCapacityUnavailable reports that the capacity oracle had no answer.
	ErrCapacityUnavailable = errors.New("capacity unavailable")
)

// Config holds the run-wide constants. It is passed by value and never
// modified once a search has started.
type Config struct {
	// Quantum selects the quantum cost model for the merge step.
	Quantum bool
	// Tol is the stopping width of every golden-section and bisection search.
	Tol float64
	// Epsilon is the slack allowed on distance ratios before they are
	// treated as unstable; it also offsets the located root and bounds the
	// code-rate search to [Epsilon, 1-Epsilon].
	Epsilon float64
}

// DefaultConfig returns the classical model with tol = epsilon = 1e-5.
func DefaultConfig() Config {
	return Config{Quantum: false, Tol: 1e-5, Epsilon: 1e-5}
}

// Validate checks that the tolerances are usable.
func (c Config) Validate() error {
	if !(c.Tol > 0) || math.IsInf(c.Tol, 0) {
		return fmt.Errorf("%w: tol must be positive, got %g", ErrInvalidDomain, c.Tol)
	}
	if !(c.Epsilon >= 0) || c.Epsilon >= 0.5 {
		return fmt.Errorf("%w: epsilon must be in [0, 0.5), got %g", ErrInvalidDomain, c.Epsilon)
	}
	return nil
}

// Algorithm selects the decoder whose cost is modelled.
type Algorithm int

const (
	// Prange enumerates information sets; paramL is fixed to 0.
	Prange Algorithm = iota
	// Dumer is the Dumer/Stern birthday merge over a window of paramL symbols.
	Dumer
	// Wagner merges through a generalised birthday tree of several levels.
	Wagner
)

func (a Algorithm) String() string {
	switch a {
	case Prange:
		return "prange"
	case Dumer:
		return "dumer"
	case Wagner:
		return "wagner"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// Valid reports whether a is one of the modelled algorithms.
func (a Algorithm) Valid() bool {
	return a == Prange || a == Dumer || a == Wagner
}

// ParseAlgorithm accepts "prange", "dumer" (alias "stern") or "wagner".
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prange":
		return Prange, nil
	case "dumer", "stern":
		return Dumer, nil
	case "wagner":
		return Wagner, nil
	}
	return 0, fmt.Errorf("%w: algorithm %q (allowed: prange, dumer, wagner)", ErrInvalidDomain, s)
}

// checkUnit validates a normalised parameter.
func checkUnit(name string, v float64) error {
	if v >= 0 && v <= 1 {
		return nil
	}
	return fmt.Errorf("%w: %s = %g needs to be in [0,1]", ErrInvalidDomain, name, v)
}
