package isd

import (
	"fmt"
	"math"
)

// RatioClass is the verdict on a derived relative distance.
type RatioClass int

const (
	// RatioValid: the value lies in [0,1] and is used as is.
	RatioValid RatioClass = iota
	// RatioClampToOne: the value lies in (1, 1+epsilon] and is replaced by 1.
	RatioClampToOne
	// RatioClampToZero: the value lies in [-epsilon, 0) and is replaced by 0.
	RatioClampToZero
	// RatioUnstable: anything else, NaN included.
	RatioUnstable
)

func (c RatioClass) String() string {
	switch c {
	case RatioValid:
		return "valid"
	case RatioClampToOne:
		return "clamp-to-one"
	case RatioClampToZero:
		return "clamp-to-zero"
	case RatioUnstable:
		return "unstable"
	}
	return fmt.Sprintf("ratio-class(%d)", int(c))
}

// ClassifyRatio sorts x into one of the RatioClass bands.
func ClassifyRatio(x, epsilon float64) RatioClass {
	switch {
	case math.IsNaN(x):
		return RatioUnstable
	case x >= 0 && x <= 1:
		return RatioValid
	case x > 1 && x <= 1+epsilon:
		return RatioClampToOne
	case x < 0 && x >= -epsilon:
		return RatioClampToZero
	}
	return RatioUnstable
}

// clampRatio applies ClassifyRatio. name describes the ratio in the error.
func (c Config) clampRatio(name string, x float64) (float64, error) {
	switch ClassifyRatio(x, c.Epsilon) {
	case RatioValid:
		return x, nil
	case RatioClampToOne:
		return 1, nil
	case RatioClampToZero:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s = %g", ErrNumericalInstability, name, x)
}
