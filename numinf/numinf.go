// Package numinf implements a finite-or-infinite signed integer, used
// throughout the query core for result limits and category recursion depth.
package numinf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberOrInf is either a finite signed integer or positive infinity.
// It is a closed tagged union: do not encode infinity as a sentinel integer.
type NumberOrInf struct {
	inf   bool
	value int64
}

// Inf is the positive-infinity value.
var Inf = NumberOrInf{inf: true}

// Finite constructs a finite NumberOrInf.
func Finite(v int64) NumberOrInf {
	return NumberOrInf{value: v}
}

// IsInf reports whether n is infinite.
func (n NumberOrInf) IsInf() bool {
	return n.inf
}

// Value returns the finite value and true, or (0, false) if n is infinite.
func (n NumberOrInf) Value() (int64, bool) {
	if n.inf {
		return 0, false
	}
	return n.value, true
}

// Less reports whether n < other under the total order where every
// finite value is less than infinity.
func (n NumberOrInf) Less(other NumberOrInf) bool {
	switch {
	case n.inf && other.inf:
		return false
	case n.inf:
		return false
	case other.inf:
		return true
	default:
		return n.value < other.value
	}
}

// Equal reports whether n and other denote the same value.
func (n NumberOrInf) Equal(other NumberOrInf) bool {
	if n.inf != other.inf {
		return false
	}
	return n.inf || n.value == other.value
}

// Add returns n+other, saturating at math.MaxInt64 and propagating infinity.
func (n NumberOrInf) Add(other NumberOrInf) NumberOrInf {
	if n.inf || other.inf {
		return Inf
	}
	sum := n.value + other.value
	if (other.value > 0 && sum < n.value) || (other.value < 0 && sum > n.value) {
		if other.value > 0 {
			return Finite(math.MaxInt64)
		}
		return Finite(math.MinInt64)
	}
	return Finite(sum)
}

// SaturatingDec returns n-1, floored at 0. Infinity minus one is infinity.
func (n NumberOrInf) SaturatingDec() NumberOrInf {
	if n.inf {
		return Inf
	}
	if n.value <= 0 {
		return Finite(0)
	}
	return Finite(n.value - 1)
}

// String renders the value as "inf" or the decimal integer.
func (n NumberOrInf) String() string {
	if n.inf {
		return "inf"
	}
	return strconv.FormatInt(n.value, 10)
}

// Parse parses "inf" (case-insensitive) or a decimal integer with an
// optional leading sign.
func Parse(s string) (NumberOrInf, error) {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, "inf") {
		return Inf, nil
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return NumberOrInf{}, fmt.Errorf("numinf: invalid number %q: %w", s, err)
	}
	return Finite(v), nil
}
