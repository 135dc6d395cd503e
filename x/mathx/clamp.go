package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. Swapped bounds are tolerated.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
