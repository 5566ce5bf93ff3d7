package finance

import "math"

// SolveMonotone finds the smallest x in [lo, hi] for which pred holds,
// assuming pred is false below some threshold and true from it onwards.
// It bisects until the bracket is no wider than tol, taking at most
// MaxIterations(hi-lo, tol) steps, and returns the upper end of the final
// bracket. ok reports whether pred holds at that point; when it doesn't,
// the threshold lies beyond hi.
func SolveMonotone(pred func(x float64) bool, lo, hi, tol float64) (x float64, ok bool) {
	if hi < lo {
		lo, hi = hi, lo
	}
	if pred(lo) {
		return lo, true
	}
	for i, n := 0, MaxIterations(hi-lo, tol); i < n && hi-lo > tol; i++ {
		mid := (lo + hi) / 2
		if pred(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, pred(hi)
}

// MaxIterations is the number of halvings needed to shrink width to tol.
func MaxIterations(width, tol float64) int {
	if math.IsNaN(width) || tol <= 0 || width <= tol {
		return 0
	}
	return int(math.Ceil(math.Log2(width / tol)))
}
