package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveMonotone(t *testing.T) {
	calls := 0
	x, ok := SolveMonotone(func(x float64) bool {
		calls++
		return x >= 42.125
	}, 0, 100, 0.01)

	assert.True(t, ok)
	assert.GreaterOrEqual(t, x, 42.125)
	assert.InDelta(t, 42.125, x, 0.01)
	// one probe at lo, 14 halvings, one confirmation
	assert.Equal(t, 16, calls)
}

func TestSolveMonotone_NeverTrue(t *testing.T) {
	x, ok := SolveMonotone(func(float64) bool { return false }, 0, 100, 0.01)
	assert.False(t, ok)
	assert.Equal(t, 100.0, x)
}

func TestSolveMonotone_TrueAtLowerBound(t *testing.T) {
	x, ok := SolveMonotone(func(float64) bool { return true }, 5, 10, 0.01)
	assert.True(t, ok)
	assert.Equal(t, 5.0, x)
}

func TestMaxIterations(t *testing.T) {
	assert.Equal(t, 14, MaxIterations(100, 0.01))
	assert.Equal(t, 0, MaxIterations(0.005, 0.01))
	assert.Equal(t, 0, MaxIterations(10, 0))
	assert.Equal(t, 0, MaxIterations(math.NaN(), 0.01))
}
