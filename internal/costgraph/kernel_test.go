package costgraph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeight(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1.0, Weight(1))
	assert.Equal(t, 3.0, Weight(3))
	// Ratios below one are penalised by 1/r², not 1/r.
	assert.Equal(t, 4.0, Weight(0.5))
	assert.InDelta(t, 100.0, Weight(0.1), 1e-9)
}

func TestRatioWeightDegenerate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		num, den float64
	}{
		{"zero denominator", 1, 0},
		{"negative denominator", 1, -2},
		{"zero numerator", 0, 1},
		{"NaN numerator", math.NaN(), 1},
		{"NaN denominator", 1, math.NaN()},
		{"infinite numerator", math.Inf(1), 1},
		{"tiny ratio overflows the weight", 1e-300, 1e300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ratioWeight(tt.num, tt.den)
			assert.False(t, ok)
		})
	}

	w, ok := ratioWeight(2, 4)
	assert.True(t, ok)
	assert.Equal(t, 4.0, w)
}

func TestIntensityOK(t *testing.T) {
	t.Parallel()
	assert.True(t, intensityOK(100, 0))
	assert.True(t, intensityOK(2, 2))
	assert.False(t, intensityOK(2.5, 2))
}

func TestAlternativeCostIsAlwaysFinite(t *testing.T) {
	t.Parallel()
	for _, tc := range [][3]float64{
		{1, 2, 2},
		{1, 2, 0},
		{0, 2, 0},
		{4, 0, 0},
		{1, math.NaN(), 1},
	} {
		c := alternativeCost(tc[0], tc[1], tc[2])
		assert.False(t, math.IsNaN(c) || math.IsInf(c, 0), "alternativeCost%v = %v", tc, c)
		assert.LessOrEqual(t, c, 0.0)
	}
	assert.Equal(t, -ApproxExp(-3), alternativeCost(1, 3, 1))
	// A missing context signal saturates to the clamped floor.
	assert.Equal(t, -ApproxExp(-700), alternativeCost(1, 2, 0))
}

func TestGapOK(t *testing.T) {
	t.Parallel()
	assert.False(t, gapOK(0, 3))
	assert.False(t, gapOK(-1, 3))
	assert.True(t, gapOK(3, 3))
	assert.False(t, gapOK(4, 3))
	assert.False(t, gapOK(1, 0))
}

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }
