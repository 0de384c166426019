package costgraph

import "math"

// Schraudolph's constants: 2^20/ln(2) and the IEEE-754 exponent bias shifted
// into the high word, minus the RMS-minimising correction.
const (
	expScale  = 1512775
	expOffset = 1072632447
	expLimit  = 700
)

// ApproxExp returns an approximation of e^y built directly from the bits of
// an IEEE-754 double (N. N. Schraudolph, "A Fast, Compact Approximation of
// the Exponential Function", 1999).
//
// The relative error stays within about ±4% for y in [-100, 100]. Inputs are
// clamped to [-700, 700]. NaN is returned unchanged.
func ApproxExp(y float64) float64 {
	if math.IsNaN(y) {
		return y
	}
	if y < -expLimit {
		y = -expLimit
	} else if y > expLimit {
		y = expLimit
	}
	// The high 32 bits of the double carry sign, exponent and the top of the
	// mantissa; the low word stays zero.
	hi := int32(expScale*y + expOffset)
	return math.Float64frombits(uint64(uint32(hi)) << 32)
}
