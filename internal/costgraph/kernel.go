package costgraph

import "math"

// Weight turns an intensity ratio into a multiplicative penalty. Ratios
// below one are penalised quadratically, ratios above one linearly.
func Weight(r float64) float64 {
	if r >= 1 {
		return r
	}
	return 1 / (r * r)
}

// ratioWeight returns Weight(num/den). ok is false whenever the ratio is not
// a finite positive number; such candidates are rejected.
func ratioWeight(num, den float64) (w float64, ok bool) {
	if !(den > 0) || !(num > 0) {
		return 0, false
	}
	r := num / den
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, false
	}
	w = Weight(r)
	if math.IsInf(w, 0) {
		return 0, false
	}
	return w, true
}

// intensityOK applies the intensity-ratio threshold. A threshold of zero or
// less disables the test.
func intensityOK(w, threshold float64) bool {
	return threshold <= 0 || w <= threshold
}

// alternativeCost scores a no-event option. A degenerate ratio saturates the
// weight so the cost is clamped instead of becoming non-finite.
func alternativeCost(scale, num, den float64) float64 {
	w, ok := ratioWeight(num, den)
	if !ok {
		w = math.Inf(1)
	}
	e := -scale * w
	if math.IsNaN(e) {
		e = 0
	}
	return -ApproxExp(e)
}

// sqDist is the squared Euclidean distance between target i and source j.
func sqDist(target, source *ParticleSet, i, j int) float64 {
	dx := target.X[i] - source.X[j]
	dy := target.Y[i] - source.Y[j]
	return dx*dx + dy*dy
}

// gapOK is the shared temporal test: strictly forward and within the gap.
func gapOK(dt, gap int) bool {
	return dt > 0 && dt <= gap
}
