package costgraph

import "math"

// Bridger builds the gap-closing graph between track ends and track starts
// separated by one or more frames. The admissible squared distance grows
// with the gap as 2·SigmaCap·Δt, capped at CapLimit².
type Bridger struct {
	SigmaCap           float64
	GapThreshold       int
	CapLimit           float64
	IntensityThreshold float64 // 0 disables the intensity test
	SpatialIndex       bool
}

// minBridgeInverse floors the distance normalisation for very wide caps.
const minBridgeInverse = 0.001

// Name implements CostBuilder.
func (b *Bridger) Name() string { return "bridging" }

// Build scores pairs with -ApproxExp(-inv·(d + (Δt/gap)²)) where
// inv = max(1/(2·SigmaCap)², 0.001).
func (b *Bridger) Build(source, target *ParticleSet, mode Mode) (*Result, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	if err := checkSets(source, target, true, false); err != nil {
		return nil, err
	}
	if !(b.SigmaCap > 0) {
		return nil, inputErrorf("sigma_cap", "must be positive, got %v", b.SigmaCap)
	}
	if !(b.CapLimit >= 0) {
		return nil, inputErrorf("cap_limit", "must be non-negative, got %v", b.CapLimit)
	}
	if b.GapThreshold < 0 {
		return nil, inputErrorf("gap_threshold", "must be non-negative, got %d", b.GapThreshold)
	}

	k := 2 * b.SigmaCap
	inverse := math.Max(1/(k*k), minBridgeInverse)
	limit := b.CapLimit * b.CapLimit
	gap := float64(b.GapThreshold)
	weighted := b.IntensityThreshold > 0 && source.HasSignal() && target.HasSignal()

	s := &scan{
		name:   b.Name(),
		source: source,
		target: target,
		mode:   mode,
		radius: math.Sqrt(math.Min(k*gap, limit)),
		index:  b.SpatialIndex,
		pair: func(i, j int, _ column) (float64, bool) {
			dt := target.Frame[i] - source.Frame[j]
			if !gapOK(dt, b.GapThreshold) {
				return 0, false
			}
			d := sqDist(target, source, i, j)
			if !(d <= math.Min(k*float64(dt), limit)) {
				return 0, false
			}
			if weighted {
				w, ok := ratioWeight(target.Signal(i), source.Signal(j))
				if !ok || !intensityOK(w, b.IntensityThreshold) {
					return 0, false
				}
			}
			gaping := float64(dt) / gap
			return -ApproxExp(-inverse * (d + gaping*gaping)), true
		},
	}
	return s.run()
}
