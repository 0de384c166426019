package costgraph

// Linker builds the frame-to-frame linking graph. A source particle is a
// candidate for a target when it lies within DistanceThreshold and, if both
// sets carry frame numbers, precedes the target by at most GapThreshold
// frames. Sets without frame numbers are treated as consecutive frames.
type Linker struct {
	DistanceThreshold  float64
	GapThreshold       int
	IntensityThreshold float64 // 0 disables the intensity test
	SpatialIndex       bool
}

// Name implements CostBuilder.
func (l *Linker) Name() string { return "linking" }

// Build scores every admissible (source, target) pair with -ApproxExp(-d),
// d being the squared distance.
func (l *Linker) Build(source, target *ParticleSet, mode Mode) (*Result, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	if err := checkSets(source, target, false, false); err != nil {
		return nil, err
	}
	if source.HasFrames() != target.HasFrames() {
		return nil, inputErrorf("frame", "frame column given for only one of source and target")
	}
	if !(l.DistanceThreshold >= 0) {
		return nil, inputErrorf("distance_threshold", "must be non-negative, got %v", l.DistanceThreshold)
	}
	if l.GapThreshold < 0 {
		return nil, inputErrorf("gap_threshold", "must be non-negative, got %d", l.GapThreshold)
	}

	maxDist := l.DistanceThreshold * l.DistanceThreshold
	framed := source.HasFrames()
	weighted := l.IntensityThreshold > 0 && source.HasSignal() && target.HasSignal()

	s := &scan{
		name:   l.Name(),
		source: source,
		target: target,
		mode:   mode,
		radius: l.DistanceThreshold,
		index:  l.SpatialIndex,
		pair: func(i, j int, _ column) (float64, bool) {
			dt := 1
			if framed {
				dt = target.Frame[i] - source.Frame[j]
			}
			if !gapOK(dt, l.GapThreshold) {
				return 0, false
			}
			d := sqDist(target, source, i, j)
			if !(d <= maxDist) {
				return 0, false
			}
			if weighted {
				w, ok := ratioWeight(target.Signal(i), source.Signal(j))
				if !ok || !intensityOK(w, l.IntensityThreshold) {
					return 0, false
				}
			}
			return -ApproxExp(-d), true
		},
	}
	return s.run()
}
