package costgraph

// eventParams are the thresholds shared by joining and splitting.
type eventParams struct {
	distance     float64
	gap          int
	intensity    float64
	displacement float64
}

func (p eventParams) validate() error {
	if !(p.distance >= 0) {
		return inputErrorf("distance_threshold", "must be non-negative, got %v", p.distance)
	}
	if p.gap < 0 {
		return inputErrorf("gap_threshold", "must be non-negative, got %d", p.gap)
	}
	if !(p.displacement >= 0) {
		return inputErrorf("average_displacement", "must be non-negative, got %v", p.displacement)
	}
	return nil
}

// eventScan wires the shared joining/splitting kernel. forward selects the
// time direction: joining looks at sources before the target and the
// target's predecessor, splitting at sources after it and its successor.
func eventScan(name string, p eventParams, tracks *TrackGraph, forward bool,
	source, target *ParticleSet, mode Mode, index bool) (*Result, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	if err := checkSets(source, target, true, true); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if tracks == nil && mode == ModeCosts {
		return nil, ErrMissingTracks
	}
	if tracks != nil {
		if err := tracks.Validate(); err != nil {
			return nil, err
		}
		if err := tracks.checkRefs("source", source); err != nil {
			return nil, err
		}
		if err := tracks.checkRefs("target", target); err != nil {
			return nil, err
		}
	}

	maxDist := p.distance * p.distance
	altScale := p.displacement * p.displacement

	s := &scan{
		name:   name,
		source: source,
		target: target,
		mode:   mode,
		radius: p.distance * float64(p.gap),
		index:  index,
		pair: func(i, j int, c column) (float64, bool) {
			dt := target.Frame[i] - source.Frame[j]
			if !forward {
				dt = -dt
			}
			if !gapOK(dt, p.gap) {
				return 0, false
			}
			fdt := float64(dt)
			d := sqDist(target, source, i, j) / (fdt * fdt)
			if !(d < maxDist) {
				return 0, false
			}
			if tracks == nil {
				return 0, true
			}
			s1 := tracks.SignalAt(source.Frame[j], source.Index[j])
			w, ok := ratioWeight(c.signal, s1+c.context)
			if !ok || !intensityOK(w, p.intensity) {
				return 0, false
			}
			return -ApproxExp(-d * w), true
		},
	}
	if tracks != nil {
		s.prepare = func(i int) column {
			f, idx := target.Frame[i], target.Index[i]
			c := column{signal: tracks.SignalAt(f, idx)}
			if forward {
				c.context = tracks.PrevSignal(f, idx)
			} else {
				c.context = tracks.NextSignal(f, idx)
			}
			return c
		}
		s.alternative = func(_ int, c column) float64 {
			return alternativeCost(altScale, c.signal, c.context)
		}
	}
	return s.run()
}

// Joiner builds the merge graph: which earlier particle (source) a target
// particle could have absorbed. The distance is normalised by the squared
// frame gap, and the intensity weight compares the target signal with the
// sum of the candidate's and the target's own predecessor's signals.
//
// In ModeCosts Tracks is required; in ModeFeasibility the intensity test is
// applied only when Tracks is set.
type Joiner struct {
	DistanceThreshold   float64
	GapThreshold        int
	IntensityThreshold  float64 // 0 disables the intensity test
	AverageDisplacement float64 // scales the no-predecessor alternative cost
	Tracks              *TrackGraph
	SpatialIndex        bool
}

// Name implements CostBuilder.
func (j *Joiner) Name() string { return "joining" }

// Build returns the sparse joining costs and, per target, the cost of the
// target keeping only its own predecessor.
func (j *Joiner) Build(source, target *ParticleSet, mode Mode) (*Result, error) {
	return eventScan(j.Name(), j.params(), j.Tracks, true, source, target, mode, j.SpatialIndex)
}

func (j *Joiner) params() eventParams {
	return eventParams{
		distance:     j.DistanceThreshold,
		gap:          j.GapThreshold,
		intensity:    j.IntensityThreshold,
		displacement: j.AverageDisplacement,
	}
}
