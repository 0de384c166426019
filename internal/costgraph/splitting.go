package costgraph

// Splitter builds the split graph, the time mirror of Joiner: sources lie
// after the target, and the intensity context is the target's successor.
// Running a Splitter on frame-reversed data reproduces the Joiner's costs.
type Splitter struct {
	DistanceThreshold   float64
	GapThreshold        int
	IntensityThreshold  float64 // 0 disables the intensity test
	AverageDisplacement float64 // scales the no-successor alternative cost
	Tracks              *TrackGraph
	SpatialIndex        bool
}

// Name implements CostBuilder.
func (s *Splitter) Name() string { return "splitting" }

// Build returns the sparse splitting costs and, per target, the cost of the
// target keeping only its own successor.
func (s *Splitter) Build(source, target *ParticleSet, mode Mode) (*Result, error) {
	p := eventParams{
		distance:     s.DistanceThreshold,
		gap:          s.GapThreshold,
		intensity:    s.IntensityThreshold,
		displacement: s.AverageDisplacement,
	}
	return eventScan(s.Name(), p, s.Tracks, false, source, target, mode, s.SpatialIndex)
}
