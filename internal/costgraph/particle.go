package costgraph

import "math"

// Particle is a single detection with its fitted Gaussian shape.
type Particle struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Sigma     float64 `json:"sigma"`
	Amplitude float64 `json:"amplitude"`
}

// Signal is the integral under the particle's 2-D Gaussian profile.
func (p Particle) Signal() float64 {
	return signal(p.Sigma, p.Amplitude)
}

func signal(sigma, amplitude float64) float64 {
	return 2 * math.Pi * sigma * sigma * amplitude
}

// ParticleSet stores detections column by column. X and Y are mandatory; the
// other columns are either nil or as long as X.
//
// Index holds each particle's position within its own frame and Frame its
// frame number; together they address the particle in a TrackGraph.
type ParticleSet struct {
	X         []float64
	Y         []float64
	Sigma     []float64
	Amplitude []float64
	Index     []int
	Frame     []int
}

// Len returns the number of particles in the set.
func (s *ParticleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.X)
}

// HasSignal reports whether the set carries the shape columns.
func (s *ParticleSet) HasSignal() bool {
	return s != nil && s.Sigma != nil && s.Amplitude != nil
}

// HasFrames reports whether the set carries frame numbers.
func (s *ParticleSet) HasFrames() bool {
	return s != nil && s.Frame != nil
}

// Signal returns the signal of particle i, or 0 when the set has no shape columns.
func (s *ParticleSet) Signal(i int) float64 {
	if !s.HasSignal() || i < 0 || i >= s.Len() {
		return 0
	}
	return signal(s.Sigma[i], s.Amplitude[i])
}

// Particle returns row i as a record.
func (s *ParticleSet) Particle(i int) Particle {
	p := Particle{X: s.X[i], Y: s.Y[i]}
	if s.HasSignal() {
		p.Sigma = s.Sigma[i]
		p.Amplitude = s.Amplitude[i]
	}
	return p
}

// Validate checks that every present column matches the length of X.
func (s *ParticleSet) Validate(name string) error {
	if s == nil {
		return inputErrorf(name, "particle set is nil")
	}
	n := len(s.X)
	if len(s.Y) != n {
		return inputErrorf(name, "y has %d rows, x has %d", len(s.Y), n)
	}
	if (s.Sigma == nil) != (s.Amplitude == nil) {
		return inputErrorf(name, "sigma and amplitude must be given together")
	}
	if s.Sigma != nil && len(s.Sigma) != n {
		return inputErrorf(name, "sigma has %d rows, x has %d", len(s.Sigma), n)
	}
	if s.Amplitude != nil && len(s.Amplitude) != n {
		return inputErrorf(name, "amplitude has %d rows, x has %d", len(s.Amplitude), n)
	}
	if s.Index != nil && len(s.Index) != n {
		return inputErrorf(name, "index has %d rows, x has %d", len(s.Index), n)
	}
	if s.Frame != nil && len(s.Frame) != n {
		return inputErrorf(name, "frame has %d rows, x has %d", len(s.Frame), n)
	}
	return nil
}

// NewParticleSet builds a set with shape columns from particle records.
// Index and Frame stay nil.
func NewParticleSet(ps []Particle) *ParticleSet {
	s := &ParticleSet{
		X:         make([]float64, len(ps)),
		Y:         make([]float64, len(ps)),
		Sigma:     make([]float64, len(ps)),
		Amplitude: make([]float64, len(ps)),
	}
	for i, p := range ps {
		s.X[i], s.Y[i] = p.X, p.Y
		s.Sigma[i], s.Amplitude[i] = p.Sigma, p.Amplitude
	}
	return s
}
