package costgraph

import (
	"encoding/json"
	"fmt"
	"io"
)

// Link records that particle Current of a frame continues particle Previous
// of frame PreviousFrame. Previous < 0 marks the start of a trajectory.
type Link struct {
	Current       int `json:"current"`
	Previous      int `json:"previous"`
	PreviousFrame int `json:"previous_frame"`
}

// TrackGraph is the per-frame arena of detections and the link table that
// chains them into trajectories. Particles are addressed by (frame, index).
type TrackGraph struct {
	Frames []*ParticleSet
	Links  [][]Link
}

// NumFrames returns the number of frames in the arena.
func (g *TrackGraph) NumFrames() int {
	if g == nil {
		return 0
	}
	return len(g.Frames)
}

// Validate checks the arena against the link-table invariants: one link
// list per frame, predecessors only in strictly earlier frames, and at most
// one predecessor per particle.
func (g *TrackGraph) Validate() error {
	if g == nil {
		return inputErrorf("tracks", "track graph is nil")
	}
	if len(g.Links) != len(g.Frames) {
		return inputErrorf("tracks", "%d link lists for %d frames", len(g.Links), len(g.Frames))
	}
	for f, set := range g.Frames {
		if err := set.Validate(fmt.Sprintf("tracks.frames[%d]", f)); err != nil {
			return err
		}
	}
	for f, links := range g.Links {
		seen := make(map[int]bool, len(links))
		for k, l := range links {
			name := fmt.Sprintf("tracks.links[%d][%d]", f, k)
			if l.Current < 0 || l.Current >= g.Frames[f].Len() {
				return inputErrorf(name, "current particle %d out of range", l.Current)
			}
			if seen[l.Current] {
				return inputErrorf(name, "particle %d has more than one predecessor", l.Current)
			}
			seen[l.Current] = true
			if l.Previous < 0 {
				continue
			}
			if l.PreviousFrame < 0 || l.PreviousFrame >= f {
				return inputErrorf(name, "previous frame %d is not before frame %d", l.PreviousFrame, f)
			}
			if l.Previous >= g.Frames[l.PreviousFrame].Len() {
				return inputErrorf(name, "previous particle %d out of range", l.Previous)
			}
		}
	}
	return nil
}

// checkRefs reports the first row of set whose (Frame, Index) pair does not
// address a particle in the arena.
func (g *TrackGraph) checkRefs(input string, set *ParticleSet) error {
	for i, f := range set.Frame {
		if f < 0 || f >= g.NumFrames() {
			return inputErrorf(input, "row %d: frame %d outside 0..%d", i, f, g.NumFrames()-1)
		}
		if idx := set.Index[i]; idx < 0 || idx >= g.Frames[f].Len() {
			return inputErrorf(input, "row %d: particle %d not in frame %d", i, idx, f)
		}
	}
	return nil
}

// SignalAt returns the signal of particle idx in frame. It returns 0 for a
// negative index, an index or frame out of range, or a frame without shape
// columns.
func (g *TrackGraph) SignalAt(frame, idx int) float64 {
	if idx < 0 || frame < 0 || frame >= g.NumFrames() {
		return 0
	}
	return g.Frames[frame].Signal(idx)
}

// NextSignal returns the signal of the particle that continues (frame, idx)
// in a later frame. Frames are searched in increasing order and the first
// matching link wins; 0 is returned when the trajectory ends here.
func (g *TrackGraph) NextSignal(frame, idx int) float64 {
	if g == nil || idx < 0 {
		return 0
	}
	for f := frame + 1; f < len(g.Links); f++ {
		for _, l := range g.Links[f] {
			if l.PreviousFrame == frame && l.Previous == idx {
				return g.SignalAt(f, l.Current)
			}
		}
	}
	return g.SignalAt(frame, -1)
}

// PrevSignal returns the signal of the particle that (frame, idx) continues,
// or 0 when it starts a trajectory.
func (g *TrackGraph) PrevSignal(frame, idx int) float64 {
	if frame < 0 || frame >= g.NumFrames() || frame >= len(g.Links) {
		return 0
	}
	for _, l := range g.Links[frame] {
		if l.Current == idx {
			return g.SignalAt(l.PreviousFrame, l.Previous)
		}
	}
	return 0
}

// FrameSet returns the particles of one frame with Index and Frame columns
// filled in, ready to be used as a builder input.
func (g *TrackGraph) FrameSet(frame int) (*ParticleSet, error) {
	return g.Span(frame, frame)
}

// Span concatenates frames from..to (inclusive) into a single set whose
// Index and Frame columns point back into the arena.
func (g *TrackGraph) Span(from, to int) (*ParticleSet, error) {
	if from < 0 || to >= g.NumFrames() || from > to {
		return nil, inputErrorf("span", "frames %d..%d outside 0..%d", from, to, g.NumFrames()-1)
	}
	out := &ParticleSet{}
	withSignal := true
	for f := from; f <= to; f++ {
		withSignal = withSignal && (g.Frames[f].HasSignal() || g.Frames[f].Len() == 0)
	}
	if withSignal {
		out.Sigma, out.Amplitude = []float64{}, []float64{}
	}
	out.Index, out.Frame = []int{}, []int{}
	for f := from; f <= to; f++ {
		set := g.Frames[f]
		for i := 0; i < set.Len(); i++ {
			out.X = append(out.X, set.X[i])
			out.Y = append(out.Y, set.Y[i])
			if withSignal {
				out.Sigma = append(out.Sigma, set.Sigma[i])
				out.Amplitude = append(out.Amplitude, set.Amplitude[i])
			}
			out.Index = append(out.Index, i)
			out.Frame = append(out.Frame, f)
		}
	}
	return out, nil
}

// movie is the JSON layout of a TrackGraph.
type movie struct {
	Frames [][]Particle `json:"frames"`
	Links  [][]Link     `json:"links"`
}

// DecodeMovie reads a JSON track graph of the form
// {"frames": [[{"x":..,"y":..,"sigma":..,"amplitude":..}]], "links": [[{...}]]}.
// A missing or empty links array is treated as a graph without trajectories.
func DecodeMovie(r io.Reader) (*TrackGraph, error) {
	var m movie
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode movie: %w", err)
	}
	g := &TrackGraph{
		Frames: make([]*ParticleSet, len(m.Frames)),
		Links:  m.Links,
	}
	for f, ps := range m.Frames {
		g.Frames[f] = NewParticleSet(ps)
	}
	if len(g.Links) == 0 {
		g.Links = make([][]Link, len(g.Frames))
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// EncodeMovie writes g in the layout read by DecodeMovie.
func EncodeMovie(w io.Writer, g *TrackGraph) error {
	m := movie{
		Frames: make([][]Particle, g.NumFrames()),
		Links:  g.Links,
	}
	for f, set := range g.Frames {
		m.Frames[f] = make([]Particle, set.Len())
		for i := range m.Frames[f] {
			m.Frames[f][i] = set.Particle(i)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode movie: %w", err)
	}
	return nil
}
