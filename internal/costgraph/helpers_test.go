package costgraph

import (
	"math/rand"
	"testing"

	"github.com/banshee-data/costgraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

// randomSet draws n particles in [0, extent)² with shape columns and the
// given frame for every row.
func randomSet(r *rand.Rand, n int, extent float64, frame int) *ParticleSet {
	xs, ys := testutil.Coords(r, n, extent)
	s := &ParticleSet{
		X:         xs,
		Y:         ys,
		Sigma:     testutil.Uniform(r, n, 0.8, 1.5),
		Amplitude: testutil.Uniform(r, n, 0.5, 4),
		Index:     make([]int, n),
		Frame:     make([]int, n),
	}
	for i := range s.Index {
		s.Index[i] = i
		s.Frame[i] = frame
	}
	return s
}

// randomMovie builds frames of perFrame particles drifting by a small step,
// each particle continuing a distinct particle of the previous frame.
func randomMovie(r *rand.Rand, frames, perFrame int, extent float64) *TrackGraph {
	g := &TrackGraph{
		Frames: make([]*ParticleSet, frames),
		Links:  make([][]Link, frames),
	}
	for f := 0; f < frames; f++ {
		g.Frames[f] = randomSet(r, perFrame, extent, f)
		g.Frames[f].Index, g.Frames[f].Frame = nil, nil
		if f == 0 {
			continue
		}
		perm := r.Perm(perFrame)
		for i := 0; i < perFrame; i++ {
			if r.Intn(4) == 0 {
				continue // trajectory starts here
			}
			p := perm[i]
			g.Frames[f].X[i] = g.Frames[f-1].X[p] + r.NormFloat64()*0.5
			g.Frames[f].Y[i] = g.Frames[f-1].Y[p] + r.NormFloat64()*0.5
			g.Links[f] = append(g.Links[f], Link{Current: i, Previous: p, PreviousFrame: f - 1})
		}
	}
	return g
}

// reverseMovie mirrors g in time: frame f becomes frame F-1-f and every
// link is turned around so predecessors become successors.
func reverseMovie(g *TrackGraph) *TrackGraph {
	n := g.NumFrames()
	rev := &TrackGraph{
		Frames: make([]*ParticleSet, n),
		Links:  make([][]Link, n),
	}
	for f := 0; f < n; f++ {
		rev.Frames[n-1-f] = g.Frames[f]
	}
	for f, links := range g.Links {
		for _, l := range links {
			if l.Previous < 0 {
				continue
			}
			to := n - 1 - l.PreviousFrame
			rev.Links[to] = append(rev.Links[to], Link{
				Current:       l.Previous,
				Previous:      l.Current,
				PreviousFrame: n - 1 - f,
			})
		}
	}
	return rev
}

// requireFeasibleMatchesCosts checks that feasibility mode flags exactly the
// columns that cost mode fills.
func requireFeasibleMatchesCosts(t *testing.T, b CostBuilder, source, target *ParticleSet) *Result {
	t.Helper()
	costs, err := b.Build(source, target, ModeCosts)
	require.NoError(t, err)
	require.NoError(t, costs.Costs.Validate())

	feas, err := b.Build(source, target, ModeFeasibility)
	require.NoError(t, err)
	require.Len(t, feas.Feasible, target.Len())
	require.Nil(t, feas.Costs)

	for i := 0; i < target.Len(); i++ {
		filled := costs.Costs.ColPtr[i+1] > costs.Costs.ColPtr[i]
		require.Equal(t, filled, feas.Feasible[i], "%s: column %d", b.Name(), i)
	}
	return costs
}
