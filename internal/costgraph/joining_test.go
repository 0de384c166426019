package costgraph

import (
	"testing"

	"github.com/banshee-data/costgraph/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinerCosts(t *testing.T) {
	t.Parallel()
	g := threeFrameGraph()
	source, err := g.FrameSet(0)
	require.NoError(t, err)
	target, err := g.FrameSet(1)
	require.NoError(t, err)

	j := &Joiner{DistanceThreshold: 3, GapThreshold: 1, AverageDisplacement: 1, Tracks: g}
	res, err := j.Build(source, target, ModeCosts)
	require.NoError(t, err)

	// Only a (d = 0.25) is close enough; b is 45.25 away.
	assert.Equal(t, []int{0}, res.Costs.RowIdx)
	// Target signal 3, candidate 1, own predecessor 1 → ratio 1.5.
	assert.InDelta(t, -ApproxExp(-0.25*1.5), res.Costs.Values[0], 1e-5)
	// Alternative: target 3 over predecessor 1 → weight 3, scaled by 1².
	require.Len(t, res.Alternative, 1)
	assert.InDelta(t, -ApproxExp(-3), res.Alternative[0], 1e-5)
}

func TestJoinerIntensityThreshold(t *testing.T) {
	t.Parallel()
	g := threeFrameGraph()
	source, _ := g.FrameSet(0)
	target, _ := g.FrameSet(1)

	j := &Joiner{DistanceThreshold: 3, GapThreshold: 1, IntensityThreshold: 1.2, AverageDisplacement: 1, Tracks: g}
	res, err := j.Build(source, target, ModeCosts)
	require.NoError(t, err)
	assert.Zero(t, res.Costs.NNZ())
	assert.Len(t, res.Alternative, 1, "the alternative is scored even without candidates")

	feas, err := j.Build(source, target, ModeFeasibility)
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, feas.Feasible)
}

func TestJoinerGapNormalisedDistance(t *testing.T) {
	t.Parallel()
	g := threeFrameGraph()
	source, _ := g.Span(0, 1)
	target, _ := g.FrameSet(2)

	// e (frame 2) sits 1 away from b (frame 0): d/Δt² = 1/4.
	j := &Joiner{DistanceThreshold: 1, GapThreshold: 2, AverageDisplacement: 1, Tracks: g}
	res, err := j.Build(source, target, ModeCosts)
	require.NoError(t, err)
	rows, _ := res.Costs.Column(1)
	assert.Contains(t, rows, 1)

	j.GapThreshold = 1
	res, err = j.Build(source, target, ModeCosts)
	require.NoError(t, err)
	rows, _ = res.Costs.Column(1)
	assert.NotContains(t, rows, 1)
}

func TestJoinerRequiresTracksForCosts(t *testing.T) {
	t.Parallel()
	g := threeFrameGraph()
	source, _ := g.FrameSet(0)
	target, _ := g.FrameSet(1)

	j := &Joiner{DistanceThreshold: 3, GapThreshold: 1}
	_, err := j.Build(source, target, ModeCosts)
	assert.ErrorIs(t, err, ErrMissingTracks)

	feas, err := j.Build(source, target, ModeFeasibility)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, feas.Feasible)
}

func TestJoinerInputErrors(t *testing.T) {
	t.Parallel()
	g := threeFrameGraph()
	source, _ := g.FrameSet(0)
	target, _ := g.FrameSet(1)

	noIndex := &ParticleSet{X: []float64{0}, Y: []float64{0}, Frame: []int{1}}
	_, err := (&Joiner{DistanceThreshold: 1, GapThreshold: 1, Tracks: g}).Build(source, noIndex, ModeCosts)
	assert.ErrorIs(t, err, ErrShape)

	_, err = (&Joiner{DistanceThreshold: 1, GapThreshold: 1, AverageDisplacement: -1, Tracks: g}).Build(source, target, ModeCosts)
	assert.ErrorIs(t, err, ErrShape)

	broken := threeFrameGraph()
	broken.Links[1][0].PreviousFrame = 1
	_, err = (&Joiner{DistanceThreshold: 1, GapThreshold: 1, Tracks: broken}).Build(source, target, ModeCosts)
	assert.ErrorIs(t, err, ErrShape)

	dangling, _ := g.FrameSet(1)
	dangling.Index[0] = 42
	_, err = (&Joiner{DistanceThreshold: 3, GapThreshold: 1, Tracks: g}).Build(source, dangling, ModeCosts)
	assert.ErrorIs(t, err, ErrShape)
	assert.ErrorContains(t, err, "target")

	outside, _ := g.FrameSet(0)
	outside.Frame[1] = 7
	_, err = (&Joiner{DistanceThreshold: 3, GapThreshold: 1, Tracks: g}).Build(outside, target, ModeFeasibility)
	assert.ErrorIs(t, err, ErrShape)
	assert.ErrorContains(t, err, "source")
}

func TestSplitterRejectsDanglingSources(t *testing.T) {
	t.Parallel()
	g := threeFrameGraph()
	source, _ := g.FrameSet(2)
	target, _ := g.FrameSet(1)
	source.Index[1] = 9

	res, err := (&Splitter{DistanceThreshold: 3, GapThreshold: 1, Tracks: g}).Build(source, target, ModeFeasibility)
	assert.ErrorIs(t, err, ErrShape)
	assert.Nil(t, res)
}

func TestSplitterCosts(t *testing.T) {
	t.Parallel()
	g := threeFrameGraph()
	source, _ := g.FrameSet(1)
	target, _ := g.FrameSet(0)

	s := &Splitter{DistanceThreshold: 3, GapThreshold: 1, AverageDisplacement: 2, Tracks: g}
	res, err := s.Build(source, target, ModeCosts)
	require.NoError(t, err)

	// a splits towards c (d = 0.25); a's successor is c itself (signal 3),
	// so the ratio is 1 / (3 + 3).
	assert.Equal(t, []int{0, 1, 1}, res.Costs.ColPtr)
	assert.InDelta(t, -ApproxExp(-0.25*36), res.Costs.Values[0], 1e-9)
	// Alternatives: a → c gives 1/3 → weight 9; b has no successor in frame 1
	// but continues into frame 2 (signal 1 vs own 2 → weight 2).
	assert.InDelta(t, -ApproxExp(-4*9), res.Alternative[0], 1e-9)
	assert.Equal(t, -ApproxExp(-4*2), res.Alternative[1])
}

func TestSplitterRejectsEarlierSources(t *testing.T) {
	t.Parallel()
	g := threeFrameGraph()
	source, _ := g.FrameSet(0)
	target, _ := g.FrameSet(1)

	res, err := (&Splitter{DistanceThreshold: 3, GapThreshold: 1, Tracks: g}).Build(source, target, ModeCosts)
	require.NoError(t, err)
	assert.Zero(t, res.Costs.NNZ())
}

func TestJoiningSplittingTimeSymmetry(t *testing.T) {
	t.Parallel()
	r := testutil.NewRand(3)
	const frames = 6
	g := randomMovie(r, frames, 40, 20)
	rev := reverseMovie(g)
	require.NoError(t, g.Validate())
	require.NoError(t, rev.Validate())

	for k := 1; k < frames; k++ {
		jSource, _ := g.FrameSet(k - 1)
		jTarget, _ := g.FrameSet(k)
		sSource, _ := rev.FrameSet(frames - k)
		sTarget, _ := rev.FrameSet(frames - 1 - k)

		j := &Joiner{DistanceThreshold: 1.5, GapThreshold: 1, IntensityThreshold: 6, AverageDisplacement: 0.7, Tracks: g}
		s := &Splitter{DistanceThreshold: 1.5, GapThreshold: 1, IntensityThreshold: 6, AverageDisplacement: 0.7, Tracks: rev}

		joined, err := j.Build(jSource, jTarget, ModeCosts)
		require.NoError(t, err)
		split, err := s.Build(sSource, sTarget, ModeCosts)
		require.NoError(t, err)

		if diff := cmp.Diff(joined.Costs, split.Costs); diff != "" {
			t.Errorf("frame %d: costs differ (-joining +splitting):\n%s", k, diff)
		}
		if diff := cmp.Diff(joined.Alternative, split.Alternative); diff != "" {
			t.Errorf("frame %d: alternatives differ (-joining +splitting):\n%s", k, diff)
		}
	}
}

func TestEventBuildersFeasibilityMatchesCosts(t *testing.T) {
	t.Parallel()
	r := testutil.NewRand(8)
	g := randomMovie(r, 5, 60, 25)
	source, err := g.Span(0, 2)
	require.NoError(t, err)
	target, err := g.Span(2, 4)
	require.NoError(t, err)

	j := &Joiner{DistanceThreshold: 1.2, GapThreshold: 2, IntensityThreshold: 2.5, AverageDisplacement: 1, Tracks: g}
	joined := requireFeasibleMatchesCosts(t, j, source, target)
	assert.Positive(t, joined.Costs.NNZ())

	s := &Splitter{DistanceThreshold: 1.2, GapThreshold: 2, IntensityThreshold: 2.5, AverageDisplacement: 1, Tracks: g}
	split := requireFeasibleMatchesCosts(t, s, target, source)
	assert.Positive(t, split.Costs.NNZ())
}
