package costgraph

import (
	"errors"
	"testing"

	"github.com/banshee-data/costgraph/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderFromTuning(t *testing.T) {
	cfg := config.DefaultTuningConfig()
	g := threeFrameGraph()

	tests := []struct {
		name string
		want string
	}{
		{"linking", "linking"},
		{"link", "linking"},
		{"bridging", "bridging"},
		{"bridge", "bridging"},
		{"joining", "joining"},
		{"join", "joining"},
		{"splitting", "splitting"},
		{"split", "splitting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := BuilderFromTuning(tt.name, cfg, g)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Name())
		})
	}

	_, err := BuilderFromTuning("merging", cfg, g)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestBuildersCarryTuning(t *testing.T) {
	cfg := config.EmptyTuningConfig()
	d, gap, ratio := 4.5, 3, 2.5
	index := true
	cfg.LinkDistance = &d
	cfg.LinkGap = &gap
	cfg.EventIntensityRatio = &ratio
	cfg.SpatialIndex = &index

	l := LinkerFromTuning(cfg)
	assert.Equal(t, 4.5, l.DistanceThreshold)
	assert.Equal(t, 3, l.GapThreshold)
	assert.True(t, l.SpatialIndex)

	g := threeFrameGraph()
	j := JoinerFromTuning(cfg, g)
	assert.Equal(t, 2.5, j.IntensityThreshold)
	assert.Same(t, g, j.Tracks)

	def := config.DefaultTuningConfig()
	b := BridgerFromTuning(cfg)
	assert.Equal(t, def.GetBridgeCapLimit(), b.CapLimit)
	assert.Equal(t, def.GetBridgeGap(), b.GapThreshold)
}
