package costgraph

import "github.com/banshee-data/costgraph/internal/config"

// LinkerFromTuning derives a Linker from a TuningConfig.
func LinkerFromTuning(cfg *config.TuningConfig) *Linker {
	return &Linker{
		DistanceThreshold:  cfg.GetLinkDistance(),
		GapThreshold:       cfg.GetLinkGap(),
		IntensityThreshold: cfg.GetLinkIntensityRatio(),
		SpatialIndex:       cfg.GetSpatialIndex(),
	}
}

// BridgerFromTuning derives a Bridger from a TuningConfig.
func BridgerFromTuning(cfg *config.TuningConfig) *Bridger {
	return &Bridger{
		SigmaCap:           cfg.GetBridgeSigmaCap(),
		GapThreshold:       cfg.GetBridgeGap(),
		CapLimit:           cfg.GetBridgeCapLimit(),
		IntensityThreshold: cfg.GetBridgeIntensityRatio(),
		SpatialIndex:       cfg.GetSpatialIndex(),
	}
}

// JoinerFromTuning derives a Joiner over tracks from a TuningConfig.
func JoinerFromTuning(cfg *config.TuningConfig, tracks *TrackGraph) *Joiner {
	return &Joiner{
		DistanceThreshold:   cfg.GetEventDistance(),
		GapThreshold:        cfg.GetEventGap(),
		IntensityThreshold:  cfg.GetEventIntensityRatio(),
		AverageDisplacement: cfg.GetAverageDisplacement(),
		Tracks:              tracks,
		SpatialIndex:        cfg.GetSpatialIndex(),
	}
}

// SplitterFromTuning derives a Splitter over tracks from a TuningConfig.
func SplitterFromTuning(cfg *config.TuningConfig, tracks *TrackGraph) *Splitter {
	return &Splitter{
		DistanceThreshold:   cfg.GetEventDistance(),
		GapThreshold:        cfg.GetEventGap(),
		IntensityThreshold:  cfg.GetEventIntensityRatio(),
		AverageDisplacement: cfg.GetAverageDisplacement(),
		Tracks:              tracks,
		SpatialIndex:        cfg.GetSpatialIndex(),
	}
}

// BuilderFromTuning returns the named builder ("linking", "bridging",
// "joining" or "splitting").
func BuilderFromTuning(name string, cfg *config.TuningConfig, tracks *TrackGraph) (CostBuilder, error) {
	switch name {
	case "linking", "link":
		return LinkerFromTuning(cfg), nil
	case "bridging", "bridge":
		return BridgerFromTuning(cfg), nil
	case "joining", "join":
		return JoinerFromTuning(cfg, tracks), nil
	case "splitting", "split":
		return SplitterFromTuning(cfg, tracks), nil
	}
	return nil, inputErrorf("builder", "unknown builder %q", name)
}
