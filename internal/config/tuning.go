package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the thresholds of the four cost-graph builders. Every
// field is optional; the Get* methods supply defaults for omitted values so
// partial files are safe.
type TuningConfig struct {
	// Linking params
	LinkDistance       *float64 `json:"link_distance,omitempty"`
	LinkGap            *int     `json:"link_gap,omitempty"`
	LinkIntensityRatio *float64 `json:"link_intensity_ratio,omitempty"`

	// Gap-bridging params
	BridgeSigmaCap       *float64 `json:"bridge_sigma_cap,omitempty"`
	BridgeGap            *int     `json:"bridge_gap,omitempty"`
	BridgeCapLimit       *float64 `json:"bridge_cap_limit,omitempty"`
	BridgeIntensityRatio *float64 `json:"bridge_intensity_ratio,omitempty"`

	// Joining and splitting params
	EventDistance       *float64 `json:"event_distance,omitempty"`
	EventGap            *int     `json:"event_gap,omitempty"`
	EventIntensityRatio *float64 `json:"event_intensity_ratio,omitempty"`
	AverageDisplacement *float64 `json:"average_displacement,omitempty"`

	// Shared
	SpatialIndex *bool `json:"spatial_index,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated
// from the Get* defaults.
func DefaultTuningConfig() *TuningConfig {
	e := EmptyTuningConfig()
	return &TuningConfig{
		LinkDistance:         ptrFloat64(e.GetLinkDistance()),
		LinkGap:              ptrInt(e.GetLinkGap()),
		LinkIntensityRatio:   ptrFloat64(e.GetLinkIntensityRatio()),
		BridgeSigmaCap:       ptrFloat64(e.GetBridgeSigmaCap()),
		BridgeGap:            ptrInt(e.GetBridgeGap()),
		BridgeCapLimit:       ptrFloat64(e.GetBridgeCapLimit()),
		BridgeIntensityRatio: ptrFloat64(e.GetBridgeIntensityRatio()),
		EventDistance:        ptrFloat64(e.GetEventDistance()),
		EventGap:             ptrInt(e.GetEventGap()),
		EventIntensityRatio:  ptrFloat64(e.GetEventIntensityRatio()),
		AverageDisplacement:  ptrFloat64(e.GetAverageDisplacement()),
		SpatialIndex:         ptrBool(e.GetSpatialIndex()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"link_distance", c.LinkDistance},
		{"link_intensity_ratio", c.LinkIntensityRatio},
		{"bridge_cap_limit", c.BridgeCapLimit},
		{"bridge_intensity_ratio", c.BridgeIntensityRatio},
		{"event_distance", c.EventDistance},
		{"event_intensity_ratio", c.EventIntensityRatio},
		{"average_displacement", c.AverageDisplacement},
	}
	for _, f := range nonNegative {
		if f.v == nil {
			continue
		}
		if math.IsNaN(*f.v) || *f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", f.name, *f.v)
		}
	}

	if c.BridgeSigmaCap != nil && !(*c.BridgeSigmaCap > 0) {
		return fmt.Errorf("bridge_sigma_cap must be positive, got %f", *c.BridgeSigmaCap)
	}

	gaps := []struct {
		name string
		v    *int
	}{
		{"link_gap", c.LinkGap},
		{"bridge_gap", c.BridgeGap},
		{"event_gap", c.EventGap},
	}
	for _, g := range gaps {
		if g.v != nil && *g.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", g.name, *g.v)
		}
	}

	return nil
}

// GetLinkDistance returns the link_distance value or the default.
func (c *TuningConfig) GetLinkDistance() float64 {
	if c.LinkDistance == nil {
		return 3.0
	}
	return *c.LinkDistance
}

// GetLinkGap returns the link_gap value or the default.
func (c *TuningConfig) GetLinkGap() int {
	if c.LinkGap == nil {
		return 1
	}
	return *c.LinkGap
}

// GetLinkIntensityRatio returns the link_intensity_ratio value or the default.
// Zero disables the intensity test.
func (c *TuningConfig) GetLinkIntensityRatio() float64 {
	if c.LinkIntensityRatio == nil {
		return 0
	}
	return *c.LinkIntensityRatio
}

// GetBridgeSigmaCap returns the bridge_sigma_cap value or the default.
func (c *TuningConfig) GetBridgeSigmaCap() float64 {
	if c.BridgeSigmaCap == nil {
		return 2.0
	}
	return *c.BridgeSigmaCap
}

// GetBridgeGap returns the bridge_gap value or the default.
func (c *TuningConfig) GetBridgeGap() int {
	if c.BridgeGap == nil {
		return 5
	}
	return *c.BridgeGap
}

// GetBridgeCapLimit returns the bridge_cap_limit value or the default.
func (c *TuningConfig) GetBridgeCapLimit() float64 {
	if c.BridgeCapLimit == nil {
		return 10.0
	}
	return *c.BridgeCapLimit
}

// GetBridgeIntensityRatio returns the bridge_intensity_ratio value or the default.
func (c *TuningConfig) GetBridgeIntensityRatio() float64 {
	if c.BridgeIntensityRatio == nil {
		return 3.0
	}
	return *c.BridgeIntensityRatio
}

// GetEventDistance returns the event_distance value or the default.
func (c *TuningConfig) GetEventDistance() float64 {
	if c.EventDistance == nil {
		return 3.0
	}
	return *c.EventDistance
}

// GetEventGap returns the event_gap value or the default.
func (c *TuningConfig) GetEventGap() int {
	if c.EventGap == nil {
		return 1
	}
	return *c.EventGap
}

// GetEventIntensityRatio returns the event_intensity_ratio value or the default.
func (c *TuningConfig) GetEventIntensityRatio() float64 {
	if c.EventIntensityRatio == nil {
		return 3.0
	}
	return *c.EventIntensityRatio
}

// GetAverageDisplacement returns the average_displacement value or the default.
func (c *TuningConfig) GetAverageDisplacement() float64 {
	if c.AverageDisplacement == nil {
		return 1.0
	}
	return *c.AverageDisplacement
}

// GetSpatialIndex returns the spatial_index value or the default.
func (c *TuningConfig) GetSpatialIndex() bool {
	if c.SpatialIndex == nil {
		return false
	}
	return *c.SpatialIndex
}
