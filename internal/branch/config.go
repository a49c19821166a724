package branch

import (
	"math"

	"github.com/fyrsmithlabs/bazodiac/internal/angle"
	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
)

// Defaults for the branch geometry.
const (
	DefaultZiApexDeg            = 270.0
	DefaultBranchWidthDeg       = 30.0
	DefaultPhiApexOffsetDeg     = 15.0
	DefaultBoundaryThresholdDeg = 0.1
)

// Config describes the branch geometry and the mapping conventions.
//
// Config is a plain value; NewMapper validates it once and the resulting
// Mapper never changes.
type Config struct {
	ZiApexDeg            float64                        `json:"zi_apex_deg" koanf:"zi_apex_deg"`
	BranchWidthDeg       float64                        `json:"branch_width_deg" koanf:"branch_width_deg"`
	PhiApexOffsetDeg     float64                        `json:"phi_apex_offset_deg" koanf:"phi_apex_offset_deg"`
	Convention           conventions.BoundaryConvention `json:"convention" koanf:"convention"`
	IntervalConvention   conventions.IntervalConvention `json:"interval_convention" koanf:"interval_convention"`
	BoundaryThresholdDeg float64                        `json:"boundary_threshold_deg" koanf:"boundary_threshold_deg"`
}

// DefaultConfig returns the reference geometry: Zi centered at 270°, 30° sectors,
// 15° apex offset, SHIFT_BOUNDARIES, HALF_OPEN, 0.1° instability threshold.
func DefaultConfig() Config {
	return Config{
		ZiApexDeg:            DefaultZiApexDeg,
		BranchWidthDeg:       DefaultBranchWidthDeg,
		PhiApexOffsetDeg:     DefaultPhiApexOffsetDeg,
		Convention:           conventions.ShiftBoundaries,
		IntervalConvention:   conventions.HalfOpen,
		BoundaryThresholdDeg: DefaultBoundaryThresholdDeg,
	}
}

// Validate returns a *conventions.ConfigurationError for the first invalid field.
func (c Config) Validate() error {
	if !angle.IsFinite(c.ZiApexDeg) || c.ZiApexDeg < 0 || c.ZiApexDeg >= 360 {
		return conventions.NewConfigurationError("zi_apex_deg", c.ZiApexDeg, "must be in [0, 360)")
	}
	if !angle.IsFinite(c.BranchWidthDeg) || c.BranchWidthDeg <= 0 {
		return conventions.NewConfigurationError("branch_width_deg", c.BranchWidthDeg, "must be > 0")
	}
	if !angle.IsFinite(c.PhiApexOffsetDeg) || c.PhiApexOffsetDeg < 0 || c.PhiApexOffsetDeg >= 360 {
		return conventions.NewConfigurationError("phi_apex_offset_deg", c.PhiApexOffsetDeg, "must be in [0, 360)")
	}
	if !c.Convention.Valid() {
		return conventions.NewConfigurationError("convention", int(c.Convention), "is not a known boundary convention")
	}
	if !c.IntervalConvention.Valid() {
		return conventions.NewConfigurationError("interval_convention", int(c.IntervalConvention), "is not a known interval convention")
	}
	if math.IsNaN(c.BoundaryThresholdDeg) || c.BoundaryThresholdDeg < 0 {
		return conventions.NewConfigurationError("boundary_threshold_deg", c.BoundaryThresholdDeg, "must be >= 0")
	}
	return nil
}

// lowerOrigin returns B0, the lower boundary of branch 0 before wrapping.
func (c Config) lowerOrigin() float64 {
	return c.ZiApexDeg - c.BranchWidthDeg/2.0
}
