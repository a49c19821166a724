// Package branch maps continuous ecliptic longitudes onto the 12 discrete
// branch sectors.
//
// The sector origin is B0 = zi_apex_deg - branch_width_deg/2. Two boundary
// conventions are supported and kept exactly as specified:
//
//	SHIFT_BOUNDARIES: floor(wrap360(λ - B0) / width) mod 12
//	SHIFT_LONGITUDES: floor(wrap360(wrap360(λ-φ) - wrap360(B0-φ)) / width) mod 12
//
// A Mapper is immutable and safe for concurrent use.
package branch

import (
	"math"

	"github.com/fyrsmithlabs/bazodiac/internal/angle"
	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
)

// Result is a hard branch assignment with boundary diagnostics.
type Result struct {
	Index                 int     `json:"branch_index"`
	Name                  string  `json:"branch_name"`
	CenterDeg             float64 `json:"center_deg"`
	LowerDeg              float64 `json:"lower_bound_deg"`
	UpperDeg              float64 `json:"upper_bound_deg"`
	DistanceToBoundaryDeg float64 `json:"distance_to_boundary_deg"`
	// Unstable is advisory: the longitude sits within the configured
	// threshold of a sector edge.
	Unstable bool `json:"unstable"`
	// OnBoundary reports that an adjacent sector also contains the
	// longitude. It can only be set under the CLOSED interval convention.
	OnBoundary bool `json:"on_boundary"`
}

// Info describes one branch sector of a geometry.
type Info struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	CenterDeg    float64 `json:"center_deg"`
	LowerDeg     float64 `json:"lower_bound_deg"`
	UpperDeg     float64 `json:"upper_bound_deg"`
	HalfWidthDeg float64 `json:"half_width_deg"`
}

// Mapper assigns longitudes to branches under a validated Config.
type Mapper struct {
	cfg Config
	b0  float64
}

// NewMapper validates cfg and returns a Mapper.
func NewMapper(cfg Config) (*Mapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Mapper{cfg: cfg, b0: cfg.lowerOrigin()}, nil
}

// Config returns the configuration the mapper was built with.
func (m *Mapper) Config() Config {
	return m.cfg
}

// Index returns the branch index of lon under the configured convention.
// It is total over finite reals.
func (m *Mapper) Index(lon float64) int {
	return m.index(lon, m.cfg.Convention)
}

func (m *Mapper) index(lon float64, c conventions.BoundaryConvention) int {
	var shifted float64
	switch c {
	case conventions.ShiftLongitudes:
		phi := m.cfg.PhiApexOffsetDeg
		lambdaApex := angle.Wrap360(lon - phi)
		b0Apex := angle.Wrap360(m.b0 - phi)
		shifted = angle.Wrap360(lambdaApex - b0Apex)
	case conventions.ShiftBoundaries:
		shifted = angle.Wrap360(lon - m.b0)
	default:
		// Unreachable for a validated config.
		shifted = angle.Wrap360(lon - m.b0)
	}
	q := math.Floor(shifted / m.cfg.BranchWidthDeg)
	if !angle.IsFinite(q) {
		return 0
	}
	return Normalize(int(q))
}

// Bounds returns the wrapped lower and upper edges of branch i.
func (m *Mapper) Bounds(i int) (lower, upper float64) {
	i = Normalize(i)
	lower = angle.Wrap360(m.b0 + m.cfg.BranchWidthDeg*float64(i))
	upper = angle.Wrap360(lower + m.cfg.BranchWidthDeg)
	return lower, upper
}

// Center returns the center longitude of branch i.
func (m *Mapper) Center(i int) float64 {
	return angle.Wrap360(m.cfg.ZiApexDeg + m.cfg.BranchWidthDeg*float64(Normalize(i)))
}

// Centers returns all 12 branch centers.
func (m *Mapper) Centers() [Count]float64 {
	var out [Count]float64
	for i := range out {
		out[i] = m.Center(i)
	}
	return out
}

// Contains reports whether lon falls inside branch i under the configured
// interval convention. Sectors that straddle 0° (lower > upper) match
// x >= lower OR x < upper (<= for CLOSED).
func (m *Mapper) Contains(lon float64, i int) bool {
	x := angle.Wrap360(lon)
	lower, upper := m.Bounds(i)
	closed := m.cfg.IntervalConvention == conventions.Closed

	switch {
	case lower < upper:
		if closed {
			return x >= lower && x <= upper
		}
		return x >= lower && x < upper
	case lower > upper:
		if closed {
			return x >= lower || x <= upper
		}
		return x >= lower || x < upper
	default:
		// A sector as wide as the full circle.
		return true
	}
}

// Map assigns lon to a branch and computes boundary diagnostics.
func (m *Mapper) Map(lon float64) Result {
	idx := m.Index(lon)
	lower, upper := m.Bounds(idx)
	dist := math.Min(angle.DeltaDeg(lon, lower), angle.DeltaDeg(lon, upper))

	return Result{
		Index:                 idx,
		Name:                  Name(idx),
		CenterDeg:             m.Center(idx),
		LowerDeg:              lower,
		UpperDeg:              upper,
		DistanceToBoundaryDeg: dist,
		Unstable:              dist < m.cfg.BoundaryThresholdDeg,
		OnBoundary:            m.Contains(lon, idx-1) || m.Contains(lon, idx+1),
	}
}

// Table lists all 12 sectors of the geometry.
func (m *Mapper) Table() []Info {
	out := make([]Info, Count)
	for i := range out {
		lower, upper := m.Bounds(i)
		out[i] = Info{
			Index:        i,
			Name:         Name(i),
			CenterDeg:    m.Center(i),
			LowerDeg:     lower,
			UpperDeg:     upper,
			HalfWidthDeg: m.cfg.BranchWidthDeg / 2.0,
		}
	}
	return out
}
