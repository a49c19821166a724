package branch

import (
	"github.com/fyrsmithlabs/bazodiac/internal/angle"
	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
)

// Comparison contrasts the two boundary conventions for one longitude.
//
// ApexShiftedIndex maps the apex-shifted longitude wrap360(λ - φ) through the
// SHIFT_BOUNDARIES formula; this is the reading under which the conventions
// are expected to disagree away from sector edges. ShiftLongitudesIndex is the
// literal SHIFT_LONGITUDES formula, reported unchanged for reference.
type Comparison struct {
	LongitudeDeg         float64 `json:"longitude_deg"`
	ApexLongitudeDeg     float64 `json:"lambda_apex_deg"`
	ShiftBoundariesIndex int     `json:"shift_boundaries_branch"`
	ApexShiftedIndex     int     `json:"apex_shifted_branch"`
	ShiftLongitudesIndex int     `json:"shift_longitudes_branch"`
	Equivalent           bool    `json:"equivalent"`
}

// CompareConventions evaluates both boundary conventions for lon.
func (m *Mapper) CompareConventions(lon float64) Comparison {
	apex := angle.Wrap360(lon - m.cfg.PhiApexOffsetDeg)
	sb := m.index(lon, conventions.ShiftBoundaries)
	shifted := m.index(apex, conventions.ShiftBoundaries)

	return Comparison{
		LongitudeDeg:         lon,
		ApexLongitudeDeg:     apex,
		ShiftBoundariesIndex: sb,
		ApexShiftedIndex:     shifted,
		ShiftLongitudesIndex: m.index(lon, conventions.ShiftLongitudes),
		Equivalent:           sb == shifted,
	}
}
