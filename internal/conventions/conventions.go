// Package conventions defines the closed, versioned convention vocabulary used
// by the branch mapper and the fusion engine, together with the configuration
// error they share.
//
// Each convention is a small integer enum with text (un)marshalling so it can
// travel through YAML, environment variables and JSON, while switch statements
// over it stay exhaustive.
package conventions

import "strings"

// BoundaryConvention selects how longitudes are assigned to branch sectors.
type BoundaryConvention int

const (
	// ShiftBoundaries divides wrap360(λ - B0) by the branch width.
	ShiftBoundaries BoundaryConvention = iota
	// ShiftLongitudes pre-shifts both λ and B0 by the apex offset.
	ShiftLongitudes
)

var boundaryNames = [...]string{
	ShiftBoundaries: "SHIFT_BOUNDARIES",
	ShiftLongitudes: "SHIFT_LONGITUDES",
}

// String returns the canonical upper-case name.
func (c BoundaryConvention) String() string {
	if c < 0 || int(c) >= len(boundaryNames) {
		return "UNKNOWN"
	}
	return boundaryNames[c]
}

// Valid reports whether c is a known convention.
func (c BoundaryConvention) Valid() bool {
	return c >= 0 && int(c) < len(boundaryNames)
}

// MarshalText implements encoding.TextMarshaler.
func (c BoundaryConvention) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, NewConfigurationError("convention", int(c), "is not a known boundary convention")
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *BoundaryConvention) UnmarshalText(text []byte) error {
	v, err := ParseBoundaryConvention(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseBoundaryConvention parses "SHIFT_BOUNDARIES" or "SHIFT_LONGITUDES" (case-insensitive).
func ParseBoundaryConvention(s string) (BoundaryConvention, error) {
	for i, name := range boundaryNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return BoundaryConvention(i), nil
		}
	}
	return 0, NewConfigurationError("convention", s, "must be SHIFT_BOUNDARIES or SHIFT_LONGITUDES")
}

// IntervalConvention selects whether a sector's upper bound is inclusive.
type IntervalConvention int

const (
	// HalfOpen treats sectors as [lower, upper).
	HalfOpen IntervalConvention = iota
	// Closed treats sectors as [lower, upper].
	Closed
)

var intervalNames = [...]string{
	HalfOpen: "HALF_OPEN",
	Closed:   "CLOSED",
}

// String returns the canonical upper-case name.
func (c IntervalConvention) String() string {
	if c < 0 || int(c) >= len(intervalNames) {
		return "UNKNOWN"
	}
	return intervalNames[c]
}

// Valid reports whether c is a known convention.
func (c IntervalConvention) Valid() bool {
	return c >= 0 && int(c) < len(intervalNames)
}

// MarshalText implements encoding.TextMarshaler.
func (c IntervalConvention) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, NewConfigurationError("interval_convention", int(c), "is not a known interval convention")
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *IntervalConvention) UnmarshalText(text []byte) error {
	v, err := ParseIntervalConvention(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseIntervalConvention parses "HALF_OPEN" or "CLOSED" (case-insensitive).
func ParseIntervalConvention(s string) (IntervalConvention, error) {
	for i, name := range intervalNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return IntervalConvention(i), nil
		}
	}
	return 0, NewConfigurationError("interval_convention", s, "must be HALF_OPEN or CLOSED")
}

// FusionMode selects which fusion operator the orchestrator applies.
type FusionMode int

const (
	// HarmonicPhasor fuses pillars and bodies through harmonic phasors.
	HarmonicPhasor FusionMode = iota
	// SoftKernel weights each body over all branches with a von Mises kernel.
	SoftKernel
	// HardSegment assigns each body to exactly one branch.
	HardSegment
)

var modeNames = [...]string{
	HarmonicPhasor: "harmonic_phasor",
	SoftKernel:     "soft_kernel",
	HardSegment:    "hard_segment",
}

// String returns the canonical lower-case name.
func (m FusionMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Valid reports whether m is a known mode.
func (m FusionMode) Valid() bool {
	return m >= 0 && int(m) < len(modeNames)
}

// MarshalText implements encoding.TextMarshaler.
func (m FusionMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, NewConfigurationError("fusion_mode", int(m), "is not a known fusion mode")
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FusionMode) UnmarshalText(text []byte) error {
	v, err := ParseFusionMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseFusionMode parses "hard_segment", "soft_kernel" or "harmonic_phasor" (case-insensitive).
func ParseFusionMode(s string) (FusionMode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return FusionMode(i), nil
		}
	}
	return 0, NewConfigurationError("fusion_mode", s, "must be hard_segment, soft_kernel or harmonic_phasor")
}

// PhaseConvention selects how body longitudes become harmonic phases.
type PhaseConvention int

const (
	// ApexShifted subtracts the apex offset from each longitude.
	ApexShifted PhaseConvention = iota
	// Raw uses the longitude as the phase.
	Raw
)

var phaseNames = [...]string{
	ApexShifted: "apex_shifted",
	Raw:         "raw",
}

// String returns the canonical lower-case name.
func (p PhaseConvention) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Valid reports whether p is a known convention.
func (p PhaseConvention) Valid() bool {
	return p >= 0 && int(p) < len(phaseNames)
}

// MarshalText implements encoding.TextMarshaler.
func (p PhaseConvention) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, NewConfigurationError("phase_convention", int(p), "is not a known phase convention")
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PhaseConvention) UnmarshalText(text []byte) error {
	v, err := ParsePhaseConvention(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePhaseConvention parses "raw" or "apex_shifted" (case-insensitive).
func ParsePhaseConvention(s string) (PhaseConvention, error) {
	for i, name := range phaseNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return PhaseConvention(i), nil
		}
	}
	return 0, NewConfigurationError("phase_convention", s, "must be raw or apex_shifted")
}
