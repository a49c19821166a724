// Package v1 holds the wire types of the bazodiac HTTP API.
//
// Request types carry validate tags checked with go-playground/validator.
// Longitudes are degrees in [0, 360); config overrides are optional and
// merge over the server defaults.
package v1

// ConfigOverrides replaces selected fusion defaults for one request.
// Nil fields keep the server default.
type ConfigOverrides struct {
	ZiApexDeg               *float64 `json:"zi_apex_deg,omitempty" yaml:"zi_apex_deg,omitempty" toml:"zi_apex_deg,omitempty" validate:"omitempty,gte=0,lt=360"`
	BranchWidthDeg          *float64 `json:"branch_width_deg,omitempty" yaml:"branch_width_deg,omitempty" toml:"branch_width_deg,omitempty" validate:"omitempty,gt=0"`
	PhiApexOffsetDeg        *float64 `json:"phi_apex_offset_deg,omitempty" yaml:"phi_apex_offset_deg,omitempty" toml:"phi_apex_offset_deg,omitempty" validate:"omitempty,gte=0,lt=360"`
	Convention              *string  `json:"convention,omitempty" yaml:"convention,omitempty" toml:"convention,omitempty"`
	IntervalConvention      *string  `json:"interval_convention,omitempty" yaml:"interval_convention,omitempty" toml:"interval_convention,omitempty"`
	BoundaryThresholdDeg    *float64 `json:"boundary_threshold_deg,omitempty" yaml:"boundary_threshold_deg,omitempty" toml:"boundary_threshold_deg,omitempty" validate:"omitempty,gte=0"`
	Harmonics               []int    `json:"harmonics_k,omitempty" yaml:"harmonics_k,omitempty" toml:"harmonics_k,omitempty" validate:"omitempty,max=64,dive,gt=0"`
	Kappa                   *float64 `json:"kappa,omitempty" yaml:"kappa,omitempty" toml:"kappa,omitempty" validate:"omitempty,gt=0"`
	Mode                    *string  `json:"fusion_mode,omitempty" yaml:"fusion_mode,omitempty" toml:"fusion_mode,omitempty"`
	HarmonicPhaseConvention *string  `json:"harmonic_phase_convention,omitempty" yaml:"harmonic_phase_convention,omitempty" toml:"harmonic_phase_convention,omitempty"`
	EpsilonNorm             *float64 `json:"epsilon_norm,omitempty" yaml:"epsilon_norm,omitempty" toml:"epsilon_norm,omitempty" validate:"omitempty,gt=0"`
	ReferenceBody           *string  `json:"reference_body,omitempty" yaml:"reference_body,omitempty" toml:"reference_body,omitempty" validate:"omitempty,min=1"`
}

// LongitudeRequest is the body of the branch map, soft and compare endpoints.
type LongitudeRequest struct {
	LongitudeDeg *float64         `json:"longitude_deg" validate:"required,gte=0,lt=360"`
	Config       *ConfigOverrides `json:"config,omitempty" validate:"omitempty"`
}

// BranchesRequest is the optional body of the branch table endpoint.
type BranchesRequest struct {
	Config *ConfigOverrides `json:"config,omitempty" validate:"omitempty"`
}

// BranchMapping is the hard mapping of one longitude.
type BranchMapping struct {
	LongitudeDeg          float64 `json:"longitude_deg"`
	Index                 int     `json:"index"`
	Name                  string  `json:"name"`
	CenterDeg             float64 `json:"center_deg"`
	LowerDeg              float64 `json:"lower_deg"`
	UpperDeg              float64 `json:"upper_deg"`
	DistanceToBoundaryDeg float64 `json:"distance_to_boundary_deg"`
	Unstable              bool    `json:"unstable"`
	OnBoundary            bool    `json:"on_boundary"`
}

// SoftWeights is the von Mises weight vector of one longitude, keyed by
// branch name.
type SoftWeights struct {
	LongitudeDeg float64            `json:"longitude_deg"`
	Kappa        float64            `json:"kappa"`
	Weights      map[string]float64 `json:"weights"`
	Argmax       string             `json:"argmax"`
}

// BranchInfo describes one sector of the configured geometry.
type BranchInfo struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	CenterDeg    float64 `json:"center_deg"`
	LowerDeg     float64 `json:"lower_deg"`
	UpperDeg     float64 `json:"upper_deg"`
	HalfWidthDeg float64 `json:"half_width_deg"`
}

// BranchTable lists all sectors with the fingerprint of their config.
type BranchTable struct {
	Fingerprint string       `json:"config_fingerprint"`
	Branches    []BranchInfo `json:"branches"`
}

// Comparison contrasts the boundary conventions at one longitude.
type Comparison struct {
	LongitudeDeg         float64 `json:"longitude_deg"`
	ApexLongitudeDeg     float64 `json:"apex_longitude_deg"`
	ShiftBoundaries      string  `json:"shift_boundaries"`
	ApexShifted          string  `json:"apex_shifted"`
	ShiftLongitudes      string  `json:"shift_longitudes"`
	ShiftBoundariesIndex int     `json:"shift_boundaries_index"`
	ApexShiftedIndex     int     `json:"apex_shifted_index"`
	ShiftLongitudesIndex int     `json:"shift_longitudes_index"`
	Equivalent           bool    `json:"equivalent"`
}

// FusionRequest is one chart to fuse.
type FusionRequest struct {
	Pillars       map[string]int     `json:"pillars" yaml:"pillars" toml:"pillars" validate:"required,min=1,dive,gte=0,lt=12"`
	PillarWeights map[string]float64 `json:"pillar_weights,omitempty" yaml:"pillar_weights,omitempty" toml:"pillar_weights,omitempty"`
	Positions     map[string]float64 `json:"positions" yaml:"positions" toml:"positions" validate:"required,min=1,dive,gte=0,lt=360"`
	BodyWeights   map[string]float64 `json:"body_weights,omitempty" yaml:"body_weights,omitempty" toml:"body_weights,omitempty"`
	Config        *ConfigOverrides   `json:"config,omitempty" yaml:"config,omitempty" toml:"config,omitempty" validate:"omitempty"`
}

// FusionResponse is the stable fusion document: every float rounded to six
// decimals, keys sorted on encode.
type FusionResponse map[string]any

// BatchRequest fuses several charts in one call.
type BatchRequest struct {
	Items []FusionRequest `json:"items" validate:"required,min=1,dive"`
}

// BatchItem is the outcome of one batch entry. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Index  int            `json:"index"`
	Result FusionResponse `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse preserves the order of BatchRequest.Items.
type BatchResponse struct {
	Items []BatchItem `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version,omitempty"`
	Fingerprint string `json:"config_fingerprint"`
	Telemetry   string `json:"telemetry,omitempty"`
}
