package fusion

import (
	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
	"github.com/fyrsmithlabs/bazodiac/internal/kernel"
	"github.com/fyrsmithlabs/bazodiac/internal/phasor"
)

// Result is the output of one fusion run. Only the fields of the selected
// mode are populated; branch weights and phases are always present.
type Result struct {
	Config      Config                 `json:"config"`
	Fingerprint string                 `json:"fingerprint"`
	Mode        conventions.FusionMode `json:"fusion_mode"`

	// hard_segment
	HardMappings map[string]branch.Result `json:"hard_mappings,omitempty"`

	// soft_kernel
	SoftWeights map[string]kernel.Weights `json:"soft_weights,omitempty"`

	// harmonic_phasor
	Harmonics          []phasor.HarmonicFeatures `json:"harmonics,omitempty"`
	AggregateAlignment float64                   `json:"total_alignment"`
	DominantHarmonic   int                       `json:"dominant_harmonic"`
	StrongestHarmonic  int                       `json:"strongest_harmonic"`
	DegeneracyFlags    []string                  `json:"degeneracy_flags,omitempty"`

	BranchWeights  kernel.Weights     `json:"branch_weights"`
	UnstableBodies []string           `json:"unstable_bodies,omitempty"`
	PillarPhases   map[string]float64 `json:"bazi_phases"`
	BodyPhases     map[string]float64 `json:"west_phases"`
}

// Harmonic returns the features of order k.
func (r *Result) Harmonic(k int) (phasor.HarmonicFeatures, bool) {
	for _, hf := range r.Harmonics {
		if hf.K == k {
			return hf, true
		}
	}
	return phasor.HarmonicFeatures{}, false
}
