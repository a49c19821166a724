package fusion

import (
	"slices"
	"strings"

	"github.com/fyrsmithlabs/bazodiac/internal/angle"
	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
	"github.com/fyrsmithlabs/bazodiac/internal/kernel"
	"github.com/fyrsmithlabs/bazodiac/internal/phasor"
)

// DefaultReferenceBody is the body whose soft weights become the result's
// default branch weights.
const DefaultReferenceBody = "Sun"

// Config holds every parameter of a fusion run.
type Config struct {
	Branch          branch.Config               `json:"branch" koanf:"branch"`
	Harmonics       []int                       `json:"harmonics_k" koanf:"harmonics_k"`
	Kappa           float64                     `json:"kappa" koanf:"kappa"`
	Mode            conventions.FusionMode      `json:"fusion_mode" koanf:"fusion_mode"`
	PhaseConvention conventions.PhaseConvention `json:"harmonic_phase_convention" koanf:"harmonic_phase_convention"`
	Epsilon         float64                     `json:"epsilon_norm" koanf:"epsilon_norm"`
	ReferenceBody   string                      `json:"reference_body" koanf:"reference_body"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Branch:          branch.DefaultConfig(),
		Harmonics:       phasor.DefaultOrders(),
		Kappa:           kernel.DefaultKappa,
		Mode:            conventions.HarmonicPhasor,
		PhaseConvention: conventions.ApexShifted,
		Epsilon:         phasor.DefaultEpsilon,
		ReferenceBody:   DefaultReferenceBody,
	}
}

// Validate returns a *conventions.ConfigurationError for the first invalid
// field.
func (c Config) Validate() error {
	if err := c.Branch.Validate(); err != nil {
		return err
	}
	if len(c.Harmonics) == 0 {
		return conventions.NewConfigurationError("harmonics_k", c.Harmonics, "must not be empty")
	}
	for _, k := range c.Harmonics {
		if k <= 0 {
			return conventions.NewConfigurationError("harmonics_k", k, "must be > 0")
		}
	}
	if !angle.IsFinite(c.Kappa) || c.Kappa <= 0 {
		return conventions.NewConfigurationError("kappa", c.Kappa, "must be > 0")
	}
	if !c.Mode.Valid() {
		return conventions.NewConfigurationError("fusion_mode", int(c.Mode), "is not a known fusion mode")
	}
	if !c.PhaseConvention.Valid() {
		return conventions.NewConfigurationError("harmonic_phase_convention", int(c.PhaseConvention), "is not a known phase convention")
	}
	if !angle.IsFinite(c.Epsilon) || c.Epsilon <= 0 {
		return conventions.NewConfigurationError("epsilon_norm", c.Epsilon, "must be > 0")
	}
	if strings.TrimSpace(c.ReferenceBody) == "" {
		return conventions.NewConfigurationError("reference_body", c.ReferenceBody, "must not be empty")
	}
	return nil
}

// normalized returns a copy with harmonic orders sorted and de-duplicated.
func (c Config) normalized() Config {
	h := slices.Clone(c.Harmonics)
	slices.Sort(h)
	c.Harmonics = slices.Compact(h)
	return c
}
