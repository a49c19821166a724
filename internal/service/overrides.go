package service

import (
	"slices"

	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

// Merge applies the non-nil fields of ov over base. Enum names are parsed
// here; the merged config is validated when its engine is built.
func Merge(base fusion.Config, ov *v1.ConfigOverrides) (fusion.Config, error) {
	cfg := base
	cfg.Harmonics = slices.Clone(base.Harmonics)
	if ov == nil {
		return cfg, nil
	}

	setFloat(&cfg.Branch.ZiApexDeg, ov.ZiApexDeg)
	setFloat(&cfg.Branch.BranchWidthDeg, ov.BranchWidthDeg)
	setFloat(&cfg.Branch.PhiApexOffsetDeg, ov.PhiApexOffsetDeg)
	setFloat(&cfg.Branch.BoundaryThresholdDeg, ov.BoundaryThresholdDeg)
	setFloat(&cfg.Kappa, ov.Kappa)
	setFloat(&cfg.Epsilon, ov.EpsilonNorm)

	if ov.Convention != nil {
		c, err := conventions.ParseBoundaryConvention(*ov.Convention)
		if err != nil {
			return fusion.Config{}, err
		}
		cfg.Branch.Convention = c
	}
	if ov.IntervalConvention != nil {
		c, err := conventions.ParseIntervalConvention(*ov.IntervalConvention)
		if err != nil {
			return fusion.Config{}, err
		}
		cfg.Branch.IntervalConvention = c
	}
	if ov.Mode != nil {
		m, err := conventions.ParseFusionMode(*ov.Mode)
		if err != nil {
			return fusion.Config{}, err
		}
		cfg.Mode = m
	}
	if ov.HarmonicPhaseConvention != nil {
		p, err := conventions.ParsePhaseConvention(*ov.HarmonicPhaseConvention)
		if err != nil {
			return fusion.Config{}, err
		}
		cfg.PhaseConvention = p
	}
	if ov.Harmonics != nil {
		cfg.Harmonics = slices.Clone(ov.Harmonics)
	}
	if ov.ReferenceBody != nil {
		cfg.ReferenceBody = *ov.ReferenceBody
	}
	return cfg, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
