package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

func TestMerge(t *testing.T) {
	base := fusion.DefaultConfig()

	t.Run("nil keeps base", func(t *testing.T) {
		got, err := Merge(base, nil)
		require.NoError(t, err)
		assert.Equal(t, base, got)

		got.Harmonics[0] = 99
		assert.Equal(t, 2, base.Harmonics[0])
	})

	t.Run("every field", func(t *testing.T) {
		got, err := Merge(base, &v1.ConfigOverrides{
			ZiApexDeg:               ptr(0.0),
			BranchWidthDeg:          ptr(15.0),
			PhiApexOffsetDeg:        ptr(7.5),
			Convention:              ptr("shift_longitudes"),
			IntervalConvention:      ptr("closed"),
			BoundaryThresholdDeg:    ptr(0.5),
			Harmonics:               []int{1},
			Kappa:                   ptr(2.0),
			Mode:                    ptr("hard_segment"),
			HarmonicPhaseConvention: ptr("raw"),
			EpsilonNorm:             ptr(1e-6),
			ReferenceBody:           ptr("Moon"),
		})
		require.NoError(t, err)

		assert.Equal(t, 0.0, got.Branch.ZiApexDeg)
		assert.Equal(t, 15.0, got.Branch.BranchWidthDeg)
		assert.Equal(t, 7.5, got.Branch.PhiApexOffsetDeg)
		assert.Equal(t, conventions.ShiftLongitudes, got.Branch.Convention)
		assert.Equal(t, conventions.Closed, got.Branch.IntervalConvention)
		assert.Equal(t, 0.5, got.Branch.BoundaryThresholdDeg)
		assert.Equal(t, []int{1}, got.Harmonics)
		assert.Equal(t, 2.0, got.Kappa)
		assert.Equal(t, conventions.HardSegment, got.Mode)
		assert.Equal(t, conventions.Raw, got.PhaseConvention)
		assert.Equal(t, 1e-6, got.Epsilon)
		assert.Equal(t, "Moon", got.ReferenceBody)
	})

	t.Run("bad enum names", func(t *testing.T) {
		for name, ov := range map[string]*v1.ConfigOverrides{
			"convention":          {Convention: ptr("x")},
			"interval_convention": {IntervalConvention: ptr("x")},
			"fusion_mode":         {Mode: ptr("x")},
			"phase_convention":    {HarmonicPhaseConvention: ptr("x")},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := Merge(base, ov)
				var cfgErr *conventions.ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, name, cfgErr.Field)
			})
		}
	})
}
