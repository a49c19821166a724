package branch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
)

func newDefaultMapper(t *testing.T) *Mapper {
	t.Helper()
	m, err := NewMapper(DefaultConfig())
	require.NoError(t, err)
	return m
}

func TestNewMapper_InvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"apex negative", func(c *Config) { c.ZiApexDeg = -1 }, "zi_apex_deg"},
		{"apex 360", func(c *Config) { c.ZiApexDeg = 360 }, "zi_apex_deg"},
		{"width zero", func(c *Config) { c.BranchWidthDeg = 0 }, "branch_width_deg"},
		{"width negative", func(c *Config) { c.BranchWidthDeg = -30 }, "branch_width_deg"},
		{"offset out of range", func(c *Config) { c.PhiApexOffsetDeg = 400 }, "phi_apex_offset_deg"},
		{"unknown convention", func(c *Config) { c.Convention = conventions.BoundaryConvention(9) }, "convention"},
		{"unknown interval", func(c *Config) { c.IntervalConvention = conventions.IntervalConvention(7) }, "interval_convention"},
		{"negative threshold", func(c *Config) { c.BoundaryThresholdDeg = -0.5 }, "boundary_threshold_deg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)

			m, err := NewMapper(cfg)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, conventions.ErrInvalidConfig))

			var cerr *conventions.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestMapper_Index_Scenarios(t *testing.T) {
	m := newDefaultMapper(t)

	tests := []struct {
		lon  float64
		want int
		name string
	}{
		{275.0, 0, "Zi"},
		{285.0, 1, "Chou"},
		{284.999, 0, "Zi"},
		{254.999, 11, "Hai"},
		{255.0, 0, "Zi"},
		{270.0, 0, "Zi"},
		{15.0, 4, "Chen"},
		{0.0, 3, "Mao"},
		{359.999, 3, "Mao"},
		{90.0, 6, "Wu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Map(tt.lon)
			assert.Equal(t, tt.want, got.Index, "lon=%v", tt.lon)
			assert.Equal(t, tt.name, got.Name)
		})
	}
}

func TestMapper_Index_Totality(t *testing.T) {
	m := newDefaultMapper(t)

	for _, lon := range []float64{-1e6, -720.25, -0.0001, 0, 359.9999999, 360, 1e9} {
		idx := m.Index(lon)
		assert.True(t, ValidIndex(idx), "lon=%v idx=%d", lon, idx)
	}
}

func TestMapper_OneTransitionPerWidth(t *testing.T) {
	for _, conv := range []conventions.BoundaryConvention{conventions.ShiftBoundaries, conventions.ShiftLongitudes} {
		t.Run(conv.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Convention = conv
			m, err := NewMapper(cfg)
			require.NoError(t, err)

			// Sweep one full turn in 0.01° steps starting at 0.005 so no
			// sample lands exactly on an edge.
			prev := m.Index(0.005)
			var transitions []float64
			for i := 1; i <= 36000; i++ {
				lon := 0.005 + float64(i)/100.0
				idx := m.Index(lon)
				if idx != prev {
					assert.Equal(t, Normalize(prev+1), idx, "branches advance by one at lon=%v", lon)
					transitions = append(transitions, lon)
				}
				prev = idx
			}

			require.Len(t, transitions, Count)
			for i := 1; i < len(transitions); i++ {
				assert.InDelta(t, cfg.BranchWidthDeg, transitions[i]-transitions[i-1], 1e-6)
			}
		})
	}
}

func TestMapper_Bounds(t *testing.T) {
	m := newDefaultMapper(t)

	lower, upper := m.Bounds(0)
	assert.InDelta(t, 255.0, lower, 1e-12)
	assert.InDelta(t, 285.0, upper, 1e-12)

	// Mao straddles 0°.
	lower, upper = m.Bounds(3)
	assert.InDelta(t, 345.0, lower, 1e-12)
	assert.InDelta(t, 15.0, upper, 1e-12)

	assert.InDelta(t, 270.0, m.Center(0), 1e-12)
	assert.InDelta(t, 0.0, m.Center(3), 1e-12)
	assert.InDelta(t, 240.0, m.Center(11), 1e-12)
	assert.InDelta(t, 270.0, m.Center(12), 1e-12)
}

func TestMapper_Contains(t *testing.T) {
	tests := []struct {
		name     string
		interval conventions.IntervalConvention
		lon      float64
		branch   int
		want     bool
	}{
		{"half open includes lower", conventions.HalfOpen, 255, 0, true},
		{"half open excludes upper", conventions.HalfOpen, 285, 0, false},
		{"closed includes upper", conventions.Closed, 285, 0, true},
		{"interior", conventions.HalfOpen, 270, 0, true},
		{"outside", conventions.HalfOpen, 100, 0, false},
		{"wrap high side", conventions.HalfOpen, 350, 3, true},
		{"wrap low side", conventions.HalfOpen, 10, 3, true},
		{"wrap exactly zero", conventions.HalfOpen, 0, 3, true},
		{"wrap upper half open", conventions.HalfOpen, 15, 3, false},
		{"wrap upper closed", conventions.Closed, 15, 3, true},
		{"wrap outside", conventions.Closed, 200, 3, false},
		{"negative longitude wraps", conventions.HalfOpen, -5, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.IntervalConvention = tt.interval
			m, err := NewMapper(cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.want, m.Contains(tt.lon, tt.branch))
		})
	}
}

func TestMapper_ContainsAgreesWithIndex(t *testing.T) {
	m := newDefaultMapper(t)

	for i := 0; i < 720; i++ {
		lon := float64(i)/2.0 + 0.25
		idx := m.Index(lon)
		assert.True(t, m.Contains(lon, idx), "lon=%v idx=%d", lon, idx)
	}
}

func TestMapper_Map_OnBoundary(t *testing.T) {
	tests := []struct {
		name     string
		interval conventions.IntervalConvention
		lon      float64
		want     bool
	}{
		{"half open lower edge", conventions.HalfOpen, 255, false},
		{"half open upper edge", conventions.HalfOpen, 285, false},
		{"closed lower edge", conventions.Closed, 255, true},
		{"closed upper edge", conventions.Closed, 285, true},
		{"closed edge across zero", conventions.Closed, 15, true},
		{"closed interior", conventions.Closed, 270, false},
		{"closed near edge", conventions.Closed, 284.95, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.IntervalConvention = tt.interval
			m, err := NewMapper(cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.want, m.Map(tt.lon).OnBoundary)
		})
	}
}

func TestMapper_Map_Instability(t *testing.T) {
	m := newDefaultMapper(t)

	near := m.Map(284.95)
	assert.Equal(t, 0, near.Index)
	assert.InDelta(t, 0.05, near.DistanceToBoundaryDeg, 1e-9)
	assert.True(t, near.Unstable)

	far := m.Map(270.0)
	assert.InDelta(t, 15.0, far.DistanceToBoundaryDeg, 1e-9)
	assert.False(t, far.Unstable)
	assert.InDelta(t, 270.0, far.CenterDeg, 1e-12)
	assert.InDelta(t, 255.0, far.LowerDeg, 1e-12)
	assert.InDelta(t, 285.0, far.UpperDeg, 1e-12)

	cfg := DefaultConfig()
	cfg.BoundaryThresholdDeg = 0
	strict, err := NewMapper(cfg)
	require.NoError(t, err)
	assert.False(t, strict.Map(255.0).Unstable)
}

func TestMapper_Table(t *testing.T) {
	m := newDefaultMapper(t)

	table := m.Table()
	require.Len(t, table, Count)
	for i, info := range table {
		assert.Equal(t, i, info.Index)
		assert.Equal(t, Name(i), info.Name)
		assert.InDelta(t, 15.0, info.HalfWidthDeg, 1e-12)
		assert.Equal(t, i, m.Index(info.CenterDeg), "center of %s maps to itself", info.Name)
	}
}

func TestMapper_CustomGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ZiApexDeg = 0
	m, err := NewMapper(cfg)
	require.NoError(t, err)

	assert.Equal(t, 0, m.Index(0))
	assert.Equal(t, 0, m.Index(359))
	assert.Equal(t, 11, m.Index(344.9))
	assert.Equal(t, 1, m.Index(15))
}

func TestMapper_CompareConventions(t *testing.T) {
	m := newDefaultMapper(t)

	t.Run("disagree away from boundary", func(t *testing.T) {
		c := m.CompareConventions(260.0)
		assert.InDelta(t, 245.0, c.ApexLongitudeDeg, 1e-12)
		assert.Equal(t, 0, c.ShiftBoundariesIndex)
		assert.Equal(t, 11, c.ApexShiftedIndex)
		assert.False(t, c.Equivalent)
	})

	t.Run("agree deep inside a sector", func(t *testing.T) {
		c := m.CompareConventions(280.0)
		assert.Equal(t, 0, c.ShiftBoundariesIndex)
		assert.Equal(t, 0, c.ApexShiftedIndex)
		assert.True(t, c.Equivalent)
	})

	t.Run("literal shift longitudes index", func(t *testing.T) {
		tests := []struct {
			lon  float64
			want int
		}{
			{285, 1},
			{284.999, 0},
			{255, 0},
			{254.999, 11},
			{0, 3},
		}
		for _, tt := range tests {
			c := m.CompareConventions(tt.lon)
			assert.Equal(t, tt.want, c.ShiftLongitudesIndex, "lon=%v", tt.lon)
		}
	})
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Zi", Name(0))
	assert.Equal(t, "Hai", Name(11))
	assert.Equal(t, "Hai", Name(-1))
	assert.Equal(t, "Chou", Name(13))

	idx, ok := Index(" wu ")
	require.True(t, ok)
	assert.Equal(t, 6, idx)

	_, ok = Index("Rat")
	assert.False(t, ok)

	all := Names()
	assert.Equal(t, "You", all[9])
}
