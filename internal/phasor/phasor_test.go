package phasor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
)

func TestPhasor_Arithmetic(t *testing.T) {
	p := Phasor{Re: 3, Im: 4}
	q := Phasor{Re: 1, Im: -2}

	assert.Equal(t, Phasor{Re: 4, Im: 2}, p.Add(q))
	assert.Equal(t, Phasor{Re: 6, Im: 8}, p.Scale(2))
	assert.Equal(t, Phasor{Re: 11, Im: -2}, p.Mul(q))
	assert.Equal(t, Phasor{Re: 3, Im: -4}, p.Conj())
	assert.InDelta(t, 5.0, p.Abs(), 1e-15)
	assert.InDelta(t, 25.0, p.AbsSquared(), 1e-15)
}

func TestUnit(t *testing.T) {
	tests := []struct {
		deg    float64
		re, im float64
	}{
		{0, 1, 0},
		{90, 0, 1},
		{180, -1, 0},
		{270, 0, -1},
		{-90, 0, -1},
	}
	for _, tt := range tests {
		u := Unit(tt.deg)
		assert.InDelta(t, tt.re, u.Re, 1e-12, "deg=%v", tt.deg)
		assert.InDelta(t, tt.im, u.Im, 1e-12, "deg=%v", tt.deg)
		assert.InDelta(t, 1.0, u.Abs(), 1e-12)
	}

	assert.InDelta(t, 135.0, Unit(135).ArgDeg(), 1e-9)
	assert.InDelta(t, 300.0, Unit(-60).ArgDeg(), 1e-9)
}

func TestNewHarmonicFeatures(t *testing.T) {
	tests := []struct {
		name       string
		r, o       Phasor
		alignment  float64
		cross      float64
		intensity  float64
		degenerate bool
	}{
		{"aligned", Phasor{1, 0}, Phasor{2, 0}, 1, 2, 9, false},
		{"opposed", Phasor{1, 0}, Phasor{-2, 0}, -1, -2, 1, false},
		{"orthogonal", Phasor{1, 0}, Phasor{0, 1}, 0, 0, 2, false},
		{"zero r", Phasor{}, Phasor{0, 1}, 0, 0, 1, true},
		{"tiny o", Phasor{1, 0}, Phasor{1e-12, 0}, 0, 0, 1.000000000002, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hf := NewHarmonicFeatures(3, tt.r, tt.o, DefaultEpsilon)
			assert.Equal(t, 3, hf.K)
			assert.Equal(t, tt.degenerate, hf.Degenerate)
			assert.InDelta(t, tt.alignment, hf.Alignment, 1e-12)
			assert.InDelta(t, tt.cross, hf.Cross, 1e-12)
			assert.InDelta(t, tt.intensity, hf.Intensity, 1e-9)
			if hf.Degenerate {
				assert.Equal(t, 0.0, hf.Alignment)
				assert.Equal(t, 0.0, hf.Cross)
			}
		})
	}
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil, DefaultEpsilon)
	assert.ErrorIs(t, err, conventions.ErrInvalidConfig)

	_, err = NewEngine([]int{2, 0}, DefaultEpsilon)
	assert.ErrorIs(t, err, conventions.ErrInvalidConfig)

	_, err = NewEngine([]int{2}, 0)
	assert.ErrorIs(t, err, conventions.ErrInvalidConfig)

	e, err := NewEngine([]int{12, 2, 4, 2, 3}, DefaultEpsilon)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4, 12}, e.Orders())
}

// pillar phases for year:0, month:5, day:9, hour:11 with Zi at 270°.
var fourPillars = []Contribution{
	{Name: "year", PhaseDeg: 270, Weight: 1},
	{Name: "month", PhaseDeg: 60, Weight: 1},
	{Name: "day", PhaseDeg: 180, Weight: 1},
	{Name: "hour", PhaseDeg: 240, Weight: 1},
}

func TestEngine_FourPillarScenario(t *testing.T) {
	e, err := NewEngine([]int{2, 3, 4}, DefaultEpsilon)
	require.NoError(t, err)

	bodies := []Contribution{
		{Name: "Sun", PhaseDeg: BodyPhase(275.0, 15, conventions.ApexShifted), Weight: 1},
		{Name: "Moon", PhaseDeg: BodyPhase(120.5, 15, conventions.ApexShifted), Weight: 1},
	}

	features := e.Compute(fourPillars, bodies)
	require.Len(t, features, 3)
	for i, hf := range features {
		assert.Equal(t, []int{2, 3, 4}[i], hf.K)
		assert.False(t, hf.Degenerate, "k=%d", hf.K)
		assert.GreaterOrEqual(t, hf.Alignment, -1.0)
		assert.LessOrEqual(t, hf.Alignment, 1.0)
		assert.InDelta(t, hf.R.Add(hf.O).AbsSquared(), hf.Intensity, 1e-12)
	}

	agg := AggregateAlignment(features)
	assert.GreaterOrEqual(t, agg, 0.0)
	assert.LessOrEqual(t, agg, 1.0)
}

func TestEngine_OrderIndependent(t *testing.T) {
	e, err := NewEngine(DefaultOrders(), DefaultEpsilon)
	require.NoError(t, err)

	bodies := []Contribution{
		{Name: "Sun", PhaseDeg: 260, Weight: 1},
		{Name: "Moon", PhaseDeg: 105.5, Weight: 0.7},
		{Name: "Mars", PhaseDeg: 33.3, Weight: 0.4},
	}
	reversed := []Contribution{bodies[2], bodies[1], bodies[0]}
	shuffled := []Contribution{fourPillars[2], fourPillars[0], fourPillars[3], fourPillars[1]}

	assert.Equal(t, e.Compute(fourPillars, bodies), e.Compute(shuffled, reversed))
}

func TestEngine_SinglePillarSingleBody(t *testing.T) {
	e, err := NewEngine(DefaultOrders(), DefaultEpsilon)
	require.NoError(t, err)

	features := e.Compute(
		[]Contribution{{Name: "hour", PhaseDeg: 270, Weight: 1}},
		[]Contribution{{Name: "Sun", PhaseDeg: BodyPhase(0, 15, conventions.ApexShifted), Weight: 1}},
	)
	require.Len(t, features, 5)
	for _, hf := range features {
		assert.False(t, hf.Degenerate)
		assert.InDelta(t, 1.0, hf.MagnitudeR, 1e-12)
		assert.InDelta(t, 1.0, hf.MagnitudeO, 1e-12)
		assert.False(t, math.IsNaN(hf.Alignment))
	}
}

func TestEngine_Degenerate(t *testing.T) {
	e, err := NewEngine([]int{1, 2}, DefaultEpsilon)
	require.NoError(t, err)

	// Opposite pillars cancel at k=1 and reinforce at k=2.
	pillars := []Contribution{
		{Name: "a", PhaseDeg: 270, Weight: 1},
		{Name: "b", PhaseDeg: 90, Weight: 1},
	}
	features := e.Compute(pillars, []Contribution{{Name: "Sun", PhaseDeg: 10, Weight: 1}})
	require.Len(t, features, 2)

	assert.True(t, features[0].Degenerate)
	assert.Equal(t, 0.0, features[0].Alignment)
	assert.Equal(t, 0.0, features[0].Cross)
	assert.False(t, features[1].Degenerate)

	empty := e.Compute(pillars, nil)
	for _, hf := range empty {
		assert.True(t, hf.Degenerate)
	}

	assert.Equal(t, "harmonic_1_degenerate", DegeneracyFlag(1))
}

func TestDominantAndStrongest(t *testing.T) {
	features := []HarmonicFeatures{
		{K: 2, Intensity: 3, Alignment: -0.9},
		{K: 3, Intensity: 5, Alignment: 0.2},
		{K: 4, Intensity: 5, Alignment: 0.9},
	}
	assert.Equal(t, 3, Dominant(features))
	assert.Equal(t, 2, Strongest(features))
	assert.InDelta(t, 2.0/3.0, AggregateAlignment(features), 1e-12)

	assert.Equal(t, 0, Dominant(nil))
	assert.Equal(t, 0.0, AggregateAlignment(nil))
}

func TestBodyPhase(t *testing.T) {
	assert.InDelta(t, 260.0, BodyPhase(275, 15, conventions.ApexShifted), 1e-12)
	assert.InDelta(t, 275.0, BodyPhase(275, 15, conventions.Raw), 1e-12)
	assert.InDelta(t, 345.0, BodyPhase(0, 15, conventions.ApexShifted), 1e-12)
}

func TestLabelsAndInterpret(t *testing.T) {
	l, ok := Label(4)
	require.True(t, ok)
	assert.Equal(t, "Square/Tension", l)

	_, ok = Label(5)
	assert.False(t, ok)

	th := DefaultThresholds()
	assert.Equal(t, "Strong constructive coupling (k=3)", Interpret(3, 0.6, th))
	assert.Equal(t, "Strong destructive coupling (k=2)", Interpret(2, -0.75, th))
	assert.Equal(t, "Neutral coupling (k=12)", Interpret(12, 0.1, th))
}
