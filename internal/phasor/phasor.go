// Package phasor computes harmonic phasor alignment between two sets of
// weighted phases.
package phasor

import (
	"math"

	"github.com/fyrsmithlabs/bazodiac/internal/angle"
)

// Phasor is a complex number kept as two explicit components.
type Phasor struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// Unit returns e^{i·deg} for an angle in degrees.
func Unit(deg float64) Phasor {
	s, c := math.Sincos(angle.Radians(deg))
	return Phasor{Re: c, Im: s}
}

// Add returns p + q.
func (p Phasor) Add(q Phasor) Phasor {
	return Phasor{Re: p.Re + q.Re, Im: p.Im + q.Im}
}

// Scale returns s·p.
func (p Phasor) Scale(s float64) Phasor {
	return Phasor{Re: s * p.Re, Im: s * p.Im}
}

// Mul returns p·q.
func (p Phasor) Mul(q Phasor) Phasor {
	return Phasor{
		Re: p.Re*q.Re - p.Im*q.Im,
		Im: p.Re*q.Im + p.Im*q.Re,
	}
}

// Conj returns the complex conjugate.
func (p Phasor) Conj() Phasor {
	return Phasor{Re: p.Re, Im: -p.Im}
}

// Abs returns |p|.
func (p Phasor) Abs() float64 {
	return math.Hypot(p.Re, p.Im)
}

// AbsSquared returns |p|².
func (p Phasor) AbsSquared() float64 {
	return p.Re*p.Re + p.Im*p.Im
}

// ArgDeg returns the phase angle of p in [0, 360).
func (p Phasor) ArgDeg() float64 {
	return angle.Wrap360(angle.Degrees(math.Atan2(p.Im, p.Re)))
}
