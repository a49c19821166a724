// Package angle provides canonical angle normalization and distance primitives.
//
// All angles are in degrees. Every other package in bazodiac reduces angles
// through these helpers so that phase values stay in [0, 360).
package angle

import "math"

// FullTurn is one revolution in degrees.
const FullTurn = 360.0

// Wrap360 reduces any real x to [0, 360).
//
// The result is never negative and never equal to 360: a remainder that
// rounds up to a full turn folds to 0.
func Wrap360(x float64) float64 {
	r := math.Mod(x, FullTurn)
	if r < 0 {
		r += FullTurn
	}
	if r >= FullTurn {
		r = 0
	}
	// Avoid -0 leaking into serialized phases.
	if r == 0 {
		return 0
	}
	return r
}

// Wrap180 reduces x to (-180, 180].
//
// Wrap360(x+180)-180 lands on -180 for odd multiples of 180; that single
// point is reported as +180 to keep the interval half-open on the left.
func Wrap180(x float64) float64 {
	r := Wrap360(x+180.0) - 180.0
	if r == -180.0 {
		return 180.0
	}
	return r
}

// DeltaDeg returns the absolute angular separation of a and b in [0, 180].
func DeltaDeg(a, b float64) float64 {
	d := math.Abs(Wrap360(a) - Wrap360(b))
	if d > 180.0 {
		d = FullTurn - d
	}
	return d
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
