// Package kernel implements von Mises soft weighting of a longitude across
// the 12 branch centers.
package kernel

import (
	"errors"
	"math"

	"github.com/fyrsmithlabs/bazodiac/internal/angle"
	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
)

// DefaultKappa is the default kernel concentration.
const DefaultKappa = 4.0

// ErrNilMapper is returned when a Kernel is built without a branch mapper.
var ErrNilMapper = errors.New("kernel: nil branch mapper")

// Weights holds one normalized weight per branch index.
type Weights [branch.Count]float64

// Uniform returns 1/12 for every branch.
func Uniform() Weights {
	var w Weights
	for i := range w {
		w[i] = 1.0 / branch.Count
	}
	return w
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Argmax returns the index of the largest weight. Ties go to the lowest index.
func (w Weights) Argmax() int {
	best := 0
	for i := 1; i < len(w); i++ {
		if w[i] > w[best] {
			best = i
		}
	}
	return best
}

// Map returns the weights keyed by branch index.
func (w Weights) Map() map[int]float64 {
	out := make(map[int]float64, len(w))
	for i, v := range w {
		out[i] = v
	}
	return out
}

// Named returns the weights keyed by branch name.
func (w Weights) Named() map[string]float64 {
	out := make(map[string]float64, len(w))
	for i, v := range w {
		out[branch.Name(i)] = v
	}
	return out
}

// Kernel spreads a longitude over the branch centers of a geometry.
//
// Kernel is immutable and safe for concurrent use.
type Kernel struct {
	kappa   float64
	centers [branch.Count]float64
}

// New returns a Kernel with concentration kappa over the centers of m.
func New(m *branch.Mapper, kappa float64) (*Kernel, error) {
	if m == nil {
		return nil, ErrNilMapper
	}
	if !angle.IsFinite(kappa) || kappa <= 0 {
		return nil, conventions.NewConfigurationError("kappa", kappa, "must be > 0")
	}
	return &Kernel{kappa: kappa, centers: m.Centers()}, nil
}

// Kappa returns the concentration parameter.
func (k *Kernel) Kappa() float64 {
	return k.kappa
}

// Weights returns exp(κ·cos(Δ_i)) normalized over the 12 centers, where Δ_i
// is the circular distance from lon to center i. Exponents are shifted by the
// largest cosine so the nearest center contributes exactly 1 and no term
// overflows for finite κ. A zero sum yields Uniform.
func (k *Kernel) Weights(lon float64) Weights {
	var cosines [branch.Count]float64
	peak := math.Inf(-1)
	for i, c := range k.centers {
		cosines[i] = math.Cos(angle.Radians(angle.DeltaDeg(lon, c)))
		peak = math.Max(peak, cosines[i])
	}

	var raw Weights
	var total float64
	for i, cs := range cosines {
		raw[i] = math.Exp(k.kappa * (cs - peak))
		total += raw[i]
	}

	if total == 0 {
		return Uniform()
	}

	for i := range raw {
		raw[i] /= total
	}
	return raw
}
