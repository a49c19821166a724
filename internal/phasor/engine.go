package phasor

import (
	"math"
	"slices"
	"strings"

	"github.com/fyrsmithlabs/bazodiac/internal/angle"
	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
)

// Defaults for the phasor engine.
const (
	DefaultEpsilon = 1e-10
)

// DefaultOrders returns the default harmonic orders.
func DefaultOrders() []int {
	return []int{2, 3, 4, 6, 12}
}

// Contribution is one weighted phase entering a phasor sum.
type Contribution struct {
	Name     string
	PhaseDeg float64
	Weight   float64
}

// Engine computes HarmonicFeatures for a fixed set of orders.
//
// Engine is immutable and safe for concurrent use.
type Engine struct {
	orders []int
	eps    float64
}

// NewEngine validates orders and eps. Orders are stored sorted and
// de-duplicated.
func NewEngine(orders []int, eps float64) (*Engine, error) {
	if len(orders) == 0 {
		return nil, conventions.NewConfigurationError("harmonics_k", orders, "must not be empty")
	}
	for _, k := range orders {
		if k <= 0 {
			return nil, conventions.NewConfigurationError("harmonics_k", k, "must be > 0")
		}
	}
	if !angle.IsFinite(eps) || eps <= 0 {
		return nil, conventions.NewConfigurationError("epsilon_norm", eps, "must be > 0")
	}

	sorted := slices.Clone(orders)
	slices.Sort(sorted)
	return &Engine{orders: slices.Compact(sorted), eps: eps}, nil
}

// Orders returns a copy of the harmonic orders in ascending order.
func (e *Engine) Orders() []int {
	return slices.Clone(e.orders)
}

// Epsilon returns the degeneracy threshold.
func (e *Engine) Epsilon() float64 {
	return e.eps
}

// Compute returns one HarmonicFeatures per order, in ascending k.
//
// Pillar contributions enter R_k = Σ w·e^{i·k·θ}. Body contributions enter
// O_k = Σ v·e^{i·φ} at order 1 for every k. Both sums run in name order so
// the result does not depend on the caller's ordering.
func (e *Engine) Compute(pillars, bodies []Contribution) []HarmonicFeatures {
	ps := sortedByName(pillars)
	bs := sortedByName(bodies)

	var o Phasor
	for _, b := range bs {
		o = o.Add(Unit(b.PhaseDeg).Scale(b.Weight))
	}

	out := make([]HarmonicFeatures, 0, len(e.orders))
	for _, k := range e.orders {
		var r Phasor
		for _, p := range ps {
			r = r.Add(Unit(float64(k) * p.PhaseDeg).Scale(p.Weight))
		}
		out = append(out, NewHarmonicFeatures(k, r, o, e.eps))
	}
	return out
}

func sortedByName(cs []Contribution) []Contribution {
	out := slices.Clone(cs)
	slices.SortStableFunc(out, func(a, b Contribution) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// BodyPhase returns the phase of a longitude under the phase convention.
func BodyPhase(lon, offsetDeg float64, pc conventions.PhaseConvention) float64 {
	switch pc {
	case conventions.Raw:
		return angle.Wrap360(lon)
	case conventions.ApexShifted:
		return angle.Wrap360(lon - offsetDeg)
	default:
		return angle.Wrap360(lon - offsetDeg)
	}
}

// Dominant returns the order with the largest intensity. Ties go to the
// smallest k. It returns 0 for an empty slice.
func Dominant(features []HarmonicFeatures) int {
	return argmax(features, func(hf HarmonicFeatures) float64 { return hf.Intensity })
}

// Strongest returns the order with the largest |A_k|. Ties go to the
// smallest k. It returns 0 for an empty slice.
func Strongest(features []HarmonicFeatures) int {
	return argmax(features, func(hf HarmonicFeatures) float64 { return math.Abs(hf.Alignment) })
}

func argmax(features []HarmonicFeatures, score func(HarmonicFeatures) float64) int {
	bestK, best := 0, math.Inf(-1)
	for _, hf := range features {
		s := score(hf)
		if s > best || (s == best && hf.K < bestK) {
			bestK, best = hf.K, s
		}
	}
	return bestK
}

// AggregateAlignment returns the mean of |A_k|. It returns 0 for an empty
// slice.
func AggregateAlignment(features []HarmonicFeatures) float64 {
	if len(features) == 0 {
		return 0
	}
	var sum float64
	for _, hf := range features {
		sum += math.Abs(hf.Alignment)
	}
	return sum / float64(len(features))
}
