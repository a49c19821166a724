package fusion

import (
	"errors"
	"fmt"
	"math"

	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	"github.com/fyrsmithlabs/bazodiac/internal/kernel"
)

// WeightSumTolerance bounds how far normalized weights may drift from 1.
const WeightSumTolerance = 1e-6

// ValidateResult checks the numeric invariants of r and returns every
// violation joined, each wrapping ErrInvalidResult.
func ValidateResult(r *Result) error {
	if r == nil {
		return fmt.Errorf("%w: nil result", ErrInvalidResult)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidResult}, args...)...))
	}

	checkWeights := func(label string, w kernel.Weights) {
		if s := w.Sum(); math.Abs(s-1) > WeightSumTolerance {
			fail("%s weights sum to %v", label, s)
		}
	}

	checkWeights("branch", r.BranchWeights)
	for _, name := range sortedKeys(r.SoftWeights) {
		checkWeights("soft "+name, r.SoftWeights[name])
	}

	for _, name := range sortedKeys(r.HardMappings) {
		if idx := r.HardMappings[name].Index; !branch.ValidIndex(idx) {
			fail("body %q mapped to branch %d", name, idx)
		}
	}

	for _, set := range []struct {
		label  string
		phases map[string]float64
	}{{"pillar", r.PillarPhases}, {"body", r.BodyPhases}} {
		for _, name := range sortedKeys(set.phases) {
			if p := set.phases[name]; !(p >= 0 && p < 360) {
				fail("%s %q phase %v not in [0, 360)", set.label, name, p)
			}
		}
	}

	for _, hf := range r.Harmonics {
		switch {
		case hf.Degenerate && hf.Alignment != 0:
			fail("harmonic %d degenerate with alignment %v", hf.K, hf.Alignment)
		case !(hf.Alignment >= -1 && hf.Alignment <= 1):
			fail("harmonic %d alignment %v not in [-1, 1]", hf.K, hf.Alignment)
		}
	}

	if a := r.AggregateAlignment; !(a >= 0 && a <= 1) {
		fail("aggregate alignment %v not in [0, 1]", a)
	}

	return errors.Join(errs...)
}
