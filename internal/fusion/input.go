package fusion

import (
	"fmt"
	"sort"

	"github.com/fyrsmithlabs/bazodiac/internal/angle"
	"github.com/fyrsmithlabs/bazodiac/internal/branch"
)

// Input is the caller-supplied chart for one fusion run. Missing weights
// default to 1.
type Input struct {
	Pillars       map[string]int     `json:"pillars" yaml:"pillars" toml:"pillars"`
	PillarWeights map[string]float64 `json:"pillar_weights,omitempty" yaml:"pillar_weights,omitempty" toml:"pillar_weights,omitempty"`
	Positions     map[string]float64 `json:"positions" yaml:"positions" toml:"positions"`
	BodyWeights   map[string]float64 `json:"body_weights,omitempty" yaml:"body_weights,omitempty" toml:"body_weights,omitempty"`
}

// Validate reports the first malformed entry, in key order, wrapped in
// ErrInvalidInput.
func (in Input) Validate() error {
	for _, name := range sortedKeys(in.Pillars) {
		if idx := in.Pillars[name]; !branch.ValidIndex(idx) {
			return fmt.Errorf("%w: pillar %q index %d not in [0, 11]", ErrInvalidInput, name, idx)
		}
	}
	for _, name := range sortedKeys(in.Positions) {
		lon := in.Positions[name]
		if !angle.IsFinite(lon) || lon < 0 || lon >= 360 {
			return fmt.Errorf("%w: body %q longitude %v not in [0, 360)", ErrInvalidInput, name, lon)
		}
	}
	if err := validateWeights("pillar", in.PillarWeights); err != nil {
		return err
	}
	return validateWeights("body", in.BodyWeights)
}

func validateWeights(kind string, weights map[string]float64) error {
	for _, name := range sortedKeys(weights) {
		if w := weights[name]; !angle.IsFinite(w) {
			return fmt.Errorf("%w: %s %q weight %v is not finite", ErrInvalidInput, kind, name, w)
		}
	}
	return nil
}

func weightOf(weights map[string]float64, name string) float64 {
	if w, ok := weights[name]; ok {
		return w
	}
	return 1.0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
