package phasor

import "fmt"

var labels = map[int]string{
	2:  "Opposition/Balance",
	3:  "Trine/Harmony",
	4:  "Square/Tension",
	6:  "Sextile/Opportunity",
	12: "Duodecim/Integration",
}

// Label returns the conventional name of harmonic order k.
func Label(k int) (string, bool) {
	l, ok := labels[k]
	return l, ok
}

// Thresholds bound the neutral band of an alignment score.
type Thresholds struct {
	Positive float64 `json:"positive" koanf:"positive"`
	Negative float64 `json:"negative" koanf:"negative"`
}

// DefaultThresholds returns ±0.6.
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0.6, Negative: -0.6}
}

// Interpret classifies alignment a of order k.
func Interpret(k int, a float64, th Thresholds) string {
	switch {
	case a >= th.Positive:
		return fmt.Sprintf("Strong constructive coupling (k=%d)", k)
	case a <= th.Negative:
		return fmt.Sprintf("Strong destructive coupling (k=%d)", k)
	default:
		return fmt.Sprintf("Neutral coupling (k=%d)", k)
	}
}
