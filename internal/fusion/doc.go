// Package fusion combines branch pillars and ecliptic longitudes into one
// deterministic feature record.
//
// An Engine is built once from a validated Config and is a pure function
// afterwards:
//
//	eng, err := fusion.New(fusion.DefaultConfig())
//	if err != nil {
//		return err // *conventions.ConfigurationError
//	}
//	res, err := eng.Fuse(fusion.Input{
//		Pillars:   map[string]int{"year": 0, "month": 5, "day": 9, "hour": 11},
//		Positions: map[string]float64{"Sun": 275.0, "Moon": 120.5},
//	})
//
// Three modes are available. hard_segment assigns every body to a branch,
// soft_kernel spreads every body over the branches with a von Mises kernel,
// and harmonic_phasor measures how the pillar and body phase sets align per
// harmonic order. Every mode reports default branch weights and the phases
// it used.
//
// Document renders a Result with every float rounded to 6 decimals so it can
// be compared byte for byte.
package fusion
