package fusion

import (
	"encoding/json"
	"math"

	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	"github.com/fyrsmithlabs/bazodiac/internal/kernel"
	"github.com/fyrsmithlabs/bazodiac/internal/phasor"
)

// Round6 rounds x to 6 decimals and folds negative zero to zero.
func Round6(x float64) float64 {
	r := math.Round(x*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

// Document renders r as a tree of maps and slices with every float passed
// through Round6. Map keys are emitted sorted by encoding/json.
func Document(r *Result) map[string]any {
	doc := map[string]any{
		"config":             configDocument(r.Config),
		"fingerprint":        r.Fingerprint,
		"fusion_mode":        r.Mode.String(),
		"branch_weights":     weightsDocument(r.BranchWeights),
		"total_alignment":    Round6(r.AggregateAlignment),
		"dominant_harmonic":  r.DominantHarmonic,
		"strongest_harmonic": r.StrongestHarmonic,
		"degeneracy_flags":   stringsOrEmpty(r.DegeneracyFlags),
		"unstable_bodies":    stringsOrEmpty(r.UnstableBodies),
		"provenance": map[string]any{
			"bazi_phases": roundedMap(r.PillarPhases),
			"west_phases": roundedMap(r.BodyPhases),
		},
	}

	if r.HardMappings != nil {
		hm := make(map[string]any, len(r.HardMappings))
		for name, m := range r.HardMappings {
			hm[name] = mappingDocument(m)
		}
		doc["hard_mappings"] = hm
	}

	if r.SoftWeights != nil {
		sw := make(map[string]any, len(r.SoftWeights))
		for name, w := range r.SoftWeights {
			sw[name] = weightsDocument(w)
		}
		doc["soft_weights"] = sw
	}

	if r.Harmonics != nil {
		hs := make([]any, 0, len(r.Harmonics))
		for _, hf := range r.Harmonics {
			hs = append(hs, harmonicDocument(hf))
		}
		doc["harmonics"] = hs
	}

	return doc
}

// MarshalDocument returns the indented JSON form of Document(r).
func MarshalDocument(r *Result) ([]byte, error) {
	return json.MarshalIndent(Document(r), "", "  ")
}

func configDocument(c Config) map[string]any {
	return map[string]any{
		"branch": map[string]any{
			"zi_apex_deg":            Round6(c.Branch.ZiApexDeg),
			"branch_width_deg":       Round6(c.Branch.BranchWidthDeg),
			"phi_apex_offset_deg":    Round6(c.Branch.PhiApexOffsetDeg),
			"convention":             c.Branch.Convention.String(),
			"interval_convention":    c.Branch.IntervalConvention.String(),
			"boundary_threshold_deg": Round6(c.Branch.BoundaryThresholdDeg),
		},
		"harmonics_k":               c.Harmonics,
		"kappa":                     Round6(c.Kappa),
		"fusion_mode":               c.Mode.String(),
		"harmonic_phase_convention": c.PhaseConvention.String(),
		"epsilon_norm":              c.Epsilon,
		"reference_body":            c.ReferenceBody,
	}
}

func harmonicDocument(hf phasor.HarmonicFeatures) map[string]any {
	doc := map[string]any{
		"k":           hf.K,
		"r_k":         phasorDocument(hf.R),
		"o_k":         phasorDocument(hf.O),
		"magnitude_r": Round6(hf.MagnitudeR),
		"magnitude_o": Round6(hf.MagnitudeO),
		"i_k":         Round6(hf.Intensity),
		"x_k":         Round6(hf.Cross),
		"a_k":         Round6(hf.Alignment),
		"degenerate":  hf.Degenerate,
	}
	if label, ok := phasor.Label(hf.K); ok {
		doc["label"] = label
	}
	return doc
}

func phasorDocument(p phasor.Phasor) map[string]any {
	return map[string]any{"re": Round6(p.Re), "im": Round6(p.Im)}
}

func mappingDocument(m branch.Result) map[string]any {
	return map[string]any{
		"branch_index":             m.Index,
		"branch_name":              m.Name,
		"center_deg":               Round6(m.CenterDeg),
		"lower_bound_deg":          Round6(m.LowerDeg),
		"upper_bound_deg":          Round6(m.UpperDeg),
		"distance_to_boundary_deg": Round6(m.DistanceToBoundaryDeg),
		"unstable":                 m.Unstable,
	}
}

// weightsDocument keys weights by branch name.
func weightsDocument(w kernel.Weights) map[string]any {
	out := make(map[string]any, branch.Count)
	for i, v := range w {
		out[branch.Name(i)] = Round6(v)
	}
	return out
}

func roundedMap(m map[string]float64) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Round6(v)
	}
	return out
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
