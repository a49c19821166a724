package phasor

import (
	"fmt"
	"math"
)

// HarmonicFeatures holds the alignment features for one harmonic order k.
//
// Values are built only through NewHarmonicFeatures and are never modified
// afterwards.
type HarmonicFeatures struct {
	K          int     `json:"k"`
	R          Phasor  `json:"r_k"`
	O          Phasor  `json:"o_k"`
	MagnitudeR float64 `json:"magnitude_r"`
	MagnitudeO float64 `json:"magnitude_o"`
	Intensity  float64 `json:"i_k"`
	Cross      float64 `json:"x_k"`
	Alignment  float64 `json:"a_k"`
	Degenerate bool    `json:"degenerate"`
}

// NewHarmonicFeatures derives the features of order k from the two phasor
// sums. When either magnitude is below eps the pair is degenerate and both
// Cross and Alignment are exactly zero. Intensity is always |R+O|².
func NewHarmonicFeatures(k int, r, o Phasor, eps float64) HarmonicFeatures {
	hf := HarmonicFeatures{
		K:          k,
		R:          r,
		O:          o,
		MagnitudeR: r.Abs(),
		MagnitudeO: o.Abs(),
		Intensity:  r.Add(o).AbsSquared(),
	}

	if hf.MagnitudeR < eps || hf.MagnitudeO < eps {
		hf.Degenerate = true
		return hf
	}

	hf.Cross = r.Conj().Mul(o).Re
	hf.Alignment = clamp(hf.Cross/(hf.MagnitudeR*hf.MagnitudeO), -1, 1)
	return hf
}

// DegeneracyFlag returns the result flag for a degenerate order k.
func DegeneracyFlag(k int) string {
	return fmt.Sprintf("harmonic_%d_degenerate", k)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
