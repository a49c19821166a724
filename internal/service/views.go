package service

import (
	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

// MappingView converts a hard mapping of lon to its wire form.
func MappingView(lon float64, r branch.Result) v1.BranchMapping {
	return v1.BranchMapping{
		LongitudeDeg:          lon,
		Index:                 r.Index,
		Name:                  r.Name,
		CenterDeg:             r.CenterDeg,
		LowerDeg:              r.LowerDeg,
		UpperDeg:              r.UpperDeg,
		DistanceToBoundaryDeg: r.DistanceToBoundaryDeg,
		Unstable:              r.Unstable,
		OnBoundary:            r.OnBoundary,
	}
}

// SoftView converts soft weights to their wire form, keyed by branch name.
func SoftView(r SoftResult) v1.SoftWeights {
	return v1.SoftWeights{
		LongitudeDeg: r.LongitudeDeg,
		Kappa:        r.Kappa,
		Weights:      r.Weights.Named(),
		Argmax:       branch.Name(r.Weights.Argmax()),
	}
}

// TableView converts a branch table to its wire form.
func TableView(t Table) v1.BranchTable {
	out := v1.BranchTable{Fingerprint: t.Fingerprint, Branches: make([]v1.BranchInfo, len(t.Branches))}
	for i, b := range t.Branches {
		out.Branches[i] = v1.BranchInfo{
			Index:        b.Index,
			Name:         b.Name,
			CenterDeg:    b.CenterDeg,
			LowerDeg:     b.LowerDeg,
			UpperDeg:     b.UpperDeg,
			HalfWidthDeg: b.HalfWidthDeg,
		}
	}
	return out
}

// ComparisonView converts a convention comparison to its wire form.
func ComparisonView(c branch.Comparison) v1.Comparison {
	return v1.Comparison{
		LongitudeDeg:         c.LongitudeDeg,
		ApexLongitudeDeg:     c.ApexLongitudeDeg,
		ShiftBoundaries:      branch.Name(c.ShiftBoundariesIndex),
		ApexShifted:          branch.Name(c.ApexShiftedIndex),
		ShiftLongitudes:      branch.Name(c.ShiftLongitudesIndex),
		ShiftBoundariesIndex: c.ShiftBoundariesIndex,
		ApexShiftedIndex:     c.ApexShiftedIndex,
		ShiftLongitudesIndex: c.ShiftLongitudesIndex,
		Equivalent:           c.Equivalent,
	}
}
