package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	"github.com/fyrsmithlabs/bazodiac/internal/phasor"
	"github.com/fyrsmithlabs/bazodiac/internal/service"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// newTable returns a bordered table. Row highlight marks one data row.
func newTable(headers []string, rows [][]string, highlight int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == highlight:
				return highlightStyle
			default:
				return cellStyle
			}
		})
}

func deg(v float64) string {
	return strconv.FormatFloat(fusion.Round6(v), 'f', -1, 64) + "°"
}

func num(v float64) string {
	return strconv.FormatFloat(fusion.Round6(v), 'f', 6, 64)
}

func kv(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-20s", label)) + value
}

func renderMapping(m v1.BranchMapping) string {
	status := "stable"
	if m.Unstable {
		status = warningStyle.Render("unstable")
	}
	if m.OnBoundary {
		status += warningStyle.Render(", on boundary")
	}
	return strings.Join([]string{
		titleStyle.Render(fmt.Sprintf("%s → %s (%d)", deg(m.LongitudeDeg), m.Name, m.Index)),
		kv("center", deg(m.CenterDeg)),
		kv("sector", fmt.Sprintf("[%s, %s)", deg(m.LowerDeg), deg(m.UpperDeg))),
		kv("to boundary", deg(m.DistanceToBoundaryDeg)),
		kv("status", status),
	}, "\n")
}

func renderSoft(r service.SoftResult) string {
	argmax := r.Weights.Argmax()
	rows := make([][]string, 0, branch.Count)
	for i, w := range r.Weights {
		rows = append(rows, []string{strconv.Itoa(i), branch.Name(i), num(w)})
	}
	title := titleStyle.Render(fmt.Sprintf("Soft weights at %s, kappa %s", deg(r.LongitudeDeg), strconv.FormatFloat(r.Kappa, 'f', -1, 64)))
	return title + "\n" + newTable([]string{"#", "Branch", "Weight"}, rows, argmax).String()
}

func renderTable(t v1.BranchTable) string {
	rows := make([][]string, 0, len(t.Branches))
	for _, b := range t.Branches {
		rows = append(rows, []string{strconv.Itoa(b.Index), b.Name, deg(b.CenterDeg), deg(b.LowerDeg), deg(b.UpperDeg)})
	}
	return newTable([]string{"#", "Branch", "Center", "Lower", "Upper"}, rows, -1).String() +
		"\n" + dimStyle.Render("config "+t.Fingerprint)
}

func renderComparison(c v1.Comparison) string {
	rows := [][]string{
		{"SHIFT_BOUNDARIES", deg(c.LongitudeDeg), c.ShiftBoundaries},
		{"apex shifted", deg(c.ApexLongitudeDeg), c.ApexShifted},
		{"SHIFT_LONGITUDES", deg(c.ApexLongitudeDeg), c.ShiftLongitudes},
	}
	verdict := "conventions agree"
	if !c.Equivalent {
		verdict = warningStyle.Render("conventions disagree")
	}
	return newTable([]string{"Convention", "Longitude", "Branch"}, rows, -1).String() + "\n" + verdict
}

func renderFusion(r *fusion.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Fusion (%s)", r.Mode)) + "\n")
	b.WriteString(kv("config", r.Fingerprint) + "\n")
	b.WriteString(kv("total alignment", num(r.AggregateAlignment)) + "\n")
	if len(r.Harmonics) > 0 {
		b.WriteString(kv("dominant harmonic", strconv.Itoa(r.DominantHarmonic)) + "\n")
		b.WriteString(kv("strongest harmonic", strconv.Itoa(r.StrongestHarmonic)) + "\n")
	}
	if len(r.UnstableBodies) > 0 {
		b.WriteString(kv("unstable", warningStyle.Render(strings.Join(r.UnstableBodies, ", "))) + "\n")
	}
	if len(r.DegeneracyFlags) > 0 {
		b.WriteString(kv("degenerate", warningStyle.Render(strings.Join(r.DegeneracyFlags, ", "))) + "\n")
	}

	rows := make([][]string, 0, branch.Count)
	for i, w := range r.BranchWeights {
		rows = append(rows, []string{branch.Name(i), num(w)})
	}
	b.WriteString(newTable([]string{"Branch", "Weight"}, rows, r.BranchWeights.Argmax()).String())

	if len(r.Harmonics) > 0 {
		th := phasor.DefaultThresholds()
		hrows := make([][]string, 0, len(r.Harmonics))
		for _, hf := range r.Harmonics {
			reading := "degenerate"
			if !hf.Degenerate {
				reading = phasor.Interpret(hf.K, hf.Alignment, th)
			}
			hrows = append(hrows, []string{
				strconv.Itoa(hf.K), num(hf.MagnitudeR), num(hf.MagnitudeO),
				num(hf.Intensity), num(hf.Cross), num(hf.Alignment), reading,
			})
		}
		b.WriteString("\n" + newTable([]string{"k", "|R|", "|O|", "I", "X", "A", "Reading"}, hrows, -1).String())
	}

	if len(r.HardMappings) > 0 {
		names := make([]string, 0, len(r.HardMappings))
		for name := range r.HardMappings {
			names = append(names, name)
		}
		sort.Strings(names)
		mrows := make([][]string, 0, len(names))
		for _, name := range names {
			m := r.HardMappings[name]
			mrows = append(mrows, []string{name, m.Name, deg(m.DistanceToBoundaryDeg), strconv.FormatBool(m.Unstable)})
		}
		b.WriteString("\n" + newTable([]string{"Body", "Branch", "To boundary", "Unstable"}, mrows, -1).String())
	}
	return b.String()
}
