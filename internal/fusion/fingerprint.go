package fusion

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// fingerprintNamespace scopes config fingerprints.
var fingerprintNamespace = uuid.MustParse("6f1c2b9e-5d7a-4b8e-9a31-0c4f7d2e8b15")

// Fingerprint returns a name-based UUID identifying the configuration.
// Configs that differ only in harmonic order listing or duplicates share a
// fingerprint.
func (c Config) Fingerprint() uuid.UUID {
	return uuid.NewSHA1(fingerprintNamespace, []byte(c.canonical()))
}

// canonical renders the config as sorted key=value pairs joined by ';'.
func (c Config) canonical() string {
	n := c.normalized()

	orders := make([]string, len(n.Harmonics))
	for i, k := range n.Harmonics {
		orders[i] = strconv.Itoa(k)
	}

	kv := map[string]string{
		"branch.boundary_threshold_deg": formatFloat(n.Branch.BoundaryThresholdDeg),
		"branch.branch_width_deg":       formatFloat(n.Branch.BranchWidthDeg),
		"branch.convention":             n.Branch.Convention.String(),
		"branch.interval_convention":    n.Branch.IntervalConvention.String(),
		"branch.phi_apex_offset_deg":    formatFloat(n.Branch.PhiApexOffsetDeg),
		"branch.zi_apex_deg":            formatFloat(n.Branch.ZiApexDeg),
		"epsilon_norm":                  formatFloat(n.Epsilon),
		"fusion_mode":                   n.Mode.String(),
		"harmonic_phase_convention":     n.PhaseConvention.String(),
		"harmonics_k":                   strings.Join(orders, ","),
		"kappa":                         formatFloat(n.Kappa),
		"reference_body":                n.ReferenceBody,
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(kv[k])
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
