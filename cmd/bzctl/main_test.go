package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

// execute runs bzctl with args against an empty HOME.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const chartYAML = `pillars: {year: 0, month: 5, day: 9, hour: 11}
positions: {Sun: 275, Moon: 120.5, Mars: 284.95}
`

const chartTOML = `[pillars]
year = 0
month = 5
day = 9
hour = 11

[positions]
Sun = 275.0
Moon = 120.5
Mars = 284.95
`

const chartJSON = `{"pillars":{"year":0,"month":5,"day":9,"hour":11},"positions":{"Sun":275,"Moon":120.5,"Mars":284.95}}`

func writeChart(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestMapCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     string
		unstable bool
	}{
		{name: "zi", args: []string{"map", "275", "--json"}, want: "Zi"},
		{name: "boundary", args: []string{"map", "284.95", "--json"}, want: "Zi", unstable: true},
		{name: "negative wraps", args: []string{"map", "--json", "--", "-85"}, want: "Zi"},
		{name: "zi apex override", args: []string{"map", "0", "--zi-apex", "0", "--json"}, want: "Zi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			require.NoError(t, err, out)

			var m v1.BranchMapping
			require.NoError(t, json.Unmarshal([]byte(out), &m))
			assert.Equal(t, tt.want, m.Name)
			assert.Equal(t, tt.unstable, m.Unstable)
		})
	}
}

func TestMapCommand_Table(t *testing.T) {
	out, err := execute(t, "", "map", "275")
	require.NoError(t, err)
	assert.Contains(t, out, "Zi (0)")
	assert.Contains(t, out, "stable")

	out, err = execute(t, "", "map", "255", "--interval", "CLOSED")
	require.NoError(t, err)
	assert.Contains(t, out, "on boundary")
}

func TestMapCommand_Errors(t *testing.T) {
	_, err := execute(t, "", "map", "north")
	assert.ErrorContains(t, err, "invalid longitude")

	_, err = execute(t, "", "map", "10", "--mode", "nearest")
	assert.ErrorContains(t, err, "fusion_mode")

	_, err = execute(t, "", "map")
	assert.Error(t, err)
}

func TestSoftCommand(t *testing.T) {
	out, err := execute(t, "", "soft", "270", "--kappa", "8", "--json")
	require.NoError(t, err)

	var sw v1.SoftWeights
	require.NoError(t, json.Unmarshal([]byte(out), &sw))
	assert.Equal(t, "Zi", sw.Argmax)
	assert.Equal(t, 8.0, sw.Kappa)
	assert.Len(t, sw.Weights, 12)

	out, err = execute(t, "", "soft", "270")
	require.NoError(t, err)
	assert.Contains(t, out, "Weight")
	assert.Contains(t, out, "Hai")
}

func TestBranchesCommand(t *testing.T) {
	out, err := execute(t, "", "branches", "--json")
	require.NoError(t, err)

	var table v1.BranchTable
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	require.Len(t, table.Branches, 12)
	assert.Equal(t, "1f025f00-53ec-5602-9e6a-c236ec3235f5", table.Fingerprint)

	out, err = execute(t, "", "branches")
	require.NoError(t, err)
	assert.Contains(t, out, "1f025f00-53ec-5602-9e6a-c236ec3235f5")
	assert.Contains(t, out, "Center")
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "", "compare", "260", "--json")
	require.NoError(t, err)

	var c v1.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "Zi", c.ShiftBoundaries)
	assert.Equal(t, "Hai", c.ApexShifted)
	assert.False(t, c.Equivalent)

	out, err = execute(t, "", "compare", "260")
	require.NoError(t, err)
	assert.Contains(t, out, "conventions disagree")
}

func TestFuseCommand_Formats(t *testing.T) {
	raw, err := os.ReadFile("../../internal/fusion/testdata/harmonic_phasor.golden.json")
	require.NoError(t, err)
	var want map[string]any
	require.NoError(t, json.Unmarshal(raw, &want))

	tests := []struct {
		name  string
		file  string
		chart string
	}{
		{"yaml", "chart.yaml", chartYAML},
		{"yml", "chart.yml", chartYAML},
		{"toml", "chart.toml", chartTOML},
		{"json", "chart.json", chartJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeChart(t, tt.file, tt.chart)
			out, err := execute(t, "", "fuse", "--input", path, "--json")
			require.NoError(t, err, out)

			var got map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("fusion document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFuseCommand_Stdin(t *testing.T) {
	out, err := execute(t, chartJSON, "fuse", "--input", "-", "--mode", "hard_segment", "--json")
	require.NoError(t, err, out)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "hard_segment", got["fusion_mode"])
	assert.Contains(t, got, "hard_mappings")
}

func TestFuseCommand_FileConfigAndFlags(t *testing.T) {
	chart := chartYAML + "config:\n  fusion_mode: soft_kernel\n  kappa: 2\n"
	path := writeChart(t, "chart.yaml", chart)

	out, err := execute(t, "", "fuse", "-i", path, "--json")
	require.NoError(t, err, out)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "soft_kernel", got["fusion_mode"])

	out, err = execute(t, "", "fuse", "-i", path, "--kappa", "6", "--json")
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	cfg := got["config"].(map[string]any)
	assert.Equal(t, 6.0, cfg["kappa"])
	assert.Equal(t, "soft_kernel", cfg["fusion_mode"])
}

func TestFuseCommand_Table(t *testing.T) {
	path := writeChart(t, "chart.yaml", chartYAML)
	out, err := execute(t, "", "fuse", "-i", path)
	require.NoError(t, err)
	assert.Contains(t, out, "harmonic_phasor")
	assert.Contains(t, out, "0.396491")
	assert.Contains(t, out, "Mars")
	assert.Contains(t, out, "Neutral coupling (k=12)")
}

func TestFuseCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"unknown extension", "chart.txt", chartJSON, "unsupported chart format"},
		{"unknown yaml key", "chart.yaml", chartYAML + "planets: {}\n", "decoding chart"},
		{"unknown toml key", "chart.toml", chartTOML + "\n[planets]\nx = 1\n", "unknown keys"},
		{"missing positions", "chart.json", `{"pillars":{"year":0}}`, "needs both pillars and positions"},
		{"bad pillar", "chart.json", `{"pillars":{"year":12},"positions":{"Sun":1}}`, "pillar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeChart(t, tt.file, tt.body)
			_, err := execute(t, "", "fuse", "--input", path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := execute(t, "", "fuse")
	assert.ErrorContains(t, err, "input")
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(v1.HealthResponse{
			Status:      "ok",
			Version:     "1.2.3",
			Fingerprint: "1f025f00-53ec-5602-9e6a-c236ec3235f5",
			Telemetry:   "disabled",
		})
	}))
	defer srv.Close()

	out, err := execute(t, "", "health", "--server", srv.URL+"/")
	require.NoError(t, err)
	assert.Contains(t, out, "Server Status: ok")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "1f025f00")
}

func TestHealthCommand_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := execute(t, "", "health", "--server", srv.URL)
	assert.ErrorContains(t, err, "status 503")
}

func TestMergeOverrides(t *testing.T) {
	kappa, k2 := 2.0, 5.0
	mode := "soft_kernel"
	base := &v1.ConfigOverrides{Kappa: &kappa, Mode: &mode}
	flags := &v1.ConfigOverrides{Kappa: &k2, Harmonics: []int{3}}

	got := mergeOverrides(base, flags)
	assert.Equal(t, 5.0, *got.Kappa)
	assert.Equal(t, "soft_kernel", *got.Mode)
	assert.Equal(t, []int{3}, got.Harmonics)
	assert.Equal(t, 2.0, *base.Kappa, "base is not mutated")

	assert.Same(t, flags, mergeOverrides(nil, flags))
}
