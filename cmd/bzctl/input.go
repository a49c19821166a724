package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

// maxChartSize bounds chart files read by fuse.
const maxChartSize = 1 << 20

// readChart decodes a chart by file extension. "-" reads JSON from stdin.
func readChart(path string, stdin io.Reader) (v1.FusionRequest, error) {
	var (
		req  v1.FusionRequest
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxChartSize+1))
	} else {
		data, err = readLimited(path)
	}
	if err != nil {
		return req, err
	}
	if len(data) > maxChartSize {
		return req, fmt.Errorf("chart %s too large (max %d bytes)", path, maxChartSize)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&req)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), &req)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown keys %v", undecoded)
			}
		}
	case ".json", "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&req)
	default:
		return req, fmt.Errorf("unsupported chart format %q (want .yaml, .toml or .json)", ext)
	}
	if err != nil {
		return req, fmt.Errorf("decoding chart %s: %w", path, err)
	}

	if len(req.Pillars) == 0 || len(req.Positions) == 0 {
		return req, fmt.Errorf("chart %s needs both pillars and positions", path)
	}
	return req, nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxChartSize+1))
}

// mergeOverrides layers flag overrides over those in the chart file.
func mergeOverrides(base, flags *v1.ConfigOverrides) *v1.ConfigOverrides {
	if base == nil {
		return flags
	}
	out := *base
	if flags.ZiApexDeg != nil {
		out.ZiApexDeg = flags.ZiApexDeg
	}
	if flags.BranchWidthDeg != nil {
		out.BranchWidthDeg = flags.BranchWidthDeg
	}
	if flags.PhiApexOffsetDeg != nil {
		out.PhiApexOffsetDeg = flags.PhiApexOffsetDeg
	}
	if flags.Convention != nil {
		out.Convention = flags.Convention
	}
	if flags.IntervalConvention != nil {
		out.IntervalConvention = flags.IntervalConvention
	}
	if flags.BoundaryThresholdDeg != nil {
		out.BoundaryThresholdDeg = flags.BoundaryThresholdDeg
	}
	if flags.Harmonics != nil {
		out.Harmonics = flags.Harmonics
	}
	if flags.Kappa != nil {
		out.Kappa = flags.Kappa
	}
	if flags.Mode != nil {
		out.Mode = flags.Mode
	}
	if flags.HarmonicPhaseConvention != nil {
		out.HarmonicPhaseConvention = flags.HarmonicPhaseConvention
	}
	if flags.EpsilonNorm != nil {
		out.EpsilonNorm = flags.EpsilonNorm
	}
	if flags.ReferenceBody != nil {
		out.ReferenceBody = flags.ReferenceBody
	}
	return &out
}
