// Package main implements bzctl, the bazodiac command-line client.
//
// Branch and fusion commands compute locally from the configured defaults;
// health queries a running bazodiacd.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/bazodiac/internal/config"
	"github.com/fyrsmithlabs/bazodiac/internal/logging"
	"github.com/fyrsmithlabs/bazodiac/internal/service"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

// version information
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	jsonOut    bool
	verbose    bool

	kappa       float64
	mode        string
	convention  string
	ziApex      float64
	harmonics   []int
	phaseConv   string
	refBody     string
	width       float64
	threshold   float64
	phiOffset   float64
	intervalCvn string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "bzctl",
		Short: "BaZi and western longitude fusion from the command line",
		Long: `bzctl maps ecliptic longitudes to the twelve earthly branches and fuses
BaZi pillars with western planetary positions.

Computation is local. Defaults come from ~/.config/bazodiac/config.yaml and
FUSION_* environment variables, and can be overridden per command with flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/bazodiac/config.yaml)")
	pf.BoolVar(&opts.jsonOut, "json", false, "print JSON instead of tables")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logs on stderr")
	pf.Float64Var(&opts.kappa, "kappa", 0, "von Mises concentration")
	pf.StringVar(&opts.mode, "mode", "", "fusion mode: hard_segment, soft_kernel or harmonic_phasor")
	pf.StringVar(&opts.convention, "convention", "", "boundary convention: SHIFT_BOUNDARIES or SHIFT_LONGITUDES")
	pf.StringVar(&opts.intervalCvn, "interval", "", "interval convention: HALF_OPEN or CLOSED")
	pf.Float64Var(&opts.ziApex, "zi-apex", 0, "Zi apex longitude in degrees")
	pf.Float64Var(&opts.width, "width", 0, "branch width in degrees")
	pf.Float64Var(&opts.phiOffset, "phi-offset", 0, "apex offset in degrees")
	pf.Float64Var(&opts.threshold, "threshold", 0, "boundary instability threshold in degrees")
	pf.IntSliceVar(&opts.harmonics, "harmonics", nil, "harmonic orders, e.g. 2,3,4,6,12")
	pf.StringVar(&opts.phaseConv, "phase-convention", "", "harmonic phase convention: apex_shifted or raw")
	pf.StringVar(&opts.refBody, "reference-body", "", "body used as the western reference")

	root.AddCommand(
		newMapCmd(opts),
		newSoftCmd(opts),
		newBranchesCmd(opts),
		newCompareCmd(opts),
		newFuseCmd(opts),
		newHealthCmd(),
	)
	return root
}

// newService builds a local service from the loaded configuration.
func (o *options) newService() (*service.Service, error) {
	cfg, err := config.LoadWithFile(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	defaults, err := cfg.Fusion.ToFusion()
	if err != nil {
		return nil, err
	}

	logger := logging.NewNop()
	if o.verbose {
		lc := logging.NewDefaultConfig()
		lc.Level = zapcore.DebugLevel
		lc.Format = "console"
		lc.Output = logging.OutputConfig{Stderr: true}
		lc.Sampling.Enabled = false
		if logger, err = logging.NewLogger(lc, nil); err != nil {
			return nil, err
		}
	}

	return service.New(defaults, service.Options{
		CacheSize:        cfg.Cache.Size,
		BatchMaxItems:    cfg.Batch.MaxItems,
		BatchConcurrency: cfg.Batch.Concurrency,
		Logger:           logger,
	})
}

// overrides returns the flags set on cmd as config overrides, or nil.
func (o *options) overrides(cmd *cobra.Command) *v1.ConfigOverrides {
	f := cmd.Flags()
	var ov v1.ConfigOverrides
	set := false

	float := func(name string, v float64) *float64 {
		if !f.Changed(name) {
			return nil
		}
		set = true
		return &v
	}
	str := func(name, v string) *string {
		if !f.Changed(name) {
			return nil
		}
		set = true
		return &v
	}

	ov.Kappa = float("kappa", o.kappa)
	ov.ZiApexDeg = float("zi-apex", o.ziApex)
	ov.BranchWidthDeg = float("width", o.width)
	ov.PhiApexOffsetDeg = float("phi-offset", o.phiOffset)
	ov.BoundaryThresholdDeg = float("threshold", o.threshold)
	ov.Mode = str("mode", o.mode)
	ov.Convention = str("convention", o.convention)
	ov.IntervalConvention = str("interval", o.intervalCvn)
	ov.HarmonicPhaseConvention = str("phase-convention", o.phaseConv)
	ov.ReferenceBody = str("reference-body", o.refBody)
	if f.Changed("harmonics") {
		ov.Harmonics = o.harmonics
		set = true
	}

	if !set {
		return nil
	}
	return &ov
}

// parseLongitude accepts any finite number of degrees.
func parseLongitude(arg string) (float64, error) {
	lon, err := strconv.ParseFloat(strings.TrimSuffix(arg, "°"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid longitude %q: %w", arg, err)
	}
	return lon, nil
}
