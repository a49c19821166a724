package fusion

import (
	"github.com/google/uuid"

	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
	"github.com/fyrsmithlabs/bazodiac/internal/kernel"
	"github.com/fyrsmithlabs/bazodiac/internal/phasor"
)

// Engine runs fusions for one validated Config.
//
// Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg         Config
	fingerprint uuid.UUID
	mapper      *branch.Mapper
	kernel      *kernel.Kernel
	phasor      *phasor.Engine
}

// New validates cfg and builds an Engine. Invalid configuration is reported
// as a *conventions.ConfigurationError before any computation.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	m, err := branch.NewMapper(cfg.Branch)
	if err != nil {
		return nil, err
	}
	k, err := kernel.New(m, cfg.Kappa)
	if err != nil {
		return nil, err
	}
	p, err := phasor.NewEngine(cfg.Harmonics, cfg.Epsilon)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:         cfg,
		fingerprint: cfg.Fingerprint(),
		mapper:      m,
		kernel:      k,
		phasor:      p,
	}, nil
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config {
	c := e.cfg
	c.Harmonics = e.phasor.Orders()
	return c
}

// Fingerprint returns the configuration fingerprint.
func (e *Engine) Fingerprint() uuid.UUID {
	return e.fingerprint
}

// Mapper returns the branch mapper of the configured geometry.
func (e *Engine) Mapper() *branch.Mapper {
	return e.mapper
}

// Kernel returns the soft kernel of the configured geometry.
func (e *Engine) Kernel() *kernel.Kernel {
	return e.kernel
}

// Fuse validates in and computes a Result. Malformed input is rejected with
// an error wrapping ErrInvalidInput.
func (e *Engine) Fuse(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Config:        e.Config(),
		Fingerprint:   e.fingerprint.String(),
		Mode:          e.cfg.Mode,
		PillarPhases:  make(map[string]float64, len(in.Pillars)),
		BodyPhases:    make(map[string]float64, len(in.Positions)),
		BranchWeights: e.referenceWeights(in.Positions),
	}

	pillars := make([]phasor.Contribution, 0, len(in.Pillars))
	for _, name := range sortedKeys(in.Pillars) {
		phase := e.mapper.Center(in.Pillars[name])
		res.PillarPhases[name] = phase
		pillars = append(pillars, phasor.Contribution{
			Name:     name,
			PhaseDeg: phase,
			Weight:   weightOf(in.PillarWeights, name),
		})
	}

	bodies := make([]phasor.Contribution, 0, len(in.Positions))
	for _, name := range sortedKeys(in.Positions) {
		lon := in.Positions[name]
		phase := phasor.BodyPhase(lon, e.cfg.Branch.PhiApexOffsetDeg, e.cfg.PhaseConvention)
		res.BodyPhases[name] = phase
		bodies = append(bodies, phasor.Contribution{
			Name:     name,
			PhaseDeg: phase,
			Weight:   weightOf(in.BodyWeights, name),
		})
		if e.mapper.Map(lon).Unstable {
			res.UnstableBodies = append(res.UnstableBodies, name)
		}
	}

	switch e.cfg.Mode {
	case conventions.HardSegment:
		res.HardMappings = make(map[string]branch.Result, len(in.Positions))
		for name, lon := range in.Positions {
			res.HardMappings[name] = e.mapper.Map(lon)
		}
	case conventions.SoftKernel:
		res.SoftWeights = make(map[string]kernel.Weights, len(in.Positions))
		for name, lon := range in.Positions {
			res.SoftWeights[name] = e.kernel.Weights(lon)
		}
	case conventions.HarmonicPhasor:
		res.Harmonics = e.phasor.Compute(pillars, bodies)
		for _, hf := range res.Harmonics {
			if hf.Degenerate {
				res.DegeneracyFlags = append(res.DegeneracyFlags, phasor.DegeneracyFlag(hf.K))
			}
		}
		res.AggregateAlignment = phasor.AggregateAlignment(res.Harmonics)
		res.DominantHarmonic = phasor.Dominant(res.Harmonics)
		res.StrongestHarmonic = phasor.Strongest(res.Harmonics)
	}

	return res, nil
}

// referenceWeights returns the soft weights of the reference body, or
// uniform weights when it is absent.
func (e *Engine) referenceWeights(positions map[string]float64) kernel.Weights {
	lon, ok := positions[e.cfg.ReferenceBody]
	if !ok {
		return kernel.Uniform()
	}
	return e.kernel.Weights(lon)
}
