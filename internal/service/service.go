package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/bazodiac/internal/angle"
	"github.com/fyrsmithlabs/bazodiac/internal/branch"
	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	"github.com/fyrsmithlabs/bazodiac/internal/kernel"
	"github.com/fyrsmithlabs/bazodiac/internal/logging"
	"github.com/fyrsmithlabs/bazodiac/internal/telemetry"
	v1 "github.com/fyrsmithlabs/bazodiac/pkg/api/v1"
)

const tracerName = "github.com/fyrsmithlabs/bazodiac/internal/service"

// Defaults for Options.
const (
	DefaultCacheSize        = 64
	DefaultBatchMaxItems    = 256
	DefaultBatchConcurrency = 8
)

var (
	// ErrBatchTooLarge is returned when a batch exceeds BatchMaxItems.
	ErrBatchTooLarge = errors.New("batch too large")

	// ErrEmptyBatch is returned for a batch without items.
	ErrEmptyBatch = errors.New("batch is empty")
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	CacheSize        int
	BatchMaxItems    int
	BatchConcurrency int
	Logger           *logging.Logger
	Telemetry        *telemetry.Telemetry
	Metrics          *Metrics
}

// Service runs fusion operations against the current defaults.
//
// Service is safe for concurrent use. SetDefaults swaps the defaults
// atomically; in-flight requests finish on the engine they started with.
type Service struct {
	defaults atomic.Pointer[fusion.Config]
	engines  *lru.Cache[string, *fusion.Engine]

	maxBatch    int
	concurrency int

	logger  *logging.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

// New validates defaults and returns a Service.
func New(defaults fusion.Config, opts Options) (*Service, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.BatchMaxItems <= 0 {
		opts.BatchMaxItems = DefaultBatchMaxItems
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = DefaultBatchConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	engines, err := lru.New[string, *fusion.Engine](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating engine cache: %w", err)
	}

	s := &Service{
		engines:     engines,
		maxBatch:    opts.BatchMaxItems,
		concurrency: opts.BatchConcurrency,
		logger:      opts.Logger.Named("service"),
		tracer:      opts.Telemetry.Tracer(tracerName),
		metrics:     opts.Metrics,
	}
	if err := s.SetDefaults(defaults); err != nil {
		return nil, err
	}
	return s, nil
}

// Defaults returns a copy of the current default configuration.
func (s *Service) Defaults() fusion.Config {
	cfg := *s.defaults.Load()
	cfg.Harmonics = slices.Clone(cfg.Harmonics)
	return cfg
}

// DefaultFingerprint returns the fingerprint of the current defaults.
func (s *Service) DefaultFingerprint() string {
	return s.defaults.Load().Fingerprint().String()
}

// SetDefaults validates cfg and makes it the base for subsequent requests.
func (s *Service) SetDefaults(cfg fusion.Config) error {
	eng, err := fusion.New(cfg)
	if err != nil {
		return fmt.Errorf("invalid fusion defaults: %w", err)
	}
	normalized := eng.Config()
	fp := eng.Fingerprint().String()
	s.engines.Add(fp, eng)
	s.defaults.Store(&normalized)

	s.logger.Info(context.Background(), "fusion defaults updated",
		logging.Fingerprint(fp),
		logging.Mode(normalized.Mode),
	)
	return nil
}

// Engine returns the cached engine for the defaults merged with ov,
// building and caching it on first use.
func (s *Service) Engine(ctx context.Context, ov *v1.ConfigOverrides) (*fusion.Engine, error) {
	cfg, err := Merge(s.Defaults(), ov)
	if err != nil {
		return nil, err
	}

	key := cfg.Fingerprint().String()
	if eng, ok := s.engines.Get(key); ok {
		s.metrics.RecordCache(true, s.engines.Len())
		return eng, nil
	}

	eng, err := fusion.New(cfg)
	if err != nil {
		return nil, err
	}
	s.engines.Add(key, eng)
	s.metrics.RecordCache(false, s.engines.Len())
	s.logger.Debug(ctx, "engine cached", logging.Fingerprint(key))
	return eng, nil
}

// Fuse runs one fusion.
func (s *Service) Fuse(ctx context.Context, req v1.FusionRequest) (*fusion.Result, error) {
	ctx, span := s.tracer.Start(ctx, "fusion.fuse", trace.WithAttributes(
		attribute.Int("pillars", len(req.Pillars)),
		attribute.Int("bodies", len(req.Positions)),
	))
	defer span.End()

	eng, err := s.Engine(ctx, req.Config)
	if err != nil {
		return nil, s.fail(ctx, span, "fusion config rejected", err)
	}
	mode := eng.Config().Mode
	span.SetAttributes(
		attribute.String("fusion_mode", mode.String()),
		attribute.String("config_fingerprint", eng.Fingerprint().String()),
	)

	start := time.Now()
	res, err := eng.Fuse(fusion.Input{
		Pillars:       req.Pillars,
		PillarWeights: req.PillarWeights,
		Positions:     req.Positions,
		BodyWeights:   req.BodyWeights,
	})
	if err == nil {
		// Finite but extreme weights can overflow the phasor sums.
		if verr := fusion.ValidateResult(res); verr != nil {
			res, err = nil, fmt.Errorf("%w: %w", fusion.ErrInvalidInput, verr)
		}
	}
	s.metrics.RecordFusion(mode.String(), time.Since(start), err)
	if err != nil {
		return nil, s.fail(ctx, span, "fusion input rejected", err)
	}

	for _, hf := range res.Harmonics {
		if hf.Degenerate {
			s.metrics.RecordDegenerate(strconv.Itoa(hf.K))
		}
	}
	s.metrics.RecordUnstable(len(res.UnstableBodies))

	if len(res.Harmonics) > 0 {
		span.SetAttributes(
			attribute.Int("dominant_k", res.DominantHarmonic),
			attribute.Float64("total_alignment", res.AggregateAlignment),
		)
	}
	s.logger.Debug(ctx, "fusion computed",
		logging.Mode(mode),
		logging.Fingerprint(res.Fingerprint),
		zap.Strings("unstable_bodies", res.UnstableBodies),
		zap.Strings("degeneracy_flags", res.DegeneracyFlags),
	)
	return res, nil
}

// BatchResult is the outcome of one batch item. Exactly one field is set.
type BatchResult struct {
	Result *fusion.Result
	Err    error
}

// FuseBatch fuses every request with bounded concurrency. Item failures are
// reported per item and do not stop the batch; results keep request order.
func (s *Service) FuseBatch(ctx context.Context, reqs []v1.FusionRequest) ([]BatchResult, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > s.maxBatch {
		return nil, fmt.Errorf("%w: %d items exceeds limit %d", ErrBatchTooLarge, len(reqs), s.maxBatch)
	}

	ctx, span := s.tracer.Start(ctx, "fusion.batch", trace.WithAttributes(attribute.Int("items", len(reqs))))
	defer span.End()

	out := make([]BatchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out[i] = BatchResult{Err: err}
				return nil
			}
			res, err := s.Fuse(gctx, reqs[i])
			out[i] = BatchResult{Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return out, s.fail(ctx, span, "batch cancelled", err)
	}
	return out, nil
}

// MapBranch hard-maps one longitude. Any finite longitude is accepted and
// wrapped into [0, 360).
func (s *Service) MapBranch(ctx context.Context, lon float64, ov *v1.ConfigOverrides) (branch.Result, error) {
	ctx, span := s.tracer.Start(ctx, "branch.map", trace.WithAttributes(attribute.Float64("longitude_deg", lon)))
	defer span.End()

	eng, err := s.lookupEngine(ctx, span, lon, ov)
	if err != nil {
		return branch.Result{}, err
	}
	s.metrics.RecordLookup("map")

	res := eng.Mapper().Map(lon)
	if res.Unstable {
		s.metrics.RecordUnstable(1)
	}
	span.SetAttributes(
		attribute.Int("branch.index", res.Index),
		attribute.String("branch.name", res.Name),
		attribute.Bool("unstable", res.Unstable),
	)
	s.logger.Trace(ctx, "branch mapped", logging.Longitude(lon), logging.Branch(res.Index, res.Name))
	return res, nil
}

// SoftResult is the soft-kernel weighting of one longitude.
type SoftResult struct {
	LongitudeDeg float64
	Kappa        float64
	Weights      kernel.Weights
}

// SoftWeights returns the von Mises weights of one longitude.
func (s *Service) SoftWeights(ctx context.Context, lon float64, ov *v1.ConfigOverrides) (SoftResult, error) {
	ctx, span := s.tracer.Start(ctx, "branch.soft", trace.WithAttributes(attribute.Float64("longitude_deg", lon)))
	defer span.End()

	eng, err := s.lookupEngine(ctx, span, lon, ov)
	if err != nil {
		return SoftResult{}, err
	}
	s.metrics.RecordLookup("soft")

	k := eng.Kernel()
	w := k.Weights(lon)
	span.SetAttributes(attribute.Int("argmax", w.Argmax()))
	return SoftResult{LongitudeDeg: lon, Kappa: k.Kappa(), Weights: w}, nil
}

// Compare evaluates both boundary conventions for one longitude.
func (s *Service) Compare(ctx context.Context, lon float64, ov *v1.ConfigOverrides) (branch.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "branch.compare", trace.WithAttributes(attribute.Float64("longitude_deg", lon)))
	defer span.End()

	eng, err := s.lookupEngine(ctx, span, lon, ov)
	if err != nil {
		return branch.Comparison{}, err
	}
	s.metrics.RecordLookup("compare")

	cmp := eng.Mapper().CompareConventions(lon)
	span.SetAttributes(attribute.Bool("equivalent", cmp.Equivalent))
	return cmp, nil
}

// Table is the branch table of one geometry.
type Table struct {
	Fingerprint string
	Branches    []branch.Info
}

// Branches returns the sector table for the defaults merged with ov.
func (s *Service) Branches(ctx context.Context, ov *v1.ConfigOverrides) (Table, error) {
	ctx, span := s.tracer.Start(ctx, "branch.table")
	defer span.End()

	eng, err := s.Engine(ctx, ov)
	if err != nil {
		return Table{}, s.fail(ctx, span, "branch config rejected", err)
	}
	s.metrics.RecordLookup("table")
	return Table{Fingerprint: eng.Fingerprint().String(), Branches: eng.Mapper().Table()}, nil
}

func (s *Service) lookupEngine(ctx context.Context, span trace.Span, lon float64, ov *v1.ConfigOverrides) (*fusion.Engine, error) {
	if !angle.IsFinite(lon) {
		return nil, s.fail(ctx, span, "longitude rejected",
			fmt.Errorf("%w: longitude %v is not finite", fusion.ErrInvalidInput, lon))
	}
	eng, err := s.Engine(ctx, ov)
	if err != nil {
		return nil, s.fail(ctx, span, "branch config rejected", err)
	}
	return eng, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.Debug(ctx, msg, zap.Error(err))
	return err
}
