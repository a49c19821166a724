// Package config provides configuration loading for bazodiac.
//
// Configuration is assembled from defaults, an optional YAML file and
// environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
	"github.com/fyrsmithlabs/bazodiac/internal/fusion"
	"github.com/fyrsmithlabs/bazodiac/internal/kernel"
	"github.com/fyrsmithlabs/bazodiac/internal/phasor"
)

// Config holds the complete bazodiac configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Observability ObservabilityConfig `koanf:"observability"`
	Fusion        FusionConfig        `koanf:"fusion"`
	Cache         CacheConfig         `koanf:"cache"`
	RateLimit     RateLimitConfig     `koanf:"ratelimit"`
	Batch         BatchConfig         `koanf:"batch"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"http_host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// ObservabilityConfig holds logging and OpenTelemetry settings.
type ObservabilityConfig struct {
	EnableTelemetry bool   `koanf:"enable_telemetry"`
	ServiceName     string `koanf:"service_name"`
	LogLevel        string `koanf:"log_level"`
	LogFormat       string `koanf:"log_format"`
	OTLPEndpoint    string `koanf:"otlp_endpoint"`
	OTLPProtocol    string `koanf:"otlp_protocol"` // grpc or http/protobuf
	OTLPInsecure    bool   `koanf:"otlp_insecure"`
}

// FusionConfig holds the default fusion parameters in flat form so every
// field maps to one FUSION_* environment variable.
type FusionConfig struct {
	ZiApexDeg               float64 `koanf:"zi_apex_deg"`
	BranchWidthDeg          float64 `koanf:"branch_width_deg"`
	PhiApexOffsetDeg        float64 `koanf:"phi_apex_offset_deg"`
	Convention              string  `koanf:"convention"`
	IntervalConvention      string  `koanf:"interval_convention"`
	BoundaryThresholdDeg    float64 `koanf:"boundary_threshold_deg"`
	Harmonics               []int   `koanf:"harmonics_k"`
	Kappa                   float64 `koanf:"kappa"`
	Mode                    string  `koanf:"mode"`
	HarmonicPhaseConvention string  `koanf:"harmonic_phase_convention"`
	EpsilonNorm             float64 `koanf:"epsilon_norm"`
	ReferenceBody           string  `koanf:"reference_body"`
}

// CacheConfig sizes the engine cache.
type CacheConfig struct {
	Size int `koanf:"size"`
}

// RateLimitConfig controls per-client HTTP rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"rps"`
	Burst             int     `koanf:"burst"`
}

// BatchConfig bounds batch fusion requests.
type BatchConfig struct {
	MaxItems    int `koanf:"max_items"`
	Concurrency int `koanf:"concurrency"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	fc := fusion.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            9191,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Observability: ObservabilityConfig{
			EnableTelemetry: false,
			ServiceName:     "bazodiac",
			LogLevel:        "info",
			LogFormat:       "json",
			OTLPEndpoint:    "localhost:4317",
			OTLPProtocol:    "grpc",
			OTLPInsecure:    true,
		},
		Fusion: FusionConfig{
			ZiApexDeg:               fc.Branch.ZiApexDeg,
			BranchWidthDeg:          fc.Branch.BranchWidthDeg,
			PhiApexOffsetDeg:        fc.Branch.PhiApexOffsetDeg,
			Convention:              fc.Branch.Convention.String(),
			IntervalConvention:      fc.Branch.IntervalConvention.String(),
			BoundaryThresholdDeg:    fc.Branch.BoundaryThresholdDeg,
			Harmonics:               phasor.DefaultOrders(),
			Kappa:                   kernel.DefaultKappa,
			Mode:                    fc.Mode.String(),
			HarmonicPhaseConvention: fc.PhaseConvention.String(),
			EpsilonNorm:             fc.Epsilon,
			ReferenceBody:           fc.ReferenceBody,
		},
		Cache: CacheConfig{
			Size: 64,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 50,
			Burst:             100,
		},
		Batch: BatchConfig{
			MaxItems:    256,
			Concurrency: 8,
		},
	}
}

// ToFusion parses the enum fields and returns the fusion configuration.
// Unknown enum names are reported as *conventions.ConfigurationError.
func (f FusionConfig) ToFusion() (fusion.Config, error) {
	conv, err := conventions.ParseBoundaryConvention(f.Convention)
	if err != nil {
		return fusion.Config{}, err
	}
	interval, err := conventions.ParseIntervalConvention(f.IntervalConvention)
	if err != nil {
		return fusion.Config{}, err
	}
	mode, err := conventions.ParseFusionMode(f.Mode)
	if err != nil {
		return fusion.Config{}, err
	}
	phase, err := conventions.ParsePhaseConvention(f.HarmonicPhaseConvention)
	if err != nil {
		return fusion.Config{}, err
	}

	cfg := fusion.Config{
		Harmonics:       append([]int(nil), f.Harmonics...),
		Kappa:           f.Kappa,
		Mode:            mode,
		PhaseConvention: phase,
		Epsilon:         f.EpsilonNorm,
		ReferenceBody:   f.ReferenceBody,
	}
	cfg.Branch.ZiApexDeg = f.ZiApexDeg
	cfg.Branch.BranchWidthDeg = f.BranchWidthDeg
	cfg.Branch.PhiApexOffsetDeg = f.PhiApexOffsetDeg
	cfg.Branch.Convention = conv
	cfg.Branch.IntervalConvention = interval
	cfg.Branch.BoundaryThresholdDeg = f.BoundaryThresholdDeg
	return cfg, nil
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - Shutdown timeout is not positive
//   - Service name is empty (when telemetry is enabled)
//   - The OTLP protocol is unknown
//   - The fusion defaults do not form a valid fusion configuration
//   - Cache, batch or rate limit sizes are not positive
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}

	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.Observability.EnableTelemetry && c.Observability.ServiceName == "" {
		return errors.New("service name required when telemetry is enabled")
	}

	switch c.Observability.OTLPProtocol {
	case "grpc", "http/protobuf":
	default:
		return fmt.Errorf("invalid otlp protocol %q (must be grpc or http/protobuf)", c.Observability.OTLPProtocol)
	}

	fc, err := c.Fusion.ToFusion()
	if err != nil {
		return fmt.Errorf("fusion: %w", err)
	}
	if err := fc.Validate(); err != nil {
		return fmt.Errorf("fusion: %w", err)
	}

	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", c.Cache.Size)
	}

	if c.Batch.MaxItems <= 0 || c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch max_items and concurrency must be positive, got %d/%d",
			c.Batch.MaxItems, c.Batch.Concurrency)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate limit rps and burst must be positive when enabled")
	}

	return nil
}
