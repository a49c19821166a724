// Package logging provides structured logging with OpenTelemetry integration.
//
// Logger wraps Zap with:
//   - a Trace level (-2, below Debug)
//   - stdout, stderr and OpenTelemetry outputs
//   - context field injection (trace_id, span_id, request.id, op)
//   - per-level sampling (errors never sampled)
//   - domain field helpers (Longitude, Branch, Mode, Fingerprint)
//
// Usage:
//
//	cfg, err := logging.FromObservability(appCfg.Observability)
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithOperation(ctx, "fusion.fuse")
//	logger.Info(ctx, "fusion computed", logging.Mode(mode), zap.Duration("took", d))
//
// Use TestLogger for assertions in tests:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "branch mapped", logging.Longitude(275))
//	tl.AssertLogged(t, zapcore.InfoLevel, "branch mapped")
//	tl.AssertField(t, "branch mapped", "longitude_deg", 275.0)
//
// Logger is safe for concurrent use. Child loggers (With, Named) do not
// affect their parent.
package logging
