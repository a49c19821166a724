// Package telemetry wires OpenTelemetry tracing and metrics for bazodiac.
//
// Spans and metrics are exported over OTLP (gRPC or HTTP/protobuf) to a
// collector. When export is disabled the package hands out the global
// no-op providers, so instrumented code never branches on configuration.
//
//	tel, err := telemetry.New(ctx, telemetry.FromObservability(cfg.Observability, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx, span := tel.Tracer("bazodiac.service").Start(ctx, "fusion.fuse")
//	defer span.End()
//
// Tests use TestTelemetry, which records spans and metrics in memory:
//
//	tt := telemetry.NewTestTelemetry()
//	svc := service.New(cfg, service.WithTelemetry(tt.Telemetry))
//	...
//	tt.AssertSpanExists(t, "fusion.fuse")
package telemetry
