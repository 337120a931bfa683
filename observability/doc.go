// Package observability provides OpenTelemetry tracing and metrics for the
// pipeline engine.
//
// Every pipeline terminal runs inside a pipeline.<terminal> span and records
// collection.terminal.* metrics. Caches and resource-backed sources count
// their traffic with collection.cache.* and collection.source.* counters.
// Without InitTracer and InitMeter the global no-op providers are used.
//
// Tracing:
//
//	cfg := observability.DefaultTracerConfig("seqctl")
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	cfg := observability.DefaultMeterConfig("seqctl")
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	observability.Default().RecordCacheFetched(ctx, cacheID)
package observability
