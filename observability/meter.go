package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/collection/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the engine's OpenTelemetry instruments.
type Metrics struct {
	sourceOpened     metric.Int64Counter
	sourceClosed     metric.Int64Counter
	cacheFetched     metric.Int64Counter
	cacheReplayed    metric.Int64Counter
	terminalTotal    metric.Int64Counter
	terminalDuration metric.Float64Histogram
	errorTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	sourceOpened, err := meter.Int64Counter("collection.source.opened",
		metric.WithDescription("Resource-backed sources opened"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection.source.opened counter: %w", err)
	}

	sourceClosed, err := meter.Int64Counter("collection.source.closed",
		metric.WithDescription("Resource-backed sources released"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection.source.closed counter: %w", err)
	}

	cacheFetched, err := meter.Int64Counter("collection.cache.fetched",
		metric.WithDescription("Pairs pulled from upstream into a cache buffer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection.cache.fetched counter: %w", err)
	}

	cacheReplayed, err := meter.Int64Counter("collection.cache.replayed",
		metric.WithDescription("Pairs served from a cache buffer without touching upstream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection.cache.replayed counter: %w", err)
	}

	terminalTotal, err := meter.Int64Counter("collection.terminal.total",
		metric.WithDescription("Terminal evaluations by terminal and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection.terminal.total counter: %w", err)
	}

	terminalDuration, err := meter.Float64Histogram("collection.terminal.duration",
		metric.WithDescription("Duration of terminal evaluations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection.terminal.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("collection.error.total",
		metric.WithDescription("Errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection.error.total counter: %w", err)
	}

	return &Metrics{
		sourceOpened:     sourceOpened,
		sourceClosed:     sourceClosed,
		cacheFetched:     cacheFetched,
		cacheReplayed:    cacheReplayed,
		terminalTotal:    terminalTotal,
		terminalDuration: terminalDuration,
		errorTotal:       errorTotal,
	}, nil
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns instruments on the global meter provider. Instruments
// created before InitMeter forward to the provider once it is installed.
func Default() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(Meter(instrumentationName))
		if err != nil {
			logger.Warn("engine metrics disabled", logger.Fields("error", err.Error()))
			return
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// RecordSourceOpened counts a resource-backed source being opened.
func (m *Metrics) RecordSourceOpened(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.sourceOpened.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrSourceKind, kind)))
}

// RecordSourceClosed counts a resource-backed source being released.
func (m *Metrics) RecordSourceClosed(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.sourceClosed.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrSourceKind, kind)))
}

// RecordCacheFetched counts one pair pulled from upstream into a cache.
func (m *Metrics) RecordCacheFetched(ctx context.Context, cacheID string) {
	if m == nil {
		return
	}
	m.cacheFetched.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrCacheID, cacheID)))
}

// RecordCacheReplayed counts one pair served from a cache buffer.
func (m *Metrics) RecordCacheReplayed(ctx context.Context, cacheID string) {
	if m == nil {
		return
	}
	m.cacheReplayed.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrCacheID, cacheID)))
}

// RecordTerminal records a completed terminal evaluation.
func (m *Metrics) RecordTerminal(ctx context.Context, terminal, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.terminalTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrTerminal, terminal),
		attribute.String(AttrStatus, status),
	))
	m.terminalDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrTerminal, terminal),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrErrorCode, code),
		attribute.String("component", component),
	))
}
