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

	"github.com/reactivity-io/reactivity-go/logger"
)

// InitMeter installs an OTLP HTTP meter provider as the global provider.
func InitMeter(ctx context.Context, cfg Config, serviceName, serviceVersion string) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(serviceName, serviceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Meter initialized", logger.Fields(
		"service", serviceName,
		logger.FieldEndpoint, cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns the package meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments recorded by discovery and the API client.
type Metrics struct {
	discoveryFetches  metric.Int64Counter
	discoveryDuration metric.Float64Histogram
	baseURLSelections metric.Int64Counter
	apiRequests       metric.Int64Counter
	apiDuration       metric.Float64Histogram
	errors            metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.discoveryFetches, err = meter.Int64Counter("discovery.fetch.total",
		metric.WithDescription("Discovery document fetches by outcome")); err != nil {
		return nil, fmt.Errorf("creating discovery.fetch.total counter: %w", err)
	}
	if m.discoveryDuration, err = meter.Float64Histogram("discovery.fetch.duration",
		metric.WithDescription("Duration of discovery fetches"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating discovery.fetch.duration histogram: %w", err)
	}
	if m.baseURLSelections, err = meter.Int64Counter("resolver.base_url.total",
		metric.WithDescription("Base URLs handed out by the round-robin resolver")); err != nil {
		return nil, fmt.Errorf("creating resolver.base_url.total counter: %w", err)
	}
	if m.apiRequests, err = meter.Int64Counter("api.request.total",
		metric.WithDescription("Backend requests by route and outcome")); err != nil {
		return nil, fmt.Errorf("creating api.request.total counter: %w", err)
	}
	if m.apiDuration, err = meter.Float64Histogram("api.request.duration",
		metric.WithDescription("Duration of backend requests"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating api.request.duration histogram: %w", err)
	}
	if m.errors, err = meter.Int64Counter("error.total",
		metric.WithDescription("Errors by kind and component")); err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}
	return m, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments on the global meter. Instruments
// created before InitMeter forward to the provider installed later.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(Meter())
		if err != nil {
			logger.Warn("Falling back to unrecorded metrics", logger.ErrorFields("metrics", err))
			m = nil
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// RecordDiscoveryFetch records one discovery fetch.
func (m *Metrics) RecordDiscoveryFetch(ctx context.Context, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.discoveryFetches.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStatus, status)))
	m.discoveryDuration.Record(ctx, d.Seconds())
}

// RecordBaseURL records one base URL handed out.
func (m *Metrics) RecordBaseURL(ctx context.Context, baseURL string) {
	if m == nil {
		return
	}
	m.baseURLSelections.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrBaseURL, baseURL)))
}

// RecordAPIRequest records one backend request.
func (m *Metrics) RecordAPIRequest(ctx context.Context, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrRoute, route),
		attribute.String(AttrStatus, status),
	))
	m.apiDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(AttrRoute, route)))
}

// RecordError records an error by kind and component.
func (m *Metrics) RecordError(ctx context.Context, kind, component string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String(AttrComponent, component),
	))
}
