package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
)

// Config controls telemetry setup.
type Config struct {
	Enabled  bool
	Endpoint string
	Protocol string // grpc | http
	Service  string
	Version  string
}

// Provider wires the meter provider and exposes recording helpers.
type Provider struct {
	Enabled bool
	meter   metric.Meter

	analysesCounter metric.Int64Counter
	scoreHistogram  metric.Int64Histogram
	requestDuration metric.Float64Histogram
	shutdown        func(context.Context) error
}

// NewProvider configures the OTLP metric exporter. When disabled, it returns a no-op provider.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*Provider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		return NewNoop(), nil
	}

	logger.Info("telemetry enabled",
		zap.String("protocol", strings.ToLower(cfg.Protocol)),
		zap.String("endpoint", cfg.Endpoint))

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.Service),
			attribute.String("service.version", cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch strings.ToLower(cfg.Protocol) {
	case "grpc":
		exporter, err = otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(cfg.Endpoint), otlpmetricgrpc.WithInsecure())
	case "", "http":
		exporter, err = otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.Endpoint), otlpmetrichttp.WithInsecure())
	default:
		return nil, fmt.Errorf("telemetry: unsupported protocol %q", cfg.Protocol)
	}
	if err != nil {
		return nil, fmt.Errorf("telemetry exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)
	otel.SetMeterProvider(mp)

	p := &Provider{
		Enabled:  true,
		meter:    mp.Meter("resocheck"),
		shutdown: mp.Shutdown,
	}
	p.initInstruments()
	return p, nil
}

// NewNoop returns a provider whose instruments discard every measurement.
func NewNoop() *Provider {
	p := &Provider{meter: noop.NewMeterProvider().Meter("")}
	p.initInstruments()
	return p
}

// NewWithMeterProvider builds a provider on top of an existing meter provider.
func NewWithMeterProvider(mp metric.MeterProvider) *Provider {
	p := &Provider{Enabled: true, meter: mp.Meter("resocheck")}
	p.initInstruments()
	return p
}

func (p *Provider) initInstruments() {
	// Instrument errors are ignored; telemetry is best-effort.
	p.analysesCounter, _ = p.meter.Int64Counter("resocheck_analyses_total")
	p.scoreHistogram, _ = p.meter.Int64Histogram("resocheck_score")
	p.requestDuration, _ = p.meter.Float64Histogram("resocheck_request_duration_ms")
}

// Shutdown flushes pending metrics.
func (p *Provider) Shutdown(ctx context.Context) {
	if p == nil || p.shutdown == nil {
		return
	}
	_ = p.shutdown(ctx)
}

// RecordAnalysis counts one analysis by verdict and decision path.
func (p *Provider) RecordAnalysis(ctx context.Context, verdict, path string, score int) {
	if p == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("resocheck.verdict", verdict),
		attribute.String("resocheck.path", path),
	)
	p.analysesCounter.Add(ctx, 1, attrs)
	p.scoreHistogram.Record(ctx, int64(score), attrs)
}

// RecordRequest records the latency of one HTTP request.
func (p *Provider) RecordRequest(ctx context.Context, route string, status int, durMs float64) {
	if p == nil {
		return
	}
	p.requestDuration.Record(ctx, durMs, metric.WithAttributes(
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	))
}
