// Package observability sets up OpenTelemetry tracing and metrics export and
// records RED (rate, errors, duration) metrics for the HTTP API.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/OpenNSW/tariff/internal/config"
)

const instrumentationName = "github.com/OpenNSW/tariff"

// Provider owns the trace and metric providers and the HTTP RED instruments.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracer         trace.Tracer

	requestCounter   metric.Int64Counter
	errorCounter     metric.Int64Counter
	durationHist     metric.Float64Histogram
	activeOperations metric.Int64UpDownCounter
}

// New creates the provider. When telemetry is disabled the global no-op
// providers stay in place and only the instruments are created.
func New(ctx context.Context, cfg config.TelemetryConfig) (*Provider, error) {
	if !cfg.Enabled {
		slog.InfoContext(ctx, "telemetry disabled")
		return newProvider(otel.GetTracerProvider(), otel.GetMeterProvider())
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("tariff.component", "engine"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
	}

	traceExporter, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	metricExporter, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(15*time.Second),
		)),
	)

	// set as global providers so package-level tracers pick them up
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p, err := newProvider(tp, mp)
	if err != nil {
		return nil, err
	}
	p.tracerProvider = tp
	p.meterProvider = mp

	slog.InfoContext(ctx, "telemetry initialized",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"endpoint", cfg.OTLPEndpoint,
		"insecure", cfg.Insecure,
	)
	return p, nil
}

func newProvider(tp trace.TracerProvider, mp metric.MeterProvider) (*Provider, error) {
	meter := mp.Meter(instrumentationName)
	p := &Provider{tracer: tp.Tracer(instrumentationName)}

	var err error
	p.requestCounter, err = meter.Int64Counter("tariff.http.requests",
		metric.WithDescription("Total number of API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	p.errorCounter, err = meter.Int64Counter("tariff.http.errors",
		metric.WithDescription("API requests answered with a 4xx or 5xx status"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}
	p.durationHist, err = meter.Float64Histogram("tariff.http.duration",
		metric.WithDescription("API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5),
	)
	if err != nil {
		return nil, err
	}
	p.activeOperations, err = meter.Int64UpDownCounter("tariff.http.active",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Shutdown flushes and stops the exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to shutdown trace provider", "error", err)
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to shutdown metric provider", "error", err)
		}
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware traces every request and records its RED metrics, labelled
// with the matched route pattern rather than the raw path.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		method := semconv.HTTPRequestMethodKey.String(r.Method)

		ctx, span := p.tracer.Start(r.Context(), r.Method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		p.activeOperations.Add(ctx, 1, metric.WithAttributes(method))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(ctx)
		next.ServeHTTP(rec, r)
		p.activeOperations.Add(ctx, -1, metric.WithAttributes(method))

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(method, semconv.HTTPRoute(route), semconv.HTTPResponseStatusCode(rec.status))

		span.SetName(r.Method + " " + route)
		span.SetAttributes(semconv.HTTPRoute(route), semconv.HTTPResponseStatusCode(rec.status))

		p.requestCounter.Add(ctx, 1, attrs)
		p.durationHist.Record(ctx, time.Since(start).Seconds(), attrs)
		if rec.status >= http.StatusBadRequest {
			p.errorCounter.Add(ctx, 1, attrs)
		}
	})
}
