// Package telemetry sets up OpenTelemetry traces and metrics exported over
// OTLP/gRPC. With no endpoint configured it falls back to no-op providers.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/chronograf/chronograf-mcp-server"

type Telemetry struct {
	tracer       trace.Tracer
	toolCalls    metric.Int64Counter
	toolDuration metric.Float64Histogram
	shutdown     []func(context.Context) error
}

// Setup installs global providers exporting to endpoint. An empty endpoint
// yields no-op providers.
func Setup(ctx context.Context, log *zap.Logger, serviceName, version, endpoint string) (*Telemetry, error) {
	if endpoint == "" {
		log.Info("OTLP endpoint not set, telemetry disabled")
		return New(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure())
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res))

	if err := runtime.Start(runtime.WithMeterProvider(mp)); err != nil {
		log.Warn("Failed to start runtime metrics", zap.Error(err))
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	t, err := New(tp, mp)
	if err != nil {
		return nil, err
	}
	t.shutdown = append(t.shutdown, tp.Shutdown, mp.Shutdown)

	log.Info("Telemetry enabled", zap.String("endpoint", endpoint))
	return t, nil
}

// New builds the tool instruments from the given providers without
// touching the globals.
func New(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	meter := mp.Meter(instrumentationName)

	calls, err := meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("Number of MCP tool invocations"))
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call counter: %w", err)
	}
	duration, err := meter.Float64Histogram("mcp.tool.duration",
		metric.WithDescription("MCP tool latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create tool duration histogram: %w", err)
	}

	return &Telemetry{
		tracer:       tp.Tracer(instrumentationName),
		toolCalls:    calls,
		toolDuration: duration,
	}, nil
}

// StartTool opens a span for a tool call. The returned func ends it and
// records the call metrics; pass the tool's failure, if any.
func (t *Telemetry) StartTool(ctx context.Context, tool string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := t.tracer.Start(ctx, "tool "+tool,
		trace.WithAttributes(attribute.String("mcp.tool", tool)))

	return ctx, func(callErr error) {
		outcome := "ok"
		if callErr != nil {
			outcome = "error"
			span.RecordError(callErr)
			span.SetStatus(codes.Error, callErr.Error())
		}
		attrs := metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("outcome", outcome))
		t.toolCalls.Add(ctx, 1, attrs)
		t.toolDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
		span.End()
	}
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
