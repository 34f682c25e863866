package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TracingOptions configures the OTLP trace exporter.
type TracingOptions struct {
	// ServiceName is reported as service.name. Defaults to "solarbot".
	ServiceName string

	// Enabled turns the exporter on. When false (the default), a
	// propagator is still installed so trace headers pass through.
	Enabled bool

	Logger *slog.Logger
}

// SetupTracing installs the global tracer provider and returns a shutdown
// function. Exporter endpoint, headers, and sampling come from the standard
// OTEL_* environment variables. Setup failures degrade to no tracing rather
// than aborting startup.
func SetupTracing(ctx context.Context, opts TracingOptions) (func(context.Context) error, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	noop := func(context.Context) error { return nil }
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !opts.Enabled {
		logger.Debug("telemetry: tracing disabled")
		return noop, nil
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "solarbot"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return noop, fmt.Errorf("telemetry: build resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		logger.Error("telemetry: OTLP exporter init failed, tracing disabled", "error", err)
		return noop, nil
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(samplerFromEnv()),
	)
	otel.SetTracerProvider(tp)

	logger.Info("telemetry: tracing enabled",
		"service", serviceName,
		"endpoint", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	)
	return tp.Shutdown, nil
}

// samplerFromEnv maps OTEL_TRACES_SAMPLER / OTEL_TRACES_SAMPLER_ARG to a
// sampler. Unknown values fall back to parent-based always-on.
func samplerFromEnv() trace.Sampler {
	arg := func() float64 {
		v, err := strconv.ParseFloat(os.Getenv("OTEL_TRACES_SAMPLER_ARG"), 64)
		if err != nil {
			return 1.0
		}
		return v
	}

	switch os.Getenv("OTEL_TRACES_SAMPLER") {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(arg())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(arg()))
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}
