package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/oteladapters"
)

const instrumentationName = "github.com/AntonStoeckl/library-circulation-go/cmd/librarian"

// telemetry holds the Library options for logging, metrics and tracing and
// the shutdown hook flushing whatever the providers still buffer.
type telemetry struct {
	options  []circulation.Option
	shutdown func(context.Context) error
}

func newLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == formatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOptions)), nil
	}

	return slog.New(slog.NewTextHandler(w, handlerOptions)), nil
}

// newTelemetry always wires the slog logger. With observability enabled it additionally
// wires OpenTelemetry providers that export spans, metrics and log records to w.
func newTelemetry(cfg Config, w io.Writer) (telemetry, error) {
	logger, err := newLogger(cfg, w)
	if err != nil {
		return telemetry{}, err
	}

	t := telemetry{
		options:  []circulation.Option{circulation.WithLogger(logger)},
		shutdown: func(context.Context) error { return nil },
	}

	if !cfg.ObservabilityEnabled {
		return t, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("librarian"),
		semconv.ServiceVersionKey.String("demo"),
	)

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return telemetry{}, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(traceExporter),
		sdktrace.WithResource(res),
	)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return telemetry{}, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	logExporter, err := stdoutlog.New(stdoutlog.WithWriter(w))
	if err != nil {
		return telemetry{}, err
	}

	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewSimpleProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	var contextualLogger circulation.ContextualLogger
	switch cfg.ObservabilityLogger {
	case otelLoggerDirect:
		contextualLogger = oteladapters.NewOTelLogger(loggerProvider.Logger(instrumentationName))
	default:
		contextualLogger = oteladapters.NewSlogBridgeLoggerWithProvider(instrumentationName, loggerProvider)
	}

	t.options = append(t.options,
		circulation.WithContextualLogger(contextualLogger),
		circulation.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter(instrumentationName))),
		circulation.WithTracing(oteladapters.NewTracingCollector(tracerProvider.Tracer(instrumentationName))),
	)

	t.shutdown = func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
			loggerProvider.Shutdown(ctx),
		)
	}

	return t, nil
}
