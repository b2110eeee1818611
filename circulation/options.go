package circulation

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// ErrNilOption is returned when an Option receives a nil collaborator.
var ErrNilOption = errors.New("option value must not be nil")

// Logger interface for operational logging, warnings, and error reporting.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// *slog.Logger satisfies it as well.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting circulation performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods for trace correlation.
// The Library uses the context-aware methods when the configured collector implements them.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting tracing information from Library operations.
// It is dependency-free so that any tracing backend can be plugged in.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// EventRecorder receives a DomainEvent after every successful mutation of the Library.
type EventRecorder interface {
	Record(ctx context.Context, event DomainEvent) error
}

// Option defines a functional option for configuring a Library.
type Option func(*Library) error

// WithLogger sets the logger for the Library.
//
// Debug level: operation start
// Info level: successful mutations and soft failures
// Warn level: rejected operations (not found, duplicates, state conflicts)
// Error level: failures to record domain events.
func WithLogger(logger Logger) Option {
	return func(l *Library) error {
		if logger == nil {
			return ErrNilOption
		}

		l.logger = logger

		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(l *Library) error {
		if logger == nil {
			return ErrNilOption
		}

		l.contextualLogger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the Library.
func WithMetrics(collector MetricsCollector) Option {
	return func(l *Library) error {
		if collector == nil {
			return ErrNilOption
		}

		l.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the tracing collector for the Library.
func WithTracing(collector TracingCollector) Option {
	return func(l *Library) error {
		if collector == nil {
			return ErrNilOption
		}

		l.tracingCollector = collector

		return nil
	}
}

// WithIDSupplier sets the identifier supplier used for the Library itself and for cloned copies.
func WithIDSupplier(supplier identity.Supplier) Option {
	return func(l *Library) error {
		if supplier == nil {
			return ErrNilOption
		}

		l.factory.IDs = supplier

		return nil
	}
}

// WithClock sets the time source used for validation of cloned copies and for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Library) error {
		if now == nil {
			return ErrNilOption
		}

		l.factory.Now = now

		return nil
	}
}

// WithEventRecorder sets where domain events are recorded.
func WithEventRecorder(recorder EventRecorder) Option {
	return func(l *Library) error {
		if recorder == nil {
			return ErrNilOption
		}

		l.recorder = recorder

		return nil
	}
}
