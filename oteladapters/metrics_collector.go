package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

var instrumentDescriptions = map[string]string{
	circulation.MetricOperationDuration:      "Duration of library circulation operations",
	circulation.MetricOperations:             "Number of library circulation operations by status",
	circulation.MetricErrors:                 "Number of rejected library circulation operations by error type",
	circulation.MetricEventRecordingFailures: "Number of domain events the event recorder refused",
	circulation.MetricBooksOnLoan:            "Number of books currently held by users",
}

// MetricsCollector implements circulation.MetricsCollector and circulation.ContextualMetricsCollector
// using the OpenTelemetry metrics API. Instruments are created lazily on first use and cached by name.
type MetricsCollector struct {
	meter metric.Meter

	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

// NewMetricsCollector creates a new OpenTelemetry metrics collector.
// The meter should be created from your OpenTelemetry MeterProvider.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

// RecordDuration records a duration in seconds on a histogram named metric.
func (c *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	c.RecordDurationContext(context.Background(), metric, duration, labels)
}

// RecordDurationContext records a duration with context, so exemplars can link to the active span.
func (c *MetricsCollector) RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	histogram, err := c.histogram(metric)
	if err != nil {
		return
	}

	histogram.Record(ctx, duration.Seconds(), withAttributes(labels))
}

// IncrementCounter adds one to the counter named metric.
func (c *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	c.IncrementCounterContext(context.Background(), metric, labels)
}

// IncrementCounterContext adds one to the counter named metric with context.
func (c *MetricsCollector) IncrementCounterContext(ctx context.Context, metric string, labels map[string]string) {
	counter, err := c.counter(metric)
	if err != nil {
		return
	}

	counter.Add(ctx, 1, withAttributes(labels))
}

// RecordValue sets the gauge named metric.
func (c *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	c.RecordValueContext(context.Background(), metric, value, labels)
}

// RecordValueContext sets the gauge named metric with context.
func (c *MetricsCollector) RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string) {
	gauge, err := c.gauge(metric)
	if err != nil {
		return
	}

	gauge.Record(ctx, value, withAttributes(labels))
}

func (c *MetricsCollector) histogram(name string) (metric.Float64Histogram, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if histogram, ok := c.histograms[name]; ok {
		return histogram, nil
	}

	histogram, err := c.meter.Float64Histogram(name, metric.WithDescription(describe(name)), metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	c.histograms[name] = histogram

	return histogram, nil
}

func (c *MetricsCollector) counter(name string) (metric.Int64Counter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[name]; ok {
		return counter, nil
	}

	counter, err := c.meter.Int64Counter(name, metric.WithDescription(describe(name)))
	if err != nil {
		return nil, err
	}

	c.counters[name] = counter

	return counter, nil
}

func (c *MetricsCollector) gauge(name string) (metric.Float64Gauge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gauge, ok := c.gauges[name]; ok {
		return gauge, nil
	}

	gauge, err := c.meter.Float64Gauge(name, metric.WithDescription(describe(name)))
	if err != nil {
		return nil, err
	}

	c.gauges[name] = gauge

	return gauge, nil
}

func describe(name string) string {
	if description, ok := instrumentDescriptions[name]; ok {
		return description
	}

	return "Library circulation metric " + name
}

func withAttributes(labels map[string]string) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return metric.WithAttributes(attrs...)
}

var (
	_ circulation.MetricsCollector           = (*MetricsCollector)(nil)
	_ circulation.ContextualMetricsCollector = (*MetricsCollector)(nil)
)
