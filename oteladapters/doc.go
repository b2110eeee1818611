// Package oteladapters provides OpenTelemetry adapters for the circulation observability interfaces.
//
// The circulation package only knows its own small Logger, MetricsCollector and TracingCollector
// interfaces. The adapters here map them onto the OpenTelemetry APIs:
//
//	library, err := circulation.NewLibrary(info,
//		circulation.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("librarian"))),
//		circulation.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("librarian"))),
//		circulation.WithContextualLogger(oteladapters.NewSlogBridgeLogger("librarian")),
//	)
package oteladapters
