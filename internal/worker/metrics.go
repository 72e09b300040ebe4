package worker

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// metrics holds the worker's report instrumentation. Instrument
// creation failures leave nil instruments, which recordRun skips.
type metrics struct {
	runCounter     otelmetric.Int64Counter
	runDuration    otelmetric.Float64Histogram
	groupsRetained otelmetric.Int64Histogram
}

func newMetrics() *metrics {
	meter := otel.Meter("ticketlens/worker")

	m := &metrics{}
	m.runCounter, _ = meter.Int64Counter("ticketlens.report.runs",
		otelmetric.WithDescription("Report generation runs by outcome"))
	m.runDuration, _ = meter.Float64Histogram("ticketlens.report.duration_seconds",
		otelmetric.WithDescription("Report generation duration"))
	m.groupsRetained, _ = meter.Int64Histogram("ticketlens.report.groups_retained",
		otelmetric.WithDescription("Clusters retained per report"))
	return m
}

func (m *metrics) recordRun(ctx context.Context, elapsed time.Duration, groups int, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	attrs := otelmetric.WithAttributes(attribute.String("outcome", outcome))

	if m.runCounter != nil {
		m.runCounter.Add(ctx, 1, attrs)
	}
	if m.runDuration != nil {
		m.runDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
	if ok && m.groupsRetained != nil {
		m.groupsRetained.Record(ctx, int64(groups))
	}
}
