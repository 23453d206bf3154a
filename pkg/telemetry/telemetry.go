// Package telemetry provides OpenTelemetry instruments for the reconciler.
//
// The runtime records render passes, flushes, mounts, unmounts and
// diagnostics through Metrics, and wraps every flush in a span. With no SDK
// installed the global OTel providers are no-ops, so instrumentation costs
// nothing unless an application configures exporters.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the meter and tracer name used by the runtime.
const InstrumentationName = "github.com/go-drift/reconciler"

// Metrics contains the runtime's instruments.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// RenderPasses counts Render invocations by component.
	RenderPasses metric.Int64Counter

	// Flushes counts completed batch flushes.
	Flushes metric.Int64Counter

	// FlushDuration records flush duration in seconds.
	FlushDuration metric.Float64Histogram

	// Mounts counts composite instances mounted.
	Mounts metric.Int64Counter

	// Unmounts counts composite instances unmounted.
	Unmounts metric.Int64Counter

	// Diagnostics counts diagnostics by kind.
	Diagnostics metric.Int64Counter
}

// NewMetrics registers all instruments with meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.RenderPasses, err = meter.Int64Counter(
		"reconciler_render_passes_total",
		metric.WithDescription("Total component render invocations"),
		metric.WithUnit("{render}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create render_passes_total: %w", err)
	}

	m.Flushes, err = meter.Int64Counter(
		"reconciler_flushes_total",
		metric.WithDescription("Total batched update flushes"),
		metric.WithUnit("{flush}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create flushes_total: %w", err)
	}

	m.FlushDuration, err = meter.Float64Histogram(
		"reconciler_flush_duration_seconds",
		metric.WithDescription("Batched update flush duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create flush_duration: %w", err)
	}

	m.Mounts, err = meter.Int64Counter(
		"reconciler_mounts_total",
		metric.WithDescription("Total composite instances mounted"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create mounts_total: %w", err)
	}

	m.Unmounts, err = meter.Int64Counter(
		"reconciler_unmounts_total",
		metric.WithDescription("Total composite instances unmounted"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create unmounts_total: %w", err)
	}

	m.Diagnostics, err = meter.Int64Counter(
		"reconciler_diagnostics_total",
		metric.WithDescription("Total diagnostics raised"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create diagnostics_total: %w", err)
	}

	return m, nil
}

// Default returns instruments registered on the global meter provider.
// Registration against the global provider cannot fail in practice; if it
// does, Default falls back to no-op instruments.
func Default() *Metrics {
	m, err := NewMetrics(otel.Meter(InstrumentationName))
	if err != nil {
		return Noop()
	}
	return m
}

// Noop returns instruments that record nothing.
func Noop() *Metrics {
	m, _ := NewMetrics(noopMeter())
	return m
}

// RecordRender counts one render of component.
func (m *Metrics) RecordRender(ctx context.Context, component string) {
	m.RenderPasses.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
}

// RecordFlush counts one flush of n instances that took seconds.
func (m *Metrics) RecordFlush(ctx context.Context, n int, seconds float64) {
	m.Flushes.Add(ctx, 1)
	m.FlushDuration.Record(ctx, seconds, metric.WithAttributes(attribute.Int("instances", n)))
}

// RecordMount counts one mounted instance of component.
func (m *Metrics) RecordMount(ctx context.Context, component string) {
	m.Mounts.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
}

// RecordUnmount counts one unmounted instance of component.
func (m *Metrics) RecordUnmount(ctx context.Context, component string) {
	m.Unmounts.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
}

// RecordDiagnostic counts one diagnostic of kind.
func (m *Metrics) RecordDiagnostic(ctx context.Context, kind string) {
	m.Diagnostics.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// StartSpan starts a span on the runtime tracer.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(InstrumentationName).Start(ctx, spanName, opts...)
}

// RecordError marks span as failed with err.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
