package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func sumOf(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestNewMetrics_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRender(ctx, "Counter")
	m.RecordRender(ctx, "Counter")
	m.RecordMount(ctx, "Counter")
	m.RecordUnmount(ctx, "Counter")
	m.RecordDiagnostic(ctx, "render-side-effect")
	m.RecordFlush(ctx, 3, 0.002)

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(rm, "reconciler_render_passes_total"))
	assert.Equal(t, int64(1), sumOf(rm, "reconciler_mounts_total"))
	assert.Equal(t, int64(1), sumOf(rm, "reconciler_unmounts_total"))
	assert.Equal(t, int64(1), sumOf(rm, "reconciler_diagnostics_total"))
	assert.Equal(t, int64(1), sumOf(rm, "reconciler_flushes_total"))
}

func TestNoopAndDefault(t *testing.T) {
	ctx := context.Background()
	for _, m := range []*Metrics{Noop(), Default()} {
		require.NotNil(t, m)
		assert.NotPanics(t, func() {
			m.RecordRender(ctx, "A")
			m.RecordFlush(ctx, 1, 0.1)
		})
	}
}

func TestStartSpanAndRecordError(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "flush")
	require.NotNil(t, ctx)
	assert.NotPanics(t, func() {
		RecordError(span, errors.New("boom"))
		RecordError(span, nil)
		span.End()
	})

	_, nspan := noop.NewTracerProvider().Tracer("x").Start(context.Background(), "y")
	RecordError(nspan, errors.New("ignored"))
}
