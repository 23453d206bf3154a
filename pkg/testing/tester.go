package testing

import (
	"context"
	"sync"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/go-drift/reconciler/pkg/core"
	"github.com/go-drift/reconciler/pkg/devtools"
	"github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/host/memory"
	"github.com/go-drift/reconciler/pkg/telemetry"
)

// Tester drives one runtime over an in-memory document with a single
// container, recording diagnostics, devtools events and metrics.
type Tester struct {
	rt        *core.Runtime
	doc       *memory.Document
	container *memory.Node
	devtools  *devtools.Recorder
	reader    *sdkmetric.ManualReader
	provider  *sdkmetric.MeterProvider

	mu          sync.Mutex
	diagnostics []*errors.Diagnostic
}

// NewTester creates a tester. Extra options are applied after the tester's
// own, so they may replace the warner or metrics.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester(opts ...core.Option) *Tester {
	t := &Tester{
		doc:      memory.NewDocument(),
		devtools: &devtools.Recorder{},
		reader:   sdkmetric.NewManualReader(),
	}
	t.container = t.doc.NewContainer()
	t.provider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(t.reader))

	metrics, err := telemetry.NewMetrics(t.provider.Meter(telemetry.InstrumentationName))
	if err != nil {
		metrics = telemetry.Noop()
	}
	base := []core.Option{
		core.WithWarner(t),
		core.WithHook(t.devtools),
		core.WithMetrics(metrics),
	}
	t.rt = core.NewRuntime(t.doc, append(base, opts...)...)
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...core.Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree and shuts down the meter provider.
func (t *Tester) Cleanup() {
	_, _ = t.rt.Unmount(t.container)
	_ = t.provider.Shutdown(context.Background())
}

// Runtime returns the runtime under test.
func (t *Tester) Runtime() *core.Runtime { return t.rt }

// Document returns the in-memory host.
func (t *Tester) Document() *memory.Document { return t.doc }

// Container returns the container the tester mounts into.
func (t *Tester) Container() *memory.Node { return t.container }

// Devtools returns the recorder installed as a devtools hook.
func (t *Tester) Devtools() *devtools.Recorder { return t.devtools }

// Mount renders def with props into the tester's container.
func (t *Tester) Mount(def *core.Definition, props core.Props) (core.Component, error) {
	return t.rt.Mount(def, props, t.container)
}

// Render renders el into the tester's container.
func (t *Tester) Render(el *core.Element) (core.Component, error) {
	return t.rt.Render(el, t.container)
}

// Unmount tears down the tester's container.
func (t *Tester) Unmount() error {
	_, err := t.rt.Unmount(t.container)
	return err
}

// Batch runs fn inside a batch.
func (t *Tester) Batch(fn func()) error {
	return t.rt.BatchedUpdates(fn)
}

// Text returns the text content of the container.
func (t *Tester) Text() string {
	return t.container.TextContent()
}

// Markup returns the container's subtree as markup.
func (t *Tester) Markup() string {
	return t.container.String()
}

// Warn implements core.Warner.
func (t *Tester) Warn(message string) {
	t.WarnDiagnostic(&errors.Diagnostic{Message: message})
}

// WarnDiagnostic implements core.DiagnosticWarner.
func (t *Tester) WarnDiagnostic(d *errors.Diagnostic) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.diagnostics = append(t.diagnostics, d)
}

// Diagnostics returns every diagnostic raised so far.
func (t *Tester) Diagnostics() []*errors.Diagnostic {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*errors.Diagnostic, len(t.diagnostics))
	copy(out, t.diagnostics)
	return out
}

// DiagnosticsOf returns the diagnostics of one kind.
func (t *Tester) DiagnosticsOf(kind errors.DiagnosticKind) []*errors.Diagnostic {
	var out []*errors.Diagnostic
	for _, d := range t.Diagnostics() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// ResetDiagnostics forgets the diagnostics raised so far.
func (t *Tester) ResetDiagnostics() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.diagnostics = nil
}

// Counter returns the cumulative value of an integer counter, summed over
// all attribute sets. Unknown counters read as zero.
func (t *Tester) Counter(name string) int64 {
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(context.Background(), &rm); err != nil {
		return 0
	}
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
