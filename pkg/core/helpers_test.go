package core

import (
	"fmt"
	"testing"

	"github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/host/memory"
	"github.com/go-drift/reconciler/pkg/telemetry"
)

// warnings collects diagnostics raised by a runtime under test.
type warnings struct {
	list []*errors.Diagnostic
}

func (w *warnings) Warn(message string) {
	w.list = append(w.list, &errors.Diagnostic{Message: message})
}

func (w *warnings) WarnDiagnostic(d *errors.Diagnostic) {
	w.list = append(w.list, d)
}

func (w *warnings) count(kind errors.DiagnosticKind) int {
	n := 0
	for _, d := range w.list {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	rt        *Runtime
	doc       *memory.Document
	container *memory.Node
	warns     *warnings
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	doc := memory.NewDocument()
	w := &warnings{}
	opts = append([]Option{WithWarner(w), WithMetrics(telemetry.Noop())}, opts...)
	return &fixture{
		rt:        NewRuntime(doc, opts...),
		doc:       doc,
		container: doc.NewContainer(),
		warns:     w,
	}
}

func (f *fixture) mount(t *testing.T, def *Definition, props Props) Component {
	t.Helper()
	c, err := f.rt.Mount(def, props, f.container)
	if err != nil {
		t.Fatalf("Mount(%s): %v", def.Name(), err)
	}
	return c
}

func (f *fixture) render(t *testing.T, el *Element) Component {
	t.Helper()
	c, err := f.rt.Render(el, f.container)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return c
}

// counter renders its "n" state as text.
type counter struct {
	Base
	renders int
}

func (c *counter) InitialState() any { return map[string]any{"n": 0} }

func (c *counter) Render() *Element {
	c.renders++
	return H("span", nil, Text(fmt.Sprint(c.StateMap()["n"])))
}

var counterDef = Define("Counter", func(Props) Component { return &counter{} })
