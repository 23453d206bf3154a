// Package scenario contains the built-in component scenarios run by the
// demo command. Each scenario drives a runtime over an in-memory host and
// records the host markup after every step.
package scenario

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/go-drift/reconciler/pkg/core"
	"github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/host/memory"
)

// Step is the observable state after one scenario step.
type Step struct {
	Label  string       `json:"label"`
	Markup string       `json:"markup"`
	Stats  memory.Stats `json:"stats"`
}

// Result is the outcome of running a scenario.
type Result struct {
	Scenario    string              `json:"scenario"`
	Steps       []Step              `json:"steps"`
	Diagnostics []*errors.Diagnostic `json:"diagnostics,omitempty"`
}

// Scenario is a named, repeatable sequence of runtime operations.
type Scenario struct {
	Name    string
	Summary string
	run     func(e *env) error
}

var registry = map[string]*Scenario{}

func register(s *Scenario) {
	registry[s.Name] = s
}

// Names returns the registered scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the scenario with the given name.
func Lookup(name string) (*Scenario, bool) {
	s, ok := registry[name]
	return s, ok
}

// Run executes the scenario on a fresh runtime built with opts. Diagnostics
// are collected into the result; opts must not replace the warner. A panic
// outside the runtime is reported to the errors handler and returned as an
// *errors.PanicError.
func (s *Scenario) Run(opts ...core.Option) (res *Result, err error) {
	e := &env{
		doc:    memory.NewDocument(),
		result: &Result{Scenario: s.Name},
	}
	e.container = e.doc.NewContainer()
	opts = append(slices.Clone(opts), core.WithWarner(e))
	e.rt = core.NewRuntime(e.doc, opts...)

	defer func() {
		if r := recover(); r != nil {
			pe := &errors.PanicError{
				Op:         "scenario." + s.Name,
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			errors.ReportPanic(pe)
			res, err = e.result, pe
		}
	}()

	if err := s.run(e); err != nil {
		return e.result, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if _, err := e.rt.Unmount(e.container); err != nil {
		return e.result, fmt.Errorf("scenario %s: unmount: %w", s.Name, err)
	}
	e.step("unmount")
	return e.result, nil
}

// env is the state shared by the steps of one run.
type env struct {
	rt        *core.Runtime
	doc       *memory.Document
	container *memory.Node
	result    *Result
}

func (e *env) Warn(message string) {
	e.WarnDiagnostic(&errors.Diagnostic{Message: message})
}

func (e *env) WarnDiagnostic(d *errors.Diagnostic) {
	e.result.Diagnostics = append(e.result.Diagnostics, d)
}

func (e *env) step(label string) {
	e.result.Steps = append(e.result.Steps, Step{
		Label:  label,
		Markup: e.container.String(),
		Stats:  e.doc.Stats(),
	})
}

func (e *env) render(label string, el *core.Element) (core.Component, error) {
	c, err := e.rt.Render(el, e.container)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	e.step(label)
	return c, nil
}

func (e *env) batch(label string, fn func()) error {
	if err := e.rt.BatchedUpdates(fn); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	e.step(label)
	return nil
}
