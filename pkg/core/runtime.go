package core

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/go-drift/reconciler/pkg/devtools"
	"github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/host"
	"github.com/go-drift/reconciler/pkg/telemetry"
)

// DefaultMaxFlushPasses bounds how many dirty passes one flush may run before
// it gives up with errors.ErrUpdateLoop.
const DefaultMaxFlushPasses = 50

// Warner receives diagnostic messages.
type Warner interface {
	Warn(message string)
}

// DiagnosticWarner is optionally implemented by warners that want the full
// classified diagnostic instead of only its message.
type DiagnosticWarner interface {
	WarnDiagnostic(d *errors.Diagnostic)
}

// WarnerFunc adapts a function to Warner.
type WarnerFunc func(message string)

func (f WarnerFunc) Warn(message string) { f(message) }

// Option configures a Runtime.
type Option func(*Runtime)

// WithWarner sets the diagnostics collaborator. The default forwards to the
// global errors handler.
func WithWarner(w Warner) Option {
	return func(rt *Runtime) {
		if w != nil {
			rt.warner = w
		}
	}
}

// WithHook adds a devtools observer. Observers implementing
// devtools.LifecycleHook also receive lifecycle events.
func WithHook(h devtools.Hook) Option {
	return func(rt *Runtime) {
		if h != nil {
			rt.hooks = append(rt.hooks, h)
		}
	}
}

// WithLogger sets the logger for runtime debug records.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithMetrics sets the metric instruments. The default is telemetry.Default.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(rt *Runtime) {
		if m != nil {
			rt.metrics = m
		}
	}
}

// WithMaxFlushPasses overrides DefaultMaxFlushPasses.
func WithMaxFlushPasses(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxPasses = n
		}
	}
}

// WithContext sets the context used for spans and metric recording.
func WithContext(ctx context.Context) Option {
	return func(rt *Runtime) {
		if ctx != nil {
			rt.ctx = ctx
		}
	}
}

// Runtime mounts element trees into host containers and drives their
// lifecycle. Runtimes are independent: each has its own batching state,
// context stack, registry and devtools warner.
type Runtime struct {
	renderer  host.Renderer
	warner    Warner
	hooks     []devtools.Hook
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	ctx       context.Context
	maxPasses int

	tx       transaction
	stack    contextStack
	registry registry
	roots    map[host.Handle]*root

	owner             *instance
	childContextOwner *instance
	// reconciling is the instance whose render output is being reconciled.
	reconciling *instance
	// provisional holds the nodes created by the mounts in progress.
	provisional []node

	mountSeq    uint64
	warnedTypes map[*capabilities]bool
}

// NewRuntime creates a runtime rendering through renderer.
func NewRuntime(renderer host.Renderer, opts ...Option) *Runtime {
	rt := &Runtime{
		renderer:    renderer,
		warner:      errors.HandlerWarner{},
		logger:      slog.Default(),
		metrics:     telemetry.Default(),
		ctx:         context.Background(),
		maxPasses:   DefaultMaxFlushPasses,
		stack:       newContextStack(),
		registry:    newRegistry(),
		roots:       make(map[host.Handle]*root),
		warnedTypes: make(map[*capabilities]bool),
	}
	rt.hooks = append(rt.hooks, devtools.NewInvalidSetStateWarner(func(msg string) {
		d := &errors.Diagnostic{
			Kind:    errors.KindInvalidContextMutation,
			Op:      "SetState",
			Message: msg,
		}
		if rt.childContextOwner != nil {
			d.Component = rt.childContextOwner.def.name
		}
		rt.warn(d)
	}))
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// root is a mounted top-level tree. It is the host slot of its node.
type root struct {
	rt        *Runtime
	container host.Handle
	node      node
	handles   []host.Handle
	// seq orders roots by creation.
	seq uint64
}

func (r *root) syncChildren() {
	var handles []host.Handle
	if r.node != nil {
		if h := r.node.hostHandle(); h != nil {
			handles = []host.Handle{h}
		}
	}
	if len(handles) == len(r.handles) && (len(handles) == 0 || handles[0] == r.handles[0]) {
		return
	}
	r.handles = handles
	r.rt.renderer.ReplaceChildren(r.container, handles)
}

// Mount renders def with props into container. See Render.
func (rt *Runtime) Mount(def *Definition, props Props, container host.Handle) (Component, error) {
	if def == nil {
		return nil, errors.ErrNilDefinition
	}
	return rt.Render(C(def, props), container)
}

// Render makes container display el. When the container already holds a root
// of the same type and key, the root is updated in place and keeps its
// instance; otherwise the old root is unmounted and a new one mounted.
//
// The returned Component is the root instance for composite elements and nil
// for host elements. Failures in render or any lifecycle hook are returned as
// *errors.RenderError; the runtime stays usable afterwards.
func (rt *Runtime) Render(el *Element, container host.Handle) (Component, error) {
	if container == nil {
		return nil, errors.ErrNoContainer
	}
	if el == nil {
		_, err := rt.Unmount(container)
		return nil, err
	}
	if rt.owner != nil {
		rt.warn(nestedRenderDiagnostic(rt.owner))
	}

	var public Component
	created := false
	err := rt.batchedUpdates(func() {
		prevOwner, prevReconciling := rt.owner, rt.reconciling
		rt.owner, rt.reconciling = nil, nil
		defer func() { rt.owner, rt.reconciling = prevOwner, prevReconciling }()
		restore := rt.stack.push(rt.stack.root)
		defer restore()

		mark := len(rt.provisional)
		r := rt.roots[container]
		if r != nil && r.node != nil && canUpdate(r.node.currentElement(), el) {
			rt.receiveNode(r.node, el)
		} else {
			if r != nil && r.node != nil {
				rt.unmountNode(r.node)
				r.node = nil
			}
			if r == nil {
				r = &root{rt: rt, container: container, seq: rt.nextMountSeq()}
				rt.roots[container] = r
				created = true
			}
			r.node = rt.mountNode(el, r, 0)
		}
		rt.settle(mark)
		r.syncChildren()
		if c, ok := r.node.publicHandle().(Component); ok {
			public = c
		}
		rt.logger.Debug("render root", "type", elementName(el), "created", created)
	})
	if err != nil {
		if r := rt.roots[container]; r != nil && (created || r.node == nil) {
			delete(rt.roots, container)
		}
		return nil, err
	}
	return public, nil
}

// Unmount tears down the tree mounted in container. It reports whether there
// was one.
func (rt *Runtime) Unmount(container host.Handle) (bool, error) {
	r := rt.roots[container]
	if r == nil {
		return false, nil
	}
	if rt.owner != nil {
		rt.warn(nestedRenderDiagnostic(rt.owner))
	}
	err := rt.batchedUpdates(func() {
		delete(rt.roots, container)
		if r.node != nil {
			rt.unmountNode(r.node)
			r.node = nil
		}
		r.syncChildren()
		rt.logger.Debug("unmount root")
	})
	return true, err
}

// BatchedUpdates runs fn with state requests coalesced until it returns.
// Nested calls join the outermost batch. The returned error reports a panic
// in fn or a failure while flushing.
func (rt *Runtime) BatchedUpdates(fn func()) error {
	return rt.batchedUpdates(fn)
}

// Lookup returns the live component with the given instance ID.
func (rt *Runtime) Lookup(id uuid.UUID) (Component, bool) {
	inst, ok := rt.registry.lookup(id)
	if !ok {
		return nil, false
	}
	return inst.component, true
}

// enqueue records a state request on inst and schedules it, opening an
// implicit batch when none is active.
func (rt *Runtime) enqueue(inst *instance, op string, u update) {
	for _, h := range rt.hooks {
		notify("OnSetState", h.OnSetState)
	}
	switch inst.lifecycle {
	case Unmounting:
		return
	case Unmounted:
		rt.warn(unmountedDiagnostic(inst.def.name, op))
		return
	}
	if owner := rt.owner; owner != nil && !owner.warnedInRender {
		owner.warnedInRender = true
		rt.warn(renderSideEffectDiagnostic(owner, op))
	}
	inst.queue.push(u)
	if err := rt.batchedUpdates(func() { rt.tx.markDirty(inst) }); err != nil {
		rt.reportError(err)
	}
}

func (rt *Runtime) reportError(err error) {
	re, ok := err.(*errors.RenderError)
	if !ok {
		re = &errors.RenderError{Phase: errors.PhaseBatch, Err: err}
	}
	errors.ReportRenderError(re)
}

func (rt *Runtime) warn(d *errors.Diagnostic) {
	rt.metrics.RecordDiagnostic(rt.ctx, d.Kind.String())
	if dw, ok := rt.warner.(DiagnosticWarner); ok {
		dw.WarnDiagnostic(d)
		return
	}
	rt.warner.Warn(d.Message)
}

func (rt *Runtime) beginChildContext(inst *instance) {
	rt.childContextOwner = inst
	for _, h := range rt.hooks {
		notify("OnBeginProcessingChildContext", h.OnBeginProcessingChildContext)
	}
}

func (rt *Runtime) endChildContext() {
	for _, h := range rt.hooks {
		notify("OnEndProcessingChildContext", h.OnEndProcessingChildContext)
	}
	rt.childContextOwner = nil
}

func (rt *Runtime) emit(kind devtools.EventKind, inst *instance, count int) {
	ev := devtools.Event{Kind: kind, Count: count}
	if inst != nil {
		ev.Instance = inst.id
		ev.Component = inst.def.name
	}
	for _, h := range rt.hooks {
		if lh, ok := h.(devtools.LifecycleHook); ok {
			notify("OnLifecycle", func() { lh.OnLifecycle(ev) })
		}
	}
}

// notify calls a devtools hook. A panicking hook is reported to the errors
// handler and does not interrupt reconciliation.
func notify(op string, fn func()) {
	defer errors.Recover("devtools." + op)
	fn()
}

func (rt *Runtime) nextMountSeq() uint64 {
	rt.mountSeq++
	return rt.mountSeq
}

// reportSuspiciousMethods raises the typo diagnostics of inst's type once per
// runtime.
func (rt *Runtime) reportSuspiciousMethods(inst *instance) {
	if len(inst.caps.suspicious) == 0 || rt.warnedTypes[inst.caps] {
		return
	}
	rt.warnedTypes[inst.caps] = true
	for _, msg := range inst.caps.suspicious {
		rt.warn(&errors.Diagnostic{
			Kind:      errors.KindLifecycleTypo,
			Component: inst.def.name,
			Message:   msg,
		})
	}
}

func elementName(el *Element) string {
	if def := el.Definition(); def != nil {
		return def.name
	}
	return el.Tag()
}
