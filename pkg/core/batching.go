package core

import (
	"cmp"
	"slices"
	"time"

	"github.com/go-drift/reconciler/pkg/devtools"
	"github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/telemetry"
)

// task is a deferred hook invocation attributed to an instance.
type task struct {
	inst  *instance
	phase errors.Phase
	fn    func()
}

// transaction is the batching state shared by every update inside one
// outermost BatchedUpdates call.
type transaction struct {
	depth    int
	dirty    []*instance
	dirtySet map[*instance]struct{}
	// ready holds DidMount and DidUpdate calls, in completion order.
	ready []task
	// callbacks holds state request callbacks, in request order.
	callbacks []task
}

func (t *transaction) batching() bool {
	return t.depth > 0
}

// markDirty schedules inst for the next flush pass. Duplicate marks coalesce.
func (t *transaction) markDirty(inst *instance) {
	if t.dirtySet == nil {
		t.dirtySet = make(map[*instance]struct{})
	}
	if _, ok := t.dirtySet[inst]; ok {
		return
	}
	t.dirtySet[inst] = struct{}{}
	t.dirty = append(t.dirty, inst)
}

// takeDirty returns the dirty instances parents-first and clears the list.
// Instances at equal depth keep mount order.
func (t *transaction) takeDirty() []*instance {
	dirty := t.dirty
	t.dirty = nil
	clear(t.dirtySet)
	slices.SortFunc(dirty, func(a, b *instance) int {
		return cmp.Or(cmp.Compare(a.depth, b.depth), cmp.Compare(a.mountSeq, b.mountSeq))
	})
	return dirty
}

func (t *transaction) enqueueReady(inst *instance, phase errors.Phase, fn func()) {
	t.ready = append(t.ready, task{inst: inst, phase: phase, fn: fn})
}

func (t *transaction) enqueueCallbacks(inst *instance, callbacks []func()) {
	for _, cb := range callbacks {
		t.callbacks = append(t.callbacks, task{inst: inst, phase: errors.PhaseCallback, fn: cb})
	}
}

func (t *transaction) idle() bool {
	return len(t.dirty) == 0 && len(t.ready) == 0 && len(t.callbacks) == 0
}

// reset drops the dirty list and every queued task after a failure.
// Instances keep their pending requests and are re-marked by the next one.
func (t *transaction) reset() {
	t.dirty = nil
	clear(t.dirtySet)
	t.ready = nil
	t.callbacks = nil
}

// batchedUpdates runs fn inside a batch. The outermost call flushes when fn
// returns and converts any panic raised below it into an error; nested calls
// run fn directly.
func (rt *Runtime) batchedUpdates(fn func()) (err error) {
	if rt.tx.batching() {
		fn()
		return nil
	}
	rt.tx.depth++
	defer func() {
		rt.tx.depth--
		if r := recover(); r != nil {
			err = recoveredError(r)
			// Nodes mounted by the failed update were never attached.
			rt.abandon(0)
			rt.tx.reset()
			rt.stack.reset()
			rt.owner = nil
			rt.childContextOwner = nil
			rt.reconciling = nil
		}
	}()
	fn()
	return rt.flush()
}

// flush alternates between running ready tasks and re-rendering dirty
// instances until nothing is left. Each instance with pending requests
// renders at most once per pass.
func (rt *Runtime) flush() error {
	ctx, span := telemetry.StartSpan(rt.ctx, "reconciler.flush")
	defer span.End()

	start := time.Now()
	updated := 0
	passes := 0
	for !rt.tx.idle() {
		rt.runReady()
		if len(rt.tx.dirty) == 0 {
			continue
		}
		passes++
		if passes > rt.maxPasses {
			rt.tx.reset()
			telemetry.RecordError(span, errors.ErrUpdateLoop)
			rt.logger.Error("flush aborted", "passes", passes-1, "error", errors.ErrUpdateLoop)
			return errors.ErrUpdateLoop
		}
		for _, inst := range rt.tx.takeDirty() {
			if inst.performPendingUpdate() {
				updated++
			}
		}
	}
	if passes == 0 && updated == 0 {
		return nil
	}
	rt.metrics.RecordFlush(ctx, updated, time.Since(start).Seconds())
	rt.logger.Debug("flush", "passes", passes, "updated", updated)
	rt.emit(devtools.EventFlush, nil, updated)
	return nil
}

// runReady drains ready tasks and then callbacks, including any queued while
// draining.
func (rt *Runtime) runReady() {
	for len(rt.tx.ready) > 0 || len(rt.tx.callbacks) > 0 {
		ready := rt.tx.ready
		rt.tx.ready = nil
		for _, t := range ready {
			if t.inst.lifecycle == Unmounted {
				continue
			}
			rt.guard(t.inst, t.phase, t.fn)
		}
		callbacks := rt.tx.callbacks
		rt.tx.callbacks = nil
		for _, t := range callbacks {
			rt.guard(t.inst, t.phase, t.fn)
		}
	}
}
