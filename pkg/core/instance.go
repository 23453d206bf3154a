package core

import (
	"github.com/google/uuid"

	"github.com/go-drift/reconciler/pkg/devtools"
	"github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/host"
)

// Lifecycle is the state of a composite instance.
type Lifecycle int

const (
	// Unmounted is the state before mounting starts and after unmounting
	// completes. A destroyed instance never mounts again.
	Unmounted Lifecycle = iota
	// Mounting covers construction through the first render of the subtree.
	Mounting
	// Mounted is the resting state.
	Mounted
	// Updating covers WillReceiveProps through the re-render of the subtree.
	Updating
	// Unmounting covers WillUnmount and the teardown of the subtree.
	Unmounting
)

func (l Lifecycle) String() string {
	switch l {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Mounted:
		return "mounted"
	case Updating:
		return "updating"
	case Unmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}

// instance is the runtime record of one mounted composite.
type instance struct {
	ownerLink

	id   uuid.UUID
	rt   *Runtime
	def  *Definition
	caps *capabilities

	component Component
	el        *Element
	props     Props
	state     any
	context   Context
	// frame is the unmasked frame received from ancestors; childFrame is the
	// frame this instance publishes to its subtree.
	frame      *contextFrame
	childFrame *contextFrame

	lifecycle Lifecycle
	destroyed bool
	queue     updateQueue
	refs      map[string]node

	hostParent hostSlot
	rendered   node
	// created holds the elements of the last render output that this
	// instance created, as opposed to received through Children.
	created    map[*Element]struct{}
	depth      int
	mountSeq   uint64

	// warnedInRender limits the render side-effect diagnostic to one per
	// render call of this instance.
	warnedInRender bool
}

func (rt *Runtime) newInstance(def *Definition, el *Element) *instance {
	return &instance{
		id:  uuid.Must(uuid.NewV7()),
		rt:  rt,
		def: def,
		el:  el,
	}
}

func (inst *instance) currentElement() *Element     { return inst.el }
func (inst *instance) receivedFrame() *contextFrame { return inst.frame }
func (inst *instance) publicHandle() any            { return inst.component }

func (inst *instance) hostHandle() host.Handle {
	if inst.rendered == nil {
		return nil
	}
	return inst.rendered.hostHandle()
}

// mount constructs the component, applies initial state and WillMount
// requests, renders and mounts the subtree. DidMount is deferred to the
// batch's ready queue, so it runs after every descendant's DidMount.
func (inst *instance) mount(slot hostSlot, depth int) {
	rt := inst.rt
	if inst.destroyed {
		panic("core: a destroyed instance cannot be mounted again")
	}
	inst.lifecycle = Mounting
	inst.hostParent = slot
	inst.depth = depth
	inst.mountSeq = rt.nextMountSeq()
	inst.frame = rt.stack.current()
	inst.context = inst.frame.mask(inst.def.contextTypes)
	inst.props = inst.def.resolveProps(inst.el)
	rt.registry.add(inst)
	defer func() {
		// A panic left the instance half-mounted; it is never reused.
		if inst.lifecycle == Mounting {
			inst.lifecycle = Unmounted
			inst.destroyed = true
			rt.registry.remove(inst)
		}
	}()

	rt.guard(inst, errors.PhaseConstruct, func() {
		inst.component = inst.def.factory(inst.props)
	})
	if inst.component == nil {
		panic(&hookPanic{err: newRenderError(inst, errors.PhaseConstruct, "factory returned a nil component")})
	}
	inst.component.base().attach(inst)
	inst.caps = inst.def.capabilitiesFor(inst.component)
	rt.reportSuspiciousMethods(inst)

	if inst.caps.initialState {
		rt.guard(inst, errors.PhaseInitialState, func() {
			inst.state = inst.component.(InitialStater).InitialState()
		})
	}
	if inst.caps.willMount {
		rt.guard(inst, errors.PhaseWillMount, inst.component.(WillMounter).WillMount)
		if inst.queue.pending() {
			next, _, callbacks := inst.queue.drain(inst.state, inst.props)
			inst.state = next
			rt.tx.enqueueCallbacks(inst, callbacks)
		}
	}

	inst.renderSubtree()
	inst.lifecycle = Mounted

	if inst.caps.didMount {
		rt.tx.enqueueReady(inst, errors.PhaseDidMount, inst.component.(DidMounter).DidMount)
	}
	rt.metrics.RecordMount(rt.ctx, inst.def.name)
	rt.emit(devtools.EventMount, inst, 0)
}

// receive handles a re-render by the parent with a new element or a new
// context frame.
func (inst *instance) receive(el *Element) {
	inst.update(el, inst.rt.stack.current())
}

// performPendingUpdate applies queued requests during a flush. It is a no-op
// when an ancestor's update already drained the queue.
func (inst *instance) performPendingUpdate() bool {
	if inst.lifecycle != Mounted || !inst.queue.pending() {
		return false
	}
	rt := inst.rt
	restore := rt.stack.push(inst.frame)
	defer restore()

	prevHandle := inst.hostHandle()
	mark := len(rt.provisional)
	inst.update(inst.el, inst.frame)
	rt.settle(mark)
	if inst.hostHandle() != prevHandle && inst.hostParent != nil {
		inst.hostParent.syncChildren()
	}
	return true
}

// update runs the update sequence. The element and frame may be the current
// ones, in which case WillReceiveProps is not called and props and context
// are reused as-is.
func (inst *instance) update(nextEl *Element, nextFrame *contextFrame) {
	rt := inst.rt
	inst.lifecycle = Updating
	defer func() {
		if inst.lifecycle == Updating {
			inst.lifecycle = Mounted
		}
	}()

	nextProps := inst.props
	if nextEl != inst.el {
		nextProps = inst.def.resolveProps(nextEl)
	}
	nextContext := inst.context
	if nextFrame != inst.frame {
		nextContext = nextFrame.mask(inst.def.contextTypes)
	}
	if (nextEl != inst.el || nextFrame != inst.frame) && inst.caps.receiver {
		rt.guard(inst, errors.PhaseWillReceiveProps, func() {
			inst.component.(PropsReceiver).WillReceiveProps(nextProps, nextContext)
		})
	}

	nextState, force, callbacks := inst.queue.drain(inst.state, nextProps)
	rt.tx.enqueueCallbacks(inst, callbacks)

	shouldUpdate := true
	if !force && inst.caps.decider {
		var decision Decision
		rt.guard(inst, errors.PhaseShouldUpdate, func() {
			decision = inst.component.(UpdateDecider).ShouldUpdate(nextProps, nextState, nextContext)
		})
		switch decision {
		case Proceed:
		case Skip:
			shouldUpdate = false
		default:
			rt.warn(undecidedDiagnostic(inst))
		}
	}

	if !shouldUpdate {
		inst.el, inst.frame = nextEl, nextFrame
		inst.props, inst.state, inst.context = nextProps, nextState, nextContext
		return
	}

	if inst.caps.willUpdate {
		rt.guard(inst, errors.PhaseWillUpdate, func() {
			inst.component.(WillUpdater).WillUpdate(nextProps, nextState, nextContext)
		})
	}
	prevProps, prevState, prevContext := inst.props, inst.state, inst.context
	inst.el, inst.frame = nextEl, nextFrame
	inst.props, inst.state, inst.context = nextProps, nextState, nextContext

	inst.renderSubtree()

	if inst.caps.didUpdate {
		rt.tx.enqueueReady(inst, errors.PhaseDidUpdate, func() {
			inst.component.(DidUpdater).DidUpdate(prevProps, prevState, prevContext)
		})
	}
	rt.emit(devtools.EventUpdate, inst, 0)
}

// renderSubtree renders, computes the child context and reconciles the single
// rendered child under it.
func (inst *instance) renderSubtree() {
	rt := inst.rt
	el := inst.render()
	inst.childFrame = inst.processChildContext()

	restore := rt.stack.push(inst.childFrame)
	defer restore()
	prevReconciling := rt.reconciling
	rt.reconciling = inst
	defer func() { rt.reconciling = prevReconciling }()
	inst.rendered = rt.reconcileChild(inst.rendered, el, inst.hostParent, inst.depth+1)
}

func (inst *instance) render() *Element {
	rt := inst.rt
	prevOwner := rt.owner
	rt.owner = inst
	inst.warnedInRender = false
	defer func() { rt.owner = prevOwner }()

	var el *Element
	rt.guard(inst, errors.PhaseRender, func() {
		el = inst.component.Render()
	})
	rt.metrics.RecordRender(rt.ctx, inst.def.name)
	inst.recordCreated(el)
	return el
}

// processChildContext runs ChildContext with the devtools hooks notified, and
// returns the frame to publish. Instances that do not provide context pass
// their received frame through unchanged.
func (inst *instance) processChildContext() *contextFrame {
	if !inst.caps.childContext {
		return inst.frame
	}
	rt := inst.rt
	rt.beginChildContext(inst)
	defer rt.endChildContext()

	var values Context
	rt.guard(inst, errors.PhaseChildContext, func() {
		values = inst.component.(ChildContexter).ChildContext()
	})
	declared := make(Context, len(values))
	for k, v := range values {
		if !inst.def.declaresChildContext(k) {
			rt.warn(undeclaredChildContextDiagnostic(inst, k))
			continue
		}
		declared[k] = v
	}
	return inst.frame.extend(declared)
}

// unmount runs WillUnmount, then tears down the subtree. Requests issued
// during teardown are dropped, and pending requests are discarded with their
// callbacks.
func (inst *instance) unmount() {
	if inst.destroyed {
		return
	}
	rt := inst.rt
	inst.lifecycle = Unmounting
	defer func() {
		inst.lifecycle = Unmounted
		inst.destroyed = true
		inst.queue.clear()
		rt.registry.remove(inst)
	}()

	if inst.caps != nil && inst.caps.willUnmount {
		rt.guard(inst, errors.PhaseWillUnmount, inst.component.(WillUnmounter).WillUnmount)
	}
	if inst.rendered != nil {
		rt.unmountNode(inst.rendered)
		inst.rendered = nil
	}
	clear(inst.refs)
	rt.metrics.RecordUnmount(rt.ctx, inst.def.name)
	rt.emit(devtools.EventUnmount, inst, 0)
}

// release destroys an instance whose mount was abandoned. Its subtree is
// released separately and no hooks run.
func (inst *instance) release() {
	inst.lifecycle = Unmounted
	inst.destroyed = true
	inst.queue.clear()
	inst.rendered = nil
	inst.created = nil
	clear(inst.refs)
	inst.rt.registry.remove(inst)
}
