package core

import (
	"maps"

	"github.com/google/uuid"

	"github.com/go-drift/reconciler/pkg/host"
)

// Base is embedded by every component. It connects the component value to
// the runtime instance that owns it and exposes the instance's props, state,
// context and refs.
//
// The zero Base is usable: accessors return zero values. Mutation requests
// made before the runtime attaches the component, such as from its factory,
// are dropped and reported as unmounted mutations through that runtime's
// warner once it does.
type Base struct {
	inst *instance
	// detached holds the ops requested before an instance was attached.
	detached []string
}

func (b *Base) base() *Base { return b }

// Props returns the resolved props of the last committed element.
func (b *Base) Props() Props {
	if b.inst == nil {
		return nil
	}
	return b.inst.props
}

// State returns the committed state.
func (b *Base) State() any {
	if b.inst == nil {
		return nil
	}
	return b.inst.state
}

// StateMap returns the committed state as a map. Map states are returned
// as-is; other states are converted to a fresh map.
func (b *Base) StateMap() map[string]any {
	if m, ok := b.State().(map[string]any); ok && m != nil {
		return m
	}
	return stateMap(b.State())
}

// Context returns the masked context: only the keys the definition declared.
func (b *Base) Context() Context {
	if b.inst == nil {
		return emptyContext
	}
	return b.inst.context
}

// Children returns the children of the element that rendered this instance.
func (b *Base) Children() []*Element {
	if b.inst == nil || b.inst.el == nil {
		return nil
	}
	return b.inst.el.Children
}

// Ref returns what the named ref points at: the host handle of a host
// element, or the Component of a composite element. Nil when unbound.
func (b *Base) Ref(name string) any {
	if b.inst == nil {
		return nil
	}
	if n, ok := b.inst.refs[name]; ok {
		return n.publicHandle()
	}
	return nil
}

// Refs returns a snapshot of all bound refs.
func (b *Base) Refs() map[string]any {
	out := make(map[string]any)
	if b.inst == nil {
		return out
	}
	for name, n := range b.inst.refs {
		out[name] = n.publicHandle()
	}
	return out
}

// HostHandle returns the host handle of the instance's rendered output, or
// nil when it renders nothing or is unmounted.
func (b *Base) HostHandle() host.Handle {
	if b.inst == nil {
		return nil
	}
	return b.inst.hostHandle()
}

// IsMounted reports whether the instance has finished mounting and has not
// started unmounting.
func (b *Base) IsMounted() bool {
	return b.inst != nil && (b.inst.lifecycle == Mounted || b.inst.lifecycle == Updating)
}

// Lifecycle returns the instance's lifecycle state.
func (b *Base) Lifecycle() Lifecycle {
	if b.inst == nil {
		return Unmounted
	}
	return b.inst.lifecycle
}

// ID returns the instance's registry identifier.
func (b *Base) ID() uuid.UUID {
	if b.inst == nil {
		return uuid.Nil
	}
	return b.inst.id
}

// Name returns the definition name of the instance.
func (b *Base) Name() string {
	if b.inst == nil {
		return ""
	}
	return b.inst.def.name
}

// SetState requests a shallow merge of partial into the state. callback, if
// non-nil, runs after the update has been applied.
func (b *Base) SetState(partial map[string]any, callback func()) {
	b.request("SetState", update{kind: updateMerge, partial: maps.Clone(partial), callback: callback})
}

// SetStateFunc requests a merge of the map returned by fn, which is called
// with the state as folded so far and the props the update will commit.
func (b *Base) SetStateFunc(fn func(prev any, props Props) map[string]any, callback func()) {
	b.request("SetState", update{kind: updateFunc, updater: fn, callback: callback})
}

// ReplaceState requests that the state become exactly next.
func (b *Base) ReplaceState(next any, callback func()) {
	b.request("ReplaceState", update{kind: updateReplace, value: next, callback: callback})
}

// ForceUpdate requests a re-render that bypasses ShouldUpdate.
func (b *Base) ForceUpdate(callback func()) {
	b.request("ForceUpdate", update{kind: updateForce, callback: callback})
}

func (b *Base) request(op string, u update) {
	if b.inst == nil {
		b.detached = append(b.detached, op)
		return
	}
	b.inst.rt.enqueue(b.inst, op, u)
}

// attach binds b to inst and reports the requests made before it.
func (b *Base) attach(inst *instance) {
	b.inst = inst
	for _, op := range b.detached {
		inst.rt.warn(unmountedDiagnostic(inst.def.name, op))
	}
	b.detached = nil
}
