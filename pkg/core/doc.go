// Package core implements the composite reconciliation runtime: component
// definitions, the lifecycle driver, batched state updates, the
// unmasked/masked context stack, and owner-scoped refs.
//
// # Components
//
// A component is a Go type that embeds Base and implements Render. It is
// registered once with Define and instantiated by the runtime:
//
//	type counter struct {
//	    core.Base
//	}
//
//	func (c *counter) InitialState() any { return map[string]any{"n": 0} }
//
//	func (c *counter) Render() *core.Element {
//	    n := c.State().(map[string]any)["n"]
//	    return core.H("span", nil, core.Text(fmt.Sprint(n)))
//	}
//
//	var Counter = core.Define("Counter", func(core.Props) core.Component {
//	    return &counter{}
//	})
//
// Optional lifecycle hooks are detected by interface: WillMount, DidMount,
// WillReceiveProps, ShouldUpdate, WillUpdate, DidUpdate, WillUnmount,
// InitialState and ChildContext. Detection happens once per concrete type.
//
// # Updates
//
// SetState, SetStateFunc, ReplaceState and ForceUpdate enqueue requests on the
// instance. Requests issued inside Runtime.BatchedUpdates (or inside any
// lifecycle hook, which always runs within a batch) are coalesced: each dirty
// instance re-renders at most once per flush pass, parents before children.
// Completion callbacks run after the flush that applied them, even when
// ShouldUpdate skipped the render.
//
// # Context
//
// Providers declare child context keys with WithChildContextTypes and return
// values from ChildContext. Consumers declare the keys they read with
// WithContextTypes and see only those keys through Base.Context.
//
// # Threading
//
// A Runtime is single-threaded. All calls, including state mutations, must
// come from the goroutine that drives the runtime.
package core
