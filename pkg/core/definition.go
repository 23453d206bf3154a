package core

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Component is a user-defined composite. Implementations embed Base, which
// provides the unexported method and the state/props accessors.
type Component interface {
	// Render returns the element tree describing the component's output.
	// A nil return renders nothing.
	Render() *Element
	base() *Base
}

// InitialStater supplies the state an instance starts with.
type InitialStater interface {
	InitialState() any
}

// ChildContexter publishes context values to descendants. Keys must be
// declared with WithChildContextTypes.
type ChildContexter interface {
	ChildContext() Context
}

// WillMounter runs before the first render. State requests issued here are
// applied before that render.
type WillMounter interface {
	WillMount()
}

// DidMounter runs after the instance and all its descendants are mounted.
type DidMounter interface {
	DidMount()
}

// PropsReceiver runs when the parent re-renders the instance with a new
// element or a new context.
type PropsReceiver interface {
	WillReceiveProps(nextProps Props, nextContext Context)
}

// UpdateDecider decides whether an update re-renders. It is not consulted for
// forced updates.
type UpdateDecider interface {
	ShouldUpdate(nextProps Props, nextState any, nextContext Context) Decision
}

// WillUpdater runs before a re-render, with the values about to be committed.
type WillUpdater interface {
	WillUpdate(nextProps Props, nextState any, nextContext Context)
}

// DidUpdater runs after a re-render completes, with the previous values.
type DidUpdater interface {
	DidUpdate(prevProps Props, prevState any, prevContext Context)
}

// WillUnmounter runs before the instance's subtree is torn down. Host handles
// and refs are still valid while it runs.
type WillUnmounter interface {
	WillUnmount()
}

// Decision is the result of ShouldUpdate.
type Decision int

const (
	// Undecided is the zero value. It raises a diagnostic and proceeds.
	Undecided Decision = iota
	// Proceed re-renders.
	Proceed
	// Skip commits the next props, state and context without rendering.
	Skip
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Skip:
		return "skip"
	default:
		return "undecided"
	}
}

// DefineOption configures a Definition.
type DefineOption func(*Definition)

// WithDefaultProps sets props applied to keys absent from the element's props.
func WithDefaultProps(defaults Props) DefineOption {
	return func(d *Definition) {
		d.defaultProps = defaults
	}
}

// WithContextTypes declares the context keys instances may read.
func WithContextTypes(keys ...string) DefineOption {
	return func(d *Definition) {
		d.contextTypes = append(d.contextTypes, keys...)
	}
}

// WithChildContextTypes declares the context keys instances may publish.
func WithChildContextTypes(keys ...string) DefineOption {
	return func(d *Definition) {
		d.childContextTypes = append(d.childContextTypes, keys...)
	}
}

// Definition describes a composite component type.
type Definition struct {
	name              string
	factory           func(Props) Component
	defaultProps      Props
	contextTypes      []string
	childContextTypes []string

	mu   sync.Mutex
	caps map[reflect.Type]*capabilities
}

// Define registers a component type. factory is called once per mounted
// instance with the resolved props and must return a fresh value.
func Define(name string, factory func(Props) Component, opts ...DefineOption) *Definition {
	if name == "" {
		name = "Component"
	}
	d := &Definition{name: name, factory: factory}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the display name used in diagnostics.
func (d *Definition) Name() string {
	return d.name
}

// ContextTypes returns the declared context keys.
func (d *Definition) ContextTypes() []string {
	return slices.Clone(d.contextTypes)
}

// ChildContextTypes returns the declared child context keys.
func (d *Definition) ChildContextTypes() []string {
	return slices.Clone(d.childContextTypes)
}

func (d *Definition) declaresChildContext(key string) bool {
	return slices.Contains(d.childContextTypes, key)
}

// resolveProps copies the element's props and fills in defaults for absent
// keys. The element's map is never modified.
func (d *Definition) resolveProps(el *Element) Props {
	props := make(Props, len(el.Props)+len(d.defaultProps))
	for k, v := range el.Props {
		props[k] = v
	}
	for k, v := range d.defaultProps {
		if _, ok := props[k]; !ok {
			props[k] = v
		}
	}
	return props
}

// capabilities records which optional hooks a concrete component type has.
type capabilities struct {
	initialState bool
	childContext bool
	willMount    bool
	didMount     bool
	receiver     bool
	decider      bool
	willUpdate   bool
	didUpdate    bool
	willUnmount  bool
	// suspicious lists methods that look like misspelled hooks.
	suspicious []string
}

// capabilitiesFor returns the cached capabilities for c's concrete type.
func (d *Definition) capabilitiesFor(c Component) *capabilities {
	t := reflect.TypeOf(c)
	d.mu.Lock()
	defer d.mu.Unlock()
	if caps, ok := d.caps[t]; ok {
		return caps
	}
	caps := detectCapabilities(c, t, d.name)
	if d.caps == nil {
		d.caps = make(map[reflect.Type]*capabilities)
	}
	d.caps[t] = caps
	return caps
}

// misspelledHooks maps method names that are commonly confused with a
// lifecycle hook to the hook they were probably meant to be.
var misspelledHooks = map[string]string{
	"DidUnmount":                "WillUnmount",
	"ComponentDidUnmount":       "WillUnmount",
	"ComponentWillUnmount":      "WillUnmount",
	"ComponentWillMount":        "WillMount",
	"ComponentDidMount":         "DidMount",
	"ComponentWillReceiveProps": "WillReceiveProps",
	"WillRecieveProps":          "WillReceiveProps",
	"ComponentWillUpdate":       "WillUpdate",
	"ComponentDidUpdate":        "DidUpdate",
	"ShouldComponentUpdate":     "ShouldUpdate",
	"GetInitialState":           "InitialState",
	"GetChildContext":           "ChildContext",
}

func detectCapabilities(c Component, t reflect.Type, name string) *capabilities {
	caps := &capabilities{}
	_, caps.initialState = c.(InitialStater)
	_, caps.childContext = c.(ChildContexter)
	_, caps.willMount = c.(WillMounter)
	_, caps.didMount = c.(DidMounter)
	_, caps.receiver = c.(PropsReceiver)
	_, caps.decider = c.(UpdateDecider)
	_, caps.willUpdate = c.(WillUpdater)
	_, caps.didUpdate = c.(DidUpdater)
	_, caps.willUnmount = c.(WillUnmounter)

	hooks := map[string]bool{
		"InitialState":     caps.initialState,
		"ChildContext":     caps.childContext,
		"WillMount":        caps.willMount,
		"DidMount":         caps.didMount,
		"WillReceiveProps": caps.receiver,
		"ShouldUpdate":     caps.decider,
		"WillUpdate":       caps.willUpdate,
		"DidUpdate":        caps.didUpdate,
		"WillUnmount":      caps.willUnmount,
	}
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i).Name
		if want, ok := misspelledHooks[method]; ok {
			caps.suspicious = append(caps.suspicious, fmt.Sprintf(
				"%s has a method called %s(). But there is no such lifecycle method. Did you mean %s()?",
				name, method, want))
			continue
		}
		if implemented, ok := hooks[method]; ok && !implemented {
			caps.suspicious = append(caps.suspicious, fmt.Sprintf(
				"%s has a method called %s() whose signature does not match the lifecycle hook, so it will never be called.",
				name, method))
		}
	}
	return caps
}
