package core

import (
	"strconv"

	"github.com/go-drift/reconciler/pkg/host"
)

// Props is the immutable-by-convention input of an element.
type Props map[string]any

// Context is a string-keyed map of values inherited from providers.
type Context map[string]any

// Element is an immutable description of one node in the tree: either a host
// tag or a composite definition, with its props, key, ref and children.
//
// Elements must not be modified after they have been handed to the runtime,
// and the runtime never modifies them either, so one *Element may be shared
// by several components or runtimes. Reusing the same *Element across
// renders lets the runtime skip the subtree entirely when the surrounding
// context is unchanged.
type Element struct {
	// Type is a host tag (string) or a *Definition.
	Type     any
	Key      string
	Ref      string
	Props    Props
	Children []*Element
}

// H creates a host element.
func H(tag string, props Props, children ...*Element) *Element {
	return &Element{Type: tag, Props: props, Children: children}
}

// C creates a composite element for def.
func C(def *Definition, props Props, children ...*Element) *Element {
	return &Element{Type: def, Props: props, Children: children}
}

// Text creates a host text element.
func Text(s string) *Element {
	return &Element{Type: host.TextTag, Props: Props{host.TextProp: s}}
}

// WithKey sets the element's reconciliation key and returns the element.
func (e *Element) WithKey(key string) *Element {
	e.Key = key
	return e
}

// WithRef sets the name under which the element's owner can reach the mounted
// node, and returns the element.
func (e *Element) WithRef(ref string) *Element {
	e.Ref = ref
	return e
}

// Tag returns the host tag, or "" for composite elements.
func (e *Element) Tag() string {
	tag, _ := e.Type.(string)
	return tag
}

// Definition returns the composite definition, or nil for host elements.
func (e *Element) Definition() *Definition {
	def, _ := e.Type.(*Definition)
	return def
}

// canUpdate reports whether an existing node created for prev can be reused
// for next. Mirrors drift's canUpdateWidget: same type and same key.
func canUpdate(prev, next *Element) bool {
	if prev == nil || next == nil {
		return false
	}
	return prev.Type == next.Type && prev.Key == next.Key
}

// childKey identifies a child among its siblings: its explicit key, or its
// position when unkeyed.
func childKey(e *Element, index int) string {
	if e.Key != "" {
		return "$" + e.Key
	}
	return "." + strconv.Itoa(index)
}
